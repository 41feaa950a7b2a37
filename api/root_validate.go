package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Validate only exists so clients can check a stored token without
// triggering a real operation. The JWT middleware does all the work.
func (a *API) Validate(c *gin.Context) {
	c.Status(http.StatusOK)
}
