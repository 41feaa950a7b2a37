package api

import (
	"net/http"

	"nyx/relay-api/db"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// UserFetch returns the profile of the authenticated user. The password hash
// never serializes because of the model's json tag.
func (a *API) UserFetch(c *gin.Context) {
	requestID := c.GetString("requestID")
	userID := c.MustGet("userID").(string)

	user, err := db.UserByID(a.DB, userID)
	if err != nil {
		// The middleware just resolved this ID, so any failure here is
		// a genuine server problem
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to fetch user", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":       user.ID,
		"username": user.Username,
	})
}
