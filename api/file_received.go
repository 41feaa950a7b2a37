package api

import (
	"net/http"

	"nyx/relay-api/db"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// FileReceived lists the authenticated user's mailbox in delivery order.
// An empty mailbox is an empty array, not an error.
func (a *API) FileReceived(c *gin.Context) {
	requestID := c.GetString("requestID")
	userID := c.MustGet("userID").(string)

	files, err := db.FilesByOwner(a.DB, userID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to fetch received files", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, files)
}
