package api

import (
	"errors"
	"fmt"
	"net/http"

	"nyx/relay-api/db"
	"nyx/relay-api/storage"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// FileServe streams a delivered file back to its recipient. In the default
// mode the lookup is scoped to the requester's own mailbox, so a key owned
// by someone else 404s exactly like a key that never existed. With
// download.public enabled there is no requester identity and any valid key
// is served.
func (a *API) FileServe(c *gin.Context) {
	requestID := c.GetString("requestID")

	key := c.Param("key")
	if key == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "No file key provided",
			"requestID": requestID,
		})
		return
	}

	// Empty when the public route skipped the JWT middleware
	ownerID := c.GetString("userID")

	file, err := db.FileByKey(a.DB, key, ownerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
				"error":     "File not found",
				"requestID": requestID,
			})
			return
		}

		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to look up file", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	obj, err := a.Storage.Get(c.Request.Context(), file.StorageKey)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			// Record exists but the blob is gone. Worth a loud log
			// since it means storage and registry disagree
			zap.L().Error("Mailbox record points at a missing object",
				zap.String("key", file.StorageKey),
				zap.String("requestID", requestID))

			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
				"error":     "File not found",
				"requestID": requestID,
			})
			return
		}

		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to open stored file", zap.Error(err), zap.String("requestID", requestID))
		return
	}
	defer obj.Body.Close()

	c.DataFromReader(http.StatusOK, obj.Size, obj.ContentType, obj.Body, map[string]string{
		"Content-Disposition": fmt.Sprintf("attachment; filename=%q", file.Name),
	})
}
