package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"nyx/relay-api/db"
	"nyx/relay-api/model"
	"nyx/relay-api/validators"

	"github.com/gin-gonic/gin"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// FileSend delivers an uploaded file into another user's mailbox. All
// validation happens before the first storage write, so a rejected request
// never leaves bytes behind. A failed mailbox append after a successful
// write does leave an orphaned blob; that key is logged for the
// reconciliation sweep instead of being silently dropped.
func (a *API) FileSend(c *gin.Context) {
	requestID := c.GetString("requestID")
	userID := c.MustGet("userID").(string)

	if !strings.HasPrefix(c.Request.Header.Get("Content-Type"), "multipart/form-data") {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid request",
			"requestID": requestID,
		})
		return
	}

	recipientName := c.PostForm("recipient_username")
	if recipientName == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "No recipient provided",
			"requestID": requestID,
		})
		return
	}

	recipient, err := db.UserByUsername(a.DB, recipientName)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"error":     "Recipient not found",
				"requestID": requestID,
			})
			return
		}

		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to look up recipient", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     validators.ErrNoFile.Error(),
			"requestID": requestID,
		})
		return
	}

	code, f, err := validators.FileValidator(fh)
	if err != nil {
		if code == http.StatusInternalServerError {
			zap.L().Error("Failed to validate file", zap.Error(err), zap.String("requestID", requestID))

			// That's to set the error into a general one for the users
			err = errors.New("internal server error")
		}

		c.AbortWithStatusJSON(code, gin.H{
			"error":     err.Error(),
			"requestID": requestID,
		})
		return
	}
	defer f.Close()

	name := validators.SanitizeFilename(fh.Filename)
	if name == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     validators.ErrFileNameInvalid.Error(),
			"requestID": requestID,
		})
		return
	}

	prefix, err := gonanoid.Generate(idCharset, 10)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to generate storage key", zap.Error(err), zap.String("requestID", requestID))
		return
	}
	key := prefix + "_" + name

	err = a.Storage.Put(c.Request.Context(), key, fh.Header.Get("Content-Type"), f, fh.Size)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to store file", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	err = db.AppendFile(a.DB, &model.File{
		OwnerID:    recipient.ID,
		SenderID:   userID,
		StorageKey: key,
		Name:       name,
		Size:       fh.Size,
		CreatedAt:  time.Now().Unix(),
	})
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Stored bytes but failed to append mailbox record, object is orphaned",
			zap.Error(err),
			zap.String("key", key),
			zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "File delivered successfully",
	})
}
