package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/gin-gonic/gin"
	"github.com/mmfintech/bytebank_backend/config"
	"github.com/mmfintech/bytebank_backend/middlewares"
	"github.com/mmfintech/bytebank_backend/models"
	"github.com/mmfintech/bytebank_backend/utils"
	"github.com/sirupsen/logrus"
)

const maxUploadSizeBytes int64 = 5 * 1024 * 1024

var attachmentMimeTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"image/gif":       true,
	"application/pdf": true,
	"text/plain":      true,
}

var imageMimeTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
}

func attachmentObjectKey(userId int, fileName string) string {
	return path.Join(fmt.Sprint(userId), "transactions", fileName)
}

func thumbnailObjectKey(objectKey string) string {
	dir := path.Dir(objectKey)
	filename := path.Base(objectKey)
	return path.Join(dir, "thumbnails", filename)
}

// uploadAttachmentHandler handles POST /account/transaction/:transactionId/attachment.
func uploadAttachmentHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := config.GetLogger()

		transactionId, err := pathTransactionId(c)
		if err != nil {
			middlewares.RespondError(c, err)
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSizeBytes)
		fileHeader, err := c.FormFile("file")
		if err != nil {
			middlewares.RespondError(c, utils.NewValidationError(map[string]string{"file": "a file of at most 5MB is required"}))
			return
		}
		if fileHeader.Size > maxUploadSizeBytes {
			middlewares.RespondError(c, utils.NewValidationError(map[string]string{"file": "file size exceeds 5MB limit"}))
			return
		}

		file, err := fileHeader.Open()
		if err != nil {
			middlewares.RespondError(c, err)
			return
		}
		defer file.Close()

		data, err := io.ReadAll(io.LimitReader(file, maxUploadSizeBytes+1))
		if err != nil {
			middlewares.RespondError(c, err)
			return
		}
		if int64(len(data)) > maxUploadSizeBytes {
			middlewares.RespondError(c, utils.NewValidationError(map[string]string{"file": "file size exceeds 5MB limit"}))
			return
		}

		mimeType := detectMimeType(data, fileHeader.Header.Get("Content-Type"))
		if !attachmentMimeTypes[mimeType] {
			middlewares.RespondError(c, utils.NewValidationError(map[string]string{"file": "unsupported file type: " + mimeType}))
			return
		}

		ctx := c.Request.Context()
		userId, _ := utils.GetUserIdFromContext(ctx)

		// Validate ownership before writing anything to storage.
		existing, err := models.GetTransaction(ctx, transactionId)
		if err != nil {
			middlewares.RespondError(c, err)
			return
		}
		previous := existing.Attachment

		fileName := utils.GenerateAttachmentFilename(fileHeader.Filename)
		objectKey := attachmentObjectKey(userId, fileName)

		store := utils.GetStorage()
		if err := store.Save(ctx, objectKey, data, mimeType); err != nil {
			logUploadError(logger, err, "upload")
			middlewares.RespondError(c, err)
			return
		}

		attachment := &models.Attachment{
			FileName:     fileName,
			OriginalName: fileHeader.Filename,
			MimeType:     mimeType,
			Size:         int64(len(data)),
			ObjectKey:    objectKey,
			UploadedAt:   time.Now(),
		}

		if imageMimeTypes[mimeType] {
			thumbKey, err := createThumbnail(ctx, store, objectKey, data)
			if err != nil {
				logUploadError(logger, err, "thumbnail")
			} else {
				attachment.ThumbnailKey = thumbKey
			}
		}

		transaction, err := models.AttachFile(ctx, transactionId, attachment)
		if err != nil {
			_ = store.Delete(ctx, objectKey)
			middlewares.RespondError(c, err)
			return
		}

		// Replaced attachments leave no orphan objects behind.
		if previous != nil && previous.ObjectKey != "" {
			_ = store.Delete(ctx, previous.ObjectKey)
			if previous.ThumbnailKey != "" {
				_ = store.Delete(ctx, previous.ThumbnailKey)
			}
		}

		logger.WithFields(logrus.Fields{
			"user_id":    userId,
			"mime_type":  mimeType,
			"size":       len(data),
			"object_key": objectKey,
		}).Info("[attachment.upload]")

		c.JSON(http.StatusOK, gin.H{
			"message": "Attachment uploaded successfully",
			"result":  transaction,
		})
	}
}

// downloadAttachmentHandler handles GET /account/transaction/attachment/:filename.
func downloadAttachmentHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		fileName := c.Param("filename")
		if fileName == "" || strings.Contains(fileName, "..") || strings.Contains(fileName, "/") {
			middlewares.RespondError(c, utils.NewValidationError(map[string]string{"filename": "invalid file name"}))
			return
		}

		ctx := c.Request.Context()
		transaction, err := models.FindTransactionByAttachment(ctx, fileName)
		if err != nil {
			middlewares.RespondError(c, err)
			return
		}

		attachment := transaction.Attachment
		reader, err := utils.GetStorage().Open(ctx, attachment.ObjectKey)
		if err != nil {
			middlewares.RespondError(c, err)
			return
		}
		defer reader.Close()

		c.Header("Content-Type", attachment.MimeType)
		c.Header("Content-Disposition", `attachment; filename="`+attachment.OriginalName+`"`)
		if attachment.Size > 0 {
			c.Header("Content-Length", fmt.Sprint(attachment.Size))
		}
		c.Status(http.StatusOK)
		_, _ = io.Copy(c.Writer, reader)
	}
}

// deleteAttachmentHandler handles DELETE /account/transaction/:transactionId/attachment.
func deleteAttachmentHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		transactionId, err := pathTransactionId(c)
		if err != nil {
			middlewares.RespondError(c, err)
			return
		}

		ctx := c.Request.Context()
		transaction, removed, err := models.DetachFile(ctx, transactionId)
		if err != nil {
			middlewares.RespondError(c, err)
			return
		}

		store := utils.GetStorage()
		if removed.ObjectKey != "" {
			_ = store.Delete(ctx, removed.ObjectKey)
		}
		if removed.ThumbnailKey != "" {
			_ = store.Delete(ctx, removed.ThumbnailKey)
		}

		c.JSON(http.StatusOK, gin.H{
			"message": "Attachment deleted successfully",
			"result":  transaction,
		})
	}
}

func detectMimeType(data []byte, declared string) string {
	detected := http.DetectContentType(data)
	// DetectContentType adds a charset suffix for text content.
	if base, _, found := strings.Cut(detected, ";"); found {
		detected = strings.TrimSpace(base)
	}
	if detected == "application/octet-stream" && declared != "" {
		return declared
	}
	return detected
}

func createThumbnail(ctx context.Context, store utils.ObjectStorage, objectKey string, data []byte) (string, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	thumbnail := imaging.Resize(img, 200, 0, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, thumbnail, imaging.JPEG); err != nil {
		return "", err
	}

	thumbKey := thumbnailObjectKey(objectKey)
	if err := store.Save(ctx, thumbKey, buf.Bytes(), "image/jpeg"); err != nil {
		return "", err
	}
	return thumbKey, nil
}

func pathTransactionId(c *gin.Context) (int, error) {
	value := c.Param("transactionId")
	id := 0
	if _, err := fmt.Sscanf(value, "%d", &id); err != nil || id < 1 {
		return 0, utils.NewValidationError(map[string]string{"transactionId": "must be a positive integer"})
	}
	return id, nil
}

func logUploadError(logger *logrus.Logger, err error, stage string) {
	logger.WithFields(logrus.Fields{
		"error": err.Error(),
		"stage": stage,
	}).Error("[attachment.error]")
}
