package models

import (
	"context"
	"time"

	"github.com/mmfintech/bytebank_backend/config"
	"github.com/mmfintech/bytebank_backend/utils"
)

// Attachment is the file attached to a transaction, embedded as
// attachment_* columns on the transactions table.
type Attachment struct {
	FileName     string    `gorm:"size:255" json:"fileName"`
	OriginalName string    `gorm:"size:255" json:"originalName"`
	MimeType     string    `gorm:"size:100" json:"mimeType"`
	Size         int64     `json:"size"`
	ObjectKey    string    `gorm:"size:500" json:"-"`
	ThumbnailKey string    `gorm:"size:500" json:"-"`
	UploadedAt   time.Time `json:"uploadedAt"`
}

// AttachFile records an uploaded file on a transaction, replacing any
// previous attachment. The caller is responsible for removing the old
// object from storage.
func AttachFile(ctx context.Context, transactionId int, attachment *Attachment) (*Transaction, error) {
	existing, err := GetTransaction(ctx, transactionId)
	if err != nil {
		return nil, err
	}

	existing.Attachment = attachment
	db := config.GetDB()
	if err := db.WithContext(ctx).Save(existing).Error; err != nil {
		return nil, err
	}
	return existing, nil
}

// DetachFile clears a transaction's attachment and returns the removed
// attachment so the caller can delete the stored object.
func DetachFile(ctx context.Context, transactionId int) (*Transaction, *Attachment, error) {
	existing, err := GetTransaction(ctx, transactionId)
	if err != nil {
		return nil, nil, err
	}
	if existing.Attachment == nil || existing.Attachment.FileName == "" {
		return nil, nil, utils.ErrorRecordNotFound
	}

	removed := *existing.Attachment
	existing.Attachment = nil
	db := config.GetDB()
	err = db.WithContext(ctx).Model(existing).
		Select("attachment_file_name", "attachment_original_name", "attachment_mime_type",
			"attachment_size", "attachment_object_key", "attachment_thumbnail_key", "attachment_uploaded_at").
		Updates(map[string]interface{}{
			"attachment_file_name":     "",
			"attachment_original_name": "",
			"attachment_mime_type":     "",
			"attachment_size":          0,
			"attachment_object_key":    "",
			"attachment_thumbnail_key": "",
			"attachment_uploaded_at":   nil,
		}).Error
	if err != nil {
		return nil, nil, err
	}
	return existing, &removed, nil
}

// FindTransactionByAttachment looks a transaction up by its stored file name.
func FindTransactionByAttachment(ctx context.Context, fileName string) (*Transaction, error) {
	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok || userId == 0 {
		return nil, utils.ErrorUnauthorized
	}

	db := config.GetDB()
	var result Transaction
	err := db.WithContext(ctx).
		Where("user_id = ? AND attachment_file_name = ?", userId, fileName).
		Take(&result).Error
	if err != nil {
		return nil, utils.ErrorRecordNotFound
	}
	return &result, nil
}
