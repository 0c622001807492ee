package postgres

import (
	"context"
	"errors"

	"github.com/frahmantamala/grievance-management/internal"
	"github.com/frahmantamala/grievance-management/internal/attachment"
	attachmentDatamodel "github.com/frahmantamala/grievance-management/internal/core/datamodel/attachment"
	"gorm.io/gorm"
)

type AttachmentRepository struct {
	db *gorm.DB
}

func NewAttachmentRepository(db *gorm.DB) attachment.RepositoryAPI {
	return &AttachmentRepository{db: db}
}

func (r *AttachmentRepository) Create(ctx context.Context, a *attachmentDatamodel.Attachment) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *AttachmentRepository) ListByGrievance(ctx context.Context, grievanceID string) ([]*attachmentDatamodel.Attachment, error) {
	var rows []*attachmentDatamodel.Attachment
	err := r.db.WithContext(ctx).
		Where("grievance_id = ?", grievanceID).
		Order("created_at DESC").
		Find(&rows).Error
	return rows, err
}

func (r *AttachmentRepository) GetByStoredName(ctx context.Context, storedName string) (*attachmentDatamodel.Attachment, error) {
	var row attachmentDatamodel.Attachment
	err := r.db.WithContext(ctx).Where("file_path = ?", storedName).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrFileNotFound
		}
		return nil, err
	}
	return &row, nil
}
