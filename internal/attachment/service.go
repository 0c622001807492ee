package attachment

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/frahmantamala/grievance-management/internal"
	"github.com/frahmantamala/grievance-management/internal/core/common/validation"
	attachmentDatamodel "github.com/frahmantamala/grievance-management/internal/core/datamodel/attachment"
	"github.com/frahmantamala/grievance-management/internal/filestore"
	"github.com/google/uuid"
)

// MaxFileNameLength is the width of the attachments.file_name column.
const MaxFileNameLength = 255

type RepositoryAPI interface {
	Create(ctx context.Context, a *attachmentDatamodel.Attachment) error
	ListByGrievance(ctx context.Context, grievanceID string) ([]*attachmentDatamodel.Attachment, error)
	GetByStoredName(ctx context.Context, storedName string) (*attachmentDatamodel.Attachment, error)
}

type GrievanceChecker interface {
	Exists(ctx context.Context, id string) (bool, error)
}

type Service struct {
	repo       RepositoryAPI
	grievances GrievanceChecker
	store      filestore.Store
	logger     *slog.Logger
}

func NewService(repo RepositoryAPI, grievances GrievanceChecker, store filestore.Store, logger *slog.Logger) *Service {
	return &Service{
		repo:       repo,
		grievances: grievances,
		store:      store,
		logger:     logger,
	}
}

func (s *Service) ensureGrievance(ctx context.Context, grievanceID string) error {
	exists, err := s.grievances.Exists(ctx, grievanceID)
	if err != nil {
		s.logger.Error("failed to check grievance", "error", err, "grievance_id", grievanceID)
		return internal.NewInternalError("failed to load grievance", err)
	}
	if !exists {
		return internal.ErrGrievanceNotFound
	}
	return nil
}

// AddAttachment stores the blob under a generated name and records it. The
// blob is removed again when the row cannot be written.
func (s *Service) AddAttachment(ctx context.Context, grievanceID, uploaderID string, upload Upload, r io.Reader) (*Attachment, error) {
	if err := s.ensureGrievance(ctx, grievanceID); err != nil {
		return nil, err
	}
	if !IsAllowed(upload.FileName) {
		return nil, internal.ErrFileTypeNotAllowed
	}
	v := validation.NewValidator()
	v.Field("file", upload.FileName).MaxLength(MaxFileNameLength)
	if appErr := v.Validate(); appErr != nil {
		return nil, appErr
	}

	a := &Attachment{
		ID:          uuid.NewString(),
		GrievanceID: grievanceID,
		FileName:    upload.FileName,
		FilePath:    StoredName(upload.FileName),
		UploadedBy:  uploaderID,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.store.Put(ctx, a.FilePath, r, upload.Size, upload.ContentType); err != nil {
		s.logger.Error("failed to store attachment", "error", err, "grievance_id", grievanceID)
		return nil, internal.NewInternalError("failed to store file", err)
	}

	if err := s.repo.Create(ctx, a.ToDataModel()); err != nil {
		s.logger.Error("failed to record attachment", "error", err, "grievance_id", grievanceID)
		if delErr := s.store.Delete(ctx, a.FilePath); delErr != nil {
			s.logger.Warn("orphaned attachment blob", "error", delErr, "file_path", a.FilePath)
		}
		return nil, internal.NewInternalError("failed to save attachment", err)
	}

	s.logger.Info("attachment uploaded", "grievance_id", grievanceID, "attachment_id", a.ID)
	return a, nil
}

// ListAttachments returns the attachments of a grievance, newest first.
func (s *Service) ListAttachments(ctx context.Context, grievanceID string) ([]*Attachment, error) {
	if err := s.ensureGrievance(ctx, grievanceID); err != nil {
		return nil, err
	}

	rows, err := s.repo.ListByGrievance(ctx, grievanceID)
	if err != nil {
		s.logger.Error("failed to list attachments", "error", err, "grievance_id", grievanceID)
		return nil, internal.NewInternalError("failed to list attachments", err)
	}

	out := make([]*Attachment, 0, len(rows))
	for _, row := range rows {
		out = append(out, FromDataModel(row))
	}
	return out, nil
}

// Open streams a recorded attachment by its stored name. Names that were
// never recorded, including original display names, are not found.
func (s *Service) Open(ctx context.Context, storedName string) (*Attachment, io.ReadCloser, error) {
	row, err := s.repo.GetByStoredName(ctx, storedName)
	if err != nil {
		return nil, nil, err
	}

	rc, err := s.store.Open(ctx, row.FilePath)
	if err != nil {
		if _, ok := internal.IsAppError(err); !ok {
			s.logger.Error("failed to open attachment", "error", err, "file_path", row.FilePath)
			return nil, nil, internal.NewInternalError("failed to read file", err)
		}
		return nil, nil, err
	}
	return FromDataModel(row), rc, nil
}
