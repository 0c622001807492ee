package comment

import (
	"context"
	"log/slog"
	"time"

	"github.com/frahmantamala/grievance-management/internal"
	commentDatamodel "github.com/frahmantamala/grievance-management/internal/core/datamodel/comment"
	"github.com/google/uuid"
)

type RepositoryAPI interface {
	Create(ctx context.Context, c *commentDatamodel.Comment) error
	GetByID(ctx context.Context, id string) (*commentDatamodel.CommentWithAuthor, error)
	ListByGrievance(ctx context.Context, grievanceID string) ([]*commentDatamodel.CommentWithAuthor, error)
}

// GrievanceChecker answers whether a grievance exists. Comments are only
// checked against existence, not against the requester's visibility.
type GrievanceChecker interface {
	Exists(ctx context.Context, id string) (bool, error)
}

type Service struct {
	repo       RepositoryAPI
	grievances GrievanceChecker
	logger     *slog.Logger
}

func NewService(repo RepositoryAPI, grievances GrievanceChecker, logger *slog.Logger) *Service {
	return &Service{
		repo:       repo,
		grievances: grievances,
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

func (s *Service) AddComment(ctx context.Context, grievanceID, authorID string, dto CreateCommentDTO) (*Comment, error) {
	dto.Normalize()
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	if err := s.ensureGrievance(ctx, grievanceID); err != nil {
		return nil, err
	}

	c := &Comment{
		ID:          uuid.NewString(),
		GrievanceID: grievanceID,
		UserID:      authorID,
		Content:     dto.Content,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, c.ToDataModel()); err != nil {
		s.logger.Error("failed to create comment", "error", err, "grievance_id", grievanceID)
		return nil, internal.NewInternalError("failed to add comment", err)
	}

	// the author name is only available through the join
	stored, err := s.repo.GetByID(ctx, c.ID)
	if err != nil {
		s.logger.Warn("comment created but reload failed", "error", err, "comment_id", c.ID)
		return c, nil
	}
	return FromDataModel(stored), nil
}

// ListComments returns the comments of a grievance, oldest first.
func (s *Service) ListComments(ctx context.Context, grievanceID string) ([]*Comment, error) {
	if err := s.ensureGrievance(ctx, grievanceID); err != nil {
		return nil, err
	}

	rows, err := s.repo.ListByGrievance(ctx, grievanceID)
	if err != nil {
		s.logger.Error("failed to list comments", "error", err, "grievance_id", grievanceID)
		return nil, internal.NewInternalError("failed to list comments", err)
	}

	comments := make([]*Comment, 0, len(rows))
	for _, row := range rows {
		comments = append(comments, FromDataModel(row))
	}
	return comments, nil
}
