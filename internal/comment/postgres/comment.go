package postgres

import (
	"context"

	"github.com/frahmantamala/grievance-management/internal/comment"
	commentDatamodel "github.com/frahmantamala/grievance-management/internal/core/datamodel/comment"
	"gorm.io/gorm"
)

type CommentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) comment.RepositoryAPI {
	return &CommentRepository{db: db}
}

func (r *CommentRepository) Create(ctx context.Context, c *commentDatamodel.Comment) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *CommentRepository) withAuthor(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("comments AS c").
		Select("c.id, c.grievance_id, c.user_id, c.content, c.created_at, u.name AS user_name").
		Joins("LEFT JOIN users u ON u.id = c.user_id")
}

func (r *CommentRepository) GetByID(ctx context.Context, id string) (*commentDatamodel.CommentWithAuthor, error) {
	var row commentDatamodel.CommentWithAuthor
	if err := r.withAuthor(ctx).Where("c.id = ?", id).Take(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *CommentRepository) ListByGrievance(ctx context.Context, grievanceID string) ([]*commentDatamodel.CommentWithAuthor, error) {
	var rows []*commentDatamodel.CommentWithAuthor
	err := r.withAuthor(ctx).
		Where("c.grievance_id = ?", grievanceID).
		Order("c.created_at ASC").
		Find(&rows).Error
	return rows, err
}
