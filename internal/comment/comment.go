package comment

import (
	"time"

	commentDatamodel "github.com/frahmantamala/grievance-management/internal/core/datamodel/comment"
)

type Comment struct {
	ID          string    `json:"id"`
	GrievanceID string    `json:"grievance_id"`
	UserID      string    `json:"user_id"`
	UserName    string    `json:"user_name,omitempty"`
	Content     string    `json:"content"`
	CreatedAt   time.Time `json:"created_at"`
}

func (c *Comment) ToDataModel() *commentDatamodel.Comment {
	return &commentDatamodel.Comment{
		ID:          c.ID,
		GrievanceID: c.GrievanceID,
		UserID:      c.UserID,
		Content:     c.Content,
		CreatedAt:   c.CreatedAt,
	}
}

func FromDataModel(c *commentDatamodel.CommentWithAuthor) *Comment {
	return &Comment{
		ID:          c.ID,
		GrievanceID: c.GrievanceID,
		UserID:      c.UserID,
		UserName:    c.UserName,
		Content:     c.Content,
		CreatedAt:   c.CreatedAt,
	}
}
