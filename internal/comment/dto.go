package comment

import (
	"strings"

	"github.com/frahmantamala/grievance-management/internal"
	"github.com/frahmantamala/grievance-management/internal/core/common/validation"
)

type CreateCommentDTO struct {
	Content string `json:"content"`
}

func (d *CreateCommentDTO) Normalize() {
	d.Content = strings.TrimSpace(d.Content)
}

func (d CreateCommentDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("content", d.Content).Required().MaxLength(10000)
	return v.Validate()
}

type CommentResponse struct {
	Message string   `json:"message"`
	Comment *Comment `json:"comment"`
}

type CommentsResponse struct {
	Comments []*Comment `json:"comments"`
}
