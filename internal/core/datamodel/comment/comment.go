package comment

import "time"

type Comment struct {
	ID          string    `gorm:"primaryKey;type:varchar(36)"`
	GrievanceID string    `gorm:"column:grievance_id;type:varchar(36);not null;index"`
	UserID      string    `gorm:"column:user_id;type:varchar(36);not null"`
	Content     string    `gorm:"column:content;not null"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Comment) TableName() string {
	return "comments"
}

// CommentWithAuthor is the read shape of a comment joined with its author.
type CommentWithAuthor struct {
	Comment
	UserName string `gorm:"column:user_name"`
}
