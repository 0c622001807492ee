package attachment

import "time"

type Attachment struct {
	ID          string    `gorm:"primaryKey;type:varchar(36)"`
	GrievanceID string    `gorm:"column:grievance_id;type:varchar(36);not null;index"`
	FileName    string    `gorm:"column:file_name;not null"`
	FilePath    string    `gorm:"column:file_path;not null;uniqueIndex"`
	UploadedBy  string    `gorm:"column:uploaded_by;type:varchar(36);not null"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Attachment) TableName() string {
	return "attachments"
}
