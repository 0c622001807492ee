package grievance

import "time"

type Grievance struct {
	ID               string    `gorm:"primaryKey;type:varchar(36)"`
	Title            string    `gorm:"column:title;not null"`
	Description      string    `gorm:"column:description;not null"`
	Category         string    `gorm:"column:category;index"`
	Priority         string    `gorm:"column:priority;index"`
	Status           string    `gorm:"column:status;not null;default:New;index"`
	SubmittedBy      string    `gorm:"column:submitted_by;type:varchar(36);not null;index"`
	AssignedTo       *string   `gorm:"column:assigned_to;type:varchar(36);index"`
	AISummary        *string   `gorm:"column:ai_summary"`
	AIRecommendation *string   `gorm:"column:ai_recommendation"`
	CreatedAt        time.Time `gorm:"column:created_at;autoCreateTime;index"`
	UpdatedAt        time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Grievance) TableName() string {
	return "grievances"
}
