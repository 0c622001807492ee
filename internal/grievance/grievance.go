package grievance

import (
	"time"

	grievanceDatamodel "github.com/frahmantamala/grievance-management/internal/core/datamodel/grievance"
)

// Conventional status values. Status is free text: any value may follow any
// other, these are only the ones the clients offer.
const (
	StatusNew        = "New"
	StatusInProgress = "In Progress"
	StatusResolved   = "Resolved"
	StatusClosed     = "Closed"
)

// Columns that an update may touch. Anything else in an update request is
// dropped silently.
const (
	FieldTitle            = "title"
	FieldDescription      = "description"
	FieldCategory         = "category"
	FieldPriority         = "priority"
	FieldStatus           = "status"
	FieldAssignedTo       = "assigned_to"
	FieldAISummary        = "ai_summary"
	FieldAIRecommendation = "ai_recommendation"
)

var updatableFields = []string{
	FieldTitle,
	FieldDescription,
	FieldCategory,
	FieldPriority,
	FieldStatus,
	FieldAssignedTo,
	FieldAISummary,
	FieldAIRecommendation,
}

func IsUpdatable(field string) bool {
	for _, f := range updatableFields {
		if f == field {
			return true
		}
	}
	return false
}

type Grievance struct {
	ID               string    `json:"id"`
	Title            string    `json:"title"`
	Description      string    `json:"description"`
	Category         string    `json:"category"`
	Priority         string    `json:"priority"`
	Status           string    `json:"status"`
	SubmittedBy      string    `json:"submitted_by"`
	AssignedTo       *string   `json:"assigned_to"`
	AISummary        *string   `json:"ai_summary"`
	AIRecommendation *string   `json:"ai_recommendation"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func (g *Grievance) IsAssignedTo(userID string) bool {
	return g.AssignedTo != nil && *g.AssignedTo == userID
}

func (g *Grievance) Assignee() string {
	if g.AssignedTo == nil {
		return ""
	}
	return *g.AssignedTo
}

// NewGrievance builds a grievance in its initial state. Both timestamps are
// taken from the same instant.
func NewGrievance(id string, dto CreateGrievanceDTO, submittedBy string, now time.Time) *Grievance {
	return &Grievance{
		ID:          id,
		Title:       dto.Title,
		Description: dto.Description,
		Category:    dto.Category,
		Priority:    dto.Priority,
		Status:      StatusNew,
		SubmittedBy: submittedBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func ToDataModel(g *Grievance) *grievanceDatamodel.Grievance {
	return &grievanceDatamodel.Grievance{
		ID:               g.ID,
		Title:            g.Title,
		Description:      g.Description,
		Category:         g.Category,
		Priority:         g.Priority,
		Status:           g.Status,
		SubmittedBy:      g.SubmittedBy,
		AssignedTo:       g.AssignedTo,
		AISummary:        g.AISummary,
		AIRecommendation: g.AIRecommendation,
		CreatedAt:        g.CreatedAt,
		UpdatedAt:        g.UpdatedAt,
	}
}

func FromDataModel(g *grievanceDatamodel.Grievance) *Grievance {
	return &Grievance{
		ID:               g.ID,
		Title:            g.Title,
		Description:      g.Description,
		Category:         g.Category,
		Priority:         g.Priority,
		Status:           g.Status,
		SubmittedBy:      g.SubmittedBy,
		AssignedTo:       g.AssignedTo,
		AISummary:        g.AISummary,
		AIRecommendation: g.AIRecommendation,
		CreatedAt:        g.CreatedAt,
		UpdatedAt:        g.UpdatedAt,
	}
}

func FromDataModels(rows []*grievanceDatamodel.Grievance) []*Grievance {
	out := make([]*Grievance, 0, len(rows))
	for _, row := range rows {
		out = append(out, FromDataModel(row))
	}
	return out
}
