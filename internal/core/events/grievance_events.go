package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeGrievanceCreated = "grievance.created"
	EventTypeGrievanceUpdated = "grievance.updated"
)

type GrievanceCreatedEvent struct {
	BaseEvent
	GrievanceID string `json:"grievance_id"`
	Title       string `json:"title"`
	SubmittedBy string `json:"submitted_by"`
}

func NewGrievanceCreatedEvent(grievanceID, title, submittedBy string) *GrievanceCreatedEvent {
	return &GrievanceCreatedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeGrievanceCreated,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"grievance_id": grievanceID,
				"title":        title,
				"submitted_by": submittedBy,
			},
		},
		GrievanceID: grievanceID,
		Title:       title,
		SubmittedBy: submittedBy,
	}
}

// GrievanceUpdatedEvent carries the before/after values of the fields that
// notifications care about. Empty strings mean "unset".
type GrievanceUpdatedEvent struct {
	BaseEvent
	GrievanceID      string   `json:"grievance_id"`
	Title            string   `json:"title"`
	SubmittedBy      string   `json:"submitted_by"`
	UpdatedBy        string   `json:"updated_by"`
	PreviousStatus   string   `json:"previous_status"`
	Status           string   `json:"status"`
	PreviousAssignee string   `json:"previous_assignee"`
	Assignee         string   `json:"assignee"`
	ChangedFields    []string `json:"changed_fields"`
}

func (e *GrievanceUpdatedEvent) StatusChanged() bool {
	return e.PreviousStatus != e.Status
}

func (e *GrievanceUpdatedEvent) AssigneeChanged() bool {
	return e.PreviousAssignee != e.Assignee
}

func NewGrievanceUpdatedEvent(grievanceID, title, submittedBy, updatedBy, previousStatus, status, previousAssignee, assignee string, changed []string) *GrievanceUpdatedEvent {
	return &GrievanceUpdatedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeGrievanceUpdated,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"grievance_id":      grievanceID,
				"updated_by":        updatedBy,
				"previous_status":   previousStatus,
				"status":            status,
				"previous_assignee": previousAssignee,
				"assignee":          assignee,
				"changed_fields":    changed,
			},
		},
		GrievanceID:      grievanceID,
		Title:            title,
		SubmittedBy:      submittedBy,
		UpdatedBy:        updatedBy,
		PreviousStatus:   previousStatus,
		Status:           status,
		PreviousAssignee: previousAssignee,
		Assignee:         assignee,
		ChangedFields:    changed,
	}
}
