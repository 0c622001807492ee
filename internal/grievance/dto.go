package grievance

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/frahmantamala/grievance-management/internal"
	"github.com/frahmantamala/grievance-management/internal/attachment"
	"github.com/frahmantamala/grievance-management/internal/comment"
	"github.com/frahmantamala/grievance-management/internal/core/common/validation"
	"github.com/frahmantamala/grievance-management/internal/user"
)

const (
	DefaultLimit = 50
	MaxLimit     = 100
)

type CreateGrievanceDTO struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Priority    string `json:"priority"`
	UseAI       bool   `json:"useAI"`
}

func (d *CreateGrievanceDTO) Normalize() {
	d.Title = strings.TrimSpace(d.Title)
	d.Description = strings.TrimSpace(d.Description)
	d.Category = strings.TrimSpace(d.Category)
	d.Priority = strings.TrimSpace(d.Priority)
}

func (d CreateGrievanceDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("title", d.Title).Required().MaxLength(255)
	v.Field("description", d.Description).Required()
	v.Field("category", d.Category).Required().MaxLength(100)
	v.Field("priority", d.Priority).Required().MaxLength(100)
	return v.Validate()
}

// AdvisoryText is the prompt body sent to the advisory service when useAI is set.
func (d CreateGrievanceDTO) AdvisoryText() string {
	return fmt.Sprintf("Title: %s\nDescription: %s\nCategory: %s", d.Title, d.Description, d.Category)
}

// UpdateGrievanceDTO keeps the raw request object so that both unknown keys
// and explicit nulls survive decoding.
type UpdateGrievanceDTO map[string]json.RawMessage

// Changes applies the update allow-list and decodes the surviving values.
// Nullable columns accept JSON null; the rest must be non-empty strings.
func (d UpdateGrievanceDTO) Changes() (map[string]interface{}, *internal.AppError) {
	changes := make(map[string]interface{})
	v := validation.NewValidator()

	for key, raw := range d {
		if !IsUpdatable(key) {
			continue
		}

		value, nullable, err := decodeField(key, raw)
		if err != nil {
			return nil, internal.NewValidationFieldError(key, fmt.Sprintf("%s must be a string", key), internal.ErrCodeValidationFailed)
		}

		if value == nil {
			if !nullable {
				v.Field(key, nil).Required()
				continue
			}
			changes[key] = nil
			continue
		}

		s := *value
		switch key {
		case FieldTitle:
			s = strings.TrimSpace(s)
			v.Field(key, s).Required().MaxLength(255)
		case FieldDescription:
			s = strings.TrimSpace(s)
			v.Field(key, s).Required()
		case FieldStatus:
			s = strings.TrimSpace(s)
			v.Field(key, s).Required().MaxLength(50)
		case FieldCategory, FieldPriority:
			s = strings.TrimSpace(s)
			v.Field(key, s).Required().MaxLength(100)
		case FieldAssignedTo:
			s = strings.TrimSpace(s)
			if s == "" {
				changes[key] = nil
				continue
			}
		}
		changes[key] = s
	}

	if appErr := v.Validate(); appErr != nil {
		return nil, appErr
	}
	return changes, nil
}

func decodeField(key string, raw json.RawMessage) (*string, bool, error) {
	nullable := key == FieldAssignedTo || key == FieldAISummary || key == FieldAIRecommendation

	if strings.TrimSpace(string(raw)) == "null" {
		return nil, nullable, nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, nullable, err
	}
	return &s, nullable, nil
}

// FilterDTO narrows the free-form listing. Empty fields are ignored.
type FilterDTO struct {
	Status      string
	Category    string
	Priority    string
	SubmittedBy string
	AssignedTo  string
}

func (f FilterDTO) Columns() map[string]string {
	cols := make(map[string]string)
	if f.Status != "" {
		cols["status"] = f.Status
	}
	if f.Category != "" {
		cols["category"] = f.Category
	}
	if f.Priority != "" {
		cols["priority"] = f.Priority
	}
	if f.SubmittedBy != "" {
		cols["submitted_by"] = f.SubmittedBy
	}
	if f.AssignedTo != "" {
		cols["assigned_to"] = f.AssignedTo
	}
	return cols
}

func FilterFromQuery(q url.Values) FilterDTO {
	return FilterDTO{
		Status:      strings.TrimSpace(q.Get("status")),
		Category:    strings.TrimSpace(q.Get("category")),
		Priority:    strings.TrimSpace(q.Get("priority")),
		SubmittedBy: strings.TrimSpace(q.Get("submitted_by")),
		AssignedTo:  strings.TrimSpace(q.Get("assigned_to")),
	}
}

type Page struct {
	Limit  int
	Offset int
}

// PageFromQuery reads limit and offset. Missing or malformed values fall back
// to the defaults and limit is capped at MaxLimit.
func PageFromQuery(q url.Values) Page {
	p := Page{Limit: DefaultLimit}
	if n, err := strconv.Atoi(q.Get("limit")); err == nil && n > 0 {
		p.Limit = n
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	if n, err := strconv.Atoi(q.Get("offset")); err == nil && n > 0 {
		p.Offset = n
	}
	return p
}

func (p Page) Normalize() Page {
	if p.Limit <= 0 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}

type StatusCount struct {
	Status string `json:"status" db:"status"`
	Count  int    `json:"count" db:"count"`
}

type CategoryCount struct {
	Category string `json:"category" db:"category"`
	Count    int    `json:"count" db:"count"`
}

type PriorityCount struct {
	Priority string `json:"priority" db:"priority"`
	Count    int    `json:"count" db:"count"`
}

type RecentGrievance struct {
	ID        string    `json:"id" db:"id"`
	Title     string    `json:"title" db:"title"`
	Status    string    `json:"status" db:"status"`
	Priority  string    `json:"priority" db:"priority"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type Statistics struct {
	TotalGrievances  int               `json:"total_grievances"`
	ByStatus         []StatusCount     `json:"by_status"`
	ByCategory       []CategoryCount   `json:"by_category"`
	ByPriority       []PriorityCount   `json:"by_priority"`
	RecentGrievances []RecentGrievance `json:"recent_grievances"`
}

// WithPeople adds the public profiles of the submitter and the assignee to
// the grievance fields.
type WithPeople struct {
	*Grievance
	Submitter *user.PublicUser `json:"submitter"`
	Assignee  *user.PublicUser `json:"assignee"`
}

// Detail is the single-grievance view with its ledger entries.
type Detail struct {
	Grievance   WithPeople               `json:"grievance"`
	Comments    []*comment.Comment       `json:"comments"`
	Attachments []*attachment.Attachment `json:"attachments"`
}

type MessageGrievanceResponse struct {
	Message   string     `json:"message"`
	Grievance *Grievance `json:"grievance"`
}

type GrievancesResponse struct {
	Grievances []*Grievance `json:"grievances"`
}
