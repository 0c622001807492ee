package grievance

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"time"

	"github.com/frahmantamala/grievance-management/internal"
	"github.com/frahmantamala/grievance-management/internal/attachment"
	"github.com/frahmantamala/grievance-management/internal/comment"
	grievanceDatamodel "github.com/frahmantamala/grievance-management/internal/core/datamodel/grievance"
	"github.com/frahmantamala/grievance-management/internal/core/events"
	coreUser "github.com/frahmantamala/grievance-management/internal/core/user"
	"github.com/frahmantamala/grievance-management/internal/user"
	"github.com/google/uuid"
)

// RepositoryAPI persists grievances. GetByID and Update return
// internal.ErrGrievanceNotFound for unknown ids.
type RepositoryAPI interface {
	Create(ctx context.Context, g *grievanceDatamodel.Grievance) error
	GetByID(ctx context.Context, id string) (*grievanceDatamodel.Grievance, error)
	Exists(ctx context.Context, id string) (bool, error)
	Update(ctx context.Context, id string, fields map[string]interface{}) error
	ListVisible(ctx context.Context, scope Scope, page Page) ([]*grievanceDatamodel.Grievance, error)
	List(ctx context.Context, filter FilterDTO, page Page) ([]*grievanceDatamodel.Grievance, error)
}

type StatisticsRepositoryAPI interface {
	Statistics(ctx context.Context, scope StatsScope) (*Statistics, error)
}

type UserLookup interface {
	GetUserByID(ctx context.Context, id string) (*user.User, error)
}

type CommentLister interface {
	ListComments(ctx context.Context, grievanceID string) ([]*comment.Comment, error)
}

type AttachmentLister interface {
	ListAttachments(ctx context.Context, grievanceID string) ([]*attachment.Attachment, error)
}

// Advisor produces the optional AI summary and recommendation stored with a
// new grievance.
type Advisor interface {
	Insights(ctx context.Context, text string) (summary, recommendation string, err error)
}

type Service struct {
	repo        RepositoryAPI
	stats       StatisticsRepositoryAPI
	users       UserLookup
	comments    CommentLister
	attachments AttachmentLister
	advisor     Advisor
	publisher   events.Publisher
	logger      *slog.Logger
	now         func() time.Time
}

type Dependencies struct {
	Repo        RepositoryAPI
	Stats       StatisticsRepositoryAPI
	Users       UserLookup
	Comments    CommentLister
	Attachments AttachmentLister
	// Advisor and Publisher may be nil.
	Advisor   Advisor
	Publisher events.Publisher
}

func NewService(deps Dependencies, logger *slog.Logger) *Service {
	return &Service{
		repo:        deps.Repo,
		stats:       deps.Stats,
		users:       deps.Users,
		comments:    deps.Comments,
		attachments: deps.Attachments,
		advisor:     deps.Advisor,
		publisher:   deps.Publisher,
		logger:      logger,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) publish(ctx context.Context, event events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Error("failed to publish event", "event_type", event.EventType(), "error", err)
	}
}

// CreateGrievance stores a new grievance with status New. When useAI is set
// and an advisor is configured its output is attached; advisor failures are
// logged and the grievance is created without it.
func (s *Service) CreateGrievance(ctx context.Context, identity *coreUser.Identity, dto CreateGrievanceDTO) (*Grievance, error) {
	dto.Normalize()
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	g := NewGrievance(uuid.NewString(), dto, identity.ID, s.now())

	if dto.UseAI && s.advisor != nil {
		summary, recommendation, err := s.advisor.Insights(ctx, dto.AdvisoryText())
		if err != nil {
			s.logger.Warn("AI insights unavailable, creating grievance without them", "error", err)
		} else {
			if summary != "" {
				g.AISummary = &summary
			}
			if recommendation != "" {
				g.AIRecommendation = &recommendation
			}
		}
	}

	if err := s.repo.Create(ctx, ToDataModel(g)); err != nil {
		s.logger.Error("failed to create grievance", "error", err)
		return nil, internal.NewInternalError("failed to create grievance", err)
	}

	s.logger.Info("grievance created", "grievance_id", g.ID, "submitted_by", g.SubmittedBy)
	s.publish(ctx, events.NewGrievanceCreatedEvent(g.ID, g.Title, g.SubmittedBy))
	return g, nil
}

func (s *Service) get(ctx context.Context, id string) (*Grievance, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, internal.ErrGrievanceNotFound) {
			return nil, err
		}
		s.logger.Error("failed to load grievance", "error", err, "grievance_id", id)
		return nil, internal.NewInternalError("failed to load grievance", err)
	}
	return FromDataModel(row), nil
}

// Exists backs the comment and attachment ledgers.
func (s *Service) Exists(ctx context.Context, id string) (bool, error) {
	return s.repo.Exists(ctx, id)
}

// GetGrievance returns the grievance with its people, comments and
// attachments.
func (s *Service) GetGrievance(ctx context.Context, identity *coreUser.Identity, id string) (*Detail, error) {
	g, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanView(identity, g) {
		s.logger.Warn("grievance view denied", "grievance_id", id, "user_id", identity.ID)
		return nil, internal.ErrUnauthorizedView
	}

	detail := &Detail{Grievance: WithPeople{Grievance: g}}
	detail.Grievance.Submitter = s.publicUser(ctx, g.SubmittedBy)
	if g.AssignedTo != nil {
		detail.Grievance.Assignee = s.publicUser(ctx, *g.AssignedTo)
	}

	if detail.Comments, err = s.comments.ListComments(ctx, id); err != nil {
		return nil, err
	}
	if detail.Attachments, err = s.attachments.ListAttachments(ctx, id); err != nil {
		return nil, err
	}
	return detail, nil
}

// publicUser returns nil for accounts that no longer exist.
func (s *Service) publicUser(ctx context.Context, id string) *user.PublicUser {
	u, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		if !errors.Is(err, internal.ErrUserNotFound) {
			s.logger.Warn("failed to load user for grievance", "error", err, "user_id", id)
		}
		return nil
	}
	p := u.ToPublic()
	return &p
}

// UpdateGrievance applies the allow-listed fields of dto. The order of checks
// is existence, authorization, then field validation.
func (s *Service) UpdateGrievance(ctx context.Context, identity *coreUser.Identity, id string, dto UpdateGrievanceDTO) (*Grievance, error) {
	before, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	if !CanMutate(identity, before) {
		s.logger.Warn("grievance update denied",
			"grievance_id", id,
			"user_id", identity.ID,
			"role", identity.Role)
		return nil, internal.ErrUnauthorizedUpdate
	}

	changes, appErr := dto.Changes()
	if appErr != nil {
		return nil, appErr
	}
	if len(changes) == 0 {
		return nil, internal.ErrNoValidFields
	}

	if assignee, ok := changes[FieldAssignedTo].(string); ok {
		if _, err := s.users.GetUserByID(ctx, assignee); err != nil {
			if errors.Is(err, internal.ErrUserNotFound) {
				return nil, internal.ErrInvalidAssignee
			}
			s.logger.Error("failed to verify assignee", "error", err, "assignee", assignee)
			return nil, internal.NewInternalError("failed to update grievance", err)
		}
	}

	changed := make([]string, 0, len(changes))
	for field := range changes {
		changed = append(changed, field)
	}
	sort.Strings(changed)

	changes["updated_at"] = s.now()
	if err := s.repo.Update(ctx, id, changes); err != nil {
		if errors.Is(err, internal.ErrGrievanceNotFound) {
			return nil, err
		}
		s.logger.Error("failed to update grievance", "error", err, "grievance_id", id)
		return nil, internal.NewInternalError("failed to update grievance", err)
	}

	after, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	s.logger.Info("grievance updated", "grievance_id", id, "updated_by", identity.ID, "fields", changed)
	s.publish(ctx, events.NewGrievanceUpdatedEvent(
		after.ID, after.Title, after.SubmittedBy, identity.ID,
		before.Status, after.Status,
		before.Assignee(), after.Assignee(),
		changed,
	))
	return after, nil
}

// ListVisible returns the grievances relevant to the requester, newest first.
func (s *Service) ListVisible(ctx context.Context, identity *coreUser.Identity, page Page) ([]*Grievance, error) {
	scope := VisibilityScope(identity)
	rows, err := s.repo.ListVisible(ctx, scope, page.Normalize())
	if err != nil {
		s.logger.Error("failed to list grievances", "error", err, "scope", scope.Kind.String())
		return nil, internal.NewInternalError("failed to list grievances", err)
	}
	return FromDataModels(rows), nil
}

// Filter is the unrestricted listing; callers gate it by role.
func (s *Service) Filter(ctx context.Context, filter FilterDTO, page Page) ([]*Grievance, error) {
	rows, err := s.repo.List(ctx, filter, page.Normalize())
	if err != nil {
		s.logger.Error("failed to filter grievances", "error", err)
		return nil, internal.NewInternalError("failed to list grievances", err)
	}
	return FromDataModels(rows), nil
}

func (s *Service) Statistics(ctx context.Context, identity *coreUser.Identity) (*Statistics, error) {
	stats, err := s.stats.Statistics(ctx, StatisticsScope(identity))
	if err != nil {
		s.logger.Error("failed to compute statistics", "error", err)
		return nil, internal.NewInternalError("failed to compute statistics", err)
	}
	return stats, nil
}
