package grievance_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"

	"github.com/frahmantamala/grievance-management/internal"
	"github.com/frahmantamala/grievance-management/internal/attachment"
	"github.com/frahmantamala/grievance-management/internal/comment"
	grievanceDatamodel "github.com/frahmantamala/grievance-management/internal/core/datamodel/grievance"
	"github.com/frahmantamala/grievance-management/internal/core/events"
	coreUser "github.com/frahmantamala/grievance-management/internal/core/user"
	"github.com/frahmantamala/grievance-management/internal/grievance"
	"github.com/frahmantamala/grievance-management/internal/user"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type mockRepo struct {
	rows       map[string]*grievanceDatamodel.Grievance
	updates    []map[string]interface{}
	lastScope  grievance.Scope
	lastPage   grievance.Page
	lastFilter grievance.FilterDTO
	createErr  error
}

func newMockRepo() *mockRepo {
	return &mockRepo{rows: map[string]*grievanceDatamodel.Grievance{}}
}

func (m *mockRepo) Create(_ context.Context, g *grievanceDatamodel.Grievance) error {
	if m.createErr != nil {
		return m.createErr
	}
	cp := *g
	m.rows[g.ID] = &cp
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id string) (*grievanceDatamodel.Grievance, error) {
	g, ok := m.rows[id]
	if !ok {
		return nil, internal.ErrGrievanceNotFound
	}
	cp := *g
	return &cp, nil
}

func (m *mockRepo) Exists(_ context.Context, id string) (bool, error) {
	_, ok := m.rows[id]
	return ok, nil
}

func (m *mockRepo) Update(_ context.Context, id string, fields map[string]interface{}) error {
	g, ok := m.rows[id]
	if !ok {
		return internal.ErrGrievanceNotFound
	}
	m.updates = append(m.updates, fields)
	for k, v := range fields {
		switch k {
		case "title":
			g.Title = v.(string)
		case "status":
			g.Status = v.(string)
		case "assigned_to":
			if v == nil {
				g.AssignedTo = nil
			} else {
				s := v.(string)
				g.AssignedTo = &s
			}
		}
	}
	return nil
}

func (m *mockRepo) ListVisible(_ context.Context, scope grievance.Scope, page grievance.Page) ([]*grievanceDatamodel.Grievance, error) {
	m.lastScope, m.lastPage = scope, page
	return nil, nil
}

func (m *mockRepo) List(_ context.Context, filter grievance.FilterDTO, page grievance.Page) ([]*grievanceDatamodel.Grievance, error) {
	m.lastFilter, m.lastPage = filter, page
	return nil, nil
}

type mockUsers struct {
	users map[string]*user.User
}

func (m *mockUsers) GetUserByID(_ context.Context, id string) (*user.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, internal.ErrUserNotFound
	}
	return u, nil
}

type noComments struct{}

func (noComments) ListComments(context.Context, string) ([]*comment.Comment, error) {
	return []*comment.Comment{}, nil
}

type noAttachments struct{}

func (noAttachments) ListAttachments(context.Context, string) ([]*attachment.Attachment, error) {
	return []*attachment.Attachment{}, nil
}

type mockAdvisor struct {
	err   error
	calls []string
}

func (m *mockAdvisor) Insights(_ context.Context, text string) (string, string, error) {
	m.calls = append(m.calls, text)
	if m.err != nil {
		return "", "", m.err
	}
	return "short summary", "send a crew", nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

var _ = Describe("Grievance Service", func() {
	var (
		ctx       context.Context
		repo      *mockRepo
		users     *mockUsers
		advisor   *mockAdvisor
		publisher *recordingPublisher
		service   *grievance.Service

		alice = &coreUser.Identity{ID: "alice", Role: coreUser.RoleSubmitter, Department: "Roads"}
		bob   = &coreUser.Identity{ID: "bob", Role: coreUser.RoleSubmitter, Department: "Roads"}
		staff = &coreUser.Identity{ID: "sam", Role: coreUser.RoleStaff, Department: "Water"}
	)

	BeforeEach(func() {
		ctx = context.Background()
		repo = newMockRepo()
		users = &mockUsers{users: map[string]*user.User{
			"alice": {ID: "alice", Name: "Alice", Email: "alice@example.com", Role: coreUser.RoleSubmitter},
			"sam":   {ID: "sam", Name: "Sam", Email: "sam@example.com", Role: coreUser.RoleStaff},
		}}
		advisor = &mockAdvisor{}
		publisher = &recordingPublisher{}
		service = grievance.NewService(grievance.Dependencies{
			Repo:        repo,
			Users:       users,
			Comments:    noComments{},
			Attachments: noAttachments{},
			Advisor:     advisor,
			Publisher:   publisher,
		}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	})

	createFor := func(identity *coreUser.Identity) *grievance.Grievance {
		g, err := service.CreateGrievance(ctx, identity, grievance.CreateGrievanceDTO{
			Title:       "Broken streetlight",
			Description: "Dark at night",
			Category:    "Public Infrastructure & Utilities",
			Priority:    "Medium",
		})
		Expect(err).NotTo(HaveOccurred())
		return g
	}

	Describe("CreateGrievance", func() {
		It("starts every grievance as New with equal timestamps", func() {
			g := createFor(alice)
			Expect(g.Status).To(Equal(grievance.StatusNew))
			Expect(g.SubmittedBy).To(Equal("alice"))
			Expect(g.CreatedAt).To(Equal(g.UpdatedAt))
			Expect(g.AISummary).To(BeNil())
			Expect(advisor.calls).To(BeEmpty())
		})

		It("publishes a created event", func() {
			g := createFor(alice)
			Expect(publisher.events).To(HaveLen(1))
			created, ok := publisher.events[0].(*events.GrievanceCreatedEvent)
			Expect(ok).To(BeTrue())
			Expect(created.GrievanceID).To(Equal(g.ID))
		})

		It("stores advisor output when useAI is set", func() {
			g, err := service.CreateGrievance(ctx, alice, grievance.CreateGrievanceDTO{
				Title: "Flood", Description: "Street flooded", Category: "Environmental & Safety Issues", Priority: "High", UseAI: true,
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(advisor.calls).To(ConsistOf("Title: Flood\nDescription: Street flooded\nCategory: Environmental & Safety Issues"))
			Expect(*g.AISummary).To(Equal("short summary"))
			Expect(*g.AIRecommendation).To(Equal("send a crew"))
		})

		It("still creates the grievance when the advisor fails", func() {
			advisor.err = errors.New("upstream down")
			g, err := service.CreateGrievance(ctx, alice, grievance.CreateGrievanceDTO{
				Title: "Flood", Description: "Street flooded", Category: "Other", Priority: "High", UseAI: true,
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(g.AISummary).To(BeNil())
			Expect(repo.rows).To(HaveKey(g.ID))
		})

		It("rejects missing fields", func() {
			_, err := service.CreateGrievance(ctx, alice, grievance.CreateGrievanceDTO{Title: "only a title"})
			Expect(err).To(HaveOccurred())
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(400))
			Expect(repo.rows).To(BeEmpty())
		})
	})

	Describe("UpdateGrievance", func() {
		var g *grievance.Grievance

		BeforeEach(func() {
			g = createFor(alice)
			publisher.events = nil
		})

		update := func(identity *coreUser.Identity, id, body string) (*grievance.Grievance, error) {
			var dto grievance.UpdateGrievanceDTO
			Expect(json.Unmarshal([]byte(body), &dto)).To(Succeed())
			return service.UpdateGrievance(ctx, identity, id, dto)
		}

		It("returns not found before checking authorization", func() {
			_, err := update(bob, "missing", `{"status":"Closed"}`)
			Expect(errors.Is(err, internal.ErrGrievanceNotFound)).To(BeTrue())
		})

		It("forbids other submitters", func() {
			_, err := update(bob, g.ID, `{"status":"Closed"}`)
			Expect(errors.Is(err, internal.ErrUnauthorizedUpdate)).To(BeTrue())
			Expect(repo.updates).To(BeEmpty())
		})

		It("checks authorization before field validity", func() {
			_, err := update(bob, g.ID, `{"foo":"bar"}`)
			Expect(errors.Is(err, internal.ErrUnauthorizedUpdate)).To(BeTrue())
		})

		It("rejects a body without allowed fields", func() {
			_, err := update(alice, g.ID, `{"foo":"bar","submitted_by":"bob"}`)
			Expect(errors.Is(err, internal.ErrNoValidFields)).To(BeTrue())
			Expect(repo.updates).To(BeEmpty())
		})

		It("writes only allow-listed fields and refreshes updated_at", func() {
			updated, err := update(staff, g.ID, `{"status":"In Progress","submitted_by":"bob"}`)
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Status).To(Equal(grievance.StatusInProgress))
			Expect(updated.SubmittedBy).To(Equal("alice"))

			Expect(repo.updates).To(HaveLen(1))
			Expect(repo.updates[0]).To(HaveKey("updated_at"))
			Expect(repo.updates[0]).NotTo(HaveKey("submitted_by"))
		})

		It("rejects an unknown assignee", func() {
			_, err := update(staff, g.ID, `{"assigned_to":"ghost"}`)
			Expect(errors.Is(err, internal.ErrInvalidAssignee)).To(BeTrue())
		})

		It("publishes the before and after values", func() {
			_, err := update(staff, g.ID, `{"status":"Resolved","assigned_to":"sam"}`)
			Expect(err).NotTo(HaveOccurred())

			Expect(publisher.events).To(HaveLen(1))
			e, ok := publisher.events[0].(*events.GrievanceUpdatedEvent)
			Expect(ok).To(BeTrue())
			Expect(e.PreviousStatus).To(Equal(grievance.StatusNew))
			Expect(e.Status).To(Equal(grievance.StatusResolved))
			Expect(e.Assignee).To(Equal("sam"))
			Expect(e.UpdatedBy).To(Equal("sam"))
			Expect(e.ChangedFields).To(Equal([]string{"assigned_to", "status"}))
		})
	})

	Describe("GetGrievance", func() {
		It("includes the submitter profile", func() {
			g := createFor(alice)
			detail, err := service.GetGrievance(ctx, alice, g.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(detail.Grievance.ID).To(Equal(g.ID))
			Expect(detail.Grievance.Submitter.Email).To(Equal("alice@example.com"))
			Expect(detail.Grievance.Assignee).To(BeNil())
		})

		It("forbids other submitters", func() {
			g := createFor(alice)
			_, err := service.GetGrievance(ctx, bob, g.ID)
			Expect(errors.Is(err, internal.ErrUnauthorizedView)).To(BeTrue())
		})
	})

	Describe("listing", func() {
		It("passes the requester's scope and a normalized page", func() {
			_, err := service.ListVisible(ctx, staff, grievance.Page{Limit: 0, Offset: -3})
			Expect(err).NotTo(HaveOccurred())
			Expect(repo.lastScope.Kind).To(Equal(grievance.ScopeStaff))
			Expect(repo.lastScope.Department).To(Equal("Water"))
			Expect(repo.lastPage).To(Equal(grievance.Page{Limit: grievance.DefaultLimit, Offset: 0}))
		})

		It("passes filters through unchanged", func() {
			filter := grievance.FilterDTO{Status: "New", Priority: "High"}
			_, err := service.Filter(ctx, filter, grievance.Page{Limit: 10})
			Expect(err).NotTo(HaveOccurred())
			Expect(repo.lastFilter).To(Equal(filter))
		})
	})
})
