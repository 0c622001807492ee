package notification

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/frahmantamala/grievance-management/internal/core/events"
	"github.com/frahmantamala/grievance-management/internal/user"
)

type UserLookup interface {
	GetUserByID(ctx context.Context, id string) (*user.User, error)
}

type Enqueuer interface {
	Enqueue(msg Message) error
}

// EventHandler turns grievance events into emails. The submitter gets a
// receipt for a new grievance and hears about status and assignee changes;
// a new assignee hears about the assignment.
type EventHandler struct {
	users  UserLookup
	queue  Enqueuer
	logger *slog.Logger
}

func NewEventHandler(users UserLookup, queue Enqueuer, logger *slog.Logger) *EventHandler {
	return &EventHandler{
		users:  users,
		queue:  queue,
		logger: logger,
	}
}

func (h *EventHandler) HandleGrievanceCreated(ctx context.Context, event events.Event) error {
	created, ok := event.(*events.GrievanceCreatedEvent)
	if !ok {
		h.logger.Error("invalid event type for grievance created handler", "event_type", event.EventType())
		return fmt.Errorf("expected GrievanceCreatedEvent, got %T", event)
	}

	return h.notify(ctx, created.SubmittedBy, receiptMessage(created))
}

func (h *EventHandler) HandleGrievanceUpdated(ctx context.Context, event events.Event) error {
	updated, ok := event.(*events.GrievanceUpdatedEvent)
	if !ok {
		h.logger.Error("invalid event type for grievance updated handler", "event_type", event.EventType())
		return fmt.Errorf("expected GrievanceUpdatedEvent, got %T", event)
	}

	if !updated.StatusChanged() && !updated.AssigneeChanged() {
		return nil
	}

	// the submitter does not need mail about their own edits
	if updated.UpdatedBy != updated.SubmittedBy {
		if err := h.notify(ctx, updated.SubmittedBy, submitterMessage(updated)); err != nil {
			return err
		}
	}

	if updated.AssigneeChanged() && updated.Assignee != "" && updated.Assignee != updated.UpdatedBy {
		if err := h.notify(ctx, updated.Assignee, assigneeMessage(updated)); err != nil {
			return err
		}
	}

	return nil
}

func (h *EventHandler) notify(ctx context.Context, userID string, msg Message) error {
	u, err := h.users.GetUserByID(ctx, userID)
	if err != nil {
		h.logger.Warn("notification recipient not found", "user_id", userID, "error", err)
		return nil
	}

	msg.To = u.Email
	if err := h.queue.Enqueue(msg); err != nil {
		return fmt.Errorf("enqueue notification for %s: %w", userID, err)
	}
	return nil
}

func receiptMessage(e *events.GrievanceCreatedEvent) Message {
	return Message{
		Subject: fmt.Sprintf("Grievance received: %s", e.Title),
		Body: fmt.Sprintf("We have received your grievance %q. You will be notified when its status changes.\n\nReference: %s\n",
			e.Title, e.GrievanceID),
	}
}

func submitterMessage(e *events.GrievanceUpdatedEvent) Message {
	var b strings.Builder
	fmt.Fprintf(&b, "Your grievance %q has been updated.\n\n", e.Title)
	if e.StatusChanged() {
		fmt.Fprintf(&b, "Status: %s -> %s\n", orNone(e.PreviousStatus), orNone(e.Status))
	}
	if e.AssigneeChanged() {
		if e.Assignee == "" {
			b.WriteString("It is no longer assigned to a staff member.\n")
		} else {
			b.WriteString("It has been assigned to a staff member.\n")
		}
	}
	fmt.Fprintf(&b, "\nReference: %s\n", e.GrievanceID)

	return Message{
		Subject: fmt.Sprintf("Grievance update: %s", e.Title),
		Body:    b.String(),
	}
}

func assigneeMessage(e *events.GrievanceUpdatedEvent) Message {
	return Message{
		Subject: fmt.Sprintf("Grievance assigned to you: %s", e.Title),
		Body: fmt.Sprintf("The grievance %q has been assigned to you.\n\nCurrent status: %s\nReference: %s\n",
			e.Title, orNone(e.Status), e.GrievanceID),
	}
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}

func (h *EventHandler) RegisterEventHandlers(eventBus *events.EventBus) {
	eventBus.Subscribe(events.EventTypeGrievanceCreated, h.HandleGrievanceCreated)
	eventBus.Subscribe(events.EventTypeGrievanceUpdated, h.HandleGrievanceUpdated)

	h.logger.Info("notification event handlers registered",
		"handlers", []string{events.EventTypeGrievanceCreated, events.EventTypeGrievanceUpdated})
}
