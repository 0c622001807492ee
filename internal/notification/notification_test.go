package notification_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/frahmantamala/grievance-management/internal"
	"github.com/frahmantamala/grievance-management/internal/core/events"
	"github.com/frahmantamala/grievance-management/internal/notification"
	"github.com/frahmantamala/grievance-management/internal/user"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

type recordingMailer struct {
	mu    sync.Mutex
	sent  []notification.Message
	block chan struct{}
	err   error
}

func (m *recordingMailer) Send(ctx context.Context, msg notification.Message) error {
	if m.block != nil {
		select {
		case <-m.block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return m.err
}

func (m *recordingMailer) Sent() []notification.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]notification.Message(nil), m.sent...)
}

type queue struct {
	messages []notification.Message
}

func (q *queue) Enqueue(msg notification.Message) error {
	q.messages = append(q.messages, msg)
	return nil
}

type directory map[string]*user.User

func (d directory) GetUserByID(_ context.Context, id string) (*user.User, error) {
	u, ok := d[id]
	if !ok {
		return nil, internal.ErrUserNotFound
	}
	return u, nil
}

var _ = Describe("Dispatcher", func() {
	It("delivers queued messages through the mailer", func() {
		mailer := &recordingMailer{}
		d := notification.NewDispatcher(mailer, notification.DispatcherConfig{MaxWorkers: 2, JobQueueSize: 10}, discard)
		defer d.Shutdown()

		for _, to := range []string{"a@example.com", "b@example.com", "c@example.com"} {
			Expect(d.Enqueue(notification.Message{To: to, Subject: "hi"})).To(Succeed())
		}

		Eventually(func() int { return len(mailer.Sent()) }).Should(Equal(3))
	})

	It("keeps running after a failed send", func() {
		mailer := &recordingMailer{err: errors.New("smtp down")}
		d := notification.NewDispatcher(mailer, notification.DispatcherConfig{MaxWorkers: 1}, discard)
		defer d.Shutdown()

		Expect(d.Enqueue(notification.Message{To: "a@example.com"})).To(Succeed())
		Expect(d.Enqueue(notification.Message{To: "b@example.com"})).To(Succeed())
		Eventually(func() int { return len(mailer.Sent()) }).Should(Equal(2))
	})

	It("drops messages when the queue is full", func() {
		mailer := &recordingMailer{block: make(chan struct{})}
		d := notification.NewDispatcher(mailer, notification.DispatcherConfig{MaxWorkers: 1, JobQueueSize: 1, SendTimeout: time.Minute}, discard)
		defer d.Shutdown()

		var err error
		Eventually(func() error {
			err = d.Enqueue(notification.Message{To: "x@example.com"})
			return err
		}).Should(MatchError(notification.ErrQueueFull))

		close(mailer.block)
	})

	It("refuses work after shutdown", func() {
		d := notification.NewDispatcher(&recordingMailer{}, notification.DispatcherConfig{}, discard)
		d.Shutdown()
		Expect(d.Enqueue(notification.Message{To: "a@example.com"})).To(MatchError(context.Canceled))
	})
})

var _ = Describe("EventHandler", func() {
	var (
		q       *queue
		handler *notification.EventHandler
	)

	BeforeEach(func() {
		q = &queue{}
		handler = notification.NewEventHandler(directory{
			"alice": {ID: "alice", Email: "alice@example.com"},
			"sam":   {ID: "sam", Email: "sam@example.com"},
		}, q, discard)
	})

	updated := func(updatedBy, prevStatus, status, prevAssignee, assignee string) *events.GrievanceUpdatedEvent {
		return events.NewGrievanceUpdatedEvent("g1", "Broken light", "alice", updatedBy,
			prevStatus, status, prevAssignee, assignee, []string{"status"})
	}

	It("mails the submitter about a status change", func() {
		Expect(handler.HandleGrievanceUpdated(context.Background(), updated("sam", "New", "Resolved", "sam", "sam"))).To(Succeed())
		Expect(q.messages).To(HaveLen(1))
		Expect(q.messages[0].To).To(Equal("alice@example.com"))
		Expect(q.messages[0].Body).To(ContainSubstring("Status: New -> Resolved"))
	})

	It("mails both submitter and new assignee", func() {
		Expect(handler.HandleGrievanceUpdated(context.Background(), updated("mia", "New", "In Progress", "", "sam"))).To(Succeed())
		Expect(q.messages).To(HaveLen(2))
		Expect([]string{q.messages[0].To, q.messages[1].To}).To(ConsistOf("alice@example.com", "sam@example.com"))
	})

	It("stays quiet when nothing relevant changed", func() {
		Expect(handler.HandleGrievanceUpdated(context.Background(), updated("sam", "New", "New", "", ""))).To(Succeed())
		Expect(q.messages).To(BeEmpty())
	})

	It("does not mail people about their own edits", func() {
		Expect(handler.HandleGrievanceUpdated(context.Background(), updated("alice", "New", "Closed", "", ""))).To(Succeed())
		Expect(q.messages).To(BeEmpty())
	})

	It("skips recipients that no longer exist", func() {
		Expect(handler.HandleGrievanceUpdated(context.Background(), updated("mia", "New", "New", "", "ghost"))).To(Succeed())
		Expect(q.messages).To(HaveLen(1))
		Expect(q.messages[0].To).To(Equal("alice@example.com"))
	})

	It("sends the submitter a receipt for a new grievance", func() {
		Expect(handler.HandleGrievanceCreated(context.Background(), events.NewGrievanceCreatedEvent("g1", "Broken light", "alice"))).To(Succeed())
		Expect(q.messages).To(HaveLen(1))
		Expect(q.messages[0].To).To(Equal("alice@example.com"))
		Expect(q.messages[0].Subject).To(Equal("Grievance received: Broken light"))
		Expect(q.messages[0].Body).To(ContainSubstring("Reference: g1"))
	})

	It("rejects events of the wrong type", func() {
		Expect(handler.HandleGrievanceCreated(context.Background(), updated("sam", "New", "Resolved", "", ""))).NotTo(Succeed())
	})

	It("is driven by the event bus", func() {
		bus := events.NewEventBus(discard)
		handler.RegisterEventHandlers(bus)

		Expect(bus.Publish(context.Background(), events.NewGrievanceCreatedEvent("g1", "Broken light", "alice"))).To(Succeed())
		bus.Wait()
		Expect(q.messages).To(HaveLen(1))

		Expect(bus.Publish(context.Background(), updated("sam", "New", "Resolved", "", ""))).To(Succeed())
		bus.Wait()
		Expect(q.messages).To(HaveLen(2))
	})
})
