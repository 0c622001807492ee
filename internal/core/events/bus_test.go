package events_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"

	"github.com/frahmantamala/grievance-management/internal/core/events"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("EventBus", func() {
	var bus *events.EventBus

	BeforeEach(func() {
		bus = events.NewEventBus(slog.New(slog.NewTextHandler(io.Discard, nil)))
	})

	It("runs every handler of the event type", func() {
		var calls atomic.Int32
		handler := func(context.Context, events.Event) error {
			calls.Add(1)
			return nil
		}
		bus.Subscribe(events.EventTypeGrievanceCreated, handler)
		bus.Subscribe(events.EventTypeGrievanceCreated, handler)
		bus.Subscribe(events.EventTypeGrievanceUpdated, handler)

		Expect(bus.Publish(context.Background(), events.NewGrievanceCreatedEvent("g1", "t", "u1"))).To(Succeed())
		bus.Wait()
		Expect(calls.Load()).To(BeEquivalentTo(2))
	})

	It("keeps handlers alive after the caller's context ends", func() {
		var sawCancel atomic.Bool
		bus.Subscribe(events.EventTypeGrievanceCreated, func(ctx context.Context, _ events.Event) error {
			sawCancel.Store(ctx.Err() != nil)
			return nil
		})

		ctx, cancel := context.WithCancel(context.Background())
		Expect(bus.Publish(ctx, events.NewGrievanceCreatedEvent("g1", "t", "u1"))).To(Succeed())
		cancel()
		bus.Wait()
		Expect(sawCancel.Load()).To(BeFalse())
	})

	It("does not fail the publisher when a handler errors", func() {
		var calls atomic.Int32
		bus.Subscribe(events.EventTypeGrievanceUpdated, func(context.Context, events.Event) error {
			calls.Add(1)
			return errors.New("boom")
		})
		event := events.NewGrievanceUpdatedEvent("g1", "t", "u1", "u2", "New", "Closed", "", "", []string{"status"})
		Expect(bus.Publish(context.Background(), event)).To(Succeed())
		bus.Wait()
		Expect(calls.Load()).To(BeEquivalentTo(1))
	})

	It("reports status and assignee changes", func() {
		e := events.NewGrievanceUpdatedEvent("g1", "t", "u1", "u2", "New", "New", "", "u3", []string{"assigned_to"})
		Expect(e.StatusChanged()).To(BeFalse())
		Expect(e.AssigneeChanged()).To(BeTrue())
		Expect(e.EventType()).To(Equal(events.EventTypeGrievanceUpdated))
	})
})
