package events_test

import (
	"bytes"
	"context"
	"errors"
	"sync/atomic"

	"github.com/frahmantamala/epic-crm/internal"
	"github.com/frahmantamala/epic-crm/internal/core/events"
	"github.com/frahmantamala/epic-crm/pkg/logger"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("EventBus", func() {
	var (
		ctx context.Context
		bus *events.EventBus
	)

	BeforeEach(func() {
		ctx = context.Background()
		bus = events.NewEventBus(logger.Discard())
	})

	It("delivers to typed handlers before wildcard handlers", func() {
		var order []string
		bus.Subscribe(events.AllEvents, func(context.Context, events.Event) error {
			order = append(order, "all")
			return nil
		})
		bus.Subscribe(events.RecordType("client", events.ActionCreated), func(context.Context, events.Event) error {
			order = append(order, "typed")
			return nil
		})

		evt := events.NewRecordChangedEvent("client", events.ActionCreated, 1, []int64{10}, nil)
		Expect(bus.PublishSync(ctx, evt)).To(Succeed())
		Expect(order).To(Equal([]string{"typed", "all"}))
	})

	It("stops at the first failing handler", func() {
		var calls int32
		bus.Subscribe(events.AllEvents, func(context.Context, events.Event) error {
			atomic.AddInt32(&calls, 1)
			return errors.New("sink down")
		})
		bus.Subscribe(events.AllEvents, func(context.Context, events.Event) error {
			atomic.AddInt32(&calls, 1)
			return nil
		})

		err := bus.PublishSync(ctx, events.NewUnexpectedErrorEvent("client delete", errors.New("boom")))
		Expect(err).To(MatchError(ContainSubstring("sink down")))
		Expect(atomic.LoadInt32(&calls)).To(Equal(int32(1)))
	})

	It("is a no-op without subscribers", func() {
		Expect(bus.PublishSync(ctx, events.NewRecordChangedEvent("user", events.ActionDeleted, 1, nil, nil))).To(Succeed())
	})

	It("runs handlers in the background on Publish", func() {
		var calls int32
		bus.Subscribe(events.AllEvents, func(context.Context, events.Event) error {
			atomic.AddInt32(&calls, 1)
			return nil
		})
		Expect(bus.Publish(ctx, events.NewRecordChangedEvent("event", events.ActionUpdated, 1, []int64{3}, nil))).To(Succeed())
		Eventually(func() int32 { return atomic.LoadInt32(&calls) }).Should(Equal(int32(1)))
	})
})

var _ = Describe("RecordChangedEvent", func() {
	It("names its type after the kind and action", func() {
		evt := events.NewRecordChangedEvent("contract", events.ActionUpdated, 4, []int64{1, 2}, map[string]interface{}{"is_signed": true})
		Expect(evt.EventType()).To(Equal("crm.contract.updated"))
		Expect(evt.EventID()).NotTo(BeEmpty())
		Expect(evt.Payload()).To(HaveKeyWithValue("fields", map[string]interface{}{"is_signed": true}))
	})
})

var _ = Describe("RegisterLogSink", func() {
	It("logs every event with the acting user", func() {
		var buf bytes.Buffer
		bus := events.NewEventBus(logger.Discard())
		events.RegisterLogSink(bus, logger.New(&buf, "info", "json"))

		ctx := internal.ContextWithUserID(context.Background(), 42)
		Expect(bus.PublishSync(ctx, events.NewRecordChangedEvent("user", events.ActionCreated, 42, []int64{7}, nil))).To(Succeed())

		Expect(buf.String()).To(ContainSubstring(`"event_type":"crm.user.created"`))
		Expect(buf.String()).To(ContainSubstring(`"acting_user_id":42`))
	})

	It("logs unexpected errors at error level", func() {
		var buf bytes.Buffer
		bus := events.NewEventBus(logger.Discard())
		events.RegisterLogSink(bus, logger.New(&buf, "info", "json"))

		Expect(bus.PublishSync(context.Background(), events.NewUnexpectedErrorEvent("user list", errors.New("disk full")))).To(Succeed())
		Expect(buf.String()).To(ContainSubstring(`"level":"ERROR"`))
		Expect(buf.String()).To(ContainSubstring("disk full"))
	})
})
