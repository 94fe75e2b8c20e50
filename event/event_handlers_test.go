package event_test

import (
	"fieldjobs/event"
	"fieldjobs/session"
	"testing"
	"time"

	"github.com/fundwit/go-commons/types"
	. "github.com/onsi/gomega"
)

func TestInvokeHandlers(t *testing.T) {
	RegisterTestingT(t)

	t.Run("should invoke all registered event handlers", func(t *testing.T) {
		bus := event.NewBus(func(e *event.EventRecord) *event.EventHandleResult {
			return nil
		})
		bus.Register(func(e *event.EventRecord) *event.EventHandleResult {
			return &event.EventHandleResult{Success: true, Message: "success", HandlerIdentifier: "all-success-handler"}
		})
		bus.Register(func(e *event.EventRecord) *event.EventHandleResult {
			return &event.EventHandleResult{Success: false, Message: "failure", HandlerIdentifier: "all-failure-handler"}
		})

		ev := event.NewEventRecord(event.SourceTypeJob, 1234, "fix pump", event.EventCategoryPropertyUpdated,
			[]event.UpdatedProperty{{PropertyName: "Status", OldValue: "Created", NewValue: "In Progress"}},
			&session.Identity{ID: 333, Name: "user333"}, types.TimestampOfDate(2021, 1, 1, 12, 12, 12, 0, time.Local))

		ret := bus.InvokeHandlers(ev)
		Expect(ret).To(Equal([]event.EventHandleResult{
			{Success: true, Message: "success", HandlerIdentifier: "all-success-handler"},
			{Success: false, Message: "failure", HandlerIdentifier: "all-failure-handler"},
		}))
	})

	t.Run("should tolerate nil bus", func(t *testing.T) {
		var bus *event.Bus
		Expect(bus.InvokeHandlers(&event.EventRecord{})).To(BeNil())
	})
}

func TestNewEventRecord(t *testing.T) {
	RegisterTestingT(t)

	t.Run("should fill event fields and generate id", func(t *testing.T) {
		ts := types.TimestampOfDate(2021, 1, 1, 12, 12, 12, 0, time.Local)
		ev := event.NewEventRecord(event.SourceTypeJob, 1234, "fix pump", event.EventCategoryCreated, nil,
			&session.Identity{ID: 333, Name: "user333"}, ts)

		Expect(ev.ID).ToNot(BeZero())
		Expect(ev.Event).To(Equal(event.Event{SourceType: "JOB", SourceId: 1234, SourceDesc: "fix pump",
			EventCategory: event.EventCategoryCreated, CreatorId: 333, CreatorName: "user333"}))
		Expect(ev.Timestamp).To(Equal(ts))
	})
}

func TestUpdatedPropertiesValueAndScan(t *testing.T) {
	RegisterTestingT(t)

	t.Run("should convert between json text and properties", func(t *testing.T) {
		props := event.UpdatedProperties{{PropertyName: "Status", OldValue: "Submitted", NewValue: "Approved"}}
		v, err := props.Value()
		Expect(err).To(BeNil())
		Expect(v).To(Equal(`[{"propertyName":"Status","oldValue":"Submitted","newValue":"Approved"}]`))

		var scanned event.UpdatedProperties
		Expect(scanned.Scan([]byte(v.(string)))).To(BeNil())
		Expect(scanned).To(Equal(props))

		Expect(scanned.Scan(100)).ToNot(BeNil())
	})
}
