package events

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestEventBus(t *testing.T) {
	bus := NewEventBus()

	var received *Event
	var callCount int

	bus.Subscribe(EventBookingCreated, func(event *Event) error {
		received = event
		callCount++
		return nil
	})

	err := bus.PublishJSON(EventBookingCreated, BookingEventPayload{BookingID: 1, Status: "WAITING"})
	if err != nil {
		t.Fatalf("PublishJSON failed: %v", err)
	}

	if callCount != 1 {
		t.Errorf("expected 1 call, got %d", callCount)
	}
	if received.Type != EventBookingCreated {
		t.Errorf("expected type %s, got %s", EventBookingCreated, received.Type)
	}
	if received.ID == "" {
		t.Errorf("expected event id to be set")
	}

	var decoded BookingEventPayload
	if err := json.Unmarshal(received.Payload, &decoded); err != nil {
		t.Fatalf("failed to decode payload: %v", err)
	}
	if decoded.BookingID != 1 || decoded.Status != "WAITING" {
		t.Errorf("unexpected payload %+v", decoded)
	}
}

func TestEventBusMultipleSubscribers(t *testing.T) {
	bus := NewEventBus()
	var count1, count2, other int

	bus.Subscribe(EventCommentCreated, func(_ *Event) error { count1++; return nil })
	bus.Subscribe(EventCommentCreated, func(_ *Event) error { count2++; return nil })
	bus.Subscribe(EventBookingApproved, func(_ *Event) error { other++; return nil })

	bus.Publish(&Event{Type: EventCommentCreated})

	if count1 != 1 || count2 != 1 {
		t.Errorf("expected both handlers to be called once, got %d and %d", count1, count2)
	}
	if other != 0 {
		t.Errorf("handler of another type was called")
	}
}

func TestEventBusHandlerErrors(t *testing.T) {
	bus := NewEventBus()
	var failed []string
	bus.OnError(func(event *Event, err error) { failed = append(failed, event.Type+": "+err.Error()) })

	var after int
	bus.Subscribe(EventBookingRejected, func(_ *Event) error { return errors.New("boom") })
	bus.Subscribe(EventBookingRejected, func(_ *Event) error { after++; return nil })

	bus.Publish(&Event{Type: EventBookingRejected})

	if len(failed) != 1 || failed[0] != "booking_rejected: boom" {
		t.Errorf("unexpected failures %v", failed)
	}
	if after != 1 {
		t.Errorf("a failing handler must not stop the rest")
	}
}

func TestEventBusNoSubscribers(t *testing.T) {
	bus := NewEventBus()
	// Should not panic
	bus.Publish(&Event{Type: "unknown"})
	if err := bus.PublishJSON("unknown", nil); err != nil {
		t.Errorf("PublishJSON failed: %v", err)
	}

	var nilBus *EventBus
	if err := nilBus.PublishJSON(EventBookingCreated, nil); err != nil {
		t.Errorf("nil bus should drop events, got %v", err)
	}
}

func TestNewJSONEvent(t *testing.T) {
	event, err := NewJSONEvent(EventCommentCreated, CommentEventPayload{CommentID: 123, Text: "ok"})
	if err != nil {
		t.Fatalf("NewJSONEvent failed: %v", err)
	}
	if event.CreatedAt.IsZero() {
		t.Errorf("expected CreatedAt to be set")
	}

	var decoded CommentEventPayload
	if err := json.Unmarshal(event.Payload, &decoded); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}
	if decoded.CommentID != 123 {
		t.Errorf("expected CommentID 123, got %d", decoded.CommentID)
	}

	if _, err := NewJSONEvent("bad", make(chan int)); err == nil {
		t.Errorf("expected marshal error")
	}
}
