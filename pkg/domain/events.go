package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventCellInterpreted EventType = "cell_interpreted"
	EventUnrecognized    EventType = "cell_unrecognized"
	EventDeliveryAttempt EventType = "delivery_attempt"
	EventDeliveryRetry   EventType = "delivery_retry"
	EventDeliveryResult  EventType = "delivery_result"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	RunID     string    `json:"run_id,omitempty"`
}

// CellEvent is emitted once per interpreted cell.
type CellEvent struct {
	EventBase
	Coordinate
	Token  string `json:"token"`
	Intent Intent `json:"-"`
	Err    error  `json:"-"`
}

// DeliveryEvent describes one attempt, retry decision or final outcome of a delivery.
type DeliveryEvent struct {
	EventBase
	Request    CreationRequest `json:"-"`
	Attempt    int             `json:"attempt"`
	StatusCode int             `json:"status_code,omitempty"`
	Delay      time.Duration   `json:"delay,omitempty"`
	Duration   time.Duration   `json:"duration,omitempty"`
	Err        error           `json:"-"`
}

// Failed reports whether the event carries an error.
func (e *DeliveryEvent) Failed() bool {
	return e.Err != nil
}

// LifecycleHooks defines callbacks for synchronization observability.
// Nil callbacks are skipped.
type LifecycleHooks struct {
	OnCellInterpreted func(context.Context, *CellEvent)
	OnUnrecognized    func(context.Context, *CellEvent)
	OnDeliveryAttempt func(context.Context, *DeliveryEvent)
	OnDeliveryRetry   func(context.Context, *DeliveryEvent)
	OnDeliveryResult  func(context.Context, *DeliveryEvent)
}

// Merge returns hooks that call h first and then other.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnCellInterpreted: chainCell(h.OnCellInterpreted, other.OnCellInterpreted),
		OnUnrecognized:    chainCell(h.OnUnrecognized, other.OnUnrecognized),
		OnDeliveryAttempt: chainDelivery(h.OnDeliveryAttempt, other.OnDeliveryAttempt),
		OnDeliveryRetry:   chainDelivery(h.OnDeliveryRetry, other.OnDeliveryRetry),
		OnDeliveryResult:  chainDelivery(h.OnDeliveryResult, other.OnDeliveryResult),
	}
}

func chainCell(a, b func(context.Context, *CellEvent)) func(context.Context, *CellEvent) {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(ctx context.Context, e *CellEvent) {
		a(ctx, e)
		b(ctx, e)
	}
}

func chainDelivery(a, b func(context.Context, *DeliveryEvent)) func(context.Context, *DeliveryEvent) {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(ctx context.Context, e *DeliveryEvent) {
		a(ctx, e)
		b(ctx, e)
	}
}
