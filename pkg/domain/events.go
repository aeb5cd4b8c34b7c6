package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventResolve   EventType = "resolve"
	EventStepApply EventType = "step_apply"
	EventSave      EventType = "save"
)

// EditEvent describes a resolution, a plan step or a save.
type EditEvent struct {
	Timestamp  time.Time     `json:"timestamp"`
	Type       EventType     `json:"type"`
	DocumentID string        `json:"document_id,omitempty"`
	Op         string        `json:"op,omitempty"`
	Target     string        `json:"target,omitempty"`
	Delta      int           `json:"delta"` // Change in byte length produced by the step
	Duration   time.Duration `json:"duration"`
	Err        error         `json:"-"`
}

// Hooks defines callbacks for editor observability.
type Hooks struct {
	OnResolve func(context.Context, *EditEvent)
	OnStep    func(context.Context, *EditEvent)
	OnSave    func(context.Context, *EditEvent)
}

// Emit invokes fn when it is set.
func Emit(ctx context.Context, fn func(context.Context, *EditEvent), e *EditEvent) {
	if fn == nil {
		return
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}
	fn(ctx, e)
}
