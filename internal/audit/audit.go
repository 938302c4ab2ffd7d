// Package audit defines the change events emitted by the service layer after a
// tracked entity is created, updated or deleted.
package audit

import (
	"context"
	"encoding/json"
	"time"

	"shopmate/internal/model"

	"github.com/google/uuid"
)

// Tracked entity types.
const (
	EntityBrand        = "brand"
	EntityCustomer     = "customer"
	EntityManufacturer = "manufacturer"
	EntityOrder        = "order"
	EntityProduct      = "product"
)

// Event is one committed mutation. Before is nil for creates, After is nil for
// deletes.
type Event struct {
	ID         uuid.UUID         `json:"id"`
	EntityType string            `json:"entity_type"`
	EntityID   string            `json:"entity_id"`
	Action     model.AuditAction `json:"action"`
	Actor      string            `json:"actor,omitempty"`
	Before     json.RawMessage   `json:"before,omitempty"`
	After      json.RawMessage   `json:"after,omitempty"`
	OccurredAt time.Time         `json:"occurred_at"`
}

// Recorder receives events once the owning transaction has committed.
type Recorder interface {
	Record(ctx context.Context, ev Event) error
}

// NopRecorder discards every event.
type NopRecorder struct{}

func (NopRecorder) Record(context.Context, Event) error { return nil }

// NewEvent builds an event, snapshotting before/after as JSON. A snapshot that
// cannot be encoded is dropped rather than failing the caller.
func NewEvent(ctx context.Context, entityType, entityID string, action model.AuditAction, before, after any) Event {
	return Event{
		ID:         uuid.New(),
		EntityType: entityType,
		EntityID:   entityID,
		Action:     action,
		Actor:      ActorFrom(ctx),
		Before:     snapshot(before),
		After:      snapshot(after),
		OccurredAt: time.Now().UTC(),
	}
}

func snapshot(v any) json.RawMessage {
	if v == nil {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return b
}

// ToLog converts an event into its persisted form.
func (e Event) ToLog() model.AuditLog {
	l := model.AuditLog{
		EventID:    e.ID,
		EntityType: e.EntityType,
		EntityID:   e.EntityID,
		Action:     e.Action,
		OccurredAt: e.OccurredAt,
	}
	if e.Actor != "" {
		actor := e.Actor
		l.Actor = &actor
	}
	if len(e.Before) > 0 {
		s := string(e.Before)
		l.BeforeData = &s
	}
	if len(e.After) > 0 {
		s := string(e.After)
		l.AfterData = &s
	}
	return l
}

type actorKey struct{}

// WithActor stores the acting username on ctx.
func WithActor(ctx context.Context, username string) context.Context {
	return context.WithValue(ctx, actorKey{}, username)
}

// ActorFrom returns the username stored by WithActor, or "".
func ActorFrom(ctx context.Context) string {
	s, _ := ctx.Value(actorKey{}).(string)
	return s
}
