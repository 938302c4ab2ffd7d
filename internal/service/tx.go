package service

import (
	"context"

	"shopmate/internal/audit"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// Invalidator drops cached read models after a write.
type Invalidator interface {
	Invalidate(ctx context.Context)
}

type nopInvalidator struct{}

func (nopInvalidator) Invalidate(context.Context) {}

// afterCommit bundles what every write does once its transaction committed.
type afterCommit struct {
	recorder  audit.Recorder
	dashboard Invalidator
}

func newAfterCommit(rec audit.Recorder, inv Invalidator) afterCommit {
	if rec == nil {
		rec = audit.NopRecorder{}
	}
	if inv == nil {
		inv = nopInvalidator{}
	}
	return afterCommit{recorder: rec, dashboard: inv}
}

// changed records ev (when non-nil) and invalidates the dashboard. The write
// is already durable, so a recorder failure is logged and not returned.
func (a afterCommit) changed(ctx context.Context, ev *audit.Event) {
	if ev != nil {
		if err := a.recorder.Record(ctx, *ev); err != nil {
			log.Error().Err(err).
				Str("entity_type", ev.EntityType).
				Str("entity_id", ev.EntityID).
				Str("action", string(ev.Action)).
				Msg("audit: failed to record event")
		}
	}
	a.dashboard.Invalidate(ctx)
}
