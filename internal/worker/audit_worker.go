package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"shopmate/internal/audit"
	"shopmate/internal/repository"

	"github.com/rs/zerolog/log"
)

// AuditWorker persists audit events taken from QueueAudit.
type AuditWorker struct {
	repo repository.AuditLogRepository
}

func NewAuditWorker(repo repository.AuditLogRepository) *AuditWorker {
	return &AuditWorker{repo: repo}
}

// Process stores one event. Replays of the same event id are absorbed by
// the repository, so a retried job never writes a second row.
func (w *AuditWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var ev audit.Event
	if err := json.Unmarshal(raw, &ev); err != nil {
		return fmt.Errorf("audit_worker: invalid payload: %w", err)
	}
	if ev.EntityType == "" || ev.EntityID == "" {
		return fmt.Errorf("audit_worker: event %s has no entity", ev.ID)
	}

	l := ev.ToLog()
	if err := w.repo.Create(ctx, &l); err != nil {
		return fmt.Errorf("audit_worker: persist event %s: %w", ev.ID, err)
	}
	log.Debug().
		Str("entity_type", ev.EntityType).
		Str("entity_id", ev.EntityID).
		Str("action", string(ev.Action)).
		Msg("audit_worker: event stored")
	return nil
}
