package repository

import (
	"context"

	"shopmate/internal/dto"
	"shopmate/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AuditLogRepository persists and queries the audit trail.
type AuditLogRepository interface {
	// Create stores l; a second write of the same event id is a no-op.
	Create(ctx context.Context, l *model.AuditLog) error
	List(ctx context.Context, filter dto.AuditLogFilter) ([]model.AuditLog, int64, error)
}

type auditLogRepo struct{ db *gorm.DB }

func NewAuditLogRepository(db *gorm.DB) AuditLogRepository { return &auditLogRepo{db: db} }

func (r *auditLogRepo) Create(ctx context.Context, l *model.AuditLog) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "event_id"}}, DoNothing: true}).
		Create(l).Error
}

func (r *auditLogRepo) List(ctx context.Context, filter dto.AuditLogFilter) ([]model.AuditLog, int64, error) {
	var list []model.AuditLog
	var total int64

	q := r.db.WithContext(ctx).Model(&model.AuditLog{})
	if filter.EntityType != "" {
		q = q.Where("entity_type = ?", filter.EntityType)
	}
	if filter.EntityID != "" {
		q = q.Where("entity_id = ?", filter.EntityID)
	}
	if filter.Action != "" {
		q = q.Where("action = ?", filter.Action)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("occurred_at DESC, id DESC").Limit(filter.Limit).Offset(filter.Offset()).Find(&list).Error
	return list, total, err
}
