package model

import (
	"time"

	"github.com/google/uuid"
)

type AuditAction string

const (
	AuditActionCreate AuditAction = "create"
	AuditActionUpdate AuditAction = "update"
	AuditActionDelete AuditAction = "delete"
)

// AuditLog stores the before/after state of a tracked entity mutation.
// EventID is unique so a re-delivered event is stored once.
type AuditLog struct {
	ID         uuid.UUID   `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EventID    uuid.UUID   `gorm:"type:uuid;uniqueIndex;not null"`
	EntityType string      `gorm:"size:32;index;not null"`
	EntityID   string      `gorm:"size:64;index;not null"`
	Action     AuditAction `gorm:"size:16;not null"`
	Actor      *string     `gorm:"size:150"`
	BeforeData *string     `gorm:"type:jsonb"`
	AfterData  *string     `gorm:"type:jsonb"`
	OccurredAt time.Time   `gorm:"index;not null"`
	CreatedAt  time.Time
}

func (AuditLog) TableName() string { return "audit_logs" }
