package dto

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type AuditLogFilter struct {
	EntityType string `form:"entity_type" validate:"omitempty,oneof=brand customer manufacturer order product"`
	EntityID   string `form:"entity_id"`
	Action     string `form:"action"      validate:"omitempty,oneof=create update delete"`
	Pagination
}

type AuditLogResponse struct {
	ID         uuid.UUID       `json:"id"`
	EntityType string          `json:"entity_type"`
	EntityID   string          `json:"entity_id"`
	Action     string          `json:"action"`
	Actor      *string         `json:"actor"`
	Before     json.RawMessage `json:"before,omitempty"`
	After      json.RawMessage `json:"after,omitempty"`
	OccurredAt time.Time       `json:"occurred_at"`
}
