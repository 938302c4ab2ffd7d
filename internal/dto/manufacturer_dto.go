package dto

import (
	"time"

	"github.com/google/uuid"
)

// ── Request DTOs ──────────────────────────────────────────────────────────────

type CreateManufacturerRequest struct {
	Name    string `json:"name"    validate:"required,notblank,max=32"`
	Enabled *bool  `json:"enabled"`
}

type UpdateManufacturerRequest struct {
	Name    *string `json:"name"    validate:"omitempty,notblank,max=32"`
	Enabled *bool   `json:"enabled"`
}

type ManufacturerFilter struct {
	Name    string `form:"name"`
	Enabled string `form:"enabled" validate:"omitempty,oneof=true false"`
	Pagination
}

// ── Response DTOs ─────────────────────────────────────────────────────────────

type ManufacturerResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Enabled   bool      `json:"enabled"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
