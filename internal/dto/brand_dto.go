package dto

import (
	"time"

	"github.com/google/uuid"
)

// ── Request DTOs ──────────────────────────────────────────────────────────────

type CreateBrandRequest struct {
	Name           string `json:"name"            validate:"required,notblank,max=16"`
	ManufacturerID string `json:"manufacturer_id" validate:"required,uuid"`
	Enabled        *bool  `json:"enabled"`
}

type UpdateBrandRequest struct {
	Name           *string `json:"name"            validate:"omitempty,notblank,max=16"`
	ManufacturerID *string `json:"manufacturer_id" validate:"omitempty,uuid"`
	Enabled        *bool   `json:"enabled"`
}

type BrandFilter struct {
	Name           string `form:"name"`
	Enabled        string `form:"enabled"         validate:"omitempty,oneof=true false"`
	ManufacturerID string `form:"manufacturer_id" validate:"omitempty,uuid"`
	HasProduct     string `form:"has_product"     validate:"omitempty,oneof=true false"`
	Pagination
}

// ── Response DTOs ─────────────────────────────────────────────────────────────

type BrandResponse struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Enabled        bool      `json:"enabled"`
	ManufacturerID uuid.UUID `json:"manufacturer_id"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
