package dto

import (
	"time"

	"github.com/google/uuid"
)

// ── Request DTOs ──────────────────────────────────────────────────────────────

type CreateProductRequest struct {
	BrandID      string   `json:"brand_id"      validate:"required,uuid"`
	Description  *string  `json:"description"   validate:"omitempty,max=128"`
	Enabled      *bool    `json:"enabled"`
	AttributeIDs []string `json:"attribute_ids" validate:"omitempty,dive,uuid"`
}

type UpdateProductRequest struct {
	BrandID     *string `json:"brand_id"    validate:"omitempty,uuid"`
	Description *string `json:"description" validate:"omitempty,max=128"`
	Enabled     *bool   `json:"enabled"`
}

type ProductFilter struct {
	BrandID      string `form:"brand_id"      validate:"omitempty,uuid"`
	BrandName    string `form:"brand_name"`
	Enabled      string `form:"enabled"       validate:"omitempty,oneof=true false"`
	Description  string `form:"description"`
	AttributeKey string `form:"attribute_key"`
	HasOrder     string `form:"has_order"     validate:"omitempty,oneof=true false"`
	Pagination
}

// ── Attribute DTOs ────────────────────────────────────────────────────────────

type CreateAttributeRequest struct {
	Key   string  `json:"key"   validate:"required,notblank,max=16"`
	Value *string `json:"value" validate:"omitempty,max=32"`
}

type UpdateAttributeRequest struct {
	Key   *string `json:"key"   validate:"omitempty,notblank,max=16"`
	Value *string `json:"value" validate:"omitempty,max=32"`
}

type AttributeFilter struct {
	Key   string `form:"key"`
	Value string `form:"value"`
	Pagination
}

type AttributeResponse struct {
	ID    uuid.UUID `json:"id"`
	Key   string    `json:"key"`
	Value *string   `json:"value"`
}

// ── Response DTOs ─────────────────────────────────────────────────────────────

type ProductResponse struct {
	SKU         string              `json:"sku"`
	Description *string             `json:"description"`
	Enabled     bool                `json:"enabled"`
	BrandID     uuid.UUID           `json:"brand_id"`
	Attributes  []AttributeResponse `json:"attributes"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}
