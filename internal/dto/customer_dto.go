package dto

import "time"

// ── Request DTOs ──────────────────────────────────────────────────────────────

type CreateCustomerRequest struct {
	FirstName string  `json:"first_name" validate:"required,notblank,max=16"`
	LastName  string  `json:"last_name"  validate:"required,notblank,max=16"`
	Email     *string `json:"email"      validate:"omitempty,email,max=254"`
}

type UpdateCustomerRequest struct {
	FirstName *string `json:"first_name" validate:"omitempty,notblank,max=16"`
	LastName  *string `json:"last_name"  validate:"omitempty,notblank,max=16"`
	Email     *string `json:"email"      validate:"omitempty,email,max=254"`
}

type CustomerFilter struct {
	FirstName string `form:"first_name"`
	LastName  string `form:"last_name"`
	Email     string `form:"email"`
	HasOrder  string `form:"has_order" validate:"omitempty,oneof=true false"`
	Pagination
}

// ── Response DTOs ─────────────────────────────────────────────────────────────

type CustomerResponse struct {
	CustomerID string    `json:"customer_id"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	Email      *string   `json:"email"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
