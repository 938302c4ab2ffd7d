package dto

import (
	"time"

	"github.com/google/uuid"
)

// ── Order status ──────────────────────────────────────────────────────────────

type CreateOrderStatusRequest struct {
	Name        string  `json:"name"        validate:"required,notblank,max=16"`
	Description *string `json:"description" validate:"omitempty,max=128"`
	Enabled     *bool   `json:"enabled"`
}

type UpdateOrderStatusRequest struct {
	Name        *string `json:"name"        validate:"omitempty,notblank,max=16"`
	Description *string `json:"description" validate:"omitempty,max=128"`
	Enabled     *bool   `json:"enabled"`
}

type OrderStatusFilter struct {
	Name    string `form:"name"`
	Enabled string `form:"enabled" validate:"omitempty,oneof=true false"`
	Pagination
}

type OrderStatusResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	Enabled     bool      `json:"enabled"`
}

// ── Orders ────────────────────────────────────────────────────────────────────

type OrderItemRequest struct {
	SKU string `json:"sku" validate:"required"`
	Qty int    `json:"qty" validate:"omitempty,min=1"`
}

type CreateOrderRequest struct {
	CustomerID string             `json:"customer_id" validate:"required"`
	StatusID   string             `json:"status_id"   validate:"required,uuid"`
	Items      []OrderItemRequest `json:"items"       validate:"omitempty,dive"`
}

type UpdateOrderRequest struct {
	CustomerID *string `json:"customer_id"`
	StatusID   *string `json:"status_id" validate:"omitempty,uuid"`
}

type AddOrderItemsRequest struct {
	Items []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
}

type OrderFilter struct {
	CustomerID  string `form:"customer_id"`
	StatusID    string `form:"status_id"    validate:"omitempty,uuid"`
	StatusName  string `form:"status_name"`
	BrandName   string `form:"brand_name"`
	HasProducts string `form:"has_products" validate:"omitempty,oneof=true false"`
	Expand      string `form:"expand"`
	Pagination
}

type OrderResponse struct {
	OrderID    string               `json:"order_id"`
	CustomerID string               `json:"customer_id"`
	StatusID   uuid.UUID            `json:"status_id"`
	Customer   *CustomerResponse    `json:"customer,omitempty"`
	Status     *OrderStatusResponse `json:"status,omitempty"`
	CreatedAt  time.Time            `json:"created_at"`
	UpdatedAt  time.Time            `json:"updated_at"`
}

// OrderProductLine is one entry of an order's aggregate view.
type OrderProductLine struct {
	Product  ProductResponse `json:"product"`
	Quantity int64           `json:"quantity"`
}

type OrderProductsResponse struct {
	OrderID  string             `json:"order_id"`
	Products []OrderProductLine `json:"products"`
}

// ── Invoices ──────────────────────────────────────────────────────────────────

type InvoiceFilter struct {
	OrderID    string `form:"order_id"`
	ProductSKU string `form:"product_sku"`
	Pagination
}

type InvoiceResponse struct {
	ID         uuid.UUID `json:"id"`
	OrderID    string    `json:"order_id"`
	ProductSKU string    `json:"product_sku"`
	Qty        int       `json:"qty"`
	CreatedAt  time.Time `json:"created_at"`
}
