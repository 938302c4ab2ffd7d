package model

import (
	"time"

	"github.com/google/uuid"
)

// OrderStatus is shared by many orders (weak reference, no ownership).
type OrderStatus struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name        string    `gorm:"size:16;uniqueIndex;not null"`
	Description *string   `gorm:"size:128"`
	Enabled     bool      `gorm:"not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (OrderStatus) TableName() string { return "order_statuses" }

// Order is identified by its order id ("OR-00000001"). Its products are the
// invoice rows that reference it.
type Order struct {
	OrderID    string    `gorm:"column:order_id;type:varchar(16);primaryKey"`
	CustomerID string    `gorm:"type:varchar(16);index;not null"`
	StatusID   uuid.UUID `gorm:"type:uuid;index;not null"`
	CreatedAt  time.Time `gorm:"index"`
	UpdatedAt  time.Time

	Customer *Customer    `gorm:"foreignKey:CustomerID;references:CustomerID"`
	Status   *OrderStatus `gorm:"foreignKey:StatusID"`
	Invoices []Invoice    `gorm:"foreignKey:OrderID;references:OrderID"`
}

func (Order) TableName() string { return "orders" }

// Invoice is a line item: one order, one product, a quantity (default 1).
type Invoice struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrderID    string    `gorm:"type:varchar(16);index;not null"`
	ProductSKU string    `gorm:"column:product_sku;type:varchar(16);index;not null"`
	Qty        int       `gorm:"not null;default:1"`
	CreatedAt  time.Time
	UpdatedAt  time.Time

	Order   *Order   `gorm:"foreignKey:OrderID;references:OrderID"`
	Product *Product `gorm:"foreignKey:ProductSKU;references:SKU"`
}

func (Invoice) TableName() string { return "invoices" }

// ProductQuantity is one row of an order's aggregate view.
type ProductQuantity struct {
	Product  Product
	Quantity int64
}
