package model

import (
	"time"

	"github.com/google/uuid"
)

// Product is identified by its SKU ("SKU-00000001"), assigned once on first
// save and never rewritten.
type Product struct {
	SKU         string    `gorm:"column:sku;type:varchar(16);primaryKey"`
	Description *string   `gorm:"size:128"`
	Enabled     bool      `gorm:"not null"`
	BrandID     uuid.UUID `gorm:"type:uuid;index;not null"`
	CreatedAt   time.Time `gorm:"index"`
	UpdatedAt   time.Time

	Brand      *Brand             `gorm:"foreignKey:BrandID"`
	Attributes []ProductAttribute `gorm:"many2many:product_attribute_links"`
}

func (Product) TableName() string { return "products" }

// ProductAttribute is a shared key/value pair; no two rows share (key, value).
type ProductAttribute struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Key       string    `gorm:"size:16;not null"`
	Value     *string   `gorm:"size:32"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (ProductAttribute) TableName() string { return "product_attributes" }
