package model

import (
	"time"

	"github.com/google/uuid"
)

// Brand is exclusively owned by its Manufacturer and owns a set of products.
// Enabled=false implies every owned product is disabled as well.
type Brand struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name           string    `gorm:"size:16;uniqueIndex;not null"`
	Enabled        bool      `gorm:"not null"`
	ManufacturerID uuid.UUID `gorm:"type:uuid;index;not null"`
	CreatedAt      time.Time `gorm:"index"`
	UpdatedAt      time.Time

	Manufacturer *Manufacturer `gorm:"foreignKey:ManufacturerID"`
	Products     []Product     `gorm:"foreignKey:BrandID"`
}

func (Brand) TableName() string { return "brands" }
