package model

import (
	"time"

	"github.com/google/uuid"
)

// Manufacturer owns a set of brands. Disabling a manufacturer disables every
// brand it owns and every product under those brands.
type Manufacturer struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string    `gorm:"size:32;uniqueIndex;not null"`
	Enabled   bool      `gorm:"not null"`
	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time

	Brands []Brand `gorm:"foreignKey:ManufacturerID"`
}

func (Manufacturer) TableName() string { return "manufacturers" }
