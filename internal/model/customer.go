package model

import "time"

// Customer is identified by its customer id ("CU-00000001").
type Customer struct {
	CustomerID string    `gorm:"column:customer_id;type:varchar(16);primaryKey"`
	FirstName  string    `gorm:"size:16;not null"`
	LastName   string    `gorm:"size:16;not null"`
	Email      *string   `gorm:"size:254"`
	CreatedAt  time.Time `gorm:"index"`
	UpdatedAt  time.Time

	Orders []Order `gorm:"foreignKey:CustomerID;references:CustomerID"`
}

func (Customer) TableName() string { return "customers" }
