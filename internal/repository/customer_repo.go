package repository

import (
	"context"

	"shopmate/internal/dto"
	"shopmate/internal/model"

	"gorm.io/gorm"
)

// CustomerRepository defines data access for customers.
type CustomerRepository interface {
	CreateTx(ctx context.Context, tx *gorm.DB, c *model.Customer) error
	FindByID(ctx context.Context, customerID string) (*model.Customer, error)
	List(ctx context.Context, filter dto.CustomerFilter) ([]model.Customer, int64, error)

	// UpdateTx writes the mutable columns only; the customer id is never rewritten.
	UpdateTx(ctx context.Context, tx *gorm.DB, c *model.Customer) error

	// DeleteTx removes the customer, its orders and their invoice rows.
	DeleteTx(ctx context.Context, tx *gorm.DB, customerID string) error

	DB() *gorm.DB
}

type customerRepo struct{ db *gorm.DB }

func NewCustomerRepository(db *gorm.DB) CustomerRepository { return &customerRepo{db: db} }

func (r *customerRepo) CreateTx(ctx context.Context, tx *gorm.DB, c *model.Customer) error {
	return conn(tx, r.db).WithContext(ctx).Omit("Orders").Create(c).Error
}

func (r *customerRepo) FindByID(ctx context.Context, customerID string) (*model.Customer, error) {
	var c model.Customer
	if err := r.db.WithContext(ctx).First(&c, "customer_id = ?", customerID).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *customerRepo) List(ctx context.Context, filter dto.CustomerFilter) ([]model.Customer, int64, error) {
	var list []model.Customer
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Customer{})
	if filter.FirstName != "" {
		q = q.Where("first_name ILIKE ?", like(filter.FirstName))
	}
	if filter.LastName != "" {
		q = q.Where("last_name ILIKE ?", like(filter.LastName))
	}
	if filter.Email != "" {
		q = q.Where("email ILIKE ?", like(filter.Email))
	}
	switch filter.HasOrder {
	case "true":
		q = q.Where("EXISTS (SELECT 1 FROM orders o WHERE o.customer_id = customers.customer_id)")
	case "false":
		q = q.Where("NOT EXISTS (SELECT 1 FROM orders o WHERE o.customer_id = customers.customer_id)")
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("created_at DESC, customer_id DESC").Limit(filter.Limit).Offset(filter.Offset()).Find(&list).Error
	return list, total, err
}

func (r *customerRepo) UpdateTx(ctx context.Context, tx *gorm.DB, c *model.Customer) error {
	return conn(tx, r.db).WithContext(ctx).Model(&model.Customer{CustomerID: c.CustomerID}).
		Select("first_name", "last_name", "email", "updated_at").Updates(c).Error
}

func (r *customerRepo) DeleteTx(ctx context.Context, tx *gorm.DB, customerID string) error {
	db := conn(tx, r.db).WithContext(ctx)
	if err := deleteOrdersWhere(db, "customer_id = ?", customerID); err != nil {
		return err
	}
	return db.Where("customer_id = ?", customerID).Delete(&model.Customer{}).Error
}

func (r *customerRepo) DB() *gorm.DB { return r.db }
