package repository

import (
	"context"

	"shopmate/internal/dto"
	"shopmate/internal/model"

	"gorm.io/gorm"
)

// Relations that may be preloaded on an order.
const (
	OrderWithCustomer = "Customer"
	OrderWithStatus   = "Status"
)

// OrderRepository defines data access for orders.
type OrderRepository interface {
	CreateTx(ctx context.Context, tx *gorm.DB, o *model.Order) error
	FindByID(ctx context.Context, orderID string, with ...string) (*model.Order, error)
	List(ctx context.Context, filter dto.OrderFilter, with ...string) ([]model.Order, int64, error)

	// UpdateTx writes the mutable columns only; the order id is never rewritten.
	UpdateTx(ctx context.Context, tx *gorm.DB, o *model.Order) error

	// DeleteTx removes the order and its invoice rows.
	DeleteTx(ctx context.Context, tx *gorm.DB, orderID string) error

	DB() *gorm.DB
}

type orderRepo struct{ db *gorm.DB }

func NewOrderRepository(db *gorm.DB) OrderRepository { return &orderRepo{db: db} }

func (r *orderRepo) CreateTx(ctx context.Context, tx *gorm.DB, o *model.Order) error {
	return conn(tx, r.db).WithContext(ctx).Omit("Customer", "Status", "Invoices").Create(o).Error
}

func (r *orderRepo) FindByID(ctx context.Context, orderID string, with ...string) (*model.Order, error) {
	var o model.Order
	q := r.db.WithContext(ctx)
	for _, rel := range with {
		q = q.Preload(rel)
	}
	if err := q.First(&o, "order_id = ?", orderID).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *orderRepo) List(ctx context.Context, filter dto.OrderFilter, with ...string) ([]model.Order, int64, error) {
	var list []model.Order
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Order{})
	if filter.CustomerID != "" {
		q = q.Where("orders.customer_id = ?", filter.CustomerID)
	}
	if filter.StatusID != "" {
		q = q.Where("orders.status_id = ?", filter.StatusID)
	}
	if filter.StatusName != "" {
		q = q.Where("orders.status_id IN (?)",
			r.db.Model(&model.OrderStatus{}).Select("id").Where("name ILIKE ?", like(filter.StatusName)))
	}
	if filter.BrandName != "" {
		q = q.Where(`EXISTS (SELECT 1 FROM invoices i
			JOIN products p ON p.sku = i.product_sku
			JOIN brands b ON b.id = p.brand_id
			WHERE i.order_id = orders.order_id AND b.name ILIKE ?)`, like(filter.BrandName))
	}
	switch filter.HasProducts {
	case "true":
		q = q.Where("EXISTS (SELECT 1 FROM invoices i WHERE i.order_id = orders.order_id)")
	case "false":
		q = q.Where("NOT EXISTS (SELECT 1 FROM invoices i WHERE i.order_id = orders.order_id)")
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	for _, rel := range with {
		q = q.Preload(rel)
	}
	err := q.Order("orders.created_at DESC, orders.order_id DESC").Limit(filter.Limit).Offset(filter.Offset()).Find(&list).Error
	return list, total, err
}

func (r *orderRepo) UpdateTx(ctx context.Context, tx *gorm.DB, o *model.Order) error {
	return conn(tx, r.db).WithContext(ctx).Model(&model.Order{OrderID: o.OrderID}).
		Select("customer_id", "status_id", "updated_at").Updates(o).Error
}

func (r *orderRepo) DeleteTx(ctx context.Context, tx *gorm.DB, orderID string) error {
	return deleteOrdersWhere(conn(tx, r.db).WithContext(ctx), "order_id = ?", orderID)
}

func (r *orderRepo) DB() *gorm.DB { return r.db }

// deleteOrdersWhere removes the orders matched by query and their invoice rows.
func deleteOrdersWhere(db *gorm.DB, query string, args ...any) error {
	ids := db.Model(&model.Order{}).Select("order_id").Where(query, args...)
	if err := db.Where("order_id IN (?)", ids).Delete(&model.Invoice{}).Error; err != nil {
		return err
	}
	return db.Where(query, args...).Delete(&model.Order{}).Error
}
