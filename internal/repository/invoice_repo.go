package repository

import (
	"context"

	"shopmate/internal/dto"
	"shopmate/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// InvoiceRepository defines data access for order line items.
type InvoiceRepository interface {
	CreateBatchTx(ctx context.Context, tx *gorm.DB, items []model.Invoice) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Invoice, error)
	List(ctx context.Context, filter dto.InvoiceFilter) ([]model.Invoice, int64, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// ProductQuantities sums the quantity of every product on an order,
	// ordered by SKU.
	ProductQuantities(ctx context.Context, orderID string) ([]model.ProductQuantity, error)
}

type invoiceRepo struct{ db *gorm.DB }

func NewInvoiceRepository(db *gorm.DB) InvoiceRepository { return &invoiceRepo{db: db} }

func (r *invoiceRepo) CreateBatchTx(ctx context.Context, tx *gorm.DB, items []model.Invoice) error {
	if len(items) == 0 {
		return nil
	}
	return conn(tx, r.db).WithContext(ctx).Omit("Order", "Product").Create(&items).Error
}

func (r *invoiceRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Invoice, error) {
	var inv model.Invoice
	if err := r.db.WithContext(ctx).First(&inv, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *invoiceRepo) List(ctx context.Context, filter dto.InvoiceFilter) ([]model.Invoice, int64, error) {
	var list []model.Invoice
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Invoice{})
	if filter.OrderID != "" {
		q = q.Where("order_id = ?", filter.OrderID)
	}
	if filter.ProductSKU != "" {
		q = q.Where("product_sku = ?", filter.ProductSKU)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("created_at ASC, id ASC").Limit(filter.Limit).Offset(filter.Offset()).Find(&list).Error
	return list, total, err
}

func (r *invoiceRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Invoice{}).Error
}

func (r *invoiceRepo) ProductQuantities(ctx context.Context, orderID string) ([]model.ProductQuantity, error) {
	var rows []struct {
		ProductSKU string
		Quantity   int64
	}
	err := r.db.WithContext(ctx).Model(&model.Invoice{}).
		Select("product_sku, SUM(qty) AS quantity").
		Where("order_id = ?", orderID).
		Group("product_sku").
		Order("product_sku ASC").
		Scan(&rows).Error
	if err != nil || len(rows) == 0 {
		return nil, err
	}

	skus := make([]string, 0, len(rows))
	for _, row := range rows {
		skus = append(skus, row.ProductSKU)
	}
	var products []model.Product
	if err := r.db.WithContext(ctx).Preload("Attributes").
		Where("sku IN ?", skus).Find(&products).Error; err != nil {
		return nil, err
	}
	bySKU := make(map[string]model.Product, len(products))
	for _, p := range products {
		bySKU[p.SKU] = p
	}

	result := make([]model.ProductQuantity, 0, len(rows))
	for _, row := range rows {
		result = append(result, model.ProductQuantity{Product: bySKU[row.ProductSKU], Quantity: row.Quantity})
	}
	return result, nil
}
