package repository

import (
	"context"

	"shopmate/internal/dto"
	"shopmate/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProductRepository defines data access for products and their attribute links.
type ProductRepository interface {
	CreateTx(ctx context.Context, tx *gorm.DB, p *model.Product) error
	FindBySKU(ctx context.Context, sku string) (*model.Product, error)
	List(ctx context.Context, filter dto.ProductFilter) ([]model.Product, int64, error)

	// UpdateTx writes the mutable columns only; the SKU is never rewritten.
	UpdateTx(ctx context.Context, tx *gorm.DB, p *model.Product) error

	// Bulk disables used by the brand/manufacturer cascade. They bypass
	// per-product hooks and audit and return the number of rows touched.
	DisableByBrandTx(ctx context.Context, tx *gorm.DB, brandID uuid.UUID) (int64, error)
	DisableByManufacturerTx(ctx context.Context, tx *gorm.DB, manufacturerID uuid.UUID) (int64, error)

	AddAttribute(ctx context.Context, sku string, attributeID uuid.UUID) error
	RemoveAttribute(ctx context.Context, sku string, attributeID uuid.UUID) error

	// DeleteTx removes the product, its attribute links and its invoice rows.
	DeleteTx(ctx context.Context, tx *gorm.DB, sku string) error

	DB() *gorm.DB
}

type productRepo struct{ db *gorm.DB }

func NewProductRepository(db *gorm.DB) ProductRepository { return &productRepo{db: db} }

func (r *productRepo) CreateTx(ctx context.Context, tx *gorm.DB, p *model.Product) error {
	// Attribute rows already exist; only the link rows are inserted.
	return conn(tx, r.db).WithContext(ctx).Omit("Brand", "Attributes.*").Create(p).Error
}

func (r *productRepo) FindBySKU(ctx context.Context, sku string) (*model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).
		Preload("Attributes", func(db *gorm.DB) *gorm.DB { return db.Order("key ASC, value ASC") }).
		First(&p, "sku = ?", sku).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productRepo) List(ctx context.Context, filter dto.ProductFilter) ([]model.Product, int64, error) {
	var list []model.Product
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Product{})
	if filter.BrandID != "" {
		q = q.Where("products.brand_id = ?", filter.BrandID)
	}
	if filter.BrandName != "" {
		q = q.Where("products.brand_id IN (?)",
			r.db.Model(&model.Brand{}).Select("id").Where("name ILIKE ?", like(filter.BrandName)))
	}
	q = applyBool(q, "products.enabled", filter.Enabled)
	if filter.Description != "" {
		q = q.Where("products.description ILIKE ?", like(filter.Description))
	}
	if filter.AttributeKey != "" {
		q = q.Where(`EXISTS (SELECT 1 FROM product_attribute_links l
			JOIN product_attributes a ON a.id = l.product_attribute_id
			WHERE l.product_sku = products.sku AND a.key = ?)`, filter.AttributeKey)
	}
	switch filter.HasOrder {
	case "true":
		q = q.Where("EXISTS (SELECT 1 FROM invoices i WHERE i.product_sku = products.sku)")
	case "false":
		q = q.Where("NOT EXISTS (SELECT 1 FROM invoices i WHERE i.product_sku = products.sku)")
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Preload("Attributes").Order("products.created_at DESC, products.sku DESC").
		Limit(filter.Limit).Offset(filter.Offset()).Find(&list).Error
	return list, total, err
}

func (r *productRepo) UpdateTx(ctx context.Context, tx *gorm.DB, p *model.Product) error {
	return conn(tx, r.db).WithContext(ctx).Model(&model.Product{SKU: p.SKU}).
		Select("description", "enabled", "brand_id", "updated_at").Updates(p).Error
}

func (r *productRepo) DisableByBrandTx(ctx context.Context, tx *gorm.DB, brandID uuid.UUID) (int64, error) {
	res := conn(tx, r.db).WithContext(ctx).Model(&model.Product{}).
		Where("brand_id = ?", brandID).Update("enabled", false)
	return res.RowsAffected, res.Error
}

func (r *productRepo) DisableByManufacturerTx(ctx context.Context, tx *gorm.DB, manufacturerID uuid.UUID) (int64, error) {
	db := conn(tx, r.db).WithContext(ctx)
	brands := db.Model(&model.Brand{}).Select("id").Where("manufacturer_id = ?", manufacturerID)
	res := db.Model(&model.Product{}).Where("brand_id IN (?)", brands).Update("enabled", false)
	return res.RowsAffected, res.Error
}

func (r *productRepo) AddAttribute(ctx context.Context, sku string, attributeID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Exec(`INSERT INTO product_attribute_links (product_sku, product_attribute_id)
			VALUES (?, ?) ON CONFLICT DO NOTHING`, sku, attributeID).Error
}

func (r *productRepo) RemoveAttribute(ctx context.Context, sku string, attributeID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Exec("DELETE FROM product_attribute_links WHERE product_sku = ? AND product_attribute_id = ?",
			sku, attributeID).Error
}

func (r *productRepo) DeleteTx(ctx context.Context, tx *gorm.DB, sku string) error {
	return deleteProductsWhere(conn(tx, r.db).WithContext(ctx), "sku = ?", sku)
}

func (r *productRepo) DB() *gorm.DB { return r.db }

// deleteProductsWhere removes the products matched by query along with the
// invoice rows and attribute links that reference them, in dependency order.
func deleteProductsWhere(db *gorm.DB, query string, args ...any) error {
	skus := db.Model(&model.Product{}).Select("sku").Where(query, args...)
	if err := db.Where("product_sku IN (?)", skus).Delete(&model.Invoice{}).Error; err != nil {
		return err
	}
	if err := db.Exec("DELETE FROM product_attribute_links WHERE product_sku IN (?)", skus).Error; err != nil {
		return err
	}
	return db.Where(query, args...).Delete(&model.Product{}).Error
}
