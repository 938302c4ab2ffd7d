package repository

import (
	"context"

	"shopmate/internal/dto"
	"shopmate/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BrandRepository defines data access for brands.
type BrandRepository interface {
	CreateTx(ctx context.Context, tx *gorm.DB, b *model.Brand) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Brand, error)
	List(ctx context.Context, filter dto.BrandFilter) ([]model.Brand, int64, error)
	UpdateTx(ctx context.Context, tx *gorm.DB, b *model.Brand) error
	SetEnabledTx(ctx context.Context, tx *gorm.DB, id uuid.UUID, enabled bool) error

	// FindForShareTx reads the brand under FOR SHARE so a concurrent disable
	// waits for the caller's transaction, or the caller waits for it.
	FindForShareTx(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.Brand, error)

	// DisableByManufacturerTx bulk-disables every brand of a manufacturer and
	// returns the number of rows touched.
	DisableByManufacturerTx(ctx context.Context, tx *gorm.DB, manufacturerID uuid.UUID) (int64, error)

	// DeleteTx removes the brand, its products and the invoice and attribute
	// link rows that reference them.
	DeleteTx(ctx context.Context, tx *gorm.DB, id uuid.UUID) error

	DB() *gorm.DB
}

type brandRepo struct{ db *gorm.DB }

func NewBrandRepository(db *gorm.DB) BrandRepository { return &brandRepo{db: db} }

func (r *brandRepo) CreateTx(ctx context.Context, tx *gorm.DB, b *model.Brand) error {
	return conn(tx, r.db).WithContext(ctx).Omit("Manufacturer", "Products").Create(b).Error
}

func (r *brandRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Brand, error) {
	var b model.Brand
	if err := r.db.WithContext(ctx).First(&b, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *brandRepo) List(ctx context.Context, filter dto.BrandFilter) ([]model.Brand, int64, error) {
	var list []model.Brand
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Brand{})
	if filter.Name != "" {
		q = q.Where("brands.name ILIKE ?", like(filter.Name))
	}
	q = applyBool(q, "brands.enabled", filter.Enabled)
	if filter.ManufacturerID != "" {
		q = q.Where("brands.manufacturer_id = ?", filter.ManufacturerID)
	}
	switch filter.HasProduct {
	case "true":
		q = q.Where("EXISTS (SELECT 1 FROM products p WHERE p.brand_id = brands.id)")
	case "false":
		q = q.Where("NOT EXISTS (SELECT 1 FROM products p WHERE p.brand_id = brands.id)")
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("brands.name ASC").Limit(filter.Limit).Offset(filter.Offset()).Find(&list).Error
	return list, total, err
}

func (r *brandRepo) UpdateTx(ctx context.Context, tx *gorm.DB, b *model.Brand) error {
	return conn(tx, r.db).WithContext(ctx).Model(b).
		Select("name", "enabled", "manufacturer_id", "updated_at").Updates(b).Error
}

func (r *brandRepo) SetEnabledTx(ctx context.Context, tx *gorm.DB, id uuid.UUID, enabled bool) error {
	return conn(tx, r.db).WithContext(ctx).Model(&model.Brand{}).
		Where("id = ?", id).Update("enabled", enabled).Error
}

func (r *brandRepo) FindForShareTx(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.Brand, error) {
	var b model.Brand
	err := conn(tx, r.db).WithContext(ctx).
		Clauses(clause.Locking{Strength: "SHARE"}).
		First(&b, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *brandRepo) DisableByManufacturerTx(ctx context.Context, tx *gorm.DB, manufacturerID uuid.UUID) (int64, error) {
	res := conn(tx, r.db).WithContext(ctx).Model(&model.Brand{}).
		Where("manufacturer_id = ?", manufacturerID).Update("enabled", false)
	return res.RowsAffected, res.Error
}

func (r *brandRepo) DeleteTx(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	db := conn(tx, r.db).WithContext(ctx)
	if err := deleteProductsWhere(db, "brand_id = ?", id); err != nil {
		return err
	}
	return db.Where("id = ?", id).Delete(&model.Brand{}).Error
}

func (r *brandRepo) DB() *gorm.DB { return r.db }
