package repository

import (
	"context"

	"shopmate/internal/dto"
	"shopmate/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ManufacturerRepository defines data access for manufacturers. Write methods
// run on the caller's transaction.
type ManufacturerRepository interface {
	CreateTx(ctx context.Context, tx *gorm.DB, m *model.Manufacturer) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Manufacturer, error)
	List(ctx context.Context, filter dto.ManufacturerFilter) ([]model.Manufacturer, int64, error)
	UpdateTx(ctx context.Context, tx *gorm.DB, m *model.Manufacturer) error
	SetEnabledTx(ctx context.Context, tx *gorm.DB, id uuid.UUID, enabled bool) error
	FindForShareTx(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.Manufacturer, error)

	// DeleteTx removes the manufacturer together with its brands, their
	// products and everything that references those products.
	DeleteTx(ctx context.Context, tx *gorm.DB, id uuid.UUID) error

	DB() *gorm.DB
}

type manufacturerRepo struct{ db *gorm.DB }

func NewManufacturerRepository(db *gorm.DB) ManufacturerRepository {
	return &manufacturerRepo{db: db}
}

func (r *manufacturerRepo) CreateTx(ctx context.Context, tx *gorm.DB, m *model.Manufacturer) error {
	return conn(tx, r.db).WithContext(ctx).Create(m).Error
}

func (r *manufacturerRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Manufacturer, error) {
	var m model.Manufacturer
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *manufacturerRepo) List(ctx context.Context, filter dto.ManufacturerFilter) ([]model.Manufacturer, int64, error) {
	var list []model.Manufacturer
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Manufacturer{})
	if filter.Name != "" {
		q = q.Where("name ILIKE ?", like(filter.Name))
	}
	q = applyBool(q, "enabled", filter.Enabled)

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("name ASC").Limit(filter.Limit).Offset(filter.Offset()).Find(&list).Error
	return list, total, err
}

func (r *manufacturerRepo) UpdateTx(ctx context.Context, tx *gorm.DB, m *model.Manufacturer) error {
	return conn(tx, r.db).WithContext(ctx).Model(m).
		Select("name", "enabled", "updated_at").Updates(m).Error
}

func (r *manufacturerRepo) SetEnabledTx(ctx context.Context, tx *gorm.DB, id uuid.UUID, enabled bool) error {
	return conn(tx, r.db).WithContext(ctx).Model(&model.Manufacturer{}).
		Where("id = ?", id).Update("enabled", enabled).Error
}

func (r *manufacturerRepo) DeleteTx(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	db := conn(tx, r.db).WithContext(ctx)
	brands := db.Model(&model.Brand{}).Select("id").Where("manufacturer_id = ?", id)
	if err := deleteProductsWhere(db, "brand_id IN (?)", brands); err != nil {
		return err
	}
	if err := db.Where("manufacturer_id = ?", id).Delete(&model.Brand{}).Error; err != nil {
		return err
	}
	return db.Where("id = ?", id).Delete(&model.Manufacturer{}).Error
}

func (r *manufacturerRepo) DB() *gorm.DB { return r.db }

func (r *manufacturerRepo) FindForShareTx(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.Manufacturer, error) {
	var m model.Manufacturer
	err := conn(tx, r.db).WithContext(ctx).
		Clauses(clause.Locking{Strength: "SHARE"}).
		First(&m, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}
