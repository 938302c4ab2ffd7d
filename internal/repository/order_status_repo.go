package repository

import (
	"context"

	"shopmate/internal/dto"
	"shopmate/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrderStatusRepository defines CRUD operations for OrderStatus.
type OrderStatusRepository interface {
	Create(ctx context.Context, s *model.OrderStatus) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.OrderStatus, error)
	FindByName(ctx context.Context, name string) (*model.OrderStatus, error)
	List(ctx context.Context, filter dto.OrderStatusFilter) ([]model.OrderStatus, int64, error)
	Update(ctx context.Context, s *model.OrderStatus) error

	// DeleteTx removes the status together with the orders in it.
	DeleteTx(ctx context.Context, tx *gorm.DB, id uuid.UUID) error

	DB() *gorm.DB
}

type orderStatusRepo struct{ db *gorm.DB }

func NewOrderStatusRepository(db *gorm.DB) OrderStatusRepository {
	return &orderStatusRepo{db: db}
}

func (r *orderStatusRepo) Create(ctx context.Context, s *model.OrderStatus) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *orderStatusRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.OrderStatus, error) {
	var s model.OrderStatus
	if err := r.db.WithContext(ctx).First(&s, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *orderStatusRepo) FindByName(ctx context.Context, name string) (*model.OrderStatus, error) {
	var s model.OrderStatus
	if err := r.db.WithContext(ctx).Where("lower(name) = lower(?)", name).First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *orderStatusRepo) List(ctx context.Context, filter dto.OrderStatusFilter) ([]model.OrderStatus, int64, error) {
	var list []model.OrderStatus
	var total int64

	q := r.db.WithContext(ctx).Model(&model.OrderStatus{})
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

func (r *orderStatusRepo) Update(ctx context.Context, s *model.OrderStatus) error {
	return r.db.WithContext(ctx).Model(s).
		Select("name", "description", "enabled", "updated_at").Updates(s).Error
}

func (r *orderStatusRepo) DeleteTx(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	db := conn(tx, r.db).WithContext(ctx)
	if err := deleteOrdersWhere(db, "status_id = ?", id); err != nil {
		return err
	}
	return db.Where("id = ?", id).Delete(&model.OrderStatus{}).Error
}

func (r *orderStatusRepo) DB() *gorm.DB { return r.db }
