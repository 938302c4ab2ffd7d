package repository

import (
	"context"

	"shopmate/internal/dto"
	"shopmate/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AttributeRepository defines CRUD operations for ProductAttribute.
type AttributeRepository interface {
	Create(ctx context.Context, a *model.ProductAttribute) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.ProductAttribute, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.ProductAttribute, error)
	List(ctx context.Context, filter dto.AttributeFilter) ([]model.ProductAttribute, int64, error)
	Update(ctx context.Context, a *model.ProductAttribute) error

	// Delete removes the attribute and its product links; products are kept.
	Delete(ctx context.Context, id uuid.UUID) error
}

type attributeRepo struct{ db *gorm.DB }

func NewAttributeRepository(db *gorm.DB) AttributeRepository { return &attributeRepo{db: db} }

func (r *attributeRepo) Create(ctx context.Context, a *model.ProductAttribute) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *attributeRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.ProductAttribute, error) {
	var a model.ProductAttribute
	if err := r.db.WithContext(ctx).First(&a, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *attributeRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.ProductAttribute, error) {
	var list []model.ProductAttribute
	if len(ids) == 0 {
		return list, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&list).Error
	return list, err
}

func (r *attributeRepo) List(ctx context.Context, filter dto.AttributeFilter) ([]model.ProductAttribute, int64, error) {
	var list []model.ProductAttribute
	var total int64

	q := r.db.WithContext(ctx).Model(&model.ProductAttribute{})
	if filter.Key != "" {
		q = q.Where("key ILIKE ?", like(filter.Key))
	}
	if filter.Value != "" {
		q = q.Where("value ILIKE ?", like(filter.Value))
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("key ASC, value ASC").Limit(filter.Limit).Offset(filter.Offset()).Find(&list).Error
	return list, total, err
}

func (r *attributeRepo) Update(ctx context.Context, a *model.ProductAttribute) error {
	return r.db.WithContext(ctx).Model(a).Select("key", "value", "updated_at").Updates(a).Error
}

func (r *attributeRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM product_attribute_links WHERE product_attribute_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&model.ProductAttribute{}).Error
	})
}
