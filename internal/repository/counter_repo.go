package repository

import (
	"context"
	"fmt"

	"shopmate/internal/ident"
	"shopmate/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CounterRepository reserves identifier sequence numbers.
type CounterRepository interface {
	// Next locks the counter row for kind and returns the incremented value.
	// The lock is held until tx commits, so concurrent creators serialize on
	// it and a rolled-back create releases its number.
	Next(ctx context.Context, tx *gorm.DB, kind ident.Kind) (int64, error)
}

type counterRepo struct{ db *gorm.DB }

func NewCounterRepository(db *gorm.DB) CounterRepository { return &counterRepo{db: db} }

func (r *counterRepo) Next(ctx context.Context, tx *gorm.DB, kind ident.Kind) (int64, error) {
	db := conn(tx, r.db).WithContext(ctx)

	if err := db.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&model.IDCounter{Kind: string(kind)}).Error; err != nil {
		return 0, fmt.Errorf("counter %s: init: %w", kind, err)
	}

	var c model.IDCounter
	if err := db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("kind = ?", string(kind)).First(&c).Error; err != nil {
		return 0, fmt.Errorf("counter %s: lock: %w", kind, err)
	}

	c.Value++
	if err := db.Model(&model.IDCounter{}).Where("kind = ?", string(kind)).
		Update("value", c.Value).Error; err != nil {
		return 0, fmt.Errorf("counter %s: advance: %w", kind, err)
	}
	return c.Value, nil
}
