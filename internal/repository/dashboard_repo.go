package repository

import (
	"context"
	"fmt"
	"time"

	"shopmate/internal/dto"
	"shopmate/internal/model"

	"gorm.io/gorm"
)

// MonthCount is the number of rows created in one calendar month.
type MonthCount struct {
	Month time.Time
	Count int64
}

// Tables whose creation trend the dashboard reports.
var trendTables = map[string]bool{
	"brands":    true,
	"customers": true,
	"orders":    true,
	"products":  true,
}

// DashboardRepository runs the read-only aggregate queries behind the dashboard.
type DashboardRepository interface {
	Counts(ctx context.Context) (dto.DashboardCounts, error)
	OrdersByBrand(ctx context.Context) ([]dto.NamedCount, error)
	OrdersByStatus(ctx context.Context) ([]dto.NamedCount, error)

	// CountBefore returns how many rows of table were created before t.
	CountBefore(ctx context.Context, table string, t time.Time) (int64, error)

	// MonthlyCreations groups the rows of table created since t by month.
	MonthlyCreations(ctx context.Context, table string, since time.Time) ([]MonthCount, error)
}

type dashboardRepo struct{ db *gorm.DB }

func NewDashboardRepository(db *gorm.DB) DashboardRepository { return &dashboardRepo{db: db} }

func (r *dashboardRepo) Counts(ctx context.Context) (dto.DashboardCounts, error) {
	var c dto.DashboardCounts
	db := r.db.WithContext(ctx)
	if err := db.Model(&model.Brand{}).Where("enabled = ?", true).Count(&c.Brands).Error; err != nil {
		return c, err
	}
	if err := db.Model(&model.Customer{}).Count(&c.Customers).Error; err != nil {
		return c, err
	}
	if err := db.Model(&model.Product{}).Where("enabled = ?", true).Count(&c.Products).Error; err != nil {
		return c, err
	}
	if err := db.Model(&model.Order{}).Count(&c.Orders).Error; err != nil {
		return c, err
	}
	return c, nil
}

func (r *dashboardRepo) OrdersByBrand(ctx context.Context) ([]dto.NamedCount, error) {
	var rows []dto.NamedCount
	err := r.db.WithContext(ctx).Raw(`
		SELECT b.name AS name, COUNT(DISTINCT i.order_id) AS count
		FROM brands b
		LEFT JOIN products p ON p.brand_id = b.id
		LEFT JOIN invoices i ON i.product_sku = p.sku
		GROUP BY b.name
		ORDER BY count DESC, b.name ASC`).Scan(&rows).Error
	return rows, err
}

func (r *dashboardRepo) OrdersByStatus(ctx context.Context) ([]dto.NamedCount, error) {
	var rows []dto.NamedCount
	err := r.db.WithContext(ctx).Raw(`
		SELECT s.name AS name, COUNT(o.order_id) AS count
		FROM order_statuses s
		LEFT JOIN orders o ON o.status_id = s.id
		GROUP BY s.name
		ORDER BY count DESC, s.name ASC`).Scan(&rows).Error
	return rows, err
}

func (r *dashboardRepo) CountBefore(ctx context.Context, table string, t time.Time) (int64, error) {
	if !trendTables[table] {
		return 0, fmt.Errorf("dashboard: unknown table %q", table)
	}
	var n int64
	err := r.db.WithContext(ctx).Table(table).Where("created_at < ?", t).Count(&n).Error
	return n, err
}

func (r *dashboardRepo) MonthlyCreations(ctx context.Context, table string, since time.Time) ([]MonthCount, error) {
	if !trendTables[table] {
		return nil, fmt.Errorf("dashboard: unknown table %q", table)
	}
	var rows []MonthCount
	err := r.db.WithContext(ctx).Table(table).
		Select("date_trunc('month', created_at) AS month, COUNT(*) AS count").
		Where("created_at >= ?", since).
		Group("1").
		Order("1").
		Scan(&rows).Error
	return rows, err
}
