package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"shopmate/internal/dto"
	"shopmate/internal/repository"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	dashboardSummaryKey = "dashboard:summary"
	dashboardTrendsKey  = "dashboard:trends"
	trendMonths         = 12
)

// DashboardService serves the store overview: headline counts, order
// breakdowns and twelve-month creation trends. Results are cached in Redis
// until the next write or the TTL, whichever comes first.
type DashboardService interface {
	Summary(ctx context.Context) (dto.DashboardResponse, error)
	Trends(ctx context.Context) (dto.TrendsResponse, error)
	Invalidator
}

type dashboardService struct {
	repo repository.DashboardRepository
	rdb  *redis.Client
	ttl  time.Duration
	now  func() time.Time
}

// NewDashboardService builds the service; a nil rdb disables caching.
func NewDashboardService(repo repository.DashboardRepository, rdb *redis.Client, ttl time.Duration) DashboardService {
	return &dashboardService{repo: repo, rdb: rdb, ttl: ttl, now: time.Now}
}

func (s *dashboardService) Summary(ctx context.Context) (dto.DashboardResponse, error) {
	var resp dto.DashboardResponse
	if s.cached(ctx, dashboardSummaryKey, &resp) {
		return resp, nil
	}

	counts, err := s.repo.Counts(ctx)
	if err != nil {
		return resp, dbErr(err, "dashboard counts")
	}
	byBrand, err := s.repo.OrdersByBrand(ctx)
	if err != nil {
		return resp, dbErr(err, "dashboard orders by brand")
	}
	byStatus, err := s.repo.OrdersByStatus(ctx)
	if err != nil {
		return resp, dbErr(err, "dashboard orders by status")
	}

	resp = dto.DashboardResponse{
		Counts:         counts,
		OrdersByBrand:  nonNil(byBrand),
		OrdersByStatus: nonNil(byStatus),
		GeneratedAt:    s.now().UTC(),
	}
	s.store(ctx, dashboardSummaryKey, resp)
	return resp, nil
}

func (s *dashboardService) Trends(ctx context.Context) (dto.TrendsResponse, error) {
	var resp dto.TrendsResponse
	if s.cached(ctx, dashboardTrendsKey, &resp) {
		return resp, nil
	}

	now := s.now().UTC()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -(trendMonths - 1), 0)

	series := make(map[string][]dto.TrendPoint, 4)
	for _, table := range []string{"brands", "customers", "orders", "products"} {
		points, err := s.trend(ctx, table, start)
		if err != nil {
			return resp, err
		}
		series[table] = points
	}
	resp = dto.TrendsResponse{
		Brands:    series["brands"],
		Customers: series["customers"],
		Orders:    series["orders"],
		Products:  series["products"],
	}
	s.store(ctx, dashboardTrendsKey, resp)
	return resp, nil
}

// trend returns one point per month from start, with the running total
// including everything created before start.
func (s *dashboardService) trend(ctx context.Context, table string, start time.Time) ([]dto.TrendPoint, error) {
	base, err := s.repo.CountBefore(ctx, table, start)
	if err != nil {
		return nil, dbErr(err, "trend "+table)
	}
	rows, err := s.repo.MonthlyCreations(ctx, table, start)
	if err != nil {
		return nil, dbErr(err, "trend "+table)
	}
	byMonth := make(map[string]int64, len(rows))
	for _, r := range rows {
		byMonth[r.Month.UTC().Format("2006-01")] += r.Count
	}

	points := make([]dto.TrendPoint, 0, trendMonths)
	running := base
	for i := 0; i < trendMonths; i++ {
		month := start.AddDate(0, i, 0).Format("2006-01")
		n := byMonth[month]
		running += n
		points = append(points, dto.TrendPoint{Month: month, Count: n, Cumulative: running})
	}
	return points, nil
}

func (s *dashboardService) Invalidate(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, dashboardSummaryKey, dashboardTrendsKey).Err(); err != nil {
		log.Warn().Err(err).Msg("dashboard: cache invalidation failed")
	}
}

func (s *dashboardService) cached(ctx context.Context, key string, dst any) bool {
	if s.rdb == nil {
		return false
	}
	raw, err := s.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Warn().Err(err).Str("key", key).Msg("dashboard: cache read failed")
		}
		return false
	}
	return json.Unmarshal(raw, dst) == nil
}

func (s *dashboardService) store(ctx context.Context, key string, v any) {
	if s.rdb == nil {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := s.rdb.Set(ctx, key, data, s.ttl).Err(); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("dashboard: cache write failed")
	}
}

func nonNil(v []dto.NamedCount) []dto.NamedCount {
	if v == nil {
		return []dto.NamedCount{}
	}
	return v
}
