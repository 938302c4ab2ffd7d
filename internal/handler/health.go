package handler

import (
	"context"
	"net/http"
	"time"

	"shopmate/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const (
	statusUp   = "up"
	statusDown = "down"
)

type HealthResponse struct {
	OK          bool             `json:"ok"`
	DB          string           `json:"db"`
	Redis       string           `json:"redis"`
	DeadLetters map[string]int64 `json:"dead_letters,omitempty"`
}

// Health reports database and Redis reachability plus the size of each dead
// letter queue. It answers 503 when either store is down.
func Health(db *gorm.DB, rdb redis.Cmdable) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		resp := HealthResponse{DB: statusUp, Redis: statusUp}
		if sqlDB, err := db.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
			resp.DB = statusDown
		}
		if rdb.Ping(ctx).Err() != nil {
			resp.Redis = statusDown
		} else {
			resp.DeadLetters = make(map[string]int64, 2)
			for _, q := range []string{worker.QueueAudit, worker.QueueEmail} {
				if n, err := worker.DLQLength(ctx, rdb, q); err == nil {
					resp.DeadLetters[q] = n
				}
			}
		}

		resp.OK = resp.DB == statusUp && resp.Redis == statusUp
		status := http.StatusOK
		if !resp.OK {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, resp)
	}
}
