package worker

// retry_cron.go
// Scheduled job that drains each dead letter queue once per tick and puts
// entries with attempts left back on their original queue. Exhausted
// entries go back to the DLQ for manual inspection.

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// RetryConfig holds the dependencies of the DLQ retry job.
type RetryConfig struct {
	RDB         redis.Cmdable
	Interval    time.Duration
	MaxAttempts int
	Queues      []string
}

// StartRetryScheduler registers the DLQ retry job on a new gocron scheduler
// and starts it. The caller shuts the scheduler down.
func StartRetryScheduler(ctx context.Context, cfg RetryConfig) (gocron.Scheduler, error) {
	if len(cfg.Queues) == 0 {
		cfg.Queues = []string{QueueAudit, QueueEmail}
	}
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}
	_, err = scheduler.NewJob(
		gocron.DurationJob(cfg.Interval),
		gocron.NewTask(func() {
			for _, q := range cfg.Queues {
				requeued, parked, err := RetryDLQ(ctx, cfg.RDB, q, cfg.MaxAttempts)
				if err != nil {
					log.Error().Err(err).Str("queue", q).Msg("retry_cron: failed to drain DLQ")
					continue
				}
				if requeued > 0 || parked > 0 {
					log.Info().
						Str("queue", q).
						Int("requeued", requeued).
						Int("exhausted", parked).
						Msg("retry_cron: DLQ processed")
				}
			}
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = scheduler.Shutdown()
		return nil, err
	}
	scheduler.Start()
	log.Info().Dur("interval", cfg.Interval).Int("max_attempts", cfg.MaxAttempts).Msg("retry_cron: started")
	return scheduler, nil
}

// RetryDLQ looks at every entry currently in queue's DLQ exactly once.
// Entries below maxAttempts are re-enqueued on queue; the rest are pushed
// back onto the DLQ.
func RetryDLQ(ctx context.Context, rdb redis.Cmdable, queue string, maxAttempts int) (requeued, exhausted int, err error) {
	dlqKey := DLQPrefix + queue
	n, err := rdb.LLen(ctx, dlqKey).Result()
	if err != nil {
		return 0, 0, err
	}

	for i := int64(0); i < n; i++ {
		raw, err := rdb.RPop(ctx, dlqKey).Result()
		if errors.Is(err, redis.Nil) {
			break
		}
		if err != nil {
			return requeued, exhausted, err
		}

		var entry DLQEntry
		if err := json.Unmarshal([]byte(raw), &entry); err != nil {
			log.Error().Err(err).Str("dlq_key", dlqKey).Msg("retry_cron: dropping unreadable DLQ entry")
			continue
		}

		if entry.Attempts >= maxAttempts {
			if err := rdb.LPush(ctx, dlqKey, raw).Err(); err != nil {
				return requeued, exhausted, err
			}
			exhausted++
			continue
		}
		if err := push(ctx, rdb, queue, entry.Job()); err != nil {
			// Put it back so the next tick can try again.
			_ = rdb.LPush(ctx, dlqKey, raw).Err()
			return requeued, exhausted, err
		}
		requeued++
	}
	return requeued, exhausted, nil
}
