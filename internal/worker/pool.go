package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"shopmate/internal/audit"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	QueueAudit = "jobs:audit"
	QueueEmail = "jobs:email"

	JobAudit        = "audit"
	JobInvoiceEmail = "invoice_email"
)

// Job is the generic envelope for all async tasks.
type Job struct {
	Type     string          `json:"type"`
	Payload  json.RawMessage `json:"payload"`
	Attempts int             `json:"attempts,omitempty"`
}

// InvoiceEmailPayload asks the email worker to mail an order's invoice.
type InvoiceEmailPayload struct {
	OrderID string `json:"order_id"`
	To      string `json:"to"`
}

// Dispatcher enqueues async jobs into Redis lists.
// The worker pool dequeues them via BRPOP.
type Dispatcher struct {
	rdb redis.Cmdable
}

func NewDispatcher(rdb redis.Cmdable) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

// Record queues an audit event for persistence.
func (d *Dispatcher) Record(ctx context.Context, ev audit.Event) error {
	return d.enqueue(ctx, QueueAudit, JobAudit, ev)
}

// EnqueueInvoiceEmail queues an invoice email for orderID.
func (d *Dispatcher) EnqueueInvoiceEmail(ctx context.Context, orderID, to string) error {
	return d.enqueue(ctx, QueueEmail, JobInvoiceEmail, InvoiceEmailPayload{OrderID: orderID, To: to})
}

func (d *Dispatcher) enqueue(ctx context.Context, queue, jobType string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return push(ctx, d.rdb, queue, Job{Type: jobType, Payload: data})
}

func push(ctx context.Context, rdb redis.Cmdable, queue string, job Job) error {
	encoded, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return rdb.LPush(ctx, queue, encoded).Err()
}

// Handler processes the payload of one job type.
type Handler interface {
	Process(ctx context.Context, payload json.RawMessage) error
}

// Pool consumes the job queues with a fixed number of goroutines.
type Pool struct {
	rdb      redis.Cmdable
	handlers map[string]Handler
	queues   []string

	popTimeout time.Duration // how long one BRPOP blocks
	backoff    time.Duration // pause after a failed BRPOP
	wg         sync.WaitGroup
}

func NewPool(rdb redis.Cmdable, handlers map[string]Handler) *Pool {
	return &Pool{
		rdb:        rdb,
		handlers:   handlers,
		queues:     []string{QueueAudit, QueueEmail},
		popTimeout: 5 * time.Second,
		backoff:    time.Second,
	}
}

// Start launches numWorkers goroutines consuming both queues.
// Each goroutine blocks on BRPOP, zero CPU when idle. Cancelling ctx stops
// the workers once the job in hand is finished; Wait blocks until then.
func (p *Pool) Start(ctx context.Context, numWorkers int) {
	if numWorkers < 1 {
		numWorkers = 1
	}
	for i := 0; i < numWorkers; i++ {
		p.wg.Add(1)
		go func(id int) {
			defer p.wg.Done()
			p.run(ctx, id)
		}(i)
	}
	log.Info().Int("workers", numWorkers).Msg("worker pool started")
}

// Wait blocks until every worker launched by Start has returned.
func (p *Pool) Wait() {
	p.wg.Wait()
}

func (p *Pool) run(ctx context.Context, id int) {
	// A popped job has left Redis: finish it, or dead-letter it, even after
	// ctx is cancelled.
	work := context.WithoutCancel(ctx)
	for {
		select {
		case <-ctx.Done():
			log.Info().Int("worker", id).Msg("worker shutting down")
			return
		default:
		}

		// Blocking pop, waits up to popTimeout then loops to check ctx
		result, err := p.rdb.BRPop(work, p.popTimeout, p.queues...).Result()
		if err != nil {
			if !errors.Is(err, redis.Nil) {
				log.Warn().Err(err).Int("worker", id).Msg("dequeue failed")
				p.pause(ctx)
			}
			continue
		}
		if len(result) < 2 {
			continue
		}
		p.handle(work, result[0], result[1])
	}
}

// pause sleeps for the backoff or until ctx is cancelled.
func (p *Pool) pause(ctx context.Context) {
	t := time.NewTimer(p.backoff)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

// handle runs one raw job and moves it to the queue's DLQ when it fails.
func (p *Pool) handle(ctx context.Context, queue, raw string) {
	job, err := p.processJob(ctx, raw)
	if err == nil {
		return
	}
	log.Error().Err(err).Str("queue", queue).Str("type", job.Type).Msg("job failed")
	if job.Type == "" {
		// Not even an envelope; keep the raw text for inspection.
		job.Payload, _ = json.Marshal(raw)
	}
	job.Attempts++
	SendToDLQ(ctx, p.rdb, queue, job, err.Error())
}

func (p *Pool) processJob(ctx context.Context, raw string) (Job, error) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		return Job{}, fmt.Errorf("decode job: %w", err)
	}
	h, ok := p.handlers[job.Type]
	if !ok {
		return job, fmt.Errorf("no handler for job type %q", job.Type)
	}
	log.Debug().Str("type", job.Type).Int("attempts", job.Attempts).Msg("processing job")
	return job, h.Process(ctx, job.Payload)
}
