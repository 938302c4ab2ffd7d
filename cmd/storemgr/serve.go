package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"shopmate/internal/infra"
	"shopmate/internal/repository"
	"shopmate/internal/router"
	"shopmate/internal/worker"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API with the background worker pool",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connect to postgres: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("postgres handle: %w", err)
	}
	defer sqlDB.Close()
	if err := infra.RunMigrations(db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("connect to redis: %w", err)
	}
	defer rdb.Close()

	// Worker handlers are wired here so the pool reaches every infrastructure
	// dependency without the services knowing about them.
	mailer := infra.NewMailer(cfg)
	smtpCB := infra.NewCircuitBreaker(infra.DefaultCBConfig("smtp"))
	pool := worker.NewPool(rdb, map[string]worker.Handler{
		worker.JobAudit: worker.NewAuditWorker(repository.NewAuditLogRepository(db)),
		worker.JobInvoiceEmail: worker.NewEmailWorker(
			repository.NewOrderRepository(db),
			repository.NewInvoiceRepository(db),
			mailer, smtpCB, cfg.PDFStoragePath,
		),
	})
	// Deferred after rdb.Close, so the workers drain before Redis and
	// Postgres go away.
	poolCtx, stopPool := context.WithCancel(ctx)
	pool.Start(poolCtx, cfg.WorkerPoolSize)
	defer func() {
		stopPool()
		pool.Wait()
		log.Info().Msg("worker pool stopped")
	}()

	scheduler, err := worker.StartRetryScheduler(ctx, worker.RetryConfig{
		RDB:         rdb,
		Interval:    cfg.AuditRetryInterval,
		MaxAttempts: cfg.AuditMaxAttempts,
	})
	if err != nil {
		return fmt.Errorf("start retry scheduler: %w", err)
	}
	defer func() {
		if err := scheduler.Shutdown(); err != nil {
			log.Error().Err(err).Msg("retry scheduler shutdown")
		}
	}()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router.New(cfg, router.NewServices(cfg, db, rdb), db, rdb),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Int("port", cfg.Port).Str("env", cfg.Env).Msg("storemgr listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	log.Info().Msg("server exited")
	return nil
}
