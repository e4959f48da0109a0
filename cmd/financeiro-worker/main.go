package main

import (
	"context"
	"errors"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"financeiro/internal/amqp"
	"financeiro/internal/cli"
	applog "financeiro/internal/log"
	"financeiro/internal/services"
	"financeiro/internal/worker"
)

const statsInterval = 5 * time.Minute

var errConsumerStopped = errors.New("resync consumer stopped")

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(applog.ComponentWorker)
	cfg := cli.LoadAndValidateConfig(logger)

	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the worker")
		os.Exit(1)
	}

	ctx, stop := cli.SignalContext(logger)
	defer stop()

	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	mirror := cli.InitMirror(ctx, logger, cfg)
	if mirror.Mirror == nil {
		logger.Error("Worker needs a spreadsheet mirror, MIRROR_BACKEND is none")
		os.Exit(1)
	}

	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", applog.FieldError, err)
		os.Exit(1)
	}
	defer client.Close()

	resync := worker.NewResyncWorker(services.NewResync(repo, mirror.Mirror), 2*time.Minute)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := client.ConsumeResyncMonth(gctx, resync.HandleResyncMessage); err != nil {
			return err
		}
		return errConsumerStopped
	})
	g.Go(func() error {
		ticker := time.NewTicker(statsInterval)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				processed, failed := resync.Stats()
				logger.Info("Worker stats", "processed", processed, "failed", failed)
			}
		}
	})

	logger.Info("Starting financeiro-worker",
		applog.FieldOperation, applog.OpStartup,
		"queue", cfg.AMQPQueue,
		"mirror", mirror.Type.String())
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker stopped with error", applog.FieldError, err)
		os.Exit(1)
	}
	processed, failed := resync.Stats()
	logger.Info("Worker stopped gracefully", "processed", processed, "failed", failed)
}
