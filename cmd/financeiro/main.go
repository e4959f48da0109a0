package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"financeiro/internal/amqp"
	"financeiro/internal/cache"
	"financeiro/internal/cli"
	apphttp "financeiro/internal/http"
	applog "financeiro/internal/log"
	"financeiro/internal/services"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(applog.ComponentApp)
	cfg := cli.LoadAndValidateConfig(logger)

	ctx, stop := cli.SignalContext(logger)
	defer stop()

	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	mirror := cli.InitMirror(ctx, logger, cfg)

	view := services.NewMirrorView(mirror.Mirror)
	writer := services.NewMirrorWriter(mirror.Mirror, mirror.Timeout)
	writer.OnWrite(view.Invalidate)
	resync := services.NewResync(repo, mirror.Mirror)
	resync.OnWrite(view.Invalidate)

	txs := services.NewTransactionService(repo, repo, writer)
	txs.SetPageSize(cfg.PageSize)

	janitor := cache.NewJanitor()
	janitor.Register(view.Cache())
	janitor.Start(10 * time.Minute)
	defer janitor.Stop()

	deps := apphttp.Deps{
		Transactions:       txs,
		Cards:              services.NewCardService(repo, repo),
		Reports:            services.NewReports(repo),
		View:               view,
		Resync:             resync,
		Store:              repo,
		MirrorType:         mirror.Type.String(),
		RateLimitPerMinute: cfg.RateLimitPerMinute,
	}

	// Resync requests go to the worker when AMQP is configured
	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", applog.FieldError, err)
			os.Exit(1)
		}
		defer client.Close()
		deps.Publisher = client
		logger.Info("AMQP publisher ready", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	} else {
		logger.Info("AMQP disabled, resync runs inline")
	}

	srv := apphttp.NewServer(":"+cfg.Port, logger, deps)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", applog.FieldError, err)
		}
	}()

	logger.Info("Starting financeiro server",
		applog.FieldOperation, applog.OpStartup,
		"port", cfg.Port,
		"mirror", mirror.Type.String())
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", applog.FieldError, err, "port", cfg.Port)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}
