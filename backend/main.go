package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"retailshop/m/internal/api"
	"retailshop/m/internal/billing"
	"retailshop/m/internal/config"
	"retailshop/m/internal/database"
	"retailshop/m/internal/events"
	"retailshop/m/internal/logger"
	"retailshop/m/internal/migrations"
	"retailshop/m/internal/seed"
	"retailshop/m/internal/store"
)

const (
	ReadTimeout     = 10 * time.Second
	WriteTimeout    = 30 * time.Second
	ShutdownTimeout = 10 * time.Second
)

type publisher interface {
	billing.Publisher
	Close()
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load(".env")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	l, err := logger.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("create logger: %v", err)
	}

	db := database.Connect(cfg.Database.Driver, cfg.Database.DSN, cfg.Database.MaxOpenConns)
	defer db.Close()

	if err := migrations.Run(db); err != nil {
		log.Fatalf("%v", err)
	}

	repo := store.New(db)

	if err := seed.Defaults(ctx, repo, cfg.Billing.HomeStateCode); err != nil {
		log.Fatalf("seed defaults: %v", err)
	}

	if cfg.SeedProductsCSV != "" {
		seed.LoadProductsFile(ctx, repo, cfg.SeedProductsCSV)
	}

	var producer publisher = events.Nop{}
	if len(cfg.Kafka.Brokers) > 0 {
		producer = events.NewProducer(l, cfg.Kafka.Brokers, cfg.Kafka.BillsTopic)
	}
	defer producer.Close()

	svc := billing.New(repo, producer, billing.Options{
		HomeStateCode: cfg.Billing.HomeStateCode,
		MaxAttempts:   cfg.Billing.InvoiceMaxAttempts,
	}, time.Now)

	handler := api.New(repo, svc, cfg.Secret)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      handler.Router(),
		ReadTimeout:  ReadTimeout,
		WriteTimeout: WriteTimeout,
	}

	var wg sync.WaitGroup

	wg.Add(1)

	go func() {
		defer wg.Done()

		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Panicf("listen and serve: %s", err)
		}
	}()

	slog.InfoContext(ctx, "retail shop server started", "port", cfg.HTTPPort, "driver", cfg.Database.Driver)

	wg.Add(1)

	go func() {
		defer wg.Done()

		ch := make(chan os.Signal, 1)
		signal.Notify(ch, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)
		sig := <-ch

		slog.InfoContext(ctx, "got OS signal", "signal", sig.String())

		shutdownCtx, cancel := context.WithTimeout(ctx, ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.ErrorContext(ctx, "server shutdown", "error", err)
		}
	}()

	wg.Wait()
}
