package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/dwikikusuma/storefront-ops/internal/workflow/infra/kafka"
	"github.com/dwikikusuma/storefront-ops/pkg/config"
	"github.com/dwikikusuma/storefront-ops/pkg/logger"
	"github.com/dwikikusuma/storefront-ops/pkg/metrics"
	"github.com/dwikikusuma/storefront-ops/pkg/shutdown"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config", slog.Any("err", err))
		os.Exit(1)
	}
	log := logger.New(logger.Options{
		Service:   "storefront",
		Env:       cfg.AppEnv,
		Level:     cfg.LogLevel,
		AddSource: true,
	})

	ctx, cancel := shutdown.WithSignals(context.Background())
	defer cancel()

	st, err := openStores(ctx, cfg, log)
	if err != nil {
		log.Error("open stores", slog.Any("err", err))
		os.Exit(1)
	}
	defer st.close()

	if err := seedProviders(ctx, st.providers, cfg.Providers); err != nil {
		log.Error("seed providers", slog.Any("err", err))
		os.Exit(1)
	}

	d := deps{cfg: cfg, log: log, stores: st, metrics: metrics.NewRegistry()}
	if pub := kafka.NewPublisher(cfg.KafkaBrokers, cfg.KafkaWorkflowTopic); pub != nil {
		defer pub.Close()
		d.events = pub
		log.Info("workflow events enabled", slog.String("topic", cfg.KafkaWorkflowTopic))
	}

	handler, err := newRouter(d)
	if err != nil {
		log.Error("build router", slog.Any("err", err))
		os.Exit(1)
	}

	addr := fmt.Sprintf(":%d", cfg.HTTPPort)
	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Info("http server starting", slog.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server error", slog.Any("err", err))
			cancel()
		}
	}()

	<-ctx.Done()
	log.Info("shutdown requested")

	if err := shutdown.Graceful(10*time.Second, server.Shutdown); err != nil {
		log.Error("http shutdown error", slog.Any("err", err))
	}

	wg.Wait()
	log.Info("bye")
}
