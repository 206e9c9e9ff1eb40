// Command server runs the mansion HTTP API and, when KAFKA_ENABLED is set,
// the Kafka request pipeline.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/couchcryptid/lunar-mansion-service/internal/adapter/astro"
	httpadapter "github.com/couchcryptid/lunar-mansion-service/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/lunar-mansion-service/internal/adapter/kafka"
	"github.com/couchcryptid/lunar-mansion-service/internal/config"
	"github.com/couchcryptid/lunar-mansion-service/internal/domain"
	"github.com/couchcryptid/lunar-mansion-service/internal/observability"
	"github.com/couchcryptid/lunar-mansion-service/internal/pipeline"
	"github.com/couchcryptid/lunar-mansion-service/internal/resolver"
)

func main() {
	if err := config.LoadEnvFile(".env"); err != nil {
		slog.Error("failed to load .env", "error", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	sun := astro.NewCachedSunrise(astro.NewSunriseCalculator(domain.Tokyo), cfg.ProviderCacheSize, metrics)
	eph := astro.NewCachedEphemeris(astro.NewMoonEphemeris(), cfg.ProviderCacheSize, metrics)
	res := resolver.New(sun, eph, logger, metrics, resolver.WithMonthWorkers(cfg.MonthWorkers))

	srv := httpadapter.NewServer(cfg.HTTPAddr, res, res, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Start the request pipeline.
	var (
		wg     sync.WaitGroup
		reader *kafkaadapter.Reader
		writer *kafkaadapter.Writer
	)
	if cfg.KafkaEnabled {
		reader = kafkaadapter.NewReader(cfg, logger)
		writer = kafkaadapter.NewWriter(cfg, logger)
		transformer := pipeline.NewTransformer(res, resolver.ModePipeline, logger)
		p := pipeline.New(reader, transformer, writer, logger, metrics, cfg.BatchSize)

		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := p.Run(ctx); err != nil {
				logger.Error("pipeline error", "error", err)
			}
		}()
		logger.Info("kafka pipeline enabled",
			"source_topic", cfg.KafkaSourceTopic,
			"sink_topic", cfg.KafkaSinkTopic,
			"group_id", cfg.KafkaGroupID,
		)
	} else {
		logger.Info("kafka pipeline disabled")
	}

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	wg.Wait()
	if reader != nil {
		if err := reader.Close(); err != nil {
			logger.Error("kafka reader close error", "error", err)
		}
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
