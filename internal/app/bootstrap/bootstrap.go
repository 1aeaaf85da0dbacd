// Package bootstrap assembles the ordering components shared by every binary.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"

	"github.com/Apurer/go-order-dispatch/internal/domains/ordering/adapters/events"
	"github.com/Apurer/go-order-dispatch/internal/domains/ordering/adapters/external/transport"
	"github.com/Apurer/go-order-dispatch/internal/domains/ordering/adapters/memory"
	orderobs "github.com/Apurer/go-order-dispatch/internal/domains/ordering/adapters/observability"
	orderpostgres "github.com/Apurer/go-order-dispatch/internal/domains/ordering/adapters/persistence/postgres"
	"github.com/Apurer/go-order-dispatch/internal/domains/ordering/application"
	"github.com/Apurer/go-order-dispatch/internal/domains/ordering/ports"
	"github.com/Apurer/go-order-dispatch/internal/platform/config"
	"github.com/Apurer/go-order-dispatch/internal/platform/migrations"
	platformobservability "github.com/Apurer/go-order-dispatch/internal/platform/observability"
	platformpostgres "github.com/Apurer/go-order-dispatch/internal/platform/postgres"
)

// Components is the assembled ordering context.
type Components struct {
	// Core is the undecorated service; it also implements ports.SubmissionSteps.
	Core *application.Service
	// Service is Core wrapped with tracing, logging and metrics.
	Service   ports.Service
	Transport *transport.Variant
	Storage   ports.UnitOfWorkFactory
}

// Build wires transport, storage, events and the application service.
// The returned cleanup releases every connection opened here.
func Build(ctx context.Context, cfg *config.Config, instruments *platformobservability.Instruments) (*Components, func(), error) {
	logger := effectiveLogger(instruments)
	var cleanups []func()
	cleanup := func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}

	variant, err := NewTransport(cfg.ExternalService, logger)
	if err != nil {
		return nil, cleanup, fmt.Errorf("configure transport: %w", err)
	}
	cleanups = append(cleanups, func() { _ = variant.Close() })
	logger.Info("transport selected", slog.String("transport", variant.Kind().String()))

	storage, closeStorage, err := NewStorage(ctx, cfg.Database, logger)
	if err != nil {
		cleanup()
		return nil, func() {}, err
	}
	cleanups = append(cleanups, closeStorage)

	sink, closeSink := NewEventSink(cfg.Events, logger)
	cleanups = append(cleanups, closeSink)

	core := application.NewService(variant, storage,
		application.WithEventSink(sink),
		application.WithLogger(logger),
	)
	service := orderobs.New(core,
		orderobs.WithLogger(logger),
		orderobs.WithTracer(instruments.Tracer("internal.ordering.application")),
		orderobs.WithMeter(instruments.Meter("internal.ordering.application")),
	)
	return &Components{Core: core, Service: service, Transport: variant, Storage: storage}, cleanup, nil
}

// NewTransport builds the configured backend transport once.
func NewTransport(cfg config.ExternalServiceConfig, logger *slog.Logger) (*transport.Variant, error) {
	return transport.New(transport.Settings{
		Type:           cfg.Type,
		BaseURL:        cfg.BaseURL,
		Username:       cfg.Username,
		Password:       cfg.Password,
		Timeout:        cfg.Timeout(),
		StubPolicy:     cfg.StubPolicy,
		StubLatencyMin: cfg.StubLatency.Min,
		StubLatencyMax: cfg.StubLatency.Max,
		Logger:         logger,
	})
}

// NewStorage returns PostgreSQL-backed units of work when a DSN is configured
// and reachable, in-memory ones otherwise.
func NewStorage(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (ports.UnitOfWorkFactory, func(), error) {
	db, cleanup := platformpostgres.ConnectOrFallback(ctx, cfg.DSN, logger)
	if db == nil {
		return memory.NewStore(), cleanup, nil
	}
	if cfg.AutoMigrate {
		if err := migrations.RunContext(ctx, db); err != nil {
			cleanup()
			return nil, func() {}, fmt.Errorf("apply migrations: %w", err)
		}
		logger.Info("database schema up to date", slog.String("steps", migrations.Versions()))
	}
	return orderpostgres.NewStore(db), cleanup, nil
}

// NewEventSink always logs events and additionally publishes to NATS when configured.
func NewEventSink(cfg config.EventsConfig, logger *slog.Logger) (ports.EventSink, func()) {
	sinks := events.Fanout{events.NewLogSink(logger)}
	if cfg.NatsURL == "" {
		return sinks, func() {}
	}
	natsSink, err := events.DialNATS(cfg.NatsURL, cfg.SubjectPrefix)
	if err != nil {
		logger.Warn("NATS unavailable, events are logged only", slog.String("error", err.Error()))
		return sinks, func() {}
	}
	logger.Info("publishing order events to NATS", slog.String("subjectPrefix", cfg.SubjectPrefix))
	return append(sinks, natsSink), func() { _ = natsSink.Close() }
}

// ConnectTemporal dials the Temporal frontend with tracing and structured logging.
func ConnectTemporal(cfg config.TemporalConfig, instruments *platformobservability.Instruments) (client.Client, error) {
	if !cfg.Enabled {
		return nil, errors.New("temporal disabled by configuration")
	}
	tracerOptions := temporalotel.TracerOptions{}
	if instruments != nil {
		tracerOptions.Tracer = instruments.Tracer("temporal-client")
	}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(tracerOptions)
	if err != nil {
		return nil, err
	}
	options := client.Options{
		HostPort:  cfg.Address,
		Namespace: cfg.Namespace,
		Logger:    workerlog.NewStructuredLogger(effectiveLogger(instruments)),
	}
	options.Interceptors = append(options.Interceptors, tracingInterceptor)
	return client.Dial(options)
}

func effectiveLogger(instruments *platformobservability.Instruments) *slog.Logger {
	if instruments != nil && instruments.Logger != nil {
		return instruments.Logger
	}
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}
