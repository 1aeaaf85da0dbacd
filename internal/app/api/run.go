package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Apurer/go-order-dispatch/internal/app/bootstrap"
	orderworkflows "github.com/Apurer/go-order-dispatch/internal/domains/ordering/adapters/workflows"
	"github.com/Apurer/go-order-dispatch/internal/domains/ordering/ports"
	"github.com/Apurer/go-order-dispatch/internal/platform/config"
	platformobservability "github.com/Apurer/go-order-dispatch/internal/platform/observability"
)

const serviceName = "order-dispatch-api"

// Run boots the operator HTTP API with observability, storage, transport and
// workflows wired. It blocks until ctx is canceled or the server fails.
func Run(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName,
		platformobservability.WithLogSettings(platformobservability.LogSettings{Level: cfg.Log.Level, Format: cfg.Log.Format}),
		platformobservability.WithEnvironment(cfg.Environment),
	)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	components, cleanup, err := bootstrap.Build(ctx, cfg, instruments)
	if err != nil {
		return err
	}
	defer cleanup()

	var workflows ports.WorkflowOrchestrator = orderworkflows.NewInlineOrderWorkflows(components.Service)
	if temporalClient, err := bootstrap.ConnectTemporal(cfg.Temporal, instruments); err != nil {
		logger.Warn("Temporal workflows unavailable, submitting orders inline", slog.String("error", err.Error()))
	} else {
		defer temporalClient.Close()
		workflows = orderworkflows.NewTemporalOrderWorkflows(temporalClient)
		logger.Info("Temporal workflows enabled", slog.String("namespace", cfg.Temporal.Namespace))
	}

	gin.SetMode(gin.ReleaseMode)
	router := NewRouter(NewOrderAPI(components.Service, workflows), RouterOptions{
		ServiceName: serviceName,
		Logger:      logger,
		RateLimit:   cfg.Server.RateLimit,
		Transport:   components.Transport.Kind().String(),
	})
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("order dispatch API listening", slog.String("addr", server.Addr))
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		logger.Error("order dispatch API exited", slog.String("addr", server.Addr), slog.String("error", err.Error()))
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	logger.Info("shutting down order dispatch API")
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	return nil
}
