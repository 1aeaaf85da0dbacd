package emulator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/Apurer/go-order-dispatch/internal/domains/ordering/adapters/external/stub"
	"github.com/Apurer/go-order-dispatch/internal/platform/config"
	platformobservability "github.com/Apurer/go-order-dispatch/internal/platform/observability"
)

const serviceName = "order-backend-emulator"

// Run serves the emulator over HTTP and gRPC until ctx is canceled.
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
		_ = shutdown(shutdownCtx)
	}()
	logger := instruments.Logger

	policy, err := stub.PolicyByName(cfg.Emulator.Policy)
	if err != nil {
		return err
	}
	backend := NewBackend(WithPolicy(policy), WithLogger(logger))

	gin.SetMode(gin.ReleaseMode)
	httpServer := &http.Server{
		Addr:              ":" + cfg.Emulator.HTTPPort,
		Handler:           NewHTTPHandler(backend, Credentials{Username: cfg.ExternalService.Username, Password: cfg.ExternalService.Password}),
		ReadHeaderTimeout: 10 * time.Second,
	}
	grpcServer := NewGRPCServer(backend)
	lis, err := net.Listen("tcp", ":"+cfg.Emulator.GRPCPort)
	if err != nil {
		return fmt.Errorf("listen grpc: %w", err)
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		logger.Info("emulator HTTP listening", slog.String("addr", httpServer.Addr), slog.String("policy", cfg.Emulator.Policy))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		logger.Info("emulator gRPC listening", slog.String("addr", lis.Addr().String()))
		return grpcServer.Serve(lis)
	})
	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		grpcServer.GracefulStop()
		return httpServer.Shutdown(shutdownCtx)
	})
	return group.Wait()
}
