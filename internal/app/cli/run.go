package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/Apurer/go-order-dispatch/internal/app/bootstrap"
	orderworkflows "github.com/Apurer/go-order-dispatch/internal/domains/ordering/adapters/workflows"
	"github.com/Apurer/go-order-dispatch/internal/domains/ordering/ports"
	"github.com/Apurer/go-order-dispatch/internal/platform/config"
	platformobservability "github.com/Apurer/go-order-dispatch/internal/platform/observability"
)

const serviceName = "order-dispatch-cli"

// Options are the console invocation parameters.
type Options struct {
	ConfigPath string

	// Order is the CODE:QTY;... line. Empty means prompt on In.
	Order string
	In    io.Reader
	Out   io.Writer
}

// Run prepares storage (always migrating when a database is configured),
// then runs the console flow once.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return err
	}
	cfg.Database.AutoMigrate = true
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}

	instruments, shutdown, err := platformobservability.Init(ctx, serviceName,
		platformobservability.WithLogSettings(platformobservability.LogSettings{Level: cfg.Log.Level, Format: cfg.Log.Format, Writer: os.Stderr}),
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

	fmt.Fprintln(out, "Initializing storage...")
	components, cleanup, err := bootstrap.Build(ctx, cfg, instruments)
	if err != nil {
		return err
	}
	defer cleanup()
	fmt.Fprintln(out, "Storage ready")

	var workflows ports.WorkflowOrchestrator = orderworkflows.NewInlineOrderWorkflows(components.Service)
	if temporalClient, err := bootstrap.ConnectTemporal(cfg.Temporal, instruments); err != nil {
		instruments.Logger.Debug("submitting orders inline", slog.String("reason", err.Error()))
	} else {
		defer temporalClient.Close()
		workflows = orderworkflows.NewTemporalOrderWorkflows(temporalClient)
	}
	_, err = NewConsole(components.Service, workflows, opts.In, out).Run(ctx, opts.Order)
	return err
}
