package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	"github.com/Apurer/go-order-dispatch/internal/app/bootstrap"
	"github.com/Apurer/go-order-dispatch/internal/platform/config"
	platformobservability "github.com/Apurer/go-order-dispatch/internal/platform/observability"
	orderactivities "github.com/Apurer/go-order-dispatch/internal/platform/temporal/activities/ordering"
	orderworkflows "github.com/Apurer/go-order-dispatch/internal/platform/temporal/workflows/ordering"
)

const serviceName = "order-dispatch-worker"

func main() {
	var configPath string
	cmd := &cobra.Command{
		Use:           "order-dispatch-worker",
		Short:         "Temporal worker executing order submissions",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), configPath)
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "path to appsettings file")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := cmd.ExecuteContext(ctx); err != nil {
		log.Fatalf("order dispatch worker failed: %v", err)
	}
}

func run(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	// the worker exists only to serve Temporal
	cfg.Temporal.Enabled = true

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
	activities := orderactivities.NewActivities(components.Core)

	temporalClient, err := bootstrap.ConnectTemporal(cfg.Temporal, instruments)
	if err != nil {
		return fmt.Errorf("create Temporal client: %w", err)
	}
	defer temporalClient.Close()

	w := worker.New(temporalClient, orderworkflows.OrderSubmissionTaskQueue, worker.Options{})
	w.RegisterWorkflowWithOptions(orderworkflows.OrderSubmissionWorkflow, workflow.RegisterOptions{Name: orderworkflows.OrderSubmissionWorkflowName})
	w.RegisterActivityWithOptions(activities.RecordOrder, activity.RegisterOptions{Name: orderactivities.RecordOrderActivityName})
	w.RegisterActivityWithOptions(activities.DispatchOrder, activity.RegisterOptions{Name: orderactivities.DispatchOrderActivityName})
	w.RegisterActivityWithOptions(activities.FinalizeOrder, activity.RegisterOptions{Name: orderactivities.FinalizeOrderActivityName})

	logger.Info("worker listening",
		slog.String("taskQueue", orderworkflows.OrderSubmissionTaskQueue),
		slog.String("namespace", cfg.Temporal.Namespace),
		slog.String("transport", components.Transport.Kind().String()))
	interrupt := make(chan interface{})
	go func() {
		<-ctx.Done()
		close(interrupt)
	}()
	if err := w.Run(interrupt); err != nil {
		logger.Error("Temporal worker exited with error", slog.String("error", err.Error()))
		return err
	}
	logger.Info("Temporal worker stopped")
	return nil
}
