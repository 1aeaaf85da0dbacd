package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Apurer/go-order-dispatch/internal/app/api"
)

func main() {
	var configPath string
	cmd := &cobra.Command{
		Use:           "order-dispatch-api",
		Short:         "Operator HTTP API for menu queries and order submission",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return api.Run(cmd.Context(), configPath)
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "path to appsettings file")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := cmd.ExecuteContext(ctx); err != nil {
		log.Fatalf("order dispatch API failed: %v", err)
	}
}
