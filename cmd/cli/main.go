package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Apurer/go-order-dispatch/internal/app/cli"
)

func main() {
	var (
		configPath string
		order      string
	)
	cmd := &cobra.Command{
		Use:   "order-dispatch",
		Short: "Prepare storage, print the backend menu and submit one order",
		Example: `  order-dispatch --order "HOT001:2;SAL001:1"
  order-dispatch --config ./config/appsettings.yaml`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cli.Run(cmd.Context(), cli.Options{
				ConfigPath: configPath,
				Order:      order,
				In:         cmd.InOrStdin(),
				Out:        cmd.OutOrStdout(),
			})
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "path to appsettings file")
	cmd.Flags().StringVar(&order, "order", "", "order lines as CODE:QTY;CODE:QTY; prompts when empty")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := cmd.ExecuteContext(ctx); err != nil {
		log.Fatalf("order dispatch failed: %v", err)
	}
}
