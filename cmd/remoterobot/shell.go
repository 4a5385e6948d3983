package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/MrSteve2/robotframework-tools/internal/shell"
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Drive the configured libraries from an interactive prompt",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(cmd)
		if err != nil {
			fmt.Printf("Error loading configuration: %v\n", err)
			os.Exit(1)
		}
		logger := newLogger(cfg)

		bridge, _, err := buildBridge(cfg, logger)
		if err != nil {
			fmt.Printf("Error building libraries: %v\n", err)
			os.Exit(1)
		}
		defer bridge.Close()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if err := shell.New(bridge).Run(ctx); err != nil && ctx.Err() == nil {
			fmt.Printf("Shell error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(shellCmd)
}
