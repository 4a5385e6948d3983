package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	httpadapter "github.com/MrSteve2/robotframework-tools/pkg/adapters/http"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the remote keyword server over HTTP",
	Long: `Starts the configured libraries behind the remote dispatch bridge and
serves the dynamic library API as JSON over HTTP.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(cmd)
		if err != nil {
			fmt.Printf("Error loading configuration: %v\n", err)
			os.Exit(1)
		}
		if cmd.Flags().Changed("port") {
			cfg.Port, _ = cmd.Flags().GetInt("port")
		}
		logger := newLogger(cfg)

		bridge, gatherer, err := buildBridge(cfg, logger)
		if err != nil {
			fmt.Printf("Error building libraries: %v\n", err)
			os.Exit(1)
		}
		defer bridge.Close()

		handler := httpadapter.NewHandler(bridge, logger, gatherer)

		// Stop on SIGINT/SIGTERM as well as on the StopRemoteServer
		// keyword, which the adapter watches through the bridge.
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if err := httpadapter.Serve(ctx, cfg.Addr(), bridge, handler, logger); err != nil {
			fmt.Printf("Server error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Remote server stopped gracefully")
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntP("port", "p", 8270, "Port to listen on")
}
