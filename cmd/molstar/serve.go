package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/qqdb/molstar"
	httpAdapter "github.com/qqdb/molstar/internal/adapters/http"
	"github.com/qqdb/molstar/internal/cli"
	"github.com/qqdb/molstar/internal/logging"
	"github.com/qqdb/molstar/internal/metrics"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the state tree HTTP server",
	Long:  `Starts the engine in server mode, exposing the tree, cells, sessions and an SSE event stream over a JSON API.`,
	Run: func(cmd *cobra.Command, args []string) {
		port, _ := cmd.Flags().GetString("port")
		scriptPath, _ := cmd.Flags().GetString("script")
		debug, _ := cmd.Flags().GetBool("debug")
		redisURL, _ := cmd.Flags().GetString("redis-url")
		stateDir, _ := cmd.Flags().GetString("state-dir")
		stateKey, _ := cmd.Flags().GetString("state-key")

		level := slog.LevelInfo
		if debug {
			level = slog.LevelDebug
		}
		logger := logging.New(level)

		store, err := cli.CreateStore(redisURL, stateDir, stateKey)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		reg := prometheus.NewRegistry()
		collectors := metrics.New(reg)

		plugin, err := molstar.New(
			molstar.WithLogger(logger),
			molstar.WithStore(store),
			molstar.WithLifecycleHooks(collectors.Hooks()),
			molstar.WithObserver(collectors.Observer()),
		)
		if err != nil {
			fmt.Printf("Error initializing plugin: %v\n", err)
			os.Exit(1)
		}

		if scriptPath != "" {
			data, err := os.ReadFile(scriptPath)
			if err != nil {
				fmt.Printf("Error reading script: %v\n", err)
				os.Exit(1)
			}
			if err := plugin.BuildScript(cmd.Context(), data); err != nil {
				fmt.Printf("Error building script: %v\n", err)
				os.Exit(1)
			}
		}

		handler := httpAdapter.NewHandler(plugin,
			httpAdapter.WithSessions(plugin.Sessions()),
			httpAdapter.WithWatcher(plugin),
			httpAdapter.WithMetrics(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})),
			httpAdapter.WithLogger(logger),
		)

		srv := &http.Server{
			Addr:    ":" + port,
			Handler: handler,
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)

		go func() {
			fmt.Printf("Starting Molstar Server on %s\n", srv.Addr)
			if scriptPath != "" {
				fmt.Printf("Serving scene from: %s\n", scriptPath)
			}
			serverErrors <- srv.ListenAndServe()
		}()

		// Channel to listen for interrupt or terminate signals.
		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		// Blocking main and waiting for shutdown.
		select {
		case err := <-serverErrors:
			// Error when starting HTTP server.
			fmt.Printf("Server error: %v\n", err)
			os.Exit(1)

		case sig := <-shutdown:
			fmt.Printf("\nStart shutdown... Signal: %v\n", sig)

			// Give outstanding requests a deadline for completion.
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			// Asking listener to shut down and shed load.
			if err := srv.Shutdown(ctx); err != nil {
				fmt.Printf("Graceful shutdown did not complete in %v: %v\n", 5*time.Second, err)
				if err := srv.Close(); err != nil {
					fmt.Printf("Error killing server: %v\n", err)
				}
			}
			fmt.Println("Molstar Server stopped gracefully")
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	serveCmd.Flags().String("script", "", "Build this script before serving")
}
