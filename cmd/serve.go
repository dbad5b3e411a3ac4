package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/lehigh-university-libraries/ftva-etl/internal/handlers"
	"github.com/lehigh-university-libraries/ftva-etl/internal/storage"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

func newServeCmd(configPath *string) *cobra.Command {
	var (
		port     string
		capacity int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the metadata composition API",
		Long: `Starts an HTTP API that composes metadata records on request.

POST /api/records with {"inventory_number", "digital_data_id", "match_asset"}
composes one record. Recent results are kept in memory and can be listed at
GET /api/records. Prometheus metrics are served at /metrics.`,
		Example: `  # Start server on default port 8888
  ftva-etl serve

  # Start server on custom port
  ftva-etl serve --port 3000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}

			registry := prometheus.NewRegistry()
			registry.MustRegister(
				collectors.NewGoCollector(),
				collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			)
			metrics := handlers.NewMetrics(registry)

			service, fileMaker, err := newService(cfg, metrics)
			if err != nil {
				return err
			}
			defer closeFileMaker(fileMaker)

			handler := handlers.New(service, storage.New(capacity), metrics)

			// Set up routes
			mux := http.NewServeMux()
			mux.HandleFunc("/api/records", handler.HandleRecords)
			mux.HandleFunc("/api/records/", handler.HandleRecordDetail)
			mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}))
			mux.HandleFunc("/healthcheck", func(w http.ResponseWriter, r *http.Request) {
				if _, err := w.Write([]byte("OK")); err != nil {
					slog.Error("Unable to write healthcheck", "err", err)
				}
			})

			addr := ":" + port
			server := &http.Server{
				Addr:              addr,
				Handler:           mux,
				ReadHeaderTimeout: 10 * time.Second,
			}

			// Start server in goroutine
			serverErr := make(chan error, 1)
			go func() {
				slog.Info("ftva-etl API available", "addr", addr, "url", "http://localhost"+addr, "library", cfg.LibraryCode)
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serverErr <- err
				}
			}()

			// Wait for context cancellation (Ctrl+C) or server error
			select {
			case <-cmd.Context().Done():
				slog.Info("Shutting down server...")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := server.Shutdown(shutdownCtx); err != nil {
					slog.Error("Server shutdown failed", "err", err)
					return err
				}
				slog.Info("Server stopped")
				return nil
			case err := <-serverErr:
				return err
			}
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "8888", "Port to listen on")
	cmd.Flags().IntVar(&capacity, "history", storage.DefaultCapacity, "Number of composed records kept in memory")

	return cmd
}
