package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/illenko/location-pay/config"
	"github.com/illenko/location-pay/handler"
	"github.com/illenko/location-pay/location"
	"github.com/illenko/location-pay/observability"
	"github.com/illenko/location-pay/observability/metrics"
	"github.com/illenko/location-pay/service"
	"github.com/illenko/location-pay/shutdown"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the payment pages",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	ctx, stop := shutdown.WithSignals(cmd.Context())
	defer stop()

	otelShutdown, err := observability.SetupOpenTelemetry(ctx, serviceName, cfg.LogLevel)
	if err != nil {
		slog.ErrorContext(ctx, "error setting up OpenTelemetry", slog.Any("error", err))
	}
	if otelShutdown != nil {
		defer func() {
			if err := otelShutdown(context.Background()); err != nil {
				slog.ErrorContext(ctx, "error during shutdown", slog.Any("error", err))
			}
		}()
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	gin.SetMode(gin.ReleaseMode)
	h := handler.NewPaymentHandler(
		location.NewResolver(cfg.Locations),
		service.NewPaymentService(service.NewRestyClient(cfg.APIBaseURL)),
		cfg.AmountMode,
	)
	router, err := handler.NewRouter(serviceName, h, metrics.NewServerMetrics(reg, "web"))
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.InfoContext(ctx, "Server started",
			slog.String("addr", srv.Addr),
			slog.String("apiBaseUrl", cfg.APIBaseURL),
			slog.String("amountMode", string(cfg.AmountMode)),
			slog.Int("locations", len(cfg.Locations)))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			slog.ErrorContext(ctx, "server failed", slog.Any("error", err))
			return err
		}
	case <-ctx.Done():
		slog.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
	}
	return nil
}
