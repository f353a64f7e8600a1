package main

import (
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/illenko/location-pay/model"
	"github.com/illenko/location-pay/observability/logging"
	"github.com/illenko/location-pay/paytest"
)

var (
	mockPort   string
	mockStatus int
	mockDelay  time.Duration
)

var mockAPICmd = &cobra.Command{
	Use:   "mock-api",
	Short: "Run a fake payment API for local development",
	RunE: func(cmd *cobra.Command, args []string) error {
		slog.SetDefault(logging.New(os.Stdout, "info"))

		api := paytest.New(func(req model.PaymentRequest) (int, any) {
			slog.Info("Payment processing started", slog.String("uuid", req.UUID), slog.String("location", req.Location), slog.Float64("amount", req.Amount))
			time.Sleep(mockDelay)
			if mockStatus >= 300 {
				return mockStatus, map[string]string{"error": http.StatusText(mockStatus)}
			}
			return mockStatus, map[string]string{"status": "success"}
		})

		slog.Info("Mock payment API started", slog.String("port", mockPort), slog.Int("status", mockStatus))
		return api.Router().Run(":" + mockPort)
	},
}

func init() {
	mockAPICmd.Flags().StringVar(&mockPort, "port", "8082", "port to listen on")
	mockAPICmd.Flags().IntVar(&mockStatus, "status", http.StatusOK, "HTTP status returned for every payment")
	mockAPICmd.Flags().DurationVar(&mockDelay, "delay", 200*time.Millisecond, "simulated processing delay")
	rootCmd.AddCommand(mockAPICmd)
}
