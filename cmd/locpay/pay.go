package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/illenko/location-pay/config"
	"github.com/illenko/location-pay/flow"
	"github.com/illenko/location-pay/location"
	"github.com/illenko/location-pay/observability/logging"
	"github.com/illenko/location-pay/service"
)

var payAmount string

var payCmd = &cobra.Command{
	Use:   "pay <locationId>",
	Short: "Submit one payment for a location",
	Long: `Submit one payment for a location, exactly as the page would.

In fixed amount mode the location's price is charged and --amount is
ignored. In entered mode --amount is required.`,
	Args: cobra.ExactArgs(1),
	RunE: runPay,
}

func init() {
	payCmd.Flags().StringVarP(&payAmount, "amount", "a", "", "amount to charge (entered mode)")
	rootCmd.AddCommand(payCmd)
}

func runPay(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	slog.SetDefault(logging.New(os.Stderr, cfg.LogLevel))

	loc, err := location.NewResolver(cfg.Locations).Resolve(args[0])
	if err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}

	page := flow.NewPage(loc, cfg.AmountMode, service.NewPaymentService(service.NewRestyClient(cfg.APIBaseURL)))
	page.Pay(cmd.Context(), payAmount)

	res := page.Result()
	fmt.Fprintln(cmd.OutOrStdout(), res.Message)
	if !res.Success() {
		return errors.New("payment not completed")
	}
	return nil
}
