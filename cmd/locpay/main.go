package main

import (
	"os"

	"github.com/spf13/cobra"
)

const serviceName = "location-pay"

var configPath string

var rootCmd = &cobra.Command{
	Use:   "locpay",
	Short: "Location payment pages",
	Long: `locpay serves a payment page per configured location and forwards
each payment to the external payment API.

Configuration is read from .env, the file given by --config and LOCPAY_*
environment variables.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to YAML config file")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
