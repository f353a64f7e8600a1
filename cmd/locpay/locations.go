package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/illenko/location-pay/config"
	"github.com/illenko/location-pay/flow"
	"github.com/illenko/location-pay/location"
)

var locationsCmd = &cobra.Command{
	Use:   "locations",
	Short: "List configured locations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tPRICE\tPAGE")
		for _, loc := range location.NewResolver(cfg.Locations).All() {
			fmt.Fprintf(w, "%s\t%s\t$%s\t/%s/pay\n", loc.ID, loc.Name, flow.FormatAmount(loc.Price), loc.ID)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(locationsCmd)
}
