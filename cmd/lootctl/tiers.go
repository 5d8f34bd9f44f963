package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var tiersCmd = &cobra.Command{
	Use:   "tiers",
	Short: "List configured tiers",
	Long:  `List the configured dungeon tiers with their menu number and locator.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for i, t := range cfg.ResolvedTiers() {
			fmt.Fprintf(out, "%d) %-10s %-10s %s\n", i+1, t.Label, t.ID, t.Locator)
		}
		return nil
	},
}
