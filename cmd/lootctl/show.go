package main

import (
	"github.com/spf13/cobra"

	"github.com/KirkDiggler/rpg-loot/internal/services/report"
)

var showCmd = &cobra.Command{
	Use:   "show <tier>... | all",
	Short: "Print the loot tables of one or more tiers",
	Long: `Aggregate every loot table of the given tiers and print the drop chance
of each entry. A tier is named by id, label or menu number.`,
	Example: `  lootctl show T1
  lootctl show tier-0 wildboss --format json
  lootctl show all --nested-depth 2`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := report.ParseFormat(outputFormat)
		if err != nil {
			return err
		}

		return withApp(cmd, func(a *app) error {
			tiers, err := a.selectTiers(args)
			if err != nil {
				return err
			}
			return a.show(cmd.Context(), tiers, cmd.OutOrStdout(), format)
		})
	},
}
