package main

import (
	"github.com/spf13/cobra"
)

var rolls int

var simulateCmd = &cobra.Command{
	Use:   "simulate <tier>",
	Short: "Sample drops from every table of a tier",
	Long: `Roll each loot table of a tier the given number of times and compare the
observed drop rate of every entry with its expected chance.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(a *app) error {
			t, err := a.cfg.FindTier(args[0])
			if err != nil {
				return err
			}
			return a.simulate(cmd.Context(), t, rolls, cmd.OutOrStdout())
		})
	},
}

func init() {
	simulateCmd.Flags().IntVar(&rolls, "rolls", 10000, "number of draws per table")
}
