// Package main is the entry point for lootctl
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/rpg-loot/internal/services/report"
)

var rootCmd = &cobra.Command{
	Use:   "lootctl",
	Short: "Dungeon loot table resolver",
	Long: `lootctl fetches the loot tables of a dungeon tier from the asset content
endpoint, resolves every reward to its display name and prints the drop
chances of each table.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "YAML config file (defaults to $LOOT_CONFIG)")
	flags.StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
	flags.BoolVar(&strict, "strict", false, "abort a tier on its first failure")
	flags.StringVar(&outputFormat, "format", string(report.FormatText), "output format: text, json, yaml")
	flags.IntVar(&concurrency, "concurrency", 0, "in-flight requests per tier")
	flags.IntVar(&nestedDepth, "nested-depth", 0, "levels of nested loot tables to expand")
	flags.StringVar(&metricsFile, "metrics-file", "", "write Prometheus metrics to this file at exit")

	rootCmd.AddCommand(tiersCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(decodeCmd)
}
