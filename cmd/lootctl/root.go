package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/rpg-loot/internal/config"
	"github.com/KirkDiggler/rpg-loot/internal/errors"
	"github.com/KirkDiggler/rpg-loot/internal/pkg/logging"
)

var (
	configPath   string
	logLevel     string
	strict       bool
	outputFormat string
	concurrency  int
	nestedDepth  int
	metricsFile  string
)

// loadConfig loads the layered configuration and applies the flags the user
// set explicitly on top of it
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(cmd.Context(), configPath)
	if err != nil {
		return nil, err
	}

	if changed(cmd, "log-level") {
		cfg.LogLevel = logLevel
	}
	if changed(cmd, "strict") {
		cfg.Strict = strict
	}
	if changed(cmd, "concurrency") {
		cfg.Concurrency = concurrency
	}
	if changed(cmd, "nested-depth") {
		cfg.NestedDepth = nestedDepth
	}
	if changed(cmd, "metrics-file") {
		cfg.MetricsFile = metricsFile
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid flags")
	}
	if err := logging.Setup(cfg.LogLevel, os.Stderr); err != nil {
		return nil, err
	}

	return cfg, nil
}

func changed(cmd *cobra.Command, name string) bool {
	f := cmd.Flag(name)
	return f != nil && f.Changed
}

// withApp builds the pipeline for a command and tears it down afterwards
func withApp(cmd *cobra.Command, fn func(a *app) error) (err error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	a, err := newApp(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := a.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	return fn(a)
}
