// Package tier implements the tier aggregator: it lists the description files
// of one tier and decodes each of them into a loot table.
package tier

//go:generate mockgen -destination=mock/mock_service.go -package=tiermock github.com/KirkDiggler/rpg-loot/internal/orchestrators/tier Service

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/KirkDiggler/rpg-loot/internal/clients/content"
	"github.com/KirkDiggler/rpg-loot/internal/entities/loot"
	"github.com/KirkDiggler/rpg-loot/internal/errors"
	"github.com/KirkDiggler/rpg-loot/internal/pkg/idgen"
	"github.com/KirkDiggler/rpg-loot/internal/pkg/metrics"
	"github.com/KirkDiggler/rpg-loot/internal/services/decoder"
)

// Service aggregates the loot tables of a tier
type Service interface {
	Aggregate(ctx context.Context, input *AggregateInput) (*AggregateOutput, error)
}

// Config holds the dependencies for the tier orchestrator
type Config struct {
	Client      content.Client
	IDGenerator idgen.Generator
	// Concurrency bounds in-flight file fetches; 1 is strictly sequential
	Concurrency int
	// Strict aborts on the first failed file instead of recording it
	Strict  bool
	Metrics *metrics.Manager
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Client == nil {
		vb.RequiredField("Client")
	}
	if c.IDGenerator == nil {
		vb.RequiredField("IDGenerator")
	}
	if c.Concurrency < 0 {
		vb.InvalidField("Concurrency", "must not be negative")
	}

	return vb.Build()
}

type orchestrator struct {
	client      content.Client
	idGen       idgen.Generator
	concurrency int
	strict      bool
	metrics     *metrics.Manager
}

// NewOrchestrator creates a new tier orchestrator with the provided dependencies
func NewOrchestrator(cfg *Config) (Service, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config cannot be nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	concurrency := cfg.Concurrency
	if concurrency == 0 {
		concurrency = 1
	}

	return &orchestrator{
		client:      cfg.Client,
		idGen:       cfg.IDGenerator,
		concurrency: concurrency,
		strict:      cfg.Strict,
		metrics:     cfg.Metrics,
	}, nil
}

// Ensure orchestrator implements Service
var _ Service = (*orchestrator)(nil)

// fileResult is the outcome for one listing entry, stored by listing index
type fileResult struct {
	table   *loot.NamedTable
	failure *loot.Failure
}

// Aggregate lists the tier directory and decodes every file in it. Output
// order always equals listing order. A failed listing aborts; a failed file
// aborts only in strict mode and is recorded as a Failure otherwise.
func (o *orchestrator) Aggregate(ctx context.Context, input *AggregateInput) (*AggregateOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("Tier.ID", input.Tier.ID, vb)
	errors.ValidateRequired("Tier.Locator", input.Tier.Locator, vb)
	if err := vb.Build(); err != nil {
		return nil, err
	}

	runID := o.idGen.Generate()
	start := time.Now()
	slog.InfoContext(ctx, "aggregating tier",
		"run_id", runID,
		"tier", input.Tier.ID,
		"locator", input.Tier.Locator)

	listing, err := o.client.ListDirectory(ctx, input.Tier.Locator)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list tier %s", input.Tier.ID).
			WithMeta("tier", input.Tier.ID)
	}

	files := make([]content.DirectoryEntry, 0, len(listing))
	for _, e := range listing {
		if e.IsDir() {
			slog.DebugContext(ctx, "skipping sub directory",
				"run_id", runID,
				"name", e.Name)
			continue
		}
		files = append(files, e)
	}

	results := make([]fileResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.concurrency)

	for i, file := range files {
		g.Go(func() error {
			table, err := o.loadFile(gctx, file)
			if err == nil {
				results[i].table = &loot.NamedTable{Name: file.Name, Locator: file.URL, Table: table}
				return nil
			}

			if o.strict || ctx.Err() != nil {
				return errors.Wrapf(err, "failed to load %s", file.Name).
					WithMeta("tier", input.Tier.ID).
					WithMeta("file", file.Name)
			}

			slog.WarnContext(ctx, "skipping unreadable loot file",
				"run_id", runID,
				"tier", input.Tier.ID,
				"file", file.Name,
				"error", err)
			results[i].failure = &loot.Failure{Table: file.Name, Target: file.URL, Err: err}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := &loot.TierReport{
		Tier:   input.Tier.ID,
		Label:  input.Tier.Label,
		Tables: make([]loot.NamedTable, 0, len(files)),
	}
	for _, r := range results {
		switch {
		case r.table != nil:
			report.Tables = append(report.Tables, *r.table)
		case r.failure != nil:
			report.Failures = append(report.Failures, *r.failure)
		}
	}

	slog.InfoContext(ctx, "aggregated tier",
		"run_id", runID,
		"tier", input.Tier.ID,
		"tables", len(report.Tables),
		"failures", len(report.Failures),
		"duration", time.Since(start))

	return &AggregateOutput{Report: report, RunID: runID}, nil
}

func (o *orchestrator) loadFile(ctx context.Context, file content.DirectoryEntry) (loot.Table, error) {
	slog.DebugContext(ctx, "loading loot file",
		"name", file.Name,
		"locator", file.URL)

	env, err := o.client.GetFile(ctx, file.URL)
	if err != nil {
		return loot.Table{}, err
	}

	table, err := decoder.Decode(env)
	if err != nil {
		o.metrics.DecodeFailure()
		return loot.Table{}, err
	}

	return table, nil
}
