package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/KirkDiggler/rpg-loot/internal/clients/content"
	"github.com/KirkDiggler/rpg-loot/internal/config"
	"github.com/KirkDiggler/rpg-loot/internal/entities/loot"
	"github.com/KirkDiggler/rpg-loot/internal/errors"
	"github.com/KirkDiggler/rpg-loot/internal/orchestrators/tier"
	"github.com/KirkDiggler/rpg-loot/internal/pkg/clock"
	"github.com/KirkDiggler/rpg-loot/internal/pkg/idgen"
	"github.com/KirkDiggler/rpg-loot/internal/pkg/metrics"
	redisclient "github.com/KirkDiggler/rpg-loot/internal/redis"
	"github.com/KirkDiggler/rpg-loot/internal/repositories/contentcache"
	"github.com/KirkDiggler/rpg-loot/internal/services/names"
	"github.com/KirkDiggler/rpg-loot/internal/services/report"
	"github.com/KirkDiggler/rpg-loot/internal/services/sampler"
)

// allTiers selects every configured tier on the command line
const allTiers = "all"

// app is the wired pipeline shared by every command
type app struct {
	cfg     *config.Config
	metrics *metrics.Manager
	redis   redisclient.Client

	tiers   tier.Service
	builder report.Builder
	sampler sampler.Sampler
}

func newApp(cfg *config.Config) (_ *app, err error) {
	a := &app{
		cfg:     cfg,
		metrics: metrics.NewManager(),
	}
	defer func() {
		if err != nil && a.redis != nil {
			_ = a.redis.Close() // nolint:errcheck // already failing
		}
	}()

	fetcher, err := content.NewHTTPFetcher(&content.HTTPConfig{
		UserAgent:   cfg.UserAgent,
		HTTPTimeout: cfg.HTTPTimeout,
		Metrics:     a.metrics,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create fetcher")
	}

	if cfg.Cache.Enabled {
		fetcher, err = a.withCache(fetcher)
		if err != nil {
			return nil, err
		}
	}

	client, err := content.NewClient(&content.ClientConfig{Fetcher: fetcher})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create content client")
	}

	resolver, err := names.NewResolver(&names.Config{
		Client:        client,
		AssetsBaseURL: cfg.AssetsBaseURL,
		Extension:     cfg.AssetExtension,
		Metrics:       a.metrics,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create name resolver")
	}

	a.tiers, err = tier.NewOrchestrator(&tier.Config{
		Client:      client,
		IDGenerator: idgen.NewUUID("run"),
		Concurrency: cfg.Concurrency,
		Strict:      cfg.Strict,
		Metrics:     a.metrics,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create tier orchestrator")
	}

	a.builder, err = report.NewBuilder(&report.Config{
		Resolver:    resolver,
		MaxDepth:    cfg.NestedDepth,
		Strict:      cfg.Strict,
		Concurrency: cfg.Concurrency,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create report builder")
	}

	a.sampler, err = sampler.NewSampler(&sampler.Config{})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create sampler")
	}

	return a, nil
}

func (a *app) withCache(next content.Fetcher) (content.Fetcher, error) {
	client, err := redisclient.NewClient(a.cfg.Cache.RedisAddr, &redisclient.Options{PingOnCreate: true})
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect content cache")
	}
	a.redis = client

	repo, err := contentcache.NewRedisRepository(&contentcache.Config{
		Client: client,
		Clock:  clock.New(),
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create content cache")
	}

	return content.NewCachedFetcher(&content.CachedConfig{
		Fetcher: next,
		Cache:   repo,
		TTL:     a.cfg.Cache.TTL,
		Metrics: a.metrics,
	})
}

// Close releases the cache connection and writes the metrics file
func (a *app) Close() error {
	var err error
	if a.redis != nil {
		if cerr := a.redis.Close(); cerr != nil {
			err = errors.WrapWithCode(cerr, errors.CodeInternal, "failed to close redis client")
		}
	}
	if a.cfg.MetricsFile != "" {
		if merr := a.metrics.WriteToTextfile(a.cfg.MetricsFile); merr != nil && err == nil {
			err = merr
		}
	}
	return err
}

// selectTiers maps command arguments onto configured tiers. "all" expands to
// every tier in menu order.
func (a *app) selectTiers(args []string) ([]loot.Tier, error) {
	var out []loot.Tier
	for _, arg := range args {
		if strings.EqualFold(arg, allTiers) {
			out = append(out, a.cfg.ResolvedTiers()...)
			continue
		}
		t, err := a.cfg.FindTier(arg)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

// build aggregates a tier and resolves its display report
func (a *app) build(ctx context.Context, t loot.Tier) (*loot.TierReport, *report.Report, error) {
	agg, err := a.tiers.Aggregate(ctx, &tier.AggregateInput{Tier: t})
	if err != nil {
		return nil, nil, err
	}

	rep, err := a.builder.Build(ctx, agg.Report)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "failed to build report for %s", t.Label).
			WithMeta("run_id", agg.RunID)
	}

	return agg.Report, rep, nil
}

// show renders one report per tier. In best-effort mode a failing tier is
// reported and the remaining tiers still run; the returned error carries
// every tier failure.
func (a *app) show(ctx context.Context, tiers []loot.Tier, w io.Writer, format report.Format) error {
	var failures []error
	for _, t := range tiers {
		_, rep, err := a.build(ctx, t)
		if err == nil {
			err = report.Render(w, rep, format)
		}
		if err == nil {
			continue
		}
		if a.cfg.Strict || errors.IsCanceled(err) {
			return err
		}

		slog.ErrorContext(ctx, "tier failed",
			"tier", t.ID,
			"error", err)
		failures = append(failures, errors.Wrapf(err, "tier %s", t.ID).WithMeta("tier", t.ID))
	}

	if len(failures) > 0 {
		return errors.WrapWithCodef(errors.Join(failures...), errors.CodeInternal,
			"%d of %d tiers failed", len(failures), len(tiers))
	}
	return nil
}

// simulate samples every table of a tier and prints expected against
// observed chances
func (a *app) simulate(ctx context.Context, t loot.Tier, rolls int, w io.Writer) error {
	tierReport, rep, err := a.build(ctx, t)
	if err != nil {
		return err
	}

	fmt.Fprintln(w, report.Center(fmt.Sprintf(" %s (%s) x%d ", rep.Label, rep.Tier, rolls), 90))
	for _, sec := range rep.Sections {
		table, ok := tierReport.Lookup(sec.Name)
		if !ok {
			return errors.Internalf("report section %s has no loot table", sec.Name)
		}

		out, err := a.sampler.Sample(&sampler.SampleInput{Table: table, Rolls: rolls})
		if err != nil {
			if a.cfg.Strict {
				return errors.Wrapf(err, "failed to sample %s", sec.Name).
					WithMeta("table", sec.Name)
			}
			fmt.Fprintf(w, "%s: %v\n\n", sec.Name, err)
			continue
		}

		labels := topLevelLabels(sec)
		fmt.Fprintln(w, report.Center(sec.Name, 90))
		fmt.Fprintln(w, simColumns("Expected", "Observed", "Hits", "Loot"))
		for _, o := range out.Outcomes {
			fmt.Fprintln(w, simColumns(
				report.FormatChance(o.Expected),
				report.FormatChance(o.Observed),
				fmt.Sprint(o.Hits),
				labels[o.Index]))
		}
		fmt.Fprintln(w)
	}
	return nil
}

// topLevelLabels drops expanded nested rows so labels line up with entries
func topLevelLabels(sec report.Section) []string {
	labels := make([]string, 0, len(sec.Rows))
	for _, row := range sec.Rows {
		if row.Depth == 0 {
			labels = append(labels, row.Label)
		}
	}
	return labels
}

func simColumns(expected, observed, hits, label string) string {
	return runewidth.FillRight(expected, 15) +
		runewidth.FillRight(observed, 15) +
		runewidth.FillRight(hits, 10) +
		label
}
