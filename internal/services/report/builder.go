// Package report computes drop chances for an aggregated tier, resolves the
// display label of every entry and renders the result.
package report

//go:generate mockgen -destination=mock/mock_builder.go -package=reportmock github.com/KirkDiggler/rpg-loot/internal/services/report Builder

import (
	"context"
	"log/slog"
	"slices"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/KirkDiggler/rpg-loot/internal/entities/loot"
	"github.com/KirkDiggler/rpg-loot/internal/errors"
	"github.com/KirkDiggler/rpg-loot/internal/services/names"
)

const maxNestedDepth = 16

// Builder turns tier reports into display reports
type Builder interface {
	Build(ctx context.Context, tierReport *loot.TierReport) (*Report, error)
}

// Config holds the dependencies for the report builder
type Config struct {
	Resolver names.Resolver
	// MaxDepth is how many levels of nested tables are expanded; 0 keeps
	// the placeholder label
	MaxDepth int
	// Strict aborts on the first row that cannot be resolved
	Strict bool
	// Concurrency bounds in-flight name lookups per table (optional, 1)
	Concurrency int
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Resolver == nil {
		vb.RequiredField("Resolver")
	}
	errors.ValidateRange("MaxDepth", c.MaxDepth, 0, maxNestedDepth, vb)
	if c.Concurrency < 0 {
		vb.InvalidField("Concurrency", "must not be negative")
	}

	return vb.Build()
}

type builder struct {
	resolver    names.Resolver
	maxDepth    int
	strict      bool
	concurrency int
}

// NewBuilder creates a report builder
func NewBuilder(cfg *Config) (Builder, error) {
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

	return &builder{
		resolver:    cfg.Resolver,
		maxDepth:    cfg.MaxDepth,
		strict:      cfg.Strict,
		concurrency: concurrency,
	}, nil
}

// Ensure builder implements Builder
var _ Builder = (*builder)(nil)

// UnresolvedLabel is shown in place of a name that could not be resolved
func UnresolvedLabel(path string) string {
	return "<unresolved " + path + ">"
}

// run carries the state of a single Build call
type run struct {
	*builder
	table string

	mu       sync.Mutex
	failures []Failure
}

func (r *run) fail(target string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failures = append(r.failures, Failure{Table: r.table, Target: target, Error: err.Error()})
}

// Build resolves every table of the tier report in listing order
func (b *builder) Build(ctx context.Context, tierReport *loot.TierReport) (*Report, error) {
	if tierReport == nil {
		return nil, errors.InvalidArgument("tier report is required")
	}

	out := &Report{
		Tier:     tierReport.Tier,
		Label:    tierReport.Label,
		Sections: make([]Section, 0, len(tierReport.Tables)),
	}

	for _, f := range tierReport.Failures {
		out.Failures = append(out.Failures, Failure{Table: f.Table, Target: f.Target, Error: f.Err.Error()})
	}

	for _, nt := range tierReport.Tables {
		r := &run{builder: b, table: nt.Name}

		rows, err := r.expand(ctx, nt.Table, 0, 100, nil)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to build table %s", nt.Name).
				WithMeta("table", nt.Name)
		}

		out.Sections = append(out.Sections, Section{
			Name:      nt.Name,
			WeightSum: nt.Table.WeightSum(),
			Rows:      rows,
		})
		out.Failures = append(out.Failures, r.failures...)
	}

	slog.DebugContext(ctx, "built report",
		"tier", tierReport.Tier,
		"sections", len(out.Sections),
		"failures", len(out.Failures))

	return out, nil
}

// expand builds the rows of one table. chain holds the nested table paths
// already open above this table.
func (r *run) expand(ctx context.Context, table loot.Table, depth int, parentChance float64, chain []string) ([]Row, error) {
	if err := table.Validate(); err != nil {
		return nil, err
	}

	sum := table.WeightSum()
	rows := make([]Row, len(table.Entries))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)

	for i, e := range table.Entries {
		chance := loot.Chance(e.Weight, sum)
		rows[i] = Row{
			Weight:    e.Weight,
			Chance:    chance,
			Effective: parentChance * chance / 100,
			Variant:   e.Ref.Variant(),
			Path:      loot.PathOf(e.Ref),
			Depth:     depth,
		}

		g.Go(func() error {
			label, resolved, err := r.label(gctx, e.Ref)
			if err != nil {
				return err
			}
			rows[i].Label = label
			rows[i].Unresolved = !resolved
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	if depth >= r.maxDepth {
		return rows, nil
	}

	out := make([]Row, 0, len(rows))
	for i, e := range table.Entries {
		ref, ok := e.Ref.(loot.TableRef)
		if !ok {
			out = append(out, rows[i])
			continue
		}

		if slices.Contains(chain, ref.Path) {
			rows[i].Cycle = true
			out = append(out, rows[i])
			continue
		}

		nested, err := r.resolver.FetchTable(ctx, ref.Path)
		if err != nil {
			if r.strict {
				return nil, err
			}
			r.fail(ref.Path, err)
			out = append(out, rows[i])
			continue
		}

		children, err := r.expand(ctx, nested, depth+1, rows[i].Effective, append(chain[:len(chain):len(chain)], ref.Path))
		if err != nil {
			return nil, err
		}
		out = append(out, rows[i])
		out = append(out, children...)
	}

	return out, nil
}

// label resolves a display label. In best-effort mode a failed lookup
// yields UnresolvedLabel and resolved=false instead of an error.
func (r *run) label(ctx context.Context, ref loot.Reference) (label string, resolved bool, err error) {
	name, err := r.resolver.ResolveName(ctx, ref)
	if err != nil {
		if r.strict {
			return "", false, err
		}
		slog.WarnContext(ctx, "unresolved loot name",
			"table", r.table,
			"path", loot.PathOf(ref),
			"error", err)
		r.fail(loot.PathOf(ref), err)
		name = UnresolvedLabel(loot.PathOf(ref))
	} else {
		resolved = true
	}

	if q, ok := ref.(loot.ItemQuantity); ok {
		return q.Range() + " " + name, resolved, nil
	}
	return name, resolved, nil
}
