package loot

import (
	"math"

	"github.com/KirkDiggler/rpg-loot/internal/errors"
)

// Entry is one weighted row of a loot table. Weight is relative, not a
// probability.
type Entry struct {
	Weight float64
	Ref    Reference
}

// Table is an ordered list of weighted entries. Order only matters for
// display.
type Table struct {
	Entries []Entry
}

// DefaultTable returns the sentinel table: a single zero-weight Nothing.
func DefaultTable() Table {
	return Table{Entries: []Entry{{Weight: 0, Ref: Nothing{}}}}
}

// Validate enforces the table invariants: at least one entry, finite
// non-negative weights, known variants and ordered quantity ranges.
func (t Table) Validate() error {
	if len(t.Entries) == 0 {
		return errors.InvalidArgument("loot table must have at least one entry")
	}

	for i, e := range t.Entries {
		if math.IsNaN(e.Weight) || math.IsInf(e.Weight, 0) {
			return errors.InvalidArgumentf("entry %d: weight must be finite", i)
		}
		if e.Weight < 0 {
			return errors.InvalidArgumentf("entry %d: weight must be >= 0, got %g", i, e.Weight)
		}

		switch r := e.Ref.(type) {
		case Item, TableRef, Nothing:
		case ItemQuantity:
			if err := r.Validate(); err != nil {
				return errors.Wrapf(err, "entry %d", i)
			}
		default:
			return errors.InvalidArgumentf("entry %d: unknown reference %T", i, e.Ref)
		}
	}

	return nil
}

// WeightSum returns the sum of all entry weights.
func (t Table) WeightSum() float64 {
	var sum float64
	for _, e := range t.Entries {
		sum += e.Weight
	}
	return sum
}

// Chance returns the drop chance of a weight as a percentage of sum.
// A zero sum yields 0 for every entry instead of NaN.
func Chance(weight, sum float64) float64 {
	if sum == 0 {
		return 0
	}
	return weight / sum * 100
}

// Chances returns the drop percentage of every entry, in entry order.
func (t Table) Chances() []float64 {
	sum := t.WeightSum()
	out := make([]float64, len(t.Entries))
	for i, e := range t.Entries {
		out[i] = Chance(e.Weight, sum)
	}
	return out
}
