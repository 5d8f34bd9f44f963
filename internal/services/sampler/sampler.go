// Package sampler simulates drops from a loot table so the computed chances
// can be compared with observed frequencies.
package sampler

import (
	"sort"

	"github.com/KirkDiggler/rpg-toolkit/dice"

	"github.com/KirkDiggler/rpg-loot/internal/entities/loot"
	"github.com/KirkDiggler/rpg-loot/internal/errors"
)

const (
	// dieSize is the resolution of one draw along the cumulative weight line
	dieSize = 1_000_000

	rollBatch = 1024
	maxRolls  = 10_000_000
)

// Sampler draws entries from loot tables
type Sampler interface {
	Sample(input *SampleInput) (*SampleOutput, error)
}

// Config holds the dependencies for the sampler
type Config struct {
	// Roller supplies randomness (optional, defaults to dice.DefaultRoller)
	Roller dice.Roller
}

// SampleInput defines the request for a simulation
type SampleInput struct {
	Table loot.Table
	Rolls int
}

// Outcome is the tally of one entry
type Outcome struct {
	Index int
	Entry loot.Entry
	Hits  int
	// Expected and Observed are percentages
	Expected float64
	Observed float64
}

// SampleOutput defines the response of a simulation
type SampleOutput struct {
	Rolls    int
	Outcomes []Outcome
}

type sampler struct {
	roller dice.Roller
}

// NewSampler creates a sampler
func NewSampler(cfg *Config) (Sampler, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config cannot be nil")
	}

	roller := cfg.Roller
	if roller == nil {
		roller = dice.DefaultRoller
	}

	return &sampler{roller: roller}, nil
}

// Sample draws input.Rolls entries. Every draw is one roll of a
// dieSize-sided die mapped onto the cumulative weights.
func (s *sampler) Sample(input *SampleInput) (*SampleOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.Rolls <= 0 || input.Rolls > maxRolls {
		return nil, errors.InvalidArgumentf("rolls must be between 1 and %d, got %d", maxRolls, input.Rolls)
	}
	if err := input.Table.Validate(); err != nil {
		return nil, err
	}

	sum := input.Table.WeightSum()
	if sum == 0 {
		return nil, errors.InvalidArgument("cannot sample a table whose weights sum to zero")
	}

	cumulative := make([]float64, len(input.Table.Entries))
	var acc float64
	for i, e := range input.Table.Entries {
		acc += e.Weight
		cumulative[i] = acc
	}

	hits := make([]int, len(input.Table.Entries))
	for remaining := input.Rolls; remaining > 0; {
		n := min(remaining, rollBatch)
		faces, err := s.roller.RollN(n, dieSize)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to roll d%d", dieSize)
		}
		if len(faces) != n {
			return nil, errors.Internalf("roller returned %d faces, want %d", len(faces), n)
		}
		for _, face := range faces {
			hits[pick(cumulative, face)]++
		}
		remaining -= n
	}

	out := &SampleOutput{Rolls: input.Rolls, Outcomes: make([]Outcome, len(hits))}
	for i, e := range input.Table.Entries {
		out.Outcomes[i] = Outcome{
			Index:    i,
			Entry:    e,
			Hits:     hits[i],
			Expected: loot.Chance(e.Weight, sum),
			Observed: float64(hits[i]) / float64(input.Rolls) * 100,
		}
	}

	return out, nil
}

// pick maps a face in [1, dieSize] to the entry whose cumulative weight band
// contains it. Zero-weight entries have an empty band and are never picked.
func pick(cumulative []float64, face int) int {
	total := cumulative[len(cumulative)-1]
	point := float64(face-1) / dieSize * total

	i := sort.Search(len(cumulative), func(i int) bool { return cumulative[i] > point })
	if i == len(cumulative) {
		i = len(cumulative) - 1
	}
	return i
}
