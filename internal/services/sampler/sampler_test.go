package sampler_test

import (
	"testing"

	"github.com/KirkDiggler/rpg-toolkit/dice"
	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/rpg-loot/internal/entities/loot"
	"github.com/KirkDiggler/rpg-loot/internal/errors"
	"github.com/KirkDiggler/rpg-loot/internal/services/sampler"
)

// cycleRoller returns faces from a fixed list, wrapping around
type cycleRoller struct {
	faces []int
	next  int
	err   error
}

func (r *cycleRoller) Roll(size int) (int, error) {
	out, err := r.RollN(1, size)
	if err != nil {
		return 0, err
	}
	return out[0], nil
}

func (r *cycleRoller) RollN(count, _ int) ([]int, error) {
	if r.err != nil {
		return nil, r.err
	}
	out := make([]int, count)
	for i := range out {
		out[i] = r.faces[r.next%len(r.faces)]
		r.next++
	}
	return out, nil
}

var _ dice.Roller = (*cycleRoller)(nil)

type SamplerTestSuite struct {
	suite.Suite
}

func TestSamplerSuite(t *testing.T) {
	suite.Run(t, new(SamplerTestSuite))
}

func (s *SamplerTestSuite) newSampler(roller dice.Roller) sampler.Sampler {
	smp, err := sampler.NewSampler(&sampler.Config{Roller: roller})
	s.Require().NoError(err)
	return smp
}

func (s *SamplerTestSuite) TestBandsFollowWeights() {
	// 1:3 split puts faces up to 250000 in the first band
	roller := &cycleRoller{faces: []int{1, 250_000, 250_001, 1_000_000}}
	table := loot.Table{Entries: []loot.Entry{
		{Weight: 1, Ref: loot.Item{Path: "rare"}},
		{Weight: 0, Ref: loot.Nothing{}},
		{Weight: 3, Ref: loot.Item{Path: "common"}},
	}}

	out, err := s.newSampler(roller).Sample(&sampler.SampleInput{Table: table, Rolls: 4})
	s.Require().NoError(err)

	s.Equal(4, out.Rolls)
	s.Require().Len(out.Outcomes, 3)
	s.Equal(2, out.Outcomes[0].Hits)
	s.Equal(0, out.Outcomes[1].Hits)
	s.Equal(2, out.Outcomes[2].Hits)
	s.InDelta(25.0, out.Outcomes[0].Expected, 1e-9)
	s.InDelta(75.0, out.Outcomes[2].Expected, 1e-9)
	s.InDelta(50.0, out.Outcomes[0].Observed, 1e-9)
}

func (s *SamplerTestSuite) TestTotalsMatchRolls() {
	table := loot.Table{Entries: []loot.Entry{
		{Weight: 2, Ref: loot.Item{Path: "a"}},
		{Weight: 5, Ref: loot.ItemQuantity{Path: "b", Min: 1, Max: 3}},
		{Weight: 1, Ref: loot.Nothing{}},
	}}

	out, err := s.newSampler(nil).Sample(&sampler.SampleInput{Table: table, Rolls: 5000})
	s.Require().NoError(err)

	total := 0
	for _, o := range out.Outcomes {
		total += o.Hits
	}
	s.Equal(5000, total)
}

func (s *SamplerTestSuite) TestRejectsBadInput() {
	smp := s.newSampler(&cycleRoller{faces: []int{1}})

	testCases := []struct {
		name  string
		input *sampler.SampleInput
	}{
		{name: "nil input", input: nil},
		{name: "zero rolls", input: &sampler.SampleInput{Table: loot.Table{Entries: []loot.Entry{{Weight: 1, Ref: loot.Nothing{}}}}}},
		{name: "zero weight sum", input: &sampler.SampleInput{Table: loot.DefaultTable(), Rolls: 10}},
		{name: "empty table", input: &sampler.SampleInput{Rolls: 10}},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			out, err := smp.Sample(tc.input)
			s.Error(err)
			s.True(errors.IsInvalidArgument(err))
			s.Nil(out)
		})
	}
}

func (s *SamplerTestSuite) TestRollerFailure() {
	smp := s.newSampler(&cycleRoller{err: errors.Internal("entropy exhausted")})

	_, err := smp.Sample(&sampler.SampleInput{
		Table: loot.Table{Entries: []loot.Entry{{Weight: 1, Ref: loot.Nothing{}}}},
		Rolls: 3,
	})
	s.Error(err)
	s.True(errors.IsInternal(err))
}
