package loot_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/rpg-loot/internal/entities/loot"
	"github.com/KirkDiggler/rpg-loot/internal/errors"
)

func TestDefaultTable(t *testing.T) {
	table := loot.DefaultTable()

	require.Len(t, table.Entries, 1)
	assert.Equal(t, 0.0, table.Entries[0].Weight)
	assert.Equal(t, loot.Nothing{}, table.Entries[0].Ref)
	assert.NoError(t, table.Validate())
}

func TestChances(t *testing.T) {
	testCases := []struct {
		name     string
		weights  []float64
		expected []float64
	}{
		{
			name:     "single entry takes everything",
			weights:  []float64{1},
			expected: []float64{100},
		},
		{
			name:     "one to three",
			weights:  []float64{1, 3},
			expected: []float64{25, 75},
		},
		{
			name:     "zero weight sum is defined as zero",
			weights:  []float64{0},
			expected: []float64{0},
		},
		{
			name:     "zero weight entries next to positive ones",
			weights:  []float64{0, 2, 2},
			expected: []float64{0, 50, 50},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			table := loot.Table{}
			for _, w := range tc.weights {
				table.Entries = append(table.Entries, loot.Entry{Weight: w, Ref: loot.Nothing{}})
			}

			chances := table.Chances()
			require.Len(t, chances, len(tc.expected))
			for i := range tc.expected {
				assert.InDelta(t, tc.expected[i], chances[i], 1e-9)
				assert.False(t, math.IsNaN(chances[i]))
			}
		})
	}
}

func TestChancesSumToOne(t *testing.T) {
	weights := [][]float64{
		{1, 1, 1},
		{0.1, 0.2, 0.3, 0.4},
		{5, 17, 0.25, 1000, 3.5},
		{1e-3, 7},
	}

	for _, ws := range weights {
		table := loot.Table{}
		for _, w := range ws {
			table.Entries = append(table.Entries, loot.Entry{Weight: w, Ref: loot.Item{Path: "a.b"}})
		}

		var total float64
		for _, c := range table.Chances() {
			total += c / 100
		}
		assert.InDelta(t, 1.0, total, 1e-6)
	}
}

func TestTableValidate(t *testing.T) {
	testCases := []struct {
		name    string
		table   loot.Table
		wantErr bool
	}{
		{
			name: "all variants",
			table: loot.Table{Entries: []loot.Entry{
				{Weight: 1, Ref: loot.Item{Path: "common.items.food.apple"}},
				{Weight: 2, Ref: loot.ItemQuantity{Path: "common.items.coin", Min: 1, Max: 5}},
				{Weight: 0.5, Ref: loot.TableRef{Path: "common.loot_tables.boss"}},
				{Weight: 0, Ref: loot.Nothing{}},
			}},
		},
		{
			name:    "empty",
			table:   loot.Table{},
			wantErr: true,
		},
		{
			name:    "negative weight",
			table:   loot.Table{Entries: []loot.Entry{{Weight: -1, Ref: loot.Nothing{}}}},
			wantErr: true,
		},
		{
			name:    "nan weight",
			table:   loot.Table{Entries: []loot.Entry{{Weight: math.NaN(), Ref: loot.Nothing{}}}},
			wantErr: true,
		},
		{
			name:    "inverted quantity",
			table:   loot.Table{Entries: []loot.Entry{{Weight: 1, Ref: loot.ItemQuantity{Path: "a", Min: 3, Max: 2}}}},
			wantErr: true,
		},
		{
			name:    "nil reference",
			table:   loot.Table{Entries: []loot.Entry{{Weight: 1}}},
			wantErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.table.Validate()
			if tc.wantErr {
				assert.Error(t, err)
				assert.True(t, errors.IsInvalidArgument(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNewItemQuantity(t *testing.T) {
	q, err := loot.NewItemQuantity("common.items.coin", 2, 5)
	require.NoError(t, err)
	assert.Equal(t, "2-5", q.Range())

	_, err = loot.NewItemQuantity("common.items.coin", 0, 0)
	assert.NoError(t, err)

	_, err = loot.NewItemQuantity("common.items.coin", 6, 5)
	assert.True(t, errors.IsInvalidArgument(err))
}

func TestPathOfAndVariant(t *testing.T) {
	testCases := []struct {
		ref     loot.Reference
		path    string
		variant loot.Variant
	}{
		{loot.Item{Path: "a.b"}, "a.b", loot.VariantItem},
		{loot.ItemQuantity{Path: "c.d", Min: 1, Max: 1}, "c.d", loot.VariantItemQuantity},
		{loot.TableRef{Path: "e.f"}, "e.f", loot.VariantLootTable},
		{loot.Nothing{}, "", loot.VariantNothing},
	}

	for _, tc := range testCases {
		t.Run(string(tc.variant), func(t *testing.T) {
			assert.Equal(t, tc.path, loot.PathOf(tc.ref))
			assert.Equal(t, tc.variant, tc.ref.Variant())
		})
	}
}

func TestTierReportLookup(t *testing.T) {
	report := &loot.TierReport{
		Tier: "tier-0",
		Tables: []loot.NamedTable{
			{Name: "a.ron", Table: loot.DefaultTable()},
		},
	}

	table, ok := report.Lookup("a.ron")
	assert.True(t, ok)
	assert.Len(t, table.Entries, 1)

	_, ok = report.Lookup("missing.ron")
	assert.False(t, ok)
}
