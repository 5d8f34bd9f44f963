package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/KirkDiggler/rpg-loot/internal/entities/loot"
	"github.com/KirkDiggler/rpg-loot/internal/services/report"
)

func TestMenuChoice(t *testing.T) {
	tiers := []loot.Tier{{ID: "tier-0"}, {ID: "tier-1"}, {ID: "tier-2"}}

	testCases := []struct {
		name   string
		choice string
		want   []string
		ok     bool
	}{
		{name: "first tier", choice: "1", want: []string{"tier-0"}, ok: true},
		{name: "last tier", choice: "3", want: []string{"tier-2"}, ok: true},
		{name: "all by number", choice: "9", want: []string{"tier-0", "tier-1", "tier-2"}, ok: true},
		{name: "all by letter", choice: "A", want: []string{"tier-0", "tier-1", "tier-2"}, ok: true},
		{name: "out of range", choice: "4"},
		{name: "exit is not a tier", choice: "0"},
		{name: "not a number", choice: "boss"},
		{name: "empty", choice: ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := menuChoice(tc.choice, tiers)
			assert.Equal(t, tc.ok, ok)

			var ids []string
			for _, tier := range got {
				ids = append(ids, tier.ID)
			}
			assert.Equal(t, tc.want, ids)
		})
	}
}

func (s *AppTestSuite) TestMenuLoop() {
	s.server.AddFile("loot/tier-0/a", `[(1.0, Item("common.items.sword"))]`)
	s.server.AddFile("loot/tier-1/b", `[(1.0, Nothing)]`)

	a := s.newApp(s.config())
	in := strings.NewReader("7\n1\nx\na\n0\n1\n")

	var out bytes.Buffer
	s.Require().NoError(a.menu(s.ctx, in, &out, report.FormatText))

	text := out.String()
	s.Contains(text, "  1) T1\n  2) T2\n  9) All\n  0) Exit\n> ")
	s.Contains(text, `Invalid choice "7"`)
	s.Contains(text, `Invalid choice "x"`)
	// once for the single choice and once for all
	s.Equal(2, strings.Count(text, report.Center(" T1 (tier-0) ", 90)))
	s.Equal(1, strings.Count(text, report.Center(" T2 (tier-1) ", 90)))
	// input after the exit choice is never read
	s.Equal(5, strings.Count(text, "Select a tier:"))
}

func (s *AppTestSuite) TestMenuFailureKeepsLooping() {
	s.server.AddFile("loot/tier-1/b", `[(1.0, Nothing)]`)

	a := s.newApp(s.config())

	var out bytes.Buffer
	s.Require().NoError(a.menu(s.ctx, strings.NewReader("1\n2\n"), &out, report.FormatText))

	text := out.String()
	s.Contains(text, "Error: INTERNAL: 1 of 1 tiers failed: ")
	s.Contains(text, "tier tier-0")
	s.Contains(text, "unexpected status 404")
	s.Contains(text, report.Center(" T2 (tier-1) ", 90))
	// input ended without an exit choice
	s.Equal(3, strings.Count(text, "Select a tier:"))
}
