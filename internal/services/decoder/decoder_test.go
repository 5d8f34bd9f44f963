package decoder_test

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/rpg-loot/internal/clients/content"
	"github.com/KirkDiggler/rpg-loot/internal/entities/loot"
	"github.com/KirkDiggler/rpg-loot/internal/errors"
	"github.com/KirkDiggler/rpg-loot/internal/services/decoder"
)

type DecoderTestSuite struct {
	suite.Suite
}

func TestDecoderSuite(t *testing.T) {
	suite.Run(t, new(DecoderTestSuite))
}

// envelopeFor encodes text the way the content endpoint does: base64 split
// into 60 character lines, each followed by an escaped newline.
func envelopeFor(text string) *content.FileEnvelope {
	enc := base64.StdEncoding.EncodeToString([]byte(text))
	var b strings.Builder
	for len(enc) > 60 {
		b.WriteString(enc[:60])
		b.WriteString("\n")
		enc = enc[60:]
	}
	b.WriteString(enc)
	b.WriteString("\n")

	raw, _ := json.Marshal(b.String())
	return &content.FileEnvelope{Name: "boss.ron", Path: "tier-0/boss.ron", Content: raw}
}

func (s *DecoderTestSuite) TestDecodeEnvelope() {
	text := `[
    (1.0, Item("common.items.weapons.sword.starter")),
    (3.0, ItemQuantity("common.items.utility.coins", 10, 20)),
    (0.5, LootTable("common.loot_tables.dungeon.tier-0.boss")),
    (0.0, Nothing),
]`

	table, err := decoder.Decode(envelopeFor(text))
	s.Require().NoError(err)
	s.Equal(loot.Table{Entries: []loot.Entry{
		{Weight: 1, Ref: loot.Item{Path: "common.items.weapons.sword.starter"}},
		{Weight: 3, Ref: loot.ItemQuantity{Path: "common.items.utility.coins", Min: 10, Max: 20}},
		{Weight: 0.5, Ref: loot.TableRef{Path: "common.loot_tables.dungeon.tier-0.boss"}},
		{Weight: 0, Ref: loot.Nothing{}},
	}}, table)
}

func (s *DecoderTestSuite) TestDecodeDefaultTable() {
	table, err := decoder.Decode(envelopeFor(`[(0.0, Nothing)]`))
	s.Require().NoError(err)
	s.Equal(loot.DefaultTable(), table)
}

func (s *DecoderTestSuite) TestPayloadErrors() {
	testCases := []struct {
		name  string
		env   *content.FileEnvelope
		check func(error) bool
	}{
		{
			name:  "nil envelope",
			env:   nil,
			check: errors.IsInvalidArgument,
		},
		{
			name:  "malformed base64",
			env:   &content.FileEnvelope{Content: json.RawMessage(`"not*base64!"`)},
			check: errors.IsEncoding,
		},
		{
			name:  "content is not a string",
			env:   &content.FileEnvelope{Content: json.RawMessage(`42`)},
			check: errors.IsEncoding,
		},
		{
			name: "invalid utf-8",
			env: &content.FileEnvelope{Content: json.RawMessage(
				`"` + base64.StdEncoding.EncodeToString([]byte{0xff, 0xfe, 0xfd}) + `"`)},
			check: errors.IsEncoding,
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			_, err := decoder.Payload(tc.env)
			s.Error(err)
			s.True(tc.check(err), "unexpected error: %v", err)
		})
	}
}

func (s *DecoderTestSuite) TestPayloadStripsEnvelopeArtifacts() {
	text, err := decoder.Payload(envelopeFor(`(1.0, Nothing)`))
	s.Require().NoError(err)
	s.Equal(`(1.0, Nothing)`, text)
}

func (s *DecoderTestSuite) TestPayloadUnescapesJSON() {
	// "???" encodes to Pz8/ and JSON may escape the slash
	text, err := decoder.Payload(&content.FileEnvelope{Content: json.RawMessage(`"Pz8\/"`)})
	s.Require().NoError(err)
	s.Equal("???", text)

	text, err = decoder.Payload(&content.FileEnvelope{Content: json.RawMessage(`"KDEuMCwg\nTm90aGluZyk=\n"`)})
	s.Require().NoError(err)
	s.Equal("(1.0, Nothing)", text)
}

func (s *DecoderTestSuite) TestParseTableErrors() {
	testCases := []struct {
		name string
		text string
	}{
		{name: "unknown tag", text: `[(1.0, Weapon("a.b"))]`},
		{name: "unknown unit tag", text: `[(1.0, Everything)]`},
		{name: "quantity arity", text: `[(1.0, ItemQuantity("a.b", 1))]`},
		{name: "quantity min above max", text: `[(1.0, ItemQuantity("a.b", 5, 2))]`},
		{name: "negative quantity", text: `[(1.0, ItemQuantity("a.b", -1, 2))]`},
		{name: "fractional quantity", text: `[(1.0, ItemQuantity("a.b", 1.5, 2))]`},
		{name: "negative weight", text: `[(-1.0, Nothing)]`},
		{name: "string weight", text: `[("1.0", Nothing)]`},
		{name: "item arity", text: `[(1.0, Item("a.b", "c.d"))]`},
		{name: "item path not a string", text: `[(1.0, Item(3))]`},
		{name: "entry is not a pair", text: `[(1.0, Nothing, 2.0)]`},
		{name: "empty list", text: `[]`},
		{name: "not a list", text: `(1.0, Nothing)`},
		{name: "syntax error", text: `[(1.0, Item("a.b")`},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			_, err := decoder.ParseTable(tc.text)
			s.Require().Error(err)
			s.True(errors.IsDecode(err), "unexpected error: %v", err)
			s.Equal(tc.text, errors.GetMeta(err)["text"])
		})
	}
}

func (s *DecoderTestSuite) TestRoundTrip() {
	testCases := []struct {
		name  string
		table loot.Table
	}{
		{
			name:  "item",
			table: loot.Table{Entries: []loot.Entry{{Weight: 1, Ref: loot.Item{Path: "x.y.z"}}}},
		},
		{
			name: "item quantity",
			table: loot.Table{Entries: []loot.Entry{
				{Weight: 2.5, Ref: loot.ItemQuantity{Path: "common.items.utility.coins", Min: 0, Max: 4294967295}},
			}},
		},
		{
			name:  "loot table",
			table: loot.Table{Entries: []loot.Entry{{Weight: 0.125, Ref: loot.TableRef{Path: "other.table"}}}},
		},
		{
			name:  "nothing",
			table: loot.DefaultTable(),
		},
		{
			name: "mixed with escapes",
			table: loot.Table{Entries: []loot.Entry{
				{Weight: 1, Ref: loot.Item{Path: `odd "quoted" path`}},
				{Weight: 3, Ref: loot.Nothing{}},
			}},
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			text := decoder.EncodeTable(tc.table)
			got, err := decoder.ParseTable(text)
			s.Require().NoError(err, text)
			s.Equal(tc.table, got)
		})
	}
}

func (s *DecoderTestSuite) TestEncodeTableLayout() {
	text := decoder.EncodeTable(loot.Table{Entries: []loot.Entry{
		{Weight: 1, Ref: loot.ItemQuantity{Path: "a.b", Min: 1, Max: 2}},
		{Weight: 0, Ref: loot.Nothing{}},
	}})

	s.Equal("[\n    (1.0, ItemQuantity(\"a.b\", 1, 2)),\n    (0.0, Nothing),\n]", text)
}
