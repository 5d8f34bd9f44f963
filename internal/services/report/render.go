package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"
	"gopkg.in/yaml.v3"

	"github.com/KirkDiggler/rpg-loot/internal/errors"
)

// Format selects how a report is rendered
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

const (
	headerWidth = 90
	weightWidth = 20
	chanceWidth = 30
)

// ParseFormat validates a format name; empty means text
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatText, nil
	case FormatText, FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", errors.InvalidArgumentf("unknown format %q (want text, json or yaml)", s)
	}
}

// Render writes the report to w in the given format
func Render(w io.Writer, rep *Report, format Format) error {
	if rep == nil {
		return errors.InvalidArgument("report is required")
	}

	switch format {
	case FormatText, "":
		return renderText(w, rep)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(rep); err != nil {
			return errors.Wrap(err, "failed to encode report as json")
		}
		return nil
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(rep); err != nil {
			return errors.Wrap(err, "failed to encode report as yaml")
		}
		if err := enc.Close(); err != nil {
			return errors.Wrap(err, "failed to flush yaml report")
		}
		return nil
	default:
		return errors.InvalidArgumentf("unknown format %q", format)
	}
}

// Center pads title with '=' on both sides to the given display width. Odd
// padding puts the extra character on the right.
func Center(title string, width int) string {
	pad := width - runewidth.StringWidth(title)
	if pad <= 0 {
		return title
	}
	left := pad / 2
	return strings.Repeat("=", left) + title + strings.Repeat("=", pad-left)
}

// FormatWeight renders a weight in its shortest form: 1 -> "1", 0.5 -> "0.5"
func FormatWeight(w float64) string {
	return strconv.FormatFloat(w, 'f', -1, 64)
}

// FormatChance renders a percentage with two decimals
func FormatChance(c float64) string {
	return fmt.Sprintf("%.2f%%", c)
}

func renderText(w io.Writer, rep *Report) error {
	tw := &textWriter{w: w}

	tw.line(Center(fmt.Sprintf(" %s (%s) ", rep.Label, rep.Tier), headerWidth))
	for _, sec := range rep.Sections {
		tw.line(Center(sec.Name, headerWidth))
		tw.line("")
		tw.line(columns("Weight", "Chance", "Loot"))

		for _, row := range sec.Rows {
			chance := FormatChance(row.Chance)
			if row.Depth > 0 {
				chance += " (" + FormatChance(row.Effective) + ")"
			}

			label := strings.Repeat("  ", row.Depth)
			if row.Depth > 0 {
				label += "- "
			}
			label += row.Label
			if row.Cycle {
				label += " [cycle]"
			}

			tw.line(columns(FormatWeight(row.Weight), chance, label))
		}
		tw.line("")
	}

	if len(rep.Failures) > 0 {
		tw.line(fmt.Sprintf("%d unresolved:", len(rep.Failures)))
		for _, f := range rep.Failures {
			tw.line(fmt.Sprintf("  %s: %s: %s", f.Table, f.Target, f.Error))
		}
	}

	return tw.err
}

func columns(weight, chance, label string) string {
	return runewidth.FillRight(weight, weightWidth) + runewidth.FillRight(chance, chanceWidth) + label
}

// textWriter keeps the first write error so rendering code stays linear
type textWriter struct {
	w   io.Writer
	err error
}

func (t *textWriter) line(s string) {
	if t.err != nil {
		return
	}
	if _, err := io.WriteString(t.w, s+"\n"); err != nil {
		t.err = errors.Wrap(err, "failed to write report")
	}
}
