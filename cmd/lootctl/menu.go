package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/rpg-loot/internal/entities/loot"
	"github.com/KirkDiggler/rpg-loot/internal/errors"
	"github.com/KirkDiggler/rpg-loot/internal/services/report"
)

const (
	menuExit = "0"
	menuAll  = "9"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Pick tiers interactively",
	Long: `Show a numbered list of tiers and print the loot tables of each choice.
Enter 9 (or a) for every tier and 0 to quit.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := report.ParseFormat(outputFormat)
		if err != nil {
			return err
		}

		return withApp(cmd, func(a *app) error {
			return a.menu(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), format)
		})
	},
}

// menu loops until the user exits or input ends. Failures are printed and the
// loop carries on.
func (a *app) menu(ctx context.Context, in io.Reader, out io.Writer, format report.Format) error {
	tiers := a.cfg.ResolvedTiers()
	scanner := bufio.NewScanner(in)

	for {
		printMenu(out, tiers)
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return errors.WrapWithCode(err, errors.CodeInternal, "failed to read menu choice")
			}
			return nil
		}
		if err := ctx.Err(); err != nil {
			return errors.WrapWithCode(err, errors.CodeCanceled, "menu interrupted")
		}

		choice := strings.TrimSpace(scanner.Text())
		selected, ok := menuChoice(choice, tiers)
		switch {
		case choice == menuExit:
			return nil
		case !ok:
			fmt.Fprintf(out, "Invalid choice %q\n\n", choice)
			continue
		}

		if err := a.show(ctx, selected, out, format); err != nil {
			if errors.IsCanceled(err) {
				return err
			}
			fmt.Fprintf(out, "Error: %v\n\n", err)
		}
	}
}

func printMenu(w io.Writer, tiers []loot.Tier) {
	fmt.Fprintln(w, "Select a tier:")
	for i, t := range tiers {
		fmt.Fprintf(w, "  %d) %s\n", i+1, t.Label)
	}
	fmt.Fprintf(w, "  %s) All\n", menuAll)
	fmt.Fprintf(w, "  %s) Exit\n", menuExit)
	fmt.Fprint(w, "> ")
}

// menuChoice maps a menu entry onto tiers. The all choice wins over a tier
// with the same number.
func menuChoice(choice string, tiers []loot.Tier) ([]loot.Tier, bool) {
	if choice == menuAll || strings.EqualFold(choice, "a") {
		return tiers, true
	}

	n, err := strconv.Atoi(choice)
	if err != nil || n < 1 || n > len(tiers) {
		return nil, false
	}
	return tiers[n-1 : n], true
}
