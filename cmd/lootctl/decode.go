package main

import (
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/rpg-loot/internal/errors"
	"github.com/KirkDiggler/rpg-loot/internal/services/decoder"
)

var decodeCmd = &cobra.Command{
	Use:   "decode <file>",
	Short: "Validate a local loot document",
	Long: `Parse a loot document from disk and print it back in canonical form.
Nothing is fetched; use it to check a table before publishing it.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return decodeFile(args[0], cmd.OutOrStdout())
	},
}

func decodeFile(path string, w io.Writer) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		code := errors.CodeInternal
		if errors.Is(err, fs.ErrNotExist) {
			code = errors.CodeNotFound
		}
		return errors.WrapWithCode(err, code, "failed to read loot document").
			WithMeta("path", path)
	}

	table, err := decoder.ParseTable(string(raw))
	if err != nil {
		return errors.Wrapf(err, "failed to decode %s", path)
	}

	_, err = fmt.Fprintln(w, decoder.EncodeTable(table))
	return err
}
