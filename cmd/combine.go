package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-pass-network/internal/export"
	"github.com/pable/go-pass-network/internal/loader"
)

var combineOut string

// combineCmd concatenates per-match event files into one CSV.
var combineCmd = &cobra.Command{
	Use:   "combine <csv|glob>...",
	Short: "Concatenate event CSV files into one",
	Long: `Read every matching CSV in sorted order and write one table with the union
of their headers. A source_file column records where each row came from.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCombine,
}

func init() {
	combineCmd.Flags().StringVarP(&combineOut, "out", "o", "combined.csv", `output path ("-" for stdout)`)
}

func runCombine(cmd *cobra.Command, args []string) error {
	tbl, files, err := loader.Load(args...)
	if err != nil {
		return fmt.Errorf("load input: %w", err)
	}
	for _, f := range files {
		slog.Debug("read input", "file", f.Path, "rows", f.Rows)
	}

	if combineOut == "-" {
		return export.WriteTable(os.Stdout, tbl)
	}
	if err := export.WriteTableFile(combineOut, tbl); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Combined %d files (%d rows) into %s\n", len(files), tbl.Len(), combineOut)
	return nil
}
