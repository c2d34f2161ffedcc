package cmd

import (
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"

	"github.com/pable/go-pass-network/internal/storage"
)

// summaryCmd is the cobra command for displaying a high-level database overview.
var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show a high-level overview of the database",
	Long: `Display aggregate statistics about all stored runs:
run count, date range, distinct players, pass totals and the
completed-pass breakdown per category.`,
	Args: cobra.NoArgs,
	RunE: runSummary,
}

func runSummary(cmd *cobra.Command, args []string) error {
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	return printSummary(db)
}

func printSummary(db *storage.DB) error {
	ov, err := db.GetOverview()
	if err != nil {
		return fmt.Errorf("get overview: %w", err)
	}
	if ov.TotalRuns == 0 {
		fmt.Fprintln(os.Stdout, "No runs stored yet. Run 'passnet build --store <events.csv>' to add one.")
		return nil
	}

	cmpPct := 0.0
	if ov.TotalPasses > 0 {
		cmpPct = 100 * float64(ov.TotalComplete) / float64(ov.TotalPasses)
	}

	fmt.Fprintf(os.Stdout, "\n=== Database Summary ===\n\n")
	fmt.Fprintf(os.Stdout, "  Runs stored   : %d\n", ov.TotalRuns)
	fmt.Fprintf(os.Stdout, "  Date range    : %s → %s\n", ov.EarliestRun, ov.LatestRun)
	fmt.Fprintf(os.Stdout, "  Players seen  : %d\n", ov.UniquePlayers)
	fmt.Fprintf(os.Stdout, "  Edges         : %d\n", ov.TotalEdges)
	fmt.Fprintf(os.Stdout, "  Passes        : %d (%d completed, %.0f%%)\n", ov.TotalPasses, ov.TotalComplete, cmpPct)

	cats, err := db.GetCategoryCounts()
	if err != nil {
		return fmt.Errorf("get category counts: %w", err)
	}
	fmt.Fprintf(os.Stdout, "\n--- Categories ---\n\n")
	ct := tablewriter.NewTable(os.Stdout, tablewriter.WithConfig(tablewriter.Config{
		Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignRight}},
		Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
	}))
	ct.Header("CATEGORY", "EDGES", "COMPLETED", "SHARE")
	for _, c := range cats {
		share := 0.0
		if ov.TotalComplete > 0 {
			share = 100 * float64(c.Weight) / float64(ov.TotalComplete)
		}
		ct.Append(
			c.Category,
			fmt.Sprintf("%d", c.Edges),
			fmt.Sprintf("%d", c.Weight),
			fmt.Sprintf("%.1f%%", share),
		)
	}
	ct.Render()
	return nil
}
