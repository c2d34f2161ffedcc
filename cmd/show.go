package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-pass-network/internal/aggregator"
	"github.com/pable/go-pass-network/internal/report"
	"github.com/pable/go-pass-network/internal/storage"
)

var (
	showPlayer string
	showLimit  int
)

var showCmd = &cobra.Command{
	Use:   "show <run-prefix>",
	Short: "Show the edges of a stored run",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	showCmd.Flags().StringVar(&showPlayer, "player", "", "highlight one player and print their totals")
	showCmd.Flags().IntVar(&showLimit, "limit", 25, "maximum edges to print (0 for all)")
}

func runShow(cmd *cobra.Command, args []string) error {
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	return showRun(db, args[0], showPlayer, showLimit)
}

func showRun(db *storage.DB, prefix, player string, limit int) error {
	run, err := findRun(db, prefix)
	if err != nil {
		return err
	}
	edges, err := db.GetEdges(run.ID)
	if err != nil {
		return fmt.Errorf("get edges: %w", err)
	}

	report.PrintRunSummary(os.Stdout, *run)
	report.PrintEdgeTable(os.Stdout, edges, player, limit)
	fmt.Fprintln(os.Stdout)
	report.PrintCategoryTable(os.Stdout, aggregator.CategoryTotals(edges))

	if player == "" {
		return nil
	}
	totals, err := db.GetPlayerTotals(run.ID)
	if err != nil {
		return fmt.Errorf("get player totals: %w", err)
	}
	fmt.Fprintln(os.Stdout)
	report.PrintPlayerTotals(os.Stdout, totals, player)
	return nil
}
