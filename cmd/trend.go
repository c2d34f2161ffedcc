package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pable/go-pass-network/internal/report"
	"github.com/pable/go-pass-network/internal/storage"
)

var trendCmd = &cobra.Command{
	Use:   "trend <player name>",
	Short: "Chronological per-run pass totals for a player",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runTrend,
}

func runTrend(cmd *cobra.Command, args []string) error {
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	return printTrend(db, strings.Join(args, " "))
}

func printTrend(db *storage.DB, player string) error {
	history, err := db.GetPlayerHistory(player)
	if err != nil {
		return fmt.Errorf("query history: %w", err)
	}
	if len(history) == 0 {
		fmt.Printf("no runs found for %q\n", player)
		return nil
	}
	report.PrintTrendTable(os.Stdout, player, history)
	return nil
}
