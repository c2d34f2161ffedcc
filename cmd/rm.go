package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-pass-network/internal/report"
)

var rmCmd = &cobra.Command{
	Use:   "rm <run-prefix>",
	Short: "Delete one stored run and its edges",
	Args:  cobra.ExactArgs(1),
	RunE:  runRm,
}

func runRm(cmd *cobra.Command, args []string) error {
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	run, err := findRun(db, args[0])
	if err != nil {
		return err
	}
	if _, err := db.DeleteRun(run.ID); err != nil {
		return fmt.Errorf("delete run: %w", err)
	}
	fmt.Fprintf(os.Stdout, "Deleted run %s (%d edges)\n", report.ShortID(run.ID), run.Summary.Edges)
	return nil
}
