package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-pass-network/internal/export"
	"github.com/pable/go-pass-network/internal/graph"
	"github.com/pable/go-pass-network/internal/report"
)

var (
	nodesOut    string
	nodesPlayer string
)

// nodesCmd prints degree and clustering metrics for a stored run.
var nodesCmd = &cobra.Command{
	Use:   "nodes <run-prefix>",
	Short: "Show per-player network metrics for a stored run",
	Long: `Compute out/in degree, weighted degree, triangles and the local clustering
coefficient of every player in a stored run. With --out the table is also
written as a Gephi nodes CSV.`,
	Args: cobra.ExactArgs(1),
	RunE: runNodes,
}

func init() {
	nodesCmd.Flags().StringVarP(&nodesOut, "out", "o", "", "write the node table to this path")
	nodesCmd.Flags().StringVar(&nodesPlayer, "player", "", "highlight one player")
}

func runNodes(cmd *cobra.Command, args []string) error {
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	run, err := findRun(db, args[0])
	if err != nil {
		return err
	}
	edges, err := db.GetEdges(run.ID)
	if err != nil {
		return fmt.Errorf("get edges: %w", err)
	}
	nodes := graph.NodeMetrics(edges)

	report.PrintRunSummary(os.Stdout, *run)
	report.PrintNodeTable(os.Stdout, nodes, nodesPlayer)

	if nodesOut != "" {
		if err := export.WriteNodesFile(nodesOut, nodes); err != nil {
			return fmt.Errorf("write nodes: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Wrote %d nodes to %s\n", len(nodes), nodesOut)
	}
	return nil
}
