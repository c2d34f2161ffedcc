package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/pable/go-pass-network/internal/aggregator"
	"github.com/pable/go-pass-network/internal/export"
	"github.com/pable/go-pass-network/internal/graph"
	"github.com/pable/go-pass-network/internal/loader"
	"github.com/pable/go-pass-network/internal/metrics"
	"github.com/pable/go-pass-network/internal/model"
	"github.com/pable/go-pass-network/internal/passnet"
	"github.com/pable/go-pass-network/internal/report"
)

var (
	buildOut         string
	buildNodesOut    string
	buildTeam        string
	buildStore       bool
	buildRunID       string
	buildPrint       bool
	buildPlayer      string
	buildMetricsFile string
	buildPushgateway string
)

var buildCmd = &cobra.Command{
	Use:   "build <csv|glob>...",
	Short: "Build a pass network from event CSV files",
	Long: `Read one or more event CSV files (globs allowed, .gz/.bz2/.zst decompressed),
drop rows without a passer or recipient, classify every pass and write the
edge table. Use "-" as --out to write the edge table to stdout.

Exits with status 2 when no edge with a completed pass remains.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().StringVarP(&buildOut, "out", "o", "edges.csv", "edge table output path")
	buildCmd.Flags().StringVar(&buildNodesOut, "nodes-out", "", "also write per-player node metrics to this path")
	buildCmd.Flags().StringVar(&buildTeam, "team", "", "only keep passes by this team (overrides config)")
	buildCmd.Flags().BoolVar(&buildStore, "store", false, "save the run in the database")
	buildCmd.Flags().StringVar(&buildRunID, "run-id", "", "store under this ID instead of a new one, replacing any run with it")
	buildCmd.Flags().BoolVar(&buildPrint, "print", false, "print the run summary and edge tables")
	buildCmd.Flags().StringVar(&buildPlayer, "player", "", "highlight edges touching this player when printing")
	buildCmd.Flags().StringVar(&buildMetricsFile, "metrics-file", "", "write Prometheus textfile metrics to this path")
	buildCmd.Flags().StringVar(&buildPushgateway, "pushgateway", "", "push metrics to this Pushgateway URL")
}

func runBuild(cmd *cobra.Command, args []string) error {
	start := time.Now()

	team := cfg.Team
	if cmd.Flags().Changed("team") {
		team = buildTeam
	}

	tbl, files, err := loader.Load(args...)
	if err != nil {
		return fmt.Errorf("load input: %w", err)
	}
	for _, f := range files {
		slog.Debug("read input", "file", f.Path, "rows", f.Rows)
	}

	res, err := passnet.Build(tbl, passnet.Options{Schema: cfg.Schema(), Team: team})
	var empty *model.EmptyInputError
	if errors.As(err, &empty) && res != nil {
		slog.Warn("no edges produced",
			"stage", empty.Stage,
			"rows_read", res.Summary.RowsRead,
			"rows_dropped", res.Summary.RowsDropped,
			"rows_filtered", res.Summary.RowsFiltered,
		)
	}
	if err != nil {
		return err
	}

	logBuildWarnings(res, team)
	s := res.Summary
	slog.Info("built pass network",
		"files", len(files),
		"rows_read", s.RowsRead,
		"rows_dropped", s.RowsDropped,
		"rows_filtered", s.RowsFiltered,
		"events", s.Events,
		"edges", s.Edges,
		"completed", s.Completed,
		"failed", s.Failed,
		"recovery_interception", s.RecoveryEvents,
		"zero_weight_dropped", s.ZeroWeight,
	)

	if buildOut == "-" {
		if err := export.WriteEdges(os.Stdout, res.Edges); err != nil {
			return fmt.Errorf("write edges: %w", err)
		}
	} else {
		if err := export.WriteEdgesFile(buildOut, res.Edges); err != nil {
			return fmt.Errorf("write edges: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Wrote %d edges to %s\n", len(res.Edges), buildOut)
	}

	if buildNodesOut != "" {
		nodes := graph.NodeMetrics(res.Edges)
		if err := export.WriteNodesFile(buildNodesOut, nodes); err != nil {
			return fmt.Errorf("write nodes: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Wrote %d nodes to %s\n", len(nodes), buildNodesOut)
	}

	id := buildRunID
	if id == "" {
		id = uuid.NewString()
	}
	run := model.RunRecord{
		ID:        id,
		CreatedAt: start.UTC().Format(time.RFC3339),
		Inputs:    inputNames(files),
		Team:      team,
		Summary:   s,
	}

	if buildStore {
		db, err := openStore()
		if err != nil {
			return err
		}
		defer db.Close()
		exists, err := db.RunExists(run.ID)
		if err != nil {
			return fmt.Errorf("check run: %w", err)
		}
		if exists {
			slog.Warn("replacing stored run", "id", run.ID)
		}
		if err := db.SaveRun(run, res.Edges); err != nil {
			return fmt.Errorf("store run: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Stored run %s\n", report.ShortID(run.ID))
	}

	if buildPrint {
		report.PrintRunSummary(os.Stdout, run)
		report.PrintEdgeTable(os.Stdout, res.Edges, buildPlayer, 0)
		fmt.Fprintln(os.Stdout)
		report.PrintCategoryTable(os.Stdout, aggregator.CategoryTotals(res.Edges))
	}

	return exportMetrics(cmd, res, team, time.Since(start))
}

func logBuildWarnings(res *passnet.Result, team string) {
	if res.OutcomeColumnMissing {
		slog.Warn("outcome column missing; every pass counts as completed",
			"column", cfg.Columns.Outcome)
	}
	if team != "" && res.TeamColumnMissing {
		slog.Warn("team column missing; team filter ignored",
			"column", cfg.Columns.Team, "team", team)
	}
	for _, f := range res.MissingColumns {
		slog.Debug("optional column missing; treated as false", "field", string(f))
	}
}

func exportMetrics(cmd *cobra.Command, res *passnet.Result, team string, d time.Duration) error {
	file := cfg.MetricsFile
	if cmd.Flags().Changed("metrics-file") {
		file = buildMetricsFile
	}
	url := cfg.PushgatewayURL
	if cmd.Flags().Changed("pushgateway") {
		url = buildPushgateway
	}
	if file == "" && url == "" {
		return nil
	}

	var opts []metrics.Option
	if team != "" {
		opts = append(opts, metrics.WithConstLabels(map[string]string{"team": team}))
	}
	m := metrics.NewManager(opts...)
	m.RecordBuild(res.Summary, aggregator.CategoryTotals(res.Edges), d)

	if file != "" {
		if err := m.WriteTextfile(file); err != nil {
			return err
		}
		slog.Debug("wrote metrics textfile", "path", file)
	}
	if url != "" {
		if err := m.Push(cmd.Context(), url, cfg.JobName); err != nil {
			return err
		}
		slog.Debug("pushed metrics", "url", url, "job", cfg.JobName)
	}
	return nil
}

func inputNames(files []loader.FileStat) string {
	names := make([]string, len(files))
	for i, f := range files {
		names[i] = f.Path
	}
	return strings.Join(names, ",")
}
