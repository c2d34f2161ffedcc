package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/pable/go-pass-network/internal/aggregator"
	"github.com/pable/go-pass-network/internal/graph"
	"github.com/pable/go-pass-network/internal/model"
	"github.com/pable/go-pass-network/internal/storage"
)

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignRight},
		},
		Header: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignCenter},
		},
	}))
}

func orDash(s string) string {
	if s == "" {
		return "—"
	}
	return s
}

// ShortID trims a run ID for display.
func ShortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// PrintRunSummary prints a one-line header for a run followed by its counts.
func PrintRunSummary(w io.Writer, r model.RunRecord) {
	s := r.Summary
	fmt.Fprintf(w, "\nRun: %s  |  Created: %s  |  Team: %s  |  Inputs: %s\n",
		ShortID(r.ID), r.CreatedAt, orDash(r.Team), orDash(r.Inputs))
	fmt.Fprintf(w, "Rows: %d read, %d dropped, %d filtered  |  Events: %d  |  Edges: %d\n",
		s.RowsRead, s.RowsDropped, s.RowsFiltered, s.Events, s.Edges)
	fmt.Fprintf(w, "Passes: %d completed, %d failed, %d after recovery/interception",
		s.Completed, s.Failed, s.RecoveryEvents)
	if s.ZeroWeight > 0 {
		fmt.Fprintf(w, "  |  %d zero-weight groups dropped", s.ZeroWeight)
	}
	fmt.Fprint(w, "\n\n")
}

// PrintRunList prints one row per stored run.
func PrintRunList(w io.Writer, runs []model.RunRecord) {
	table := newTable(w)
	table.Header("ID", "CREATED", "TEAM", "EVENTS", "EDGES", "COMPLETED", "FAILED", "INPUTS")
	for _, r := range runs {
		table.Append(
			ShortID(r.ID),
			r.CreatedAt,
			orDash(r.Team),
			strconv.Itoa(r.Summary.Events),
			strconv.Itoa(r.Summary.Edges),
			strconv.Itoa(r.Summary.Completed),
			strconv.Itoa(r.Summary.Failed),
			orDash(r.Inputs),
		)
	}
	table.Render()
}

// PrintEdgeTable prints the edge table. Edges touching focus are marked with ">".
// A limit of zero or less prints every edge.
func PrintEdgeTable(w io.Writer, edges []model.Edge, focus string, limit int) {
	table := newTable(w)
	table.Header(" ", "SOURCE", "TARGET", "CATEGORY", "WEIGHT", "FAILED", "TOTAL", "CMP%", "REC/INT", "ASSISTS")

	for i, e := range edges {
		if limit > 0 && i >= limit {
			break
		}
		marker := " "
		if focus != "" && (e.Source == focus || e.Target == focus) {
			marker = ">"
		}
		cmp := "—"
		if e.TotalPasses > 0 {
			cmp = fmt.Sprintf("%.0f%%", 100*float64(e.Weight)/float64(e.TotalPasses))
		}
		table.Append(
			marker,
			e.Source,
			e.Target,
			string(e.Category),
			strconv.Itoa(e.Weight),
			strconv.Itoa(e.FailedPasses),
			strconv.Itoa(e.TotalPasses),
			cmp,
			strconv.Itoa(e.RecoveryInterception),
			strconv.Itoa(e.AssistCount),
		)
	}
	table.Render()
	if limit > 0 && len(edges) > limit {
		fmt.Fprintf(w, "(%d more edges not shown)\n", len(edges)-limit)
	}
}

// PrintCategoryTable prints per-category totals in priority order.
func PrintCategoryTable(w io.Writer, totals []aggregator.CategoryTotal) {
	table := newTable(w)
	table.Header("CATEGORY", "EDGES", "COMPLETED", "FAILED", "CMP%", "ASSISTS")
	for _, c := range totals {
		table.Append(
			string(c.Category),
			strconv.Itoa(c.Edges),
			strconv.Itoa(c.Completed),
			strconv.Itoa(c.Failed),
			fmt.Sprintf("%.0f%%", c.CompletionPct()),
			strconv.Itoa(c.Assists),
		)
	}
	table.Render()
}

// PrintNodeTable prints per-player network metrics followed by a network-level line.
func PrintNodeTable(w io.Writer, nodes []model.NodeMetrics, focus string) {
	table := newTable(w)
	table.Header(" ", "PLAYER", "OUT", "IN", "DEG", "W_OUT", "W_IN", "TRI", "CLUST")
	for _, n := range nodes {
		marker := " "
		if focus != "" && n.Player == focus {
			marker = ">"
		}
		table.Append(
			marker,
			n.Player,
			strconv.Itoa(n.OutDegree),
			strconv.Itoa(n.InDegree),
			strconv.Itoa(n.Degree),
			strconv.Itoa(n.WeightedOut),
			strconv.Itoa(n.WeightedIn),
			strconv.Itoa(n.Triangles),
			fmt.Sprintf("%.3f", n.Clustering),
		)
	}
	table.Render()
	fmt.Fprintf(w, "\nPlayers: %d  |  Density: %.3f  |  Avg clustering: %.3f\n",
		len(nodes), graph.Density(nodes), graph.AverageClustering(nodes))
}

// PrintPlayerTotals prints stored per-player pass totals for a run.
func PrintPlayerTotals(w io.Writer, totals []storage.PlayerTotals, focus string) {
	table := newTable(w)
	table.Header(" ", "PLAYER", "MADE", "RECEIVED", "FAILED", "ASSISTS", "REC/INT", "PEERS")
	for _, p := range totals {
		marker := " "
		if focus != "" && p.Player == focus {
			marker = ">"
		}
		table.Append(
			marker,
			p.Player,
			strconv.Itoa(p.PassesMade),
			strconv.Itoa(p.PassesRecv),
			strconv.Itoa(p.FailedPasses),
			strconv.Itoa(p.AssistsMade),
			strconv.Itoa(p.Recoveries),
			strconv.Itoa(p.DistinctPeers),
		)
	}
	table.Render()
}

// PrintTrendTable prints one player's totals per stored run, oldest first.
func PrintTrendTable(w io.Writer, player string, history []storage.PlayerRun) {
	fmt.Fprintf(w, "\n%s across %d runs\n\n", player, len(history))
	table := newTable(w)
	table.Header("RUN", "CREATED", "TEAM", "MADE", "RECEIVED", "FAILED", "CMP%", "ASSISTS")
	for _, h := range history {
		cmp := "—"
		if h.PassesMade+h.Failed > 0 {
			cmp = fmt.Sprintf("%.0f%%", 100*float64(h.PassesMade)/float64(h.PassesMade+h.Failed))
		}
		table.Append(
			ShortID(h.RunID),
			h.CreatedAt,
			orDash(h.Team),
			strconv.Itoa(h.PassesMade),
			strconv.Itoa(h.PassesRecv),
			strconv.Itoa(h.Failed),
			cmp,
			strconv.Itoa(h.Assists),
		)
	}
	table.Render()
}
