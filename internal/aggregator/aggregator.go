package aggregator

import (
	"sort"

	"github.com/pable/go-pass-network/internal/classifier"
	"github.com/pable/go-pass-network/internal/model"
)

// edgeKey identifies one edge of the pass network.
type edgeKey struct {
	source, target string
	category       model.Category
}

// Aggregate groups classified events into edges. Events without a category
// are classified on the fly. Groups with no completed pass are dropped; when
// nothing is left the result is a *model.EmptyInputError.
func Aggregate(events []model.Event) ([]model.Edge, model.Summary, error) {
	sum := model.Summary{Events: len(events)}

	// ---- Pass 1: accumulate counts per (source, target, category). ----

	groups := make(map[edgeKey]*model.Edge)
	for _, e := range events {
		cat := e.Category
		if cat == "" {
			cat = classifier.Classify(e)
		}
		k := edgeKey{e.Source, e.Target, cat}
		g, ok := groups[k]
		if !ok {
			g = &model.Edge{Source: e.Source, Target: e.Target, Category: cat}
			groups[k] = g
		}
		if e.Completed {
			g.Weight++
		}
		if e.Failed {
			g.FailedPasses++
		}
		if e.IsRecoveryOrInterception {
			g.RecoveryInterception++
		}
		if e.IsAssist() {
			g.AssistCount++
		}
	}

	// ---- Pass 2: derive totals, drop zero-weight groups. ----

	edges := make([]model.Edge, 0, len(groups))
	for _, g := range groups {
		if g.Weight <= 0 {
			sum.ZeroWeight++
			continue
		}
		g.TotalPasses = g.Weight + g.FailedPasses
		g.Label = string(g.Category)

		sum.Completed += g.Weight
		sum.Failed += g.FailedPasses
		sum.RecoveryEvents += g.RecoveryInterception
		edges = append(edges, *g)
	}
	sum.Edges = len(edges)

	if len(edges) == 0 {
		return nil, sum, &model.EmptyInputError{Stage: "aggregate"}
	}

	SortEdges(edges)
	return edges, sum, nil
}

// SortEdges orders edges by source, target and category priority.
func SortEdges(edges []model.Edge) {
	sort.Slice(edges, func(i, j int) bool {
		a, b := edges[i], edges[j]
		if a.Source != b.Source {
			return a.Source < b.Source
		}
		if a.Target != b.Target {
			return a.Target < b.Target
		}
		return a.Category.Rank() < b.Category.Rank()
	})
}

// CategoryTotals returns completed-pass counts per category, covering every
// category in priority order, including those with no edges.
func CategoryTotals(edges []model.Edge) []CategoryTotal {
	byCat := make(map[model.Category]*CategoryTotal)
	out := make([]CategoryTotal, 0, len(model.Categories()))
	for _, c := range model.Categories() {
		out = append(out, CategoryTotal{Category: c})
	}
	for i := range out {
		byCat[out[i].Category] = &out[i]
	}
	for _, e := range edges {
		ct, ok := byCat[e.Category]
		if !ok {
			continue
		}
		ct.Edges++
		ct.Completed += e.Weight
		ct.Failed += e.FailedPasses
		ct.Assists += e.AssistCount
	}
	return out
}

// CategoryTotal sums the edges of one category.
type CategoryTotal struct {
	Category  model.Category
	Edges     int
	Completed int
	Failed    int
	Assists   int
}

// CompletionPct is completed passes over attempted passes, in percent.
func (c CategoryTotal) CompletionPct() float64 {
	total := c.Completed + c.Failed
	if total == 0 {
		return 0
	}
	return float64(c.Completed) / float64(total) * 100
}
