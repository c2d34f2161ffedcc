// Package graph computes per-player network measures from a pass network
// edge table: degrees, weighted degrees and local clustering coefficients.
package graph

import (
	"sort"

	"github.com/pable/go-pass-network/internal/model"
)

// NodeMetrics returns one row per player appearing in edges, sorted by
// weighted out-degree descending then name.
//
// Degrees count distinct neighbors over all categories. The clustering
// coefficient is computed on the undirected simple graph with self-loops
// removed: for a node with k neighbors it is the number of edges among those
// neighbors over k*(k-1)/2, and 0 when k < 2.
func NodeMetrics(edges []model.Edge) []model.NodeMetrics {
	out := make(map[string]map[string]bool)
	in := make(map[string]map[string]bool)
	undirected := make(map[string]map[string]bool)
	weightOut := make(map[string]int)
	weightIn := make(map[string]int)

	link := func(m map[string]map[string]bool, a, b string) {
		if m[a] == nil {
			m[a] = make(map[string]bool)
		}
		m[a][b] = true
	}
	touch := func(p string) {
		if undirected[p] == nil {
			undirected[p] = make(map[string]bool)
		}
	}

	for _, e := range edges {
		touch(e.Source)
		touch(e.Target)
		weightOut[e.Source] += e.Weight
		weightIn[e.Target] += e.Weight
		if e.Source == e.Target {
			continue
		}
		link(out, e.Source, e.Target)
		link(in, e.Target, e.Source)
		link(undirected, e.Source, e.Target)
		link(undirected, e.Target, e.Source)
	}

	rows := make([]model.NodeMetrics, 0, len(undirected))
	for p, nbrs := range undirected {
		list := make([]string, 0, len(nbrs))
		for v := range nbrs {
			list = append(list, v)
		}

		triangles := 0
		for i := 0; i < len(list); i++ {
			for j := i + 1; j < len(list); j++ {
				if undirected[list[i]][list[j]] {
					triangles++
				}
			}
		}

		k := len(nbrs)
		cc := 0.0
		if k >= 2 {
			cc = float64(triangles) / float64(k*(k-1)/2)
		}

		rows = append(rows, model.NodeMetrics{
			Player:      p,
			OutDegree:   len(out[p]),
			InDegree:    len(in[p]),
			Degree:      k,
			WeightedOut: weightOut[p],
			WeightedIn:  weightIn[p],
			Triangles:   triangles,
			Clustering:  cc,
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].WeightedOut != rows[j].WeightedOut {
			return rows[i].WeightedOut > rows[j].WeightedOut
		}
		return rows[i].Player < rows[j].Player
	})
	return rows
}

// AverageClustering is the mean local clustering coefficient over nodes.
func AverageClustering(nodes []model.NodeMetrics) float64 {
	if len(nodes) == 0 {
		return 0
	}
	sum := 0.0
	for _, n := range nodes {
		sum += n.Clustering
	}
	return sum / float64(len(nodes))
}

// Density is the directed density: distinct ordered pairs over n*(n-1).
func Density(nodes []model.NodeMetrics) float64 {
	n := len(nodes)
	if n < 2 {
		return 0
	}
	arcs := 0
	for _, m := range nodes {
		arcs += m.OutDegree
	}
	return float64(arcs) / float64(n*(n-1))
}
