package builder

import (
	"cmp"
	"slices"

	"github.com/matzehuels/genregraph/pkg/graph"
)

// byPopularity orders nodes by totalMinutes descending, label ascending.
func byPopularity(a, b graph.Node) int {
	if c := cmp.Compare(b.TotalMinutes, a.TotalMinutes); c != 0 {
		return c
	}
	return cmp.Compare(a.DisplayLabel(), b.DisplayLabel())
}

// RankTop returns the ids of the k most listened nodes.
func RankTop(nodes []graph.Node, k int) []string {
	if k <= 0 {
		return []string{}
	}
	sorted := slices.Clone(nodes)
	slices.SortStableFunc(sorted, byPopularity)
	k = min(k, len(sorted))
	out := make([]string, k)
	for i := range k {
		out[i] = sorted[i].ID
	}
	return out
}

// SelectDiverse picks up to k node ids that span different clusters.
//
// The most popular node is taken first. Each following pick is the
// candidate with the smallest summed edge weight to the nodes already
// chosen, minus PopularityEpsilon·totalMinutes. When k covers every node
// the result is all ids in popularity order.
func SelectDiverse(nodes []graph.Node, edges []graph.Edge, k int) []string {
	if k <= 0 || len(nodes) == 0 {
		return []string{}
	}
	if k >= len(nodes) {
		return RankTop(nodes, len(nodes))
	}

	weights := make(map[string]int, len(edges))
	for _, e := range edges {
		weights[graph.PairKey(e.Source, e.Target)] += e.Weight
	}

	candidates := slices.Clone(nodes)
	slices.SortStableFunc(candidates, byPopularity)

	selected := make([]string, 0, k)
	taken := make(map[string]bool, k)
	selected = append(selected, candidates[0].ID)
	taken[candidates[0].ID] = true

	// connection[i] accumulates the weight from candidate i to the selection.
	connection := make([]int, len(candidates))
	update := func(picked string) {
		for i, c := range candidates {
			connection[i] += weights[graph.PairKey(c.ID, picked)]
		}
	}
	update(candidates[0].ID)

	for len(selected) < k {
		best := -1
		var bestScore float64
		for i, c := range candidates {
			if taken[c.ID] {
				continue
			}
			score := float64(connection[i]) - c.TotalMinutes*PopularityEpsilon
			if best < 0 || score < bestScore {
				best, bestScore = i, score
			}
		}
		if best < 0 {
			break
		}
		id := candidates[best].ID
		selected = append(selected, id)
		taken[id] = true
		update(id)
	}
	return selected
}
