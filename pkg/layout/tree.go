package layout

import (
	"cmp"
	"slices"

	"github.com/matzehuels/genregraph/pkg/graph"
)

// Tree row geometry.
const (
	TreeRowSpacing    = 180.0
	TreeColumnSpacing = 200.0
	TreeStartY        = -300.0
)

// Tree assigns levels by breadth-first search from the most listened node
// and places each level on a centered horizontal row. Neighbors are
// visited in totalMinutes descending order (ties by id). Nodes the search
// never reaches each get their own trailing row, in popularity order.
// Options other than Center are ignored.
func Tree(nodes []graph.Node, edges []graph.Edge, opts Options) Result {
	pos := make(graph.Positions, len(nodes))
	if len(nodes) == 0 {
		return Result{Positions: pos}
	}

	byID := make(map[string]graph.Node, len(nodes))
	for _, n := range nodes {
		byID[n.ID] = n
	}
	neighbors := make(map[string][]string, len(nodes))
	for _, e := range edges {
		_, okS := byID[e.Source]
		_, okT := byID[e.Target]
		if !okS || !okT || e.Source == e.Target {
			continue
		}
		neighbors[e.Source] = append(neighbors[e.Source], e.Target)
		neighbors[e.Target] = append(neighbors[e.Target], e.Source)
	}
	for id, list := range neighbors {
		slices.SortFunc(list, func(a, b string) int {
			if c := cmp.Compare(byID[b].TotalMinutes, byID[a].TotalMinutes); c != 0 {
				return c
			}
			return cmp.Compare(a, b)
		})
		neighbors[id] = slices.Compact(list)
	}

	sorted := slices.Clone(nodes)
	slices.SortStableFunc(sorted, byPopularity)

	var rows [][]string
	visited := make(map[string]bool, len(nodes))
	root := sorted[0].ID
	visited[root] = true
	frontier := []string{root}
	for len(frontier) > 0 {
		rows = append(rows, frontier)
		var next []string
		for _, id := range frontier {
			for _, nb := range neighbors[id] {
				if visited[nb] {
					continue
				}
				visited[nb] = true
				next = append(next, nb)
			}
		}
		frontier = next
	}
	for _, n := range sorted {
		if !visited[n.ID] {
			visited[n.ID] = true
			rows = append(rows, []string{n.ID})
		}
	}

	for level, row := range rows {
		y := opts.Center.Y + TreeStartY + float64(level)*TreeRowSpacing
		startX := opts.Center.X - float64(len(row)-1)*TreeColumnSpacing/2
		for i, id := range row {
			pos[id] = graph.Position{X: startX + float64(i)*TreeColumnSpacing, Y: y}
		}
	}
	return Result{Positions: pos}
}
