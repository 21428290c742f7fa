package cli

import (
	"bytes"
	"strings"
	"testing"
)

func TestReport(t *testing.T) {
	var buf bytes.Buffer
	rep := report{w: &buf}
	rep.success("Graph built")
	rep.file("me.graph.json")
	rep.stats(4, 3, true)
	rep.next([2]string{"Lay out", "genregraph layout me.graph.json"})

	out := buf.String()
	for _, want := range []string{"✓ Graph built", "→ me.graph.json", "4 nodes", "3 edges", "cached", "Lay out: genregraph layout me.graph.json"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestStatsLine(t *testing.T) {
	tests := []struct {
		nodes, edges int
		cached       bool
		want         string
	}{
		{3, 2, false, "3 nodes · 2 edges · fresh"},
		{0, 0, true, "cached"},
		{5, 0, true, "5 nodes · cached"},
	}
	for _, tt := range tests {
		if got := statsLine(tt.nodes, tt.edges, tt.cached); got != tt.want {
			t.Errorf("statsLine(%d, %d, %v) = %q, want %q", tt.nodes, tt.edges, tt.cached, got, tt.want)
		}
	}
}
