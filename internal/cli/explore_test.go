package cli

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/genregraph/pkg/category"
	"github.com/matzehuels/genregraph/pkg/graph"
	"github.com/matzehuels/genregraph/pkg/physics"
	"github.com/matzehuels/genregraph/pkg/pipeline"
	"github.com/matzehuels/genregraph/pkg/render"
)

func TestCanvasDraw(t *testing.T) {
	cv := newCanvas(10, 3)
	cv.draw(render.Frame{
		Lines: []render.Line{{X1: 5, Y1: 30, X2: 95, Y2: 30}},
		Discs: []render.Disc{
			{ID: "pop", X: 55, Y: 30, R: 12, Label: "Pop"},
			{ID: "offscreen", X: -50, Y: 500, R: 30, Label: "Gone"},
		},
	})
	want := "          \n·····●·Pop\n          \n"
	if got := cv.plain(); got != want {
		t.Errorf("plain() =\n%q\nwant\n%q", got, want)
	}
}

func TestCanvasGlyphs(t *testing.T) {
	tests := []struct {
		name string
		disc render.Disc
		want rune
	}{
		{"Small", render.Disc{R: 4}, '•'},
		{"Medium", render.Disc{R: 12}, '●'},
		{"Large", render.Disc{R: 25}, '⬤'},
		{"Pinned", render.Disc{R: 25, Pinned: true}, '◆'},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cv := newCanvas(1, 1)
			tt.disc.X, tt.disc.Y = 5, 10
			cv.draw(render.Frame{Discs: []render.Disc{tt.disc}})
			if got := cv.at(0, 0).r; got != tt.want {
				t.Errorf("glyph = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCellMapping(t *testing.T) {
	x, y := cellCenter(3, 2)
	if col, row := toCell(x, y); col != 3 || row != 2 {
		t.Errorf("toCell(cellCenter(3, 2)) = %d, %d", col, row)
	}
	if col, row := toCell(-1, -1); col != -1 || row != -1 {
		t.Errorf("toCell(-1, -1) = %d, %d, want -1, -1", col, row)
	}
}

func testExploreModel(t *testing.T) *exploreModel {
	t.Helper()
	ctx := context.Background()
	runner := pipeline.NewRunner(nil, nil, nil)
	opts := pipeline.Options{Anchors: true, Categories: category.Default()}
	if err := opts.ValidateForLayout(); err != nil {
		t.Fatal(err)
	}
	data, _, err := runner.Build(ctx, sampleInput(), opts)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	l, _, err := runner.Layout(ctx, data, opts)
	if err != nil {
		t.Fatalf("Layout: %v", err)
	}
	m, err := newExploreModel(ctx, l, nil, physics.Params{})
	if err != nil {
		t.Fatalf("newExploreModel: %v", err)
	}
	m.Update(tea.WindowSizeMsg{Width: 60, Height: 20})
	return m
}

func key(s string) tea.KeyMsg {
	switch s {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestExploreTick(t *testing.T) {
	m := testExploreModel(t)
	if m.Init() == nil {
		t.Fatal("Init returned no command")
	}
	_, cmd := m.Update(frameMsg(time.Now()))
	if cmd == nil {
		t.Error("frame did not schedule the next one")
	}
	if m.frame.Seq != 1 {
		t.Errorf("seq = %d, want 1", m.frame.Seq)
	}
}

func TestExploreFocusCycle(t *testing.T) {
	m := testExploreModel(t)
	if len(m.cats) == 0 {
		t.Fatal("no categories")
	}

	m.Update(key("tab"))
	if got := m.sim.Frame().Focus; got != m.cats[0] {
		t.Errorf("focus after tab = %q, want %q", got, m.cats[0])
	}
	m.Update(key("shift+tab"))
	if got := m.sim.Frame().Focus; got != "" {
		t.Errorf("focus after shift+tab = %q, want overview", got)
	}
	m.Update(key("shift+tab"))
	if got := m.sim.Frame().Focus; got != m.cats[len(m.cats)-1] {
		t.Errorf("focus wraps to %q, want %q", got, m.cats[len(m.cats)-1])
	}
	m.Update(key("o"))
	if got := m.sim.Frame().Focus; got != "" || m.focus != -1 {
		t.Errorf("focus after o = %q (%d), want overview", got, m.focus)
	}
	if m.err != nil {
		t.Errorf("err = %v", m.err)
	}
}

func TestExploreKeys(t *testing.T) {
	m := testExploreModel(t)

	m.Update(key("+"))
	if z := m.sim.Frame().Camera.Zoom; !(z > 1) {
		t.Errorf("zoom after + = %v, want > 1", z)
	}
	if st := m.status(); !strings.Contains(st, "120%") {
		t.Errorf("status after + = %q, want zoom 120%%", st)
	}
	m.Update(key("r"))
	if z := m.sim.Frame().Camera.Zoom; z != 1 {
		t.Errorf("zoom after reset = %v, want 1", z)
	}
	m.Update(key("l"))
	if x := m.sim.Frame().Camera.X; !(x > 0) {
		t.Errorf("camera x after l = %v, want > 0", x)
	}

	_, cmd := m.Update(key("q"))
	if cmd == nil {
		t.Fatal("q returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q did not quit")
	}
}

// nodeCell finds a cell whose center hits a node.
func nodeCell(t *testing.T, m *exploreModel) (int, int, string) {
	t.Helper()
	for row := 0; row < m.rows; row++ {
		for col := 0; col < m.cols; col++ {
			x, y := cellCenter(col, row)
			if id, ok := m.sim.HitTest(graph.Position{X: x, Y: y}); ok {
				return col, row, id
			}
		}
	}
	t.Fatal("no node under any cell")
	return 0, 0, ""
}

func TestExploreMouse(t *testing.T) {
	m := testExploreModel(t)
	col, row, id := nodeCell(t, m)

	m.Update(tea.MouseMsg{X: col, Y: row, Action: tea.MouseActionMotion, Button: tea.MouseButtonNone})
	if got := m.sim.Frame().Hovered; got != id {
		t.Errorf("hovered = %q, want %q", got, id)
	}

	m.Update(tea.MouseMsg{X: col, Y: row, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	if got := m.sim.Frame().Selected; got != id {
		t.Errorf("selected = %q, want %q", got, id)
	}
	if m.dragging != id {
		t.Errorf("dragging = %q, want %q", m.dragging, id)
	}
	data := m.sim.Data()
	n, _ := data.NodeByID(id)
	if d := m.detail(); !strings.Contains(d, n.DisplayLabel()) {
		t.Errorf("detail = %q, want the selected node label", d)
	}

	m.Update(tea.MouseMsg{X: 0, Y: 0, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft})
	if !m.sim.Scene().Pinned[id] {
		t.Errorf("%s not pinned while dragged", id)
	}
	m.Update(tea.MouseMsg{X: 0, Y: 0, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})
	if m.sim.Scene().Pinned[id] || m.dragging != "" {
		t.Errorf("%s still dragged after release", id)
	}

	before := m.sim.Frame().Camera.Zoom
	m.Update(tea.MouseMsg{X: 30, Y: 9, Action: tea.MouseActionPress, Button: tea.MouseButtonWheelUp})
	if after := m.sim.Frame().Camera.Zoom; !(after > before) {
		t.Errorf("wheel up zoom %v -> %v, want increase", before, after)
	}
}

func TestExploreView(t *testing.T) {
	m := testExploreModel(t)
	v := m.View()
	if got, want := strings.Count(v, "\n"), m.rows+1; got != want {
		t.Errorf("view has %d newlines, want %d", got, want)
	}
	if !strings.Contains(v, "overview") {
		t.Error("status bar does not show the overview")
	}
}
