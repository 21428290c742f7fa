package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/genregraph/internal/simulation"
	"github.com/matzehuels/genregraph/pkg/camera"
	"github.com/matzehuels/genregraph/pkg/graph"
	"github.com/matzehuels/genregraph/pkg/physics"
	"github.com/matzehuels/genregraph/pkg/render"
	"github.com/matzehuels/genregraph/pkg/snapshot"
)

const (
	exploreFrameInterval = time.Second / 30
	// maxFrameStep caps dt so a stalled terminal does not fling nodes.
	maxFrameStep = 0.1
	zoomStep     = 1.2
	panStep      = 4 // cells
	statusRows   = 2
)

type exploreFlags struct {
	noCache bool
	layoutFlags
}

func (c *CLI) exploreCommand() *cobra.Command {
	var f exploreFlags

	cmd := &cobra.Command{
		Use:   "explore [layout.json|input.json]",
		Short: "Explore a genre graph interactively in the terminal",
		Long: `Explore a genre graph interactively in the terminal.

The argument is either a layout written by 'layout' or a raw listening
input, which is built and laid out first.

Keys:
  tab / shift+tab  focus the next / previous category
  o, esc           back to the overview
  + / -            zoom
  h j k l, arrows  pan
  r                reset the camera
  q, ctrl+c        quit

The mouse hovers and selects nodes, drags them and zooms with the wheel.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runExplore(cmd, args[0], f)
		},
	}

	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching")
	cmd.Flags().StringVarP(&f.algorithm, "algorithm", "a", "", "layout algorithm when exploring raw input")
	cmd.Flags().Uint32Var(&f.seed, "seed", 0, "random seed (default from config)")

	return cmd
}

func (c *CLI) runExplore(cmd *cobra.Command, input string, f exploreFlags) error {
	ctx := cmd.Context()

	l, err := c.loadExploreLayout(cmd, input, f)
	if err != nil {
		return err
	}

	cfg := c.settings()
	store, err := cfg.OpenSnapshots(ctx)
	if err != nil {
		return fmt.Errorf("open snapshots: %w", err)
	}
	defer store.Close()

	m, err := newExploreModel(ctx, l, store, cfg.Physics)
	if err != nil {
		return err
	}

	p := tea.NewProgram(m, tea.WithContext(ctx), tea.WithAltScreen(), tea.WithMouseAllMotion())
	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("explore: %w", err)
	}
	if fm, ok := final.(*exploreModel); ok && fm.err != nil {
		return fm.err
	}
	return nil
}

// loadExploreLayout accepts a layout with an embedded graph, a graph file
// or a raw input file, computing whatever is missing.
func (c *CLI) loadExploreLayout(cmd *cobra.Command, input string, f exploreFlags) (graph.Layout, error) {
	if l, err := graph.ReadLayoutFile(input); err == nil && l.Graph != nil && len(l.Positions) > 0 {
		return l, nil
	}

	ctx := cmd.Context()
	opts, err := c.baseOptions()
	if err != nil {
		return graph.Layout{}, err
	}
	c.applyLayoutFlags(cmd, &opts, f.layoutFlags)
	opts.Anchors = true
	if err := opts.ValidateForLayout(); err != nil {
		return graph.Layout{}, err
	}

	data, err := graph.ReadDataFile(input)
	if err != nil || data.NodeCount() == 0 {
		in, err := graph.ReadInputFile(input)
		if err != nil {
			return graph.Layout{}, fmt.Errorf("load input %s: %w", input, err)
		}
		runner, err := c.newRunner(ctx, f.noCache)
		if err != nil {
			return graph.Layout{}, fmt.Errorf("initialize runner: %w", err)
		}
		defer runner.Close()
		if data, _, err = runner.Build(ctx, in, opts); err != nil {
			return graph.Layout{}, fmt.Errorf("build graph: %w", err)
		}
	}

	l, _, err := c.computeLayout(ctx, data, opts, f.noCache)
	if err != nil {
		return graph.Layout{}, err
	}
	if l.Graph == nil {
		l.Graph = &data
	}
	return l, nil
}

type frameMsg time.Time

func nextFrame() tea.Cmd {
	return tea.Tick(exploreFrameInterval, func(t time.Time) tea.Msg { return frameMsg(t) })
}

// exploreModel is the bubbletea model of the explore view.
type exploreModel struct {
	ctx   context.Context
	sim   *simulation.Simulation
	cats  []string
	focus int // -1 is the overview

	cols, rows int
	frame      simulation.Frame
	last       time.Time
	dragging   string
	err        error
}

// Terminal size assumed until the first WindowSizeMsg.
const (
	defaultCols = 80
	defaultRows = 24
)

func newExploreModel(ctx context.Context, l graph.Layout, store snapshot.Store, params physics.Params) (*exploreModel, error) {
	cols, rows := defaultCols, defaultRows-statusRows
	sim, err := simulation.New(l, store, simulation.Config{
		Params:   params,
		Viewport: camera.Viewport{Width: float64(cols) * cellWidth, Height: float64(rows) * cellHeight},
		Logger:   loggerFromContext(ctx),
	})
	if err != nil {
		return nil, fmt.Errorf("start simulation: %w", err)
	}
	m := &exploreModel{ctx: ctx, sim: sim, cats: sim.Categories(), focus: -1}
	m.frame = sim.Frame()
	return m, nil
}

func (m *exploreModel) Init() tea.Cmd { return nextFrame() }

func (m *exploreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case frameMsg:
		now := time.Time(msg)
		dt := maxFrameStep
		if !m.last.IsZero() {
			dt = min(now.Sub(m.last).Seconds(), maxFrameStep)
		}
		m.last = now
		m.frame = m.sim.Tick(now, dt)
		return m, nextFrame()

	case tea.KeyMsg:
		cmd := m.handleKey(msg)
		m.frame = m.sim.Frame()
		return m, cmd

	case tea.MouseMsg:
		m.handleMouse(msg)
		m.frame = m.sim.Frame()
		return m, nil
	}
	return m, nil
}

func (m *exploreModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "q", "ctrl+c":
		return tea.Quit
	case "tab":
		m.cycle(1)
	case "shift+tab":
		m.cycle(-1)
	case "o", "esc":
		m.focus = -1
		m.fail(m.sim.Overview(m.ctx))
	case "+", "=":
		m.sim.Zoom(m.center(), zoomStep)
	case "-", "_":
		m.sim.Zoom(m.center(), 1/zoomStep)
	case "h", "left":
		m.sim.Pan(panStep*cellWidth, 0)
	case "l", "right":
		m.sim.Pan(-panStep*cellWidth, 0)
	case "k", "up":
		m.sim.Pan(0, panStep*cellHeight/2)
	case "j", "down":
		m.sim.Pan(0, -panStep*cellHeight/2)
	case "r":
		m.sim.ResetCamera()
	}
	return nil
}

func (m *exploreModel) handleMouse(msg tea.MouseMsg) {
	x, y := cellCenter(msg.X, msg.Y)
	pointer := graph.Position{X: x, Y: y}

	switch {
	case msg.Button == tea.MouseButtonWheelUp:
		m.sim.Zoom(pointer, zoomStep)
	case msg.Button == tea.MouseButtonWheelDown:
		m.sim.Zoom(pointer, 1/zoomStep)
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		if id, ok := m.sim.HitTest(pointer); ok {
			m.dragging = id
		}
		m.sim.Select(pointer)
	case msg.Action == tea.MouseActionRelease:
		if m.dragging != "" {
			m.sim.Release(m.dragging)
			m.dragging = ""
		}
	case msg.Action == tea.MouseActionMotion:
		if m.dragging != "" {
			m.sim.Drag(m.dragging, pointer)
			return
		}
		m.sim.Hover(pointer)
	}
}

// cycle moves the focus through the categories, wrapping through the
// overview.
func (m *exploreModel) cycle(step int) {
	if len(m.cats) == 0 {
		return
	}
	n := len(m.cats) + 1
	m.focus = (m.focus+1+step+n)%n - 1
	if m.focus < 0 {
		m.fail(m.sim.Overview(m.ctx))
		return
	}
	m.fail(m.sim.Focus(m.ctx, m.cats[m.focus]))
}

func (m *exploreModel) fail(err error) {
	if err != nil {
		m.err = err
	}
}

func (m *exploreModel) resize(width, height int) {
	m.cols, m.rows = width, max(height-statusRows, 1)
	m.sim.Resize(camera.Viewport{Width: float64(m.cols) * cellWidth, Height: float64(m.rows) * cellHeight})
}

func (m *exploreModel) center() graph.Position {
	return graph.Position{X: float64(m.cols) * cellWidth / 2, Y: float64(m.rows) * cellHeight / 2}
}

var (
	styleStatus    = lipgloss.NewStyle().Foreground(lipgloss.Color("#c8ceea")).Background(lipgloss.Color("#1c1f33"))
	styleStatusKey = lipgloss.NewStyle().Foreground(lipgloss.Color("#8294ff")).Background(lipgloss.Color("#1c1f33")).Bold(true)
)

func (m *exploreModel) View() string {
	if m.cols == 0 {
		return "loading..."
	}
	cv := newCanvas(m.cols, m.rows)
	cv.draw(render.Compose(m.sim.Scene()))

	var b strings.Builder
	b.WriteString(cv.String())
	b.WriteByte('\n')
	b.WriteString(styleStatus.Width(m.cols).Render(m.status()))
	b.WriteByte('\n')
	b.WriteString(StyleDim.Render(m.detail()))
	return b.String()
}

func (m *exploreModel) status() string {
	focus := "overview"
	if m.frame.Focus != "" {
		focus = m.frame.Focus
	}
	state := "settled"
	switch {
	case m.frame.Animating:
		state = "moving camera"
	case !m.frame.Settled:
		state = fmt.Sprintf("energy %.2f", m.frame.Energy)
	}
	return fmt.Sprintf(" %s %s  %s %.0f%%  %s", styleStatusKey.Render("focus"), focus,
		styleStatusKey.Render("zoom"), m.frame.Camera.Zoom*100, state)
}

// detail describes the selected or hovered node.
func (m *exploreModel) detail() string {
	id := m.frame.Selected
	if id == "" {
		id = m.frame.Hovered
	}
	if m.err != nil {
		return " error: " + m.err.Error()
	}
	data := m.sim.Data()
	n, ok := data.NodeByID(id)
	if !ok {
		return " tab: categories  o: overview  +/-: zoom  hjkl: pan  r: reset  q: quit"
	}
	s := fmt.Sprintf(" %s  %.0f min  %d plays  %d links", n.DisplayLabel(), n.TotalMinutes, n.PlayCount, n.Degree)
	if n.TopArtist != "" {
		s += "  top artist " + n.TopArtist
	}
	if n.Category != "" {
		s += "  [" + n.Category + "]"
	}
	return s
}
