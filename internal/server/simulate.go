package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/matzehuels/genregraph/internal/simulation"
	"github.com/matzehuels/genregraph/pkg/camera"
	"github.com/matzehuels/genregraph/pkg/errors"
	"github.com/matzehuels/genregraph/pkg/graph"
	"github.com/matzehuels/genregraph/pkg/observability"
	"github.com/matzehuels/genregraph/pkg/pipeline"
)

// Websocket limits.
const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	maxMessageSize = 8 << 20
	outboxSize     = 16
)

// newUpgrader accepts the same origins as the CORS middleware. Requests
// without an Origin header come from non-browser clients and pass.
func newUpgrader(allowed []string) *websocket.Upgrader {
	return &websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || originAllowed(origin, allowed)
		},
	}
}

// originAllowed matches origin against patterns the way go-chi/cors does:
// "*" allows everything and a single "*" inside a pattern matches any run
// of characters. Matching is case-insensitive.
func originAllowed(origin string, patterns []string) bool {
	origin = strings.ToLower(origin)
	for _, p := range patterns {
		p = strings.ToLower(p)
		if p == "*" || p == origin {
			return true
		}
		prefix, suffix, ok := strings.Cut(p, "*")
		if ok && len(origin) >= len(prefix)+len(suffix) &&
			strings.HasPrefix(origin, prefix) && strings.HasSuffix(origin, suffix) {
			return true
		}
	}
	return false
}

// Message types.
const (
	msgStart    = "start"
	msgFocus    = "focus"
	msgOverview = "overview"
	msgHover    = "hover"
	msgSelect   = "select"
	msgDrag     = "drag"
	msgRelease  = "release"
	msgZoom     = "zoom"
	msgPan      = "pan"
	msgReset    = "reset"
	msgResize   = "resize"

	msgSession = "session"
	msgFrame   = "frame"
	msgError   = "error"
)

// clientMessage is any message a client sends. Only the fields relevant
// to Type are read. Coordinates are device pixels.
type clientMessage struct {
	Type     string            `json:"type"`
	Layout   *graph.Layout     `json:"layout,omitempty"`
	Input    *graph.Input      `json:"input,omitempty"`
	Options  *pipeline.Options `json:"options,omitempty"`
	Viewport *camera.Viewport  `json:"viewport,omitempty"`
	DPR      float64           `json:"dpr,omitempty"`
	Category string            `json:"category,omitempty"`
	ID       string            `json:"id,omitempty"`
	X        float64           `json:"x,omitempty"`
	Y        float64           `json:"y,omitempty"`
	Factor   float64           `json:"factor,omitempty"`
}

// serverMessage is any message the server sends.
type serverMessage struct {
	Type       string            `json:"type"`
	SessionID  string            `json:"session_id,omitempty"`
	Categories []string          `json:"categories,omitempty"`
	Frame      *simulation.Frame `json:"frame,omitempty"`
	Error      string            `json:"error,omitempty"`
}

// session is one websocket connection and its simulation. Every write to
// conn happens on the scheduler goroutine.
type session struct {
	id     string
	server *Server
	conn   *websocket.Conn
	sim    *simulation.Simulation
	sched  *camera.TickerScheduler
	outbox chan serverMessage
}

func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade", "err", err)
		return
	}
	defer conn.Close()
	conn.SetReadLimit(maxMessageSize)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	sim, err := s.startSimulation(ctx, conn)
	if err != nil {
		_ = conn.WriteJSON(serverMessage{Type: msgError, Error: errors.UserMessage(err)})
		return
	}

	sess := &session{
		id:     uuid.NewString(),
		server: s,
		conn:   conn,
		sim:    sim,
		sched:  camera.NewTickerScheduler(time.Second / time.Duration(s.cfg.FrameRate)),
		outbox: make(chan serverMessage, outboxSize),
	}
	hooks := observability.HTTP()
	hooks.OnSession(ctx, sess.id, true)
	defer hooks.OnSession(ctx, sess.id, false)
	s.logger.Debug("simulation started", "session", sess.id, "nodes", len(sim.Data().Nodes))

	if err := sess.write(serverMessage{Type: msgSession, SessionID: sess.id, Categories: sim.Categories()}); err != nil {
		return
	}

	go sess.readLoop(ctx, cancel)
	sess.run(ctx, cancel)
}

// startSimulation waits for the start message and builds the simulation
// from its layout, or from its input with a fresh layout.
func (s *Server) startSimulation(ctx context.Context, conn *websocket.Conn) (*simulation.Simulation, error) {
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	var msg clientMessage
	if err := conn.ReadJSON(&msg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read start message")
	}
	_ = conn.SetReadDeadline(time.Time{})
	if msg.Type != msgStart {
		return nil, errors.New(errors.ErrCodeInvalidInput, "first message must be %q, got %q", msgStart, msg.Type)
	}

	opts := pipeline.Options{Anchors: true}
	if msg.Options != nil {
		opts = *msg.Options
		opts.Anchors = true
	}
	s.withCategories(&opts)

	var l graph.Layout
	switch {
	case msg.Layout != nil && msg.Layout.Graph != nil:
		l = *msg.Layout
	case msg.Input != nil:
		data, _, err := s.runner.Build(ctx, *msg.Input, opts)
		if err != nil {
			return nil, err
		}
		if l, _, err = s.runner.Layout(ctx, data, opts); err != nil {
			return nil, err
		}
	default:
		return nil, errors.New(errors.ErrCodeInvalidInput, "start needs a layout with graph or an input")
	}

	vp := s.cfg.Viewport
	if msg.Viewport != nil && msg.Viewport.Width > 0 && msg.Viewport.Height > 0 {
		vp = *msg.Viewport
	}
	return simulation.New(l, s.snapshots, simulation.Config{
		Params:   s.cfg.Physics,
		Viewport: vp,
		DPR:      msg.DPR,
		Logger:   s.logger,
	})
}

// run ticks the simulation on the scheduler goroutine until ctx ends.
func (c *session) run(ctx context.Context, cancel context.CancelFunc) {
	dt := 1 / float64(c.server.cfg.FrameRate)
	var frame func(now time.Time)
	frame = func(now time.Time) {
	drain:
		for {
			select {
			case m := <-c.outbox:
				if err := c.write(m); err != nil {
					cancel()
					return
				}
			default:
				break drain
			}
		}
		f := c.sim.Tick(now, dt)
		if err := c.write(serverMessage{Type: msgFrame, Frame: &f}); err != nil {
			cancel()
			return
		}
		c.sched.Request(frame)
	}
	c.sched.Request(frame)
	_ = c.sched.Run(ctx)
}

func (c *session) write(m serverMessage) error {
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteJSON(m)
}

// reply queues m for the scheduler goroutine, dropping it when the
// client is not keeping up.
func (c *session) reply(m serverMessage) {
	select {
	case c.outbox <- m:
	default:
		c.server.logger.Warn("dropping websocket message", "session", c.id, "type", m.Type)
	}
}

func (c *session) readLoop(ctx context.Context, cancel context.CancelFunc) {
	defer cancel()
	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.server.logger.Warn("websocket read", "session", c.id, "err", err)
			}
			return
		}
		var msg clientMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			c.reply(serverMessage{Type: msgError, Error: "invalid message format"})
			continue
		}
		if err := c.handle(ctx, msg); err != nil {
			c.reply(serverMessage{Type: msgError, Error: errors.UserMessage(err)})
		}
	}
}

func (c *session) handle(ctx context.Context, msg clientMessage) error {
	p := graph.Position{X: msg.X, Y: msg.Y}
	switch msg.Type {
	case msgFocus:
		return c.sim.Focus(ctx, msg.Category)
	case msgOverview:
		return c.sim.Overview(ctx)
	case msgHover:
		c.sim.Hover(p)
	case msgSelect:
		c.sim.Select(p)
	case msgDrag:
		if !c.sim.Drag(msg.ID, p) {
			return errors.New(errors.ErrCodeNodeNotFound, "unknown node %q", msg.ID)
		}
	case msgRelease:
		c.sim.Release(msg.ID)
	case msgZoom:
		c.sim.Zoom(p, msg.Factor)
	case msgPan:
		c.sim.Pan(msg.X, msg.Y)
	case msgReset:
		c.sim.ResetCamera()
	case msgResize:
		if msg.Viewport != nil {
			c.sim.Resize(*msg.Viewport)
		}
	default:
		return errors.New(errors.ErrCodeUnsupported, "unknown message type %q", msg.Type)
	}
	return nil
}
