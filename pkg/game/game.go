// Package game is the client-side session core: the registered screen states,
// the explicit session context they share, and the protocol glue for
// networked play. Rendering, physics assets, audio and DOM are external
// collaborators reached through the narrow interfaces below.
package game

import (
	"go.uber.org/zap"

	"github.com/leoddeng/2dgame-server/pkg/fsm"
	"github.com/leoddeng/2dgame-server/pkg/types"
)

// Registered state names.
const (
	StateLoading  = "loading"
	StateMenu     = "menu"
	StateBrowse   = "browse"
	StateLobby    = "lobby"
	StatePlay     = "play"
	StateGameOver = "gameover"
)

// Session is the per-connection context shared by all states, passed
// explicitly instead of living in a global.
type Session struct {
	PlayerID string
	RoomID   string
	Players  []string
	Rooms    []string
	Online   bool
}

// Conn sends frames to the room server.
type Conn interface {
	Send(msg types.ClientMessage) error
}

// RenderSurface is the excluded drawing layer.
type RenderSurface interface {
	Clear()
	DrawSprite(name string, x, y float64)
}

// Handle is an opaque asset produced by the external loader.
type Handle any

type AssetBundle struct {
	Images map[string]Handle
	Audios map[string]Handle
}

// ScoreStore is the single persisted best-score counter.
type ScoreStore interface {
	Get() int
	Set(v int)
}

// ProgressTask is a finite, non-restartable load in flight. Progress reports
// (loaded, total) with loaded monotonically increasing; the task is finished
// when loaded == total with total > 0.
type ProgressTask interface {
	Progress() (loaded, total int)
	Bundle() *AssetBundle
}

type Deps struct {
	Conn    Conn
	Surface RenderSurface
	Scores  ScoreStore
	Loader  ProgressTask
	Log     *zap.SugaredLogger
}

// Client wires the state machine to a connection and session. Inbound
// messages are dispatched immediately to the current state, not buffered to
// frame boundaries.
type Client struct {
	Machine *fsm.Machine
	Session *Session
	Assets  *AssetBundle

	conn    Conn
	surface RenderSurface
	scores  ScoreStore
	log     *zap.SugaredLogger
}

func New(deps Deps) *Client {
	c := &Client{
		Session: &Session{},
		conn:    deps.Conn,
		surface: deps.Surface,
		scores:  deps.Scores,
		log:     deps.Log,
	}

	m := fsm.NewMachine()
	m.Register(StateLoading, newLoadingState(c, deps.Loader))
	m.Register(StateMenu, newMenuState(c))
	m.Register(StateBrowse, newBrowseState(c))
	m.Register(StateLobby, newLobbyState(c))
	m.Register(StatePlay, newPlayState(c))
	m.Register(StateGameOver, newGameOverState(c))
	c.Machine = m

	// Loading and menu are not back-navigation targets; only the
	// lobby-family and play transitions go on the history stack.
	m.ChangeState(StateLoading, nil, false)
	return c
}

// Step runs one frame: update then render on the active state only.
func (c *Client) Step(frame fsm.Frame) {
	c.Machine.Update(frame)
	c.Machine.Render()
}

// HandleMessage dispatches an inbound server frame. Identity assignment is
// session-scoped, so createRole lands on the session directly; everything
// else goes to the current state.
func (c *Client) HandleMessage(msg types.ServerMessage) {
	if msg.Type == types.TypeCreateRole {
		c.Session.PlayerID = msg.PlayerID
	}
	c.Machine.HandleMessage(msg)
}

func (c *Client) send(msg types.ClientMessage) {
	if err := c.conn.Send(msg); err != nil {
		c.log.Warnw("send failed", "type", msg.Type, "err", err)
	}
}

// backOr walks the navigation history, or falls through to the fallback
// state when the history is too shallow to go back. Falling back abandons
// whatever single entry remains; it must not resurface under a later flow.
func (c *Client) backOr(fallback string) {
	if c.Machine.HistoryDepth() >= 2 {
		c.Machine.Back()
		return
	}
	c.Machine.ClearHistory()
	c.Machine.ChangeState(fallback, nil, false)
}

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }
func boolPtr(v bool) *bool        { return &v }
