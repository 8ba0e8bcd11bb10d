package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/leoddeng/2dgame-server/pkg/fsm"
	"github.com/leoddeng/2dgame-server/pkg/types"
)

type fakeConn struct {
	sent []types.ClientMessage
}

func (f *fakeConn) Send(m types.ClientMessage) error {
	f.sent = append(f.sent, m)
	return nil
}

func (f *fakeConn) lastOfType(msgType string) (types.ClientMessage, bool) {
	for i := len(f.sent) - 1; i >= 0; i-- {
		if f.sent[i].Type == msgType {
			return f.sent[i], true
		}
	}
	return types.ClientMessage{}, false
}

type fakeSurface struct {
	clears  int
	sprites []string
}

func (f *fakeSurface) Clear() { f.clears++ }
func (f *fakeSurface) DrawSprite(name string, x, y float64) {
	f.sprites = append(f.sprites, name)
}

type fakeScores struct {
	best int
	sets []int
}

func (f *fakeScores) Get() int { return f.best }
func (f *fakeScores) Set(v int) {
	f.best = v
	f.sets = append(f.sets, v)
}

type fakeLoader struct {
	loaded, total int
	bundle        *AssetBundle
}

func (f *fakeLoader) Progress() (int, int) { return f.loaded, f.total }
func (f *fakeLoader) Bundle() *AssetBundle { return f.bundle }

func newTestClient() (*Client, *fakeConn, *fakeLoader, *fakeScores) {
	conn := &fakeConn{}
	loader := &fakeLoader{total: 4, bundle: &AssetBundle{}}
	scores := &fakeScores{}
	c := New(Deps{
		Conn:    conn,
		Surface: &fakeSurface{},
		Scores:  scores,
		Loader:  loader,
		Log:     zap.NewNop().Sugar(),
	})
	return c, conn, loader, scores
}

// finishLoading drives the client from loading into the menu.
func finishLoading(c *Client, loader *fakeLoader) {
	loader.loaded = loader.total
	c.Step(fsm.Frame{})
}

func TestLoading_ProgressIsClampedMonotonic(t *testing.T) {
	c, _, loader, _ := newTestClient()
	require.Equal(t, StateLoading, c.Machine.Current())

	loader.loaded = 3
	loader.total = 10
	c.Step(fsm.Frame{})

	loading := currentState[*loadingState](t, c)
	require.InDelta(t, 0.3, loading.Fraction(), 1e-9)

	// A loader glitching backwards must not move the reported signal back.
	loader.loaded = 2
	c.Step(fsm.Frame{})
	require.Equal(t, StateLoading, c.Machine.Current())
	require.InDelta(t, 0.3, loading.Fraction(), 1e-9)

	loader.loaded = 10
	c.Step(fsm.Frame{})
	assert.Equal(t, StateMenu, c.Machine.Current())
	assert.NotNil(t, c.Assets, "finished load must publish the bundle")
}

func TestCreateRole_SetsSessionIdentity(t *testing.T) {
	c, _, loader, _ := newTestClient()
	finishLoading(c, loader)

	c.HandleMessage(types.ServerMessage{Type: types.TypeCreateRole, PlayerID: "a1b2c3d4e5f6"})
	assert.Equal(t, "a1b2c3d4e5f6", c.Session.PlayerID)
}

func TestNavigation_BackReturnsToLobbyThenStops(t *testing.T) {
	c, _, loader, _ := newTestClient()
	finishLoading(c, loader)
	c.HandleMessage(types.ServerMessage{Type: types.TypeCreateRole, PlayerID: "p1"})

	// Owner flow: create room ack puts us in the lobby.
	c.HandleMessage(types.ServerMessage{Type: types.TypeCreateRoom, RoomID: "r1"})
	require.Equal(t, StateLobby, c.Machine.Current())
	assert.Equal(t, "r1", c.Session.RoomID)
	assert.Equal(t, []string{"p1"}, c.Session.Players)

	// Round start moves everyone to play.
	c.HandleMessage(types.ServerMessage{Type: types.TypeStartGame})
	require.Equal(t, StatePlay, c.Machine.Current())
	require.Equal(t, 2, c.Machine.HistoryDepth())

	// Back once: lobby again, original owner variant.
	c.Machine.Back()
	require.Equal(t, StateLobby, c.Machine.Current())
	assert.Equal(t, 1, c.Machine.HistoryDepth())

	// Back again: nothing to return to.
	c.Machine.Back()
	assert.Equal(t, StateLobby, c.Machine.Current())
}

func TestMenu_IntentsSendProtocolFrames(t *testing.T) {
	c, conn, loader, _ := newTestClient()
	finishLoading(c, loader)

	menu := currentState[*menuState](t, c)
	menu.CreateRoom()
	menu.BrowseRooms()

	require.Len(t, conn.sent, 2)
	assert.Equal(t, types.TypeCreateRoom, conn.sent[0].Type)
	assert.Equal(t, types.TypeShowRoom, conn.sent[1].Type)
}

func TestBrowse_JoinFlowLandsInGuestLobby(t *testing.T) {
	c, conn, loader, _ := newTestClient()
	finishLoading(c, loader)
	c.HandleMessage(types.ServerMessage{Type: types.TypeCreateRole, PlayerID: "p2"})

	c.HandleMessage(types.ServerMessage{Type: types.TypeShowRoom, Rooms: []string{"r1", "r2"}})
	require.Equal(t, StateBrowse, c.Machine.Current())
	assert.Equal(t, []string{"r1", "r2"}, c.Session.Rooms)

	browse := currentState[*browseState](t, c)
	browse.Join("r1")
	join, ok := conn.lastOfType(types.TypeJoinRoom)
	require.True(t, ok)
	assert.Equal(t, "r1", join.RoomID)

	// Membership broadcast confirms the join.
	c.HandleMessage(types.ServerMessage{Type: types.TypePlayerJoined, Players: []string{"p1", "p2"}})
	require.Equal(t, StateLobby, c.Machine.Current())
	lobby := currentState[*lobbyState](t, c)
	assert.True(t, lobby.Joined())
	assert.Equal(t, []string{"p1", "p2"}, c.Session.Players)

	// Guest leaving the lobby walks back to the room list.
	lobby.LeaveRoom()
	leave, ok := conn.lastOfType(types.TypeLeaveRoom)
	require.True(t, ok)
	assert.Equal(t, "r1", leave.RoomID)
	assert.Equal(t, StateBrowse, c.Machine.Current())
}

func TestLobby_OwnerLeaveFallsBackToMenu(t *testing.T) {
	c, _, loader, _ := newTestClient()
	finishLoading(c, loader)
	c.HandleMessage(types.ServerMessage{Type: types.TypeCreateRole, PlayerID: "p1"})
	c.HandleMessage(types.ServerMessage{Type: types.TypeCreateRoom, RoomID: "r1"})

	lobby := currentState[*lobbyState](t, c)
	require.False(t, lobby.Joined())

	lobby.LeaveRoom()
	assert.Equal(t, StateMenu, c.Machine.Current())
	assert.Empty(t, c.Session.RoomID)
	assert.Zero(t, c.Machine.HistoryDepth(), "abandoned lobby entry must not linger")
}

// Leaving a room and starting over must not let the departed room's lobby
// entry resurface under the new flow's history.
func TestLobby_LeaveDoesNotLeakStaleHistory(t *testing.T) {
	c, _, loader, _ := newTestClient()
	finishLoading(c, loader)
	c.HandleMessage(types.ServerMessage{Type: types.TypeCreateRole, PlayerID: "p1"})

	// First room, abandoned from a depth-1 lobby.
	c.HandleMessage(types.ServerMessage{Type: types.TypeCreateRoom, RoomID: "r1"})
	currentState[*lobbyState](t, c).LeaveRoom()
	require.Equal(t, StateMenu, c.Machine.Current())

	// Second room, all the way into a round.
	c.HandleMessage(types.ServerMessage{Type: types.TypeCreateRoom, RoomID: "r2"})
	c.HandleMessage(types.ServerMessage{Type: types.TypeStartGame})
	require.Equal(t, StatePlay, c.Machine.Current())
	require.Equal(t, 2, c.Machine.HistoryDepth())

	// One back step reaches the live lobby; a second finds nothing beneath.
	c.Machine.Back()
	require.Equal(t, StateLobby, c.Machine.Current())
	assert.Equal(t, 1, c.Machine.HistoryDepth())
	c.Machine.Back()
	assert.Equal(t, StateLobby, c.Machine.Current())
}

// currentState digs the active state out of the client for intent calls.
func currentState[T any](t *testing.T, c *Client) T {
	t.Helper()
	s, ok := c.Machine.Lookup(c.Machine.Current()).(T)
	require.True(t, ok, "active state has unexpected type")
	return s
}
