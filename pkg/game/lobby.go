package game

import (
	"github.com/leoddeng/2dgame-server/pkg/fsm"
	"github.com/leoddeng/2dgame-server/pkg/types"
)

// LobbyArgs selects the lobby variant: room owner waiting for players, or
// guest who joined someone else's room.
type LobbyArgs struct {
	Joined bool
}

// lobbyState shows room membership while waiting for the round to start.
// Only the owner variant exposes the start action to the UI layer.
type lobbyState struct {
	c      *Client
	chrome *menuChrome
	joined bool
}

func newLobbyState(c *Client) *lobbyState {
	return &lobbyState{c: c, chrome: newMenuChrome(c.surface)}
}

func (s *lobbyState) Enter(args any) {
	s.joined = false
	if a, ok := args.(LobbyArgs); ok {
		s.joined = a.Joined
	}
}

func (s *lobbyState) Exit() {}

// Joined reports the lobby variant.
func (s *lobbyState) Joined() bool { return s.joined }

// StartGame requests a synchronized round for the whole room. Owner intent.
func (s *lobbyState) StartGame() {
	s.c.send(types.ClientMessage{Type: types.TypeStartGame, RoomID: s.c.Session.RoomID})
}

// LeaveRoom leaves and navigates back: guests land on the room list,
// owners on the menu.
func (s *lobbyState) LeaveRoom() {
	s.c.send(types.ClientMessage{Type: types.TypeLeaveRoom, RoomID: s.c.Session.RoomID})
	s.c.Session.RoomID = ""
	s.c.backOr(StateMenu)
}

func (s *lobbyState) Update(frame fsm.Frame) {
	s.chrome.step()
}

func (s *lobbyState) Render() {
	s.chrome.render()
}

func (s *lobbyState) HandleMessage(msg types.ServerMessage) {
	switch msg.Type {
	case types.TypeStartGame:
		s.c.Machine.ChangeState(StatePlay, nil, true)

	case types.TypePlayerJoined, types.TypePlayerLeft:
		s.c.Session.Players = msg.Players
	}
}
