package game

import (
	"github.com/leoddeng/2dgame-server/pkg/fsm"
	"github.com/leoddeng/2dgame-server/pkg/types"
)

// browseState is room discovery: the open-room list with a join action. The
// joined-lobby transition waits for the server's membership broadcast.
type browseState struct {
	c      *Client
	chrome *menuChrome
}

func newBrowseState(c *Client) *browseState {
	return &browseState{c: c, chrome: newMenuChrome(c.surface)}
}

func (s *browseState) Enter(args any) {}

func (s *browseState) Exit() {}

// Join requests membership in the selected room.
func (s *browseState) Join(roomID string) {
	s.c.Session.Online = true
	s.c.Session.RoomID = roomID
	s.c.send(types.ClientMessage{Type: types.TypeJoinRoom, RoomID: roomID})
}

// Back returns to the menu.
func (s *browseState) Back() {
	s.c.backOr(StateMenu)
}

func (s *browseState) Update(frame fsm.Frame) {
	s.chrome.step()
}

func (s *browseState) Render() {
	s.chrome.render()
}

func (s *browseState) HandleMessage(msg types.ServerMessage) {
	switch msg.Type {
	case types.TypePlayerJoined:
		s.c.Session.Players = msg.Players
		s.c.Machine.ChangeState(StateLobby, LobbyArgs{Joined: true}, true)
	}
}
