package game

import (
	"github.com/leoddeng/2dgame-server/pkg/fsm"
	"github.com/leoddeng/2dgame-server/pkg/types"
)

// menuState is the root screen. The UI layer invokes the intent methods;
// transitions away happen on the server's replies.
type menuState struct {
	c      *Client
	chrome *menuChrome
}

func newMenuState(c *Client) *menuState {
	return &menuState{c: c, chrome: newMenuChrome(c.surface)}
}

func (s *menuState) Enter(args any) {}

func (s *menuState) Exit() {}

// StartOffline begins a single-player round immediately, no room involved.
func (s *menuState) StartOffline() {
	s.c.Session.Online = false
	s.c.Machine.ChangeState(StatePlay, nil, true)
}

// CreateRoom asks the server for a fresh room with this player as owner.
func (s *menuState) CreateRoom() {
	s.c.send(types.ClientMessage{Type: types.TypeCreateRoom})
}

// BrowseRooms asks for the open-room list.
func (s *menuState) BrowseRooms() {
	s.c.send(types.ClientMessage{Type: types.TypeShowRoom})
}

func (s *menuState) Update(frame fsm.Frame) {
	s.chrome.step()
}

func (s *menuState) Render() {
	s.chrome.render()
}

func (s *menuState) HandleMessage(msg types.ServerMessage) {
	switch msg.Type {
	case types.TypeCreateRoom:
		s.c.Session.Online = true
		s.c.Session.RoomID = msg.RoomID
		s.c.Session.Players = []string{s.c.Session.PlayerID}
		s.c.Machine.ChangeState(StateLobby, LobbyArgs{Joined: false}, true)

	case types.TypeShowRoom:
		s.c.Session.Rooms = msg.Rooms
		s.c.Machine.ChangeState(StateBrowse, nil, true)
	}
}
