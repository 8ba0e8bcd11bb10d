package game

import (
	"github.com/leoddeng/2dgame-server/pkg/fsm"
	"github.com/leoddeng/2dgame-server/pkg/types"
)

// GameOverArgs carries the resolution text ("you win" / "you lose" online,
// plain game over offline).
type GameOverArgs struct {
	Msg string
}

type gameOverState struct {
	c   *Client
	msg string
}

func newGameOverState(c *Client) *gameOverState {
	return &gameOverState{c: c}
}

func (s *gameOverState) Enter(args any) {
	s.msg = "GAME OVER"
	if a, ok := args.(GameOverArgs); ok && a.Msg != "" {
		s.msg = a.Msg
	}
}

func (s *gameOverState) Exit() {}

// Msg is the resolution text for the overlay.
func (s *gameOverState) Msg() string { return s.msg }

// Restart replays: directly offline, via the room's startGame broadcast
// online so every member restarts together.
func (s *gameOverState) Restart() {
	if !s.c.Session.Online {
		s.c.Machine.ChangeState(StatePlay, nil, true)
		return
	}
	s.c.send(types.ClientMessage{Type: types.TypeStartGame, RoomID: s.c.Session.RoomID})
}

// ExitToMenu leaves the room and returns to the root screen.
func (s *gameOverState) ExitToMenu() {
	if s.c.Session.Online {
		s.c.send(types.ClientMessage{Type: types.TypeLeaveRoom, RoomID: s.c.Session.RoomID})
		s.c.Session.RoomID = ""
	}
	s.c.Machine.ChangeState(StateMenu, nil, false)
}

func (s *gameOverState) Update(frame fsm.Frame) {}

func (s *gameOverState) Render() {}

func (s *gameOverState) HandleMessage(msg types.ServerMessage) {
	switch msg.Type {
	case types.TypeStartGame:
		s.c.Machine.ChangeState(StatePlay, nil, true)
	}
}
