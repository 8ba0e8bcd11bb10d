package game

import (
	"github.com/leoddeng/2dgame-server/pkg/fsm"
	"github.com/leoddeng/2dgame-server/pkg/types"
)

// playState runs a round. Offline it is self-contained; online it is the
// client-side peer of the room: local deltas go out every tick while the
// player is alive, remote deltas move peer avatars, and the server's
// broadcast pipe positions keep every member's obstacle field identical.
type playState struct {
	c *Client

	bird  *Bird
	peers map[string]*Bird
	pipes []*Pipe

	frame    int
	score    int
	maxScore int
}

func newPlayState(c *Client) *playState {
	return &playState{c: c}
}

func (s *playState) Enter(args any) {
	sess := s.c.Session
	s.bird = newBird(sess.PlayerID)
	s.pipes = nil
	s.frame = 0
	s.score = 0
	s.maxScore = s.c.scores.Get()

	s.peers = nil
	if sess.Online {
		s.peers = make(map[string]*Bird, len(sess.Players))
		for _, id := range sess.Players {
			s.peers[id] = newBird(id)
		}
	}
}

func (s *playState) Exit() {
	s.peers = nil
	s.pipes = nil
}

func (s *playState) Update(frame fsm.Frame) {
	sess := s.c.Session
	s.frame++

	if !sess.Online && s.frame%pipeFrequencyFrames == 0 {
		s.spawnPipe(localGapY())
	}
	for _, p := range s.pipes {
		p.Step()
	}

	if s.bird.Colliding {
		// Dead: online play waits here for the personalized outcome.
		return
	}

	if frame.Jump {
		s.bird.Jump()
	}
	s.bird.Step()
	s.updateScore()

	if collides(s.bird, s.pipes) {
		s.bird.Colliding = true
		if !sess.Online {
			// End states stay off the back stack so Back can never
			// re-enter a finished round.
			s.c.Machine.ChangeState(StateGameOver, GameOverArgs{Msg: "GAME OVER"}, false)
			return
		}
		// Final position update, then report round end with the score.
		s.c.send(types.ClientMessage{
			Type:        types.TypeUpdatePlayer,
			RoomID:      sess.RoomID,
			PlayerID:    sess.PlayerID,
			X:           floatPtr(s.bird.X),
			Y:           floatPtr(s.bird.Y),
			Score:       intPtr(s.score),
			IsColliding: boolPtr(true),
		})
		s.c.send(types.ClientMessage{
			Type:   types.TypeGameOver,
			RoomID: sess.RoomID,
			Score:  intPtr(s.score),
		})
		return
	}

	if sess.Online {
		s.c.send(types.ClientMessage{
			Type:     types.TypeUpdatePlayer,
			RoomID:   sess.RoomID,
			PlayerID: sess.PlayerID,
			X:        floatPtr(s.bird.X),
			Y:        floatPtr(s.bird.Y),
			Score:    intPtr(s.score),
		})
	}
}

// spawnPipe appends a pipe at the given gap offset and prunes pipes that
// scrolled off screen.
func (s *playState) spawnPipe(y float64) {
	live := s.pipes[:0]
	for _, p := range s.pipes {
		if p.X+PipeWidth > 0 {
			live = append(live, p)
		}
	}
	s.pipes = append(live, &Pipe{X: Width, Y: y})
}

func (s *playState) updateScore() {
	for _, p := range s.pipes {
		if !p.Passed && p.X+PipeWidth < s.bird.X {
			p.Passed = true
			s.score++
			if s.score >= s.maxScore {
				s.maxScore = s.score
				s.c.scores.Set(s.score)
			}
		}
	}
}

func (s *playState) Render() {
	s.c.surface.Clear()
	for _, p := range s.pipes {
		s.c.surface.DrawSprite("pipe", p.X, p.Y)
	}
	s.c.surface.DrawSprite("ground", 0, Height-GroundHeight)
	if !s.bird.Colliding {
		s.c.surface.DrawSprite("bird", s.bird.X, s.bird.Y)
	}
	for id, peer := range s.peers {
		if id == s.c.Session.PlayerID || peer.Colliding {
			continue
		}
		s.c.surface.DrawSprite("bird", peer.X, peer.Y)
	}
}

func (s *playState) HandleMessage(msg types.ServerMessage) {
	switch msg.Type {
	case types.TypeGeneratePipe:
		if msg.Y != nil {
			s.spawnPipe(*msg.Y)
		}

	case types.TypeUpdatePlayer:
		peer, ok := s.peers[msg.PlayerID]
		if !ok {
			return
		}
		if msg.X != nil {
			peer.X = *msg.X
		}
		if msg.Y != nil {
			peer.Y = *msg.Y
		}
		if msg.IsColliding != nil {
			peer.Colliding = *msg.IsColliding
		}

	case types.TypeGameOver:
		s.c.Machine.ChangeState(StateGameOver, GameOverArgs{Msg: msg.Msg}, false)
	}
}
