package game

import (
	"github.com/leoddeng/2dgame-server/pkg/fsm"
	"github.com/leoddeng/2dgame-server/pkg/types"
)

// loadingState consumes the asset loader's progress signal and hands off to
// the menu once everything is in. The signal is clamped monotonic: a loader
// that momentarily reports less than it already did cannot move the bar
// backwards.
type loadingState struct {
	c      *Client
	task   ProgressTask
	loaded int
	total  int
}

func newLoadingState(c *Client, task ProgressTask) *loadingState {
	return &loadingState{c: c, task: task}
}

func (s *loadingState) Enter(args any) {}

func (s *loadingState) Exit() {}

func (s *loadingState) Update(frame fsm.Frame) {
	loaded, total := s.task.Progress()
	if loaded > s.loaded {
		s.loaded = loaded
	}
	s.total = total

	if s.total > 0 && s.loaded >= s.total {
		s.c.Assets = s.task.Bundle()
		s.c.Machine.ChangeState(StateMenu, nil, false)
	}
}

// Fraction is the current progress in [0, 1], for the external progress bar.
func (s *loadingState) Fraction() float64 {
	if s.total == 0 {
		return 0
	}
	return float64(s.loaded) / float64(s.total)
}

func (s *loadingState) Render() {
	s.c.surface.Clear()
}

func (s *loadingState) HandleMessage(msg types.ServerMessage) {}
