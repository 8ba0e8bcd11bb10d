package room

import (
	"context"
	"math/rand"
	"time"

	"github.com/leoddeng/2dgame-server/pkg/types"
)

// World geometry shared with the client. The obstacle gap position is the
// one value the server computes so that every member renders the pipe field
// at identical positions.
const (
	worldHeight  = 644
	groundHeight = 146
	pipeGap      = 156
)

// gapY picks a vertical offset for the next pipe pair.
func gapY() float64 {
	return rand.Float64()*(worldHeight-pipeGap-groundHeight) + (-worldHeight + pipeGap/2)
}

// startRound begins a synchronized round: announce, zero the round-over
// count, and restart this room's obstacle clock. A clock from a previous
// round is cancelled first, so repeated startGame never leaks a ticker.
func (r *Room) startRound() {
	r.overCount = 0
	r.broadcast(types.ServerMessage{Type: types.TypeStartGame})

	r.stopClock()
	r.clockGen++
	ctx, cancel := context.WithCancel(r.ctx)
	r.clockCancel = cancel
	go r.runClock(ctx, r.clockGen)
}

// runClock feeds pipeTick messages into the room inbox until cancelled. The
// actual broadcast happens on the room goroutine so the clock never touches
// room state directly.
func (r *Room) runClock(ctx context.Context, gen int) {
	ticker := time.NewTicker(r.cfg.PipeInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			select {
			case r.inbox <- pipeTick{gen: gen}:
			case <-ctx.Done():
				return
			}
		}
	}
}

func (r *Room) stopClock() {
	if r.clockCancel != nil {
		r.clockCancel()
		r.clockCancel = nil
	}
}

// reportOver counts one member's round-end report. When every current member
// has reported, the round resolves: the clock stops, the player whose report
// completed the quorum is told they won, everyone else that they lost, and
// the count resets so a later report starts a fresh round tally. Short of
// quorum, only the reporter gets an interim acknowledgement.
//
// Resolution rewards the quorum-completing sender, not the highest score.
func (r *Room) reportOver(playerID string) {
	if len(r.members) == 0 {
		return
	}
	r.overCount++
	if r.overCount < len(r.members) {
		r.sendTo(playerID, types.ServerMessage{Type: types.TypeProcessing, Msg: types.MsgWaiting})
		return
	}

	r.stopClock()
	r.overCount = 0
	for _, id := range r.order {
		msg := types.MsgLose
		if id == playerID {
			msg = types.MsgWin
		}
		r.sendTo(id, types.ServerMessage{Type: types.TypeGameOver, Msg: msg})
	}
}
