// Package room implements the authoritative game room: membership, transient
// player state, fan-out of updates to every member connection, and
// end-of-round arbitration. Each Room is an actor; all mutation happens on
// its own goroutine, one inbox message at a time.
package room

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/leoddeng/2dgame-server/pkg/types"
)

// Config carries the per-room tunables.
type Config struct {
	// PipeInterval is the period of the synchronized obstacle clock.
	PipeInterval time.Duration
}

// DefaultConfig spaces pipes two seconds apart, matching the client's
// offline cadence at sixty frames per second.
func DefaultConfig() Config {
	return Config{PipeInterval: 2 * time.Second}
}

// PlayerState is the last-known transient state of one member. Owned by the
// room; mutated only by Update messages naming that player.
type PlayerState struct {
	ID    string
	X     float64
	Y     float64
	Score int
	Alive bool
}

type Msg interface{ isRoomMsg() }

// Join inserts (or overwrites) a member connection. The membership snapshot
// is broadcast as playerJoined to everyone, sender included.
type Join struct {
	PlayerID string
	Outbox   chan types.ServerMessage
}

// Leave removes a member and reports on Reply whether the room emptied. The
// caller is responsible for destroying an emptied room via the registry.
type Leave struct {
	PlayerID string
	Reply    chan bool
}

// Update merges the non-nil fields into the player's state and broadcasts
// the delta. Unknown players are a no-op.
type Update struct {
	PlayerID    string
	X           *float64
	Y           *float64
	Score       *int
	IsColliding *bool
}

// StartRound broadcasts startGame, resets the round-over count and
// (re)starts the obstacle clock.
type StartRound struct{}

// ReportOver records one member's round-end report.
type ReportOver struct{ PlayerID string }

// GetView reflects internal state without data races. Test-only.
type GetView struct{ Reply chan View }

type Shutdown struct{}

// pipeTick is the obstacle clock firing. gen guards against fires from a
// clock that was already replaced.
type pipeTick struct{ gen int }

func (Join) isRoomMsg()       {}
func (Leave) isRoomMsg()      {}
func (Update) isRoomMsg()     {}
func (StartRound) isRoomMsg() {}
func (ReportOver) isRoomMsg() {}
func (GetView) isRoomMsg()    {}
func (Shutdown) isRoomMsg()   {}
func (pipeTick) isRoomMsg()   {}

type View struct {
	Members      []string
	States       map[string]PlayerState
	OverCount    int
	ClockRunning bool
}

type member struct {
	outbox chan types.ServerMessage
	state  PlayerState
}

type Room struct {
	id      string
	cfg     Config
	inbox   chan Msg
	members map[string]*member
	order   []string // membership in join order, for deterministic snapshots

	overCount   int
	clockCancel context.CancelFunc
	clockGen    int

	ctx    context.Context
	cancel context.CancelFunc
	log    *zap.SugaredLogger
}

// New creates a room containing exactly the owner and starts its loop.
func New(parent context.Context, id string, cfg Config, log *zap.SugaredLogger, ownerID string, ownerOut chan types.ServerMessage) *Room {
	ctx, cancel := context.WithCancel(parent)

	r := &Room{
		id:      id,
		cfg:     cfg,
		inbox:   make(chan Msg, 64),
		members: make(map[string]*member),
		ctx:     ctx,
		cancel:  cancel,
		log:     log.With("room", id),
	}
	r.members[ownerID] = &member{outbox: ownerOut, state: newPlayerState(ownerID)}
	r.order = append(r.order, ownerID)

	go r.loop()
	return r
}

func (r *Room) ID() string { return r.id }

func (r *Room) Inbox() chan<- Msg { return r.inbox }

// Done closes when the room actor has stopped. Callers waiting on a Reply
// must select on it: a room destroyed between lookup and delivery will never
// answer, and a bare channel receive would hang the caller forever.
func (r *Room) Done() <-chan struct{} { return r.ctx.Done() }

func newPlayerState(id string) PlayerState {
	return PlayerState{ID: id, Alive: true}
}

func (r *Room) loop() {
	for {
		select {
		case <-r.ctx.Done():
			r.shutdown()
			return

		case m := <-r.inbox:
			switch msg := m.(type) {
			case Join:
				r.join(msg)

			case Leave:
				r.leave(msg)

			case Update:
				r.update(msg)

			case StartRound:
				r.startRound()

			case ReportOver:
				r.reportOver(msg.PlayerID)

			case pipeTick:
				if msg.gen != r.clockGen {
					break // stale clock, already replaced
				}
				y := gapY()
				r.broadcast(types.ServerMessage{Type: types.TypeGeneratePipe, Y: &y})

			case GetView:
				msg.Reply <- r.view()

			case Shutdown:
				r.shutdown()
				return
			}
		}
	}
}

func (r *Room) join(msg Join) {
	if existing, ok := r.members[msg.PlayerID]; ok {
		// Rejoin with a fresh connection keeps the player's slot.
		existing.outbox = msg.Outbox
	} else {
		r.members[msg.PlayerID] = &member{outbox: msg.Outbox, state: newPlayerState(msg.PlayerID)}
		r.order = append(r.order, msg.PlayerID)
	}
	r.broadcast(types.ServerMessage{Type: types.TypePlayerJoined, Players: r.snapshot()})
}

func (r *Room) leave(msg Leave) {
	if _, ok := r.members[msg.PlayerID]; ok {
		delete(r.members, msg.PlayerID)
		for i, id := range r.order {
			if id == msg.PlayerID {
				r.order = append(r.order[:i], r.order[i+1:]...)
				break
			}
		}
		if len(r.members) > 0 {
			r.broadcast(types.ServerMessage{Type: types.TypePlayerLeft, Players: r.snapshot()})
		}
	}
	if msg.Reply != nil {
		msg.Reply <- len(r.members) == 0
	}
}

func (r *Room) update(msg Update) {
	mb, ok := r.members[msg.PlayerID]
	if !ok {
		return
	}
	if msg.X != nil {
		mb.state.X = *msg.X
	}
	if msg.Y != nil {
		mb.state.Y = *msg.Y
	}
	if msg.Score != nil {
		mb.state.Score = *msg.Score
	}
	if msg.IsColliding != nil {
		mb.state.Alive = !*msg.IsColliding
	}
	r.broadcast(types.ServerMessage{
		Type:        types.TypeUpdatePlayer,
		PlayerID:    msg.PlayerID,
		X:           msg.X,
		Y:           msg.Y,
		Score:       msg.Score,
		IsColliding: msg.IsColliding,
	})
}

// snapshot returns the member ids in join order. The invariant: the players
// list in the most recent playerJoined/playerLeft broadcast is exactly the
// live member set.
func (r *Room) snapshot() []string {
	ids := make([]string, len(r.order))
	copy(ids, r.order)
	return ids
}

// broadcast delivers to every member outbox without blocking. A member whose
// outbox is full (stalled or dead transport) is skipped; membership is not
// touched, since it is also the round-quorum denominator.
func (r *Room) broadcast(msg types.ServerMessage) {
	for _, id := range r.order {
		r.sendTo(id, msg)
	}
}

func (r *Room) sendTo(playerID string, msg types.ServerMessage) {
	mb, ok := r.members[playerID]
	if !ok {
		return
	}
	select {
	case mb.outbox <- msg:
	default:
		r.log.Debugw("dropping message for stalled member", "player", playerID, "type", msg.Type)
	}
}

func (r *Room) view() View {
	states := make(map[string]PlayerState, len(r.members))
	for id, mb := range r.members {
		states[id] = mb.state
	}
	return View{
		Members:      r.snapshot(),
		States:       states,
		OverCount:    r.overCount,
		ClockRunning: r.clockCancel != nil,
	}
}

func (r *Room) shutdown() {
	r.stopClock()
	r.cancel()

	// Answer whatever was already queued so a sender blocked on a Reply is
	// released; messages arriving after the drain are covered by Done.
	for {
		select {
		case m := <-r.inbox:
			switch msg := m.(type) {
			case Leave:
				if msg.Reply != nil {
					msg.Reply <- true
				}
			case GetView:
				msg.Reply <- View{}
			}
		default:
			return
		}
	}
}
