// Package registry creates, looks up and destroys rooms. Like the rooms it
// manages, the registry is an actor: every operation is a message on its
// inbox, handled one at a time on its own goroutine.
package registry

import (
	"context"
	"crypto/rand"
	"encoding/hex"

	"go.uber.org/zap"

	"github.com/leoddeng/2dgame-server/internal/room"
	"github.com/leoddeng/2dgame-server/pkg/types"
)

type Msg interface{ isRegistryMsg() }

// CreateRoom allocates a fresh room id and a room containing exactly the
// owner, then replies with both.
type CreateRoom struct {
	OwnerID string
	Outbox  chan types.ServerMessage
	Reply   chan Created
}

type Created struct {
	ID   string
	Room *room.Room
}

// GetRoom replies with the room or nil.
type GetRoom struct {
	ID    string
	Reply chan *room.Room
}

// RemoveRoom shuts the room down and forgets it. Unknown ids are a no-op.
type RemoveRoom struct{ ID string }

// ListRooms replies with a snapshot of open room ids, for lobby browsing.
type ListRooms struct{ Reply chan []string }

type ShutdownRegistry struct{}

func (CreateRoom) isRegistryMsg()       {}
func (GetRoom) isRegistryMsg()          {}
func (RemoveRoom) isRegistryMsg()       {}
func (ListRooms) isRegistryMsg()        {}
func (ShutdownRegistry) isRegistryMsg() {}

type Registry struct {
	inbox   chan Msg
	rooms   map[string]*room.Room
	roomCfg room.Config
	ctx     context.Context
	cancel  context.CancelFunc
	log     *zap.SugaredLogger
}

func New(parent context.Context, roomCfg room.Config, log *zap.SugaredLogger) *Registry {
	ctx, cancel := context.WithCancel(parent)
	g := &Registry{
		inbox:   make(chan Msg, 64),
		rooms:   make(map[string]*room.Room),
		roomCfg: roomCfg,
		ctx:     ctx,
		cancel:  cancel,
		log:     log,
	}
	go g.loop()
	return g
}

func (g *Registry) Inbox() chan<- Msg { return g.inbox }

func (g *Registry) loop() {
	for {
		select {
		case <-g.ctx.Done():
			g.shutdown()
			return

		case m := <-g.inbox:
			switch msg := m.(type) {
			case CreateRoom:
				id := g.freshID()
				rm := room.New(g.ctx, id, g.roomCfg, g.log, msg.OwnerID, msg.Outbox)
				g.rooms[id] = rm
				g.log.Infow("room created", "room", id, "owner", msg.OwnerID)
				msg.Reply <- Created{ID: id, Room: rm}

			case GetRoom:
				msg.Reply <- g.rooms[msg.ID] // may be nil

			case RemoveRoom:
				if rm := g.rooms[msg.ID]; rm != nil {
					rm.Inbox() <- room.Shutdown{}
					delete(g.rooms, msg.ID)
					g.log.Infow("room destroyed", "room", msg.ID)
				}

			case ListRooms:
				ids := make([]string, 0, len(g.rooms))
				for id := range g.rooms {
					ids = append(ids, id)
				}
				msg.Reply <- ids

			case ShutdownRegistry:
				g.shutdown()
				return
			}
		}
	}
}

func (g *Registry) shutdown() {
	for id, rm := range g.rooms {
		rm.Inbox() <- room.Shutdown{}
		delete(g.rooms, id)
	}
	g.cancel()
}

// freshID returns a 12-hex-character room id. Entropy comes from 16 random
// bytes before truncation; collisions are additionally checked against the
// live room set since the loop is the only writer anyway.
func (g *Registry) freshID() string {
	for {
		b := make([]byte, 16)
		if _, err := rand.Read(b); err != nil {
			panic(err) // crypto/rand failure is not a recoverable condition
		}
		id := hex.EncodeToString(b)[:12]
		if _, taken := g.rooms[id]; !taken {
			return id
		}
	}
}
