// Package ws is the server's single inbound entry point. It binds each
// websocket connection to a player identity, parses inbound frames and routes
// them by type to the registry and room actors.
package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"go.uber.org/zap"

	"github.com/leoddeng/2dgame-server/internal/identity"
	"github.com/leoddeng/2dgame-server/internal/registry"
	"github.com/leoddeng/2dgame-server/internal/room"
	"github.com/leoddeng/2dgame-server/internal/score"
	"github.com/leoddeng/2dgame-server/pkg/types"
)

const writeTimeout = 3 * time.Second

func Handler(reg *registry.Registry, scores *score.Store, log *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		playerID := identity.Assign(identity.FromRequest(r))

		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			InsecureSkipVerify: true, // clients connect from arbitrary origins
		})
		if err != nil {
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		clog := log.With("player", playerID)
		clog.Infow("connection accepted")

		// One outbox per connection, registered into rooms on join. Rooms
		// only ever send to it non-blocking, so it is never closed: after
		// the transport dies it simply fills up and broadcasts skip it.
		outbox := make(chan types.ServerMessage, 64)

		writeCtx, writeCancel := context.WithCancel(r.Context())
		defer writeCancel()
		go writePump(writeCtx, conn, outbox, clog)

		d := &dispatcher{reg: reg, scores: scores, log: clog, playerID: playerID, outbox: outbox}
		d.send(types.ServerMessage{Type: types.TypeCreateRole, PlayerID: playerID})

		for {
			_, data, err := conn.Read(r.Context())
			if err != nil {
				switch websocket.CloseStatus(err) {
				case websocket.StatusNormalClosure, websocket.StatusGoingAway:
					clog.Infow("connection closed")
				default:
					clog.Infow("connection lost", "err", err)
				}
				return
			}

			var cm types.ClientMessage
			if err := json.Unmarshal(data, &cm); err != nil {
				// Protocol errors are recovered locally: log, drop, keep
				// the connection open.
				clog.Warnw("dropping malformed message", "err", err)
				continue
			}
			d.dispatch(cm)
		}
	}
}

type dispatcher struct {
	reg      *registry.Registry
	scores   *score.Store
	log      *zap.SugaredLogger
	playerID string
	outbox   chan types.ServerMessage
}

// dispatch routes one parsed frame. Operations on room ids that no longer
// exist are no-ops; unknown types are ignored.
func (d *dispatcher) dispatch(cm types.ClientMessage) {
	switch cm.Type {
	case types.TypeCreateRoom:
		reply := make(chan registry.Created, 1)
		d.reg.Inbox() <- registry.CreateRoom{OwnerID: d.playerID, Outbox: d.outbox, Reply: reply}
		created := <-reply
		d.send(types.ServerMessage{Type: types.TypeCreateRoom, RoomID: created.ID})

	case types.TypeJoinRoom:
		if rm := d.room(cm.RoomID); rm != nil {
			d.sendRoom(rm, room.Join{PlayerID: d.playerID, Outbox: d.outbox})
		}

	case types.TypeLeaveRoom:
		rm := d.room(cm.RoomID)
		if rm == nil {
			return
		}
		reply := make(chan bool, 1)
		if !d.sendRoom(rm, room.Leave{PlayerID: d.playerID, Reply: reply}) {
			return
		}
		select {
		case empty := <-reply:
			if empty {
				d.reg.Inbox() <- registry.RemoveRoom{ID: cm.RoomID}
			}
		case <-rm.Done():
			// Destroyed before answering; the registry already forgot it.
		}

	case types.TypeShowRoom:
		reply := make(chan []string, 1)
		d.reg.Inbox() <- registry.ListRooms{Reply: reply}
		d.send(types.ServerMessage{Type: types.TypeShowRoom, Rooms: <-reply})

	case types.TypeUpdatePlayer:
		if rm := d.room(cm.RoomID); rm != nil {
			d.sendRoom(rm, room.Update{
				PlayerID:    d.playerID,
				X:           cm.X,
				Y:           cm.Y,
				Score:       cm.Score,
				IsColliding: cm.IsColliding,
			})
		}

	case types.TypeStartGame:
		if rm := d.room(cm.RoomID); rm != nil {
			d.sendRoom(rm, room.StartRound{})
		}

	case types.TypeGameOver:
		rm := d.room(cm.RoomID)
		if rm == nil {
			return
		}
		d.sendRoom(rm, room.ReportOver{PlayerID: d.playerID})
		if cm.Score != nil {
			if err := d.scores.Record(d.playerID, *cm.Score); err != nil {
				d.log.Warnw("best score not recorded", "err", err)
			}
		}
	}
}

// sendRoom delivers to a room inbox unless the room has already stopped, in
// which case the operation degrades to a no-op instead of blocking the read
// loop on a full inbox nobody drains.
func (d *dispatcher) sendRoom(rm *room.Room, msg room.Msg) bool {
	select {
	case rm.Inbox() <- msg:
		return true
	case <-rm.Done():
		return false
	}
}

func (d *dispatcher) room(id string) *room.Room {
	reply := make(chan *room.Room, 1)
	d.reg.Inbox() <- registry.GetRoom{ID: id, Reply: reply}
	return <-reply
}

func (d *dispatcher) send(msg types.ServerMessage) {
	select {
	case d.outbox <- msg:
	default:
		d.log.Debugw("outbox full, dropping reply", "type", msg.Type)
	}
}

// writePump is the only writer on the connection. It drains the outbox until
// the connection context ends or a write fails.
func writePump(ctx context.Context, conn *websocket.Conn, outbox <-chan types.ServerMessage, log *zap.SugaredLogger) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-outbox:
			payload, err := json.Marshal(msg)
			if err != nil {
				log.Errorw("marshal outbound message", "err", err)
				continue
			}
			wctx, cancel := context.WithTimeout(ctx, writeTimeout)
			err = conn.Write(wctx, websocket.MessageText, payload)
			cancel()
			if err != nil {
				return
			}
		}
	}
}
