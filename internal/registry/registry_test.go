package registry

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/leoddeng/2dgame-server/internal/room"
	"github.com/leoddeng/2dgame-server/pkg/types"
)

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return New(ctx, room.Config{PipeInterval: time.Hour}, zap.NewNop().Sugar())
}

func create(t *testing.T, g *Registry, owner string) Created {
	t.Helper()
	reply := make(chan Created, 1)
	g.Inbox() <- CreateRoom{OwnerID: owner, Outbox: make(chan types.ServerMessage, 4), Reply: reply}
	select {
	case c := <-reply:
		return c
	case <-time.After(time.Second):
		t.Fatalf("timed out creating room")
		return Created{} // unreachable
	}
}

func get(t *testing.T, g *Registry, id string) *room.Room {
	t.Helper()
	reply := make(chan *room.Room, 1)
	g.Inbox() <- GetRoom{ID: id, Reply: reply}
	select {
	case rm := <-reply:
		return rm
	case <-time.After(time.Second):
		t.Fatalf("timed out getting room")
		return nil // unreachable
	}
}

func list(t *testing.T, g *Registry) []string {
	t.Helper()
	reply := make(chan []string, 1)
	g.Inbox() <- ListRooms{Reply: reply}
	select {
	case ids := <-reply:
		return ids
	case <-time.After(time.Second):
		t.Fatalf("timed out listing rooms")
		return nil // unreachable
	}
}

func TestRegistry_CreateThenGetSamePointer(t *testing.T) {
	g := newTestRegistry(t)

	created := create(t, g, "alice")
	if len(created.ID) != 12 {
		t.Fatalf("room id %q, want 12 characters", created.ID)
	}

	if got := get(t, g, created.ID); got == nil || got != created.Room {
		t.Fatalf("expected same room pointer back")
	}
}

func TestRegistry_GetUnknownIsNil(t *testing.T) {
	g := newTestRegistry(t)

	if got := get(t, g, "missing"); got != nil {
		t.Fatalf("unknown id should resolve to nil")
	}
}

func TestRegistry_ListAndRemove(t *testing.T) {
	g := newTestRegistry(t)

	a := create(t, g, "alice")
	b := create(t, g, "bob")
	if a.ID == b.ID {
		t.Fatalf("two rooms share an id: %s", a.ID)
	}

	ids := list(t, g)
	if len(ids) != 2 {
		t.Fatalf("want 2 rooms listed, got %v", ids)
	}

	g.Inbox() <- RemoveRoom{ID: a.ID}
	if got := get(t, g, a.ID); got != nil {
		t.Fatalf("removed room still resolvable")
	}
	if ids := list(t, g); len(ids) != 1 || ids[0] != b.ID {
		t.Fatalf("want [%s], got %v", b.ID, ids)
	}
}

func TestRegistry_RemoveUnknownIsNoop(t *testing.T) {
	g := newTestRegistry(t)

	created := create(t, g, "alice")
	g.Inbox() <- RemoveRoom{ID: "missing"}

	if got := get(t, g, created.ID); got == nil {
		t.Fatalf("unrelated room disappeared")
	}
}
