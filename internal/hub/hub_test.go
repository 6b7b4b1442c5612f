package hub

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DoyleJ11/cube-draft/internal/engine"
)

var smallDraft = engine.Config{PackCount: 1, PackSize: 2, SeatCount: 2}

func deck(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("C%03d", i)
	}
	return out
}

func create(t *testing.T, h *Hub, id, owner string) Created {
	t.Helper()
	reply := make(chan Created, 1)
	h.Inbox() <- CreateRoom{ID: id, Config: smallDraft, Deck: deck(smallDraft.DeckSize()), Owner: owner, Reply: reply}
	return <-reply
}

func TestHub_Create_Get_SamePointer(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	h := NewHub(ctx, nil)

	res := create(t, h, "ZED123", "dev-a")
	require.NoError(t, res.Err)

	reply := make(chan *Room, 1)
	h.Inbox() <- GetRoom{ID: "ZED123", Reply: reply}
	got := <-reply

	require.NotNil(t, got)
	assert.Same(t, res.Room, got)
	assert.Same(t, res.Room.Lobby, got.Lobby)

	h.Inbox() <- GetRoom{ID: "NOPE", Reply: reply}
	assert.Nil(t, <-reply)
}

func TestHub_CreateRejectsDuplicateAndBadDeck(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	h := NewHub(ctx, nil)

	require.NoError(t, create(t, h, "A", "dev").Err)
	assert.ErrorIs(t, create(t, h, "A", "dev").Err, ErrRoomExists)

	reply := make(chan Created, 1)
	h.Inbox() <- CreateRoom{ID: "B", Config: smallDraft, Deck: deck(3), Owner: "dev", Reply: reply}
	assert.ErrorIs(t, (<-reply).Err, engine.ErrDeckSize)
}

func TestHub_ListOrderedByCreation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	h := NewHub(ctx, nil)

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	n := 0
	h.now = func() time.Time { n++; return base.Add(time.Duration(n) * time.Minute) }

	for _, id := range []string{"C", "A", "B"} {
		require.NoError(t, create(t, h, id, "dev").Err)
	}

	reply := make(chan []*Room, 1)
	h.Inbox() <- ListRooms{Reply: reply}
	rooms := <-reply
	require.Len(t, rooms, 3)
	assert.Equal(t, "C", rooms[0].ID)
	assert.Equal(t, "A", rooms[1].ID)
	assert.Equal(t, "B", rooms[2].ID)
}

func TestHub_RemoveOwnerOnly(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	h := NewHub(ctx, nil)

	res := create(t, h, "R1", "owner")
	require.NoError(t, res.Err)

	reply := make(chan error, 1)
	h.Inbox() <- RemoveRoom{ID: "R1", Owner: "someone-else", Reply: reply}
	assert.ErrorIs(t, <-reply, ErrNotOwner)

	h.Inbox() <- RemoveRoom{ID: "R1", Owner: "owner", Reply: reply}
	require.NoError(t, <-reply)

	select {
	case <-res.Room.Lobby.Done():
	case <-time.After(time.Second):
		t.Fatal("lobby not shut down after removal")
	}

	h.Inbox() <- RemoveRoom{ID: "R1", Owner: "owner", Reply: reply}
	assert.ErrorIs(t, <-reply, ErrRoomNotFound)
}

func TestHub_ShutdownStopsLobbies(t *testing.T) {
	h := NewHub(context.Background(), nil)
	res := create(t, h, "R1", "owner")
	require.NoError(t, res.Err)

	h.Inbox() <- ShutdownHub{}

	select {
	case <-res.Room.Lobby.Done():
	case <-time.After(time.Second):
		t.Fatal("lobby not shut down with hub")
	}
}
