package rooms_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DoyleJ11/cube-draft/internal/httpapi"
	"github.com/DoyleJ11/cube-draft/internal/hub"
	"github.com/DoyleJ11/cube-draft/internal/rooms"
	"github.com/DoyleJ11/cube-draft/pkg/types"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	srv := httptest.NewServer(httpapi.SetupRoutes(hub.NewHub(ctx, nil), nil))
	t.Cleanup(srv.Close)
	return srv
}

func cube(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("Card %d", i)
	}
	return out
}

func TestClient_CreateListDelete(t *testing.T) {
	srv := newServer(t)
	ctx := context.Background()
	owner := rooms.New(srv.URL+"/", "device-a")
	other := rooms.New(srv.URL, "device-b")

	id, err := owner.Create(ctx, types.CreateRoomRequest{Cards: cube(12), Seats: 2, Packs: 2, PackSize: 3})
	require.NoError(t, err)
	require.Len(t, id, 6)

	list, err := owner.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, id, list[0].ID)
	assert.Equal(t, 2, list[0].Seats)
	assert.Equal(t, 3, list[0].PackSize)
	assert.Equal(t, types.DraftActive, list[0].State)
	assert.Empty(t, list[0].Occupied)
	assert.True(t, list[0].Mine)

	theirs, err := other.List(ctx)
	require.NoError(t, err)
	require.Len(t, theirs, 1)
	assert.False(t, theirs[0].Mine)

	var se *rooms.StatusError
	err = other.Delete(ctx, id)
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusForbidden, se.Code)

	require.NoError(t, owner.Delete(ctx, id))

	err = owner.Delete(ctx, id)
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusNotFound, se.Code)
}

func TestClient_CreateRejectsWrongDeck(t *testing.T) {
	srv := newServer(t)

	_, err := rooms.New(srv.URL, "dev").Create(context.Background(),
		types.CreateRoomRequest{Cards: cube(5), Seats: 2, Packs: 1, PackSize: 3})

	var se *rooms.StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusBadRequest, se.Code)
	assert.Contains(t, se.Body, "deck size")
}

func TestClient_RequiresDevice(t *testing.T) {
	_, err := rooms.New("http://127.0.0.1:1", "").List(context.Background())
	assert.ErrorIs(t, err, rooms.ErrNoDevice)
}
