package main

import (
	"bytes"
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/DoyleJ11/cube-draft/internal/config"
	"github.com/DoyleJ11/cube-draft/internal/engine"
	"github.com/DoyleJ11/cube-draft/internal/httpapi"
	"github.com/DoyleJ11/cube-draft/internal/hub"
)

type fakeControls struct {
	selected []int
	names    []string
	confirms int
	refresh  int
	ok       bool
}

func (f *fakeControls) Select(i int) bool { f.selected = append(f.selected, i); return f.ok }

func (f *fakeControls) SelectByName(n string) bool { f.names = append(f.names, n); return f.ok }

func (f *fakeControls) Confirm() bool { f.confirms++; return f.ok }

func (f *fakeControls) Refresh() { f.refresh++ }

// syncBuffer is written by the frame printer and read by the test.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestGesture(t *testing.T) {
	f := &fakeControls{ok: true}

	quit, msg := gesture(f, "select 3")
	assert.False(t, quit)
	assert.Empty(t, msg)
	assert.Equal(t, []int{2}, f.selected)

	_, msg = gesture(f, "  s   black lotus ")
	assert.Empty(t, msg)
	assert.Equal(t, []string{"black lotus"}, f.names)

	gesture(f, "confirm")
	gesture(f, "r")
	assert.Equal(t, 1, f.confirms)
	assert.Equal(t, 1, f.refresh)

	quit, _ = gesture(f, "quit")
	assert.True(t, quit)

	_, msg = gesture(f, "dance")
	assert.Contains(t, msg, "unknown command")
	_, msg = gesture(f, "select")
	assert.Equal(t, "select what?", msg)
	_, msg = gesture(f, "")
	assert.Empty(t, msg)
}

func TestGesture_Rejections(t *testing.T) {
	f := &fakeControls{ok: false}

	_, msg := gesture(f, "select 9")
	assert.Equal(t, "cannot select card 9", msg)
	_, msg = gesture(f, "select bolt")
	assert.Contains(t, msg, "no single card matches")
	_, msg = gesture(f, "c")
	assert.Equal(t, "nothing to confirm", msg)
}

func TestScanLinesStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	lines := make(chan string)
	finished := make(chan struct{})
	go func() {
		scanLines(ctx, strings.NewReader("select 1\nconfirm\n"), lines)
		close(finished)
	}()

	assert.Equal(t, "select 1", <-lines)
	cancel() // nobody takes "confirm"

	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("scanLines still blocked after cancel")
	}
	_, ok := <-lines
	assert.False(t, ok)
}

func TestReadCube(t *testing.T) {
	cards, err := readCube(strings.NewReader("# my cube\nLightning Bolt\n\n  Counterspell  \n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"Lightning Bolt", "Counterspell"}, cards)
}

func TestJoin_PicksAndQuits(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	h := hub.NewHub(ctx, nil)
	reply := make(chan hub.Created, 1)
	h.Inbox() <- hub.CreateRoom{
		ID:     "CLI",
		Config: engine.Config{PackCount: 1, PackSize: 2, SeatCount: 1},
		Deck:   []string{"Opt", "Brainstorm"},
		Owner:  "dev",
		Reply:  reply,
	}
	require.NoError(t, (<-reply).Err)
	srv := httptest.NewServer(httpapi.SetupRoutes(h, nil))
	defer srv.Close()

	cfg, err := config.Load(config.New(), "", "")
	require.NoError(t, err)
	cfg.ServerURL = srv.URL
	a := &app{cfg: cfg, log: zap.NewNop()}

	// Input arrives slowly enough for the pack to be rendered first.
	in, w := io.Pipe()
	var out syncBuffer
	done := make(chan error, 1)
	go func() { done <- a.join(ctx, "CLI", 0, nil, in, &out) }()

	require.Eventually(t, func() bool { return strings.Contains(out.String(), "Brainstorm") }, 2*time.Second, 10*time.Millisecond)
	_, _ = w.Write([]byte("select brain\nconfirm\n"))
	require.Eventually(t, func() bool { return strings.Contains(out.String(), "pool (1): Brainstorm") }, 2*time.Second, 10*time.Millisecond)
	_, _ = w.Write([]byte("quit\n"))

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("join did not return after quit")
	}
	_ = w.Close()
}
