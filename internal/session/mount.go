package session

import (
	"context"
	"sync"

	"github.com/DoyleJ11/cube-draft/pkg/types"
)

// Mount holds at most one live controller. Rendering a different identity
// tears the previous controller down completely before building the next.
type Mount struct {
	mu      sync.Mutex
	opts    Options
	current *Controller
}

func NewMount(opts Options) *Mount {
	return &Mount{opts: opts}
}

func (m *Mount) Render(ctx context.Context, roomID string, seat int) (*Controller, error) {
	id := types.Identity{RoomID: roomID, Seat: seat}
	if err := id.Validate(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if cur := m.current; cur != nil {
		if cur.id == id && !isDone(cur) {
			cur.Refresh()
			return cur, nil
		}
		cur.Teardown()
		m.current = nil
	}

	c, err := New(ctx, id, m.opts)
	if err != nil {
		return nil, err
	}
	m.current = c
	return c, nil
}

func (m *Mount) Current() *Controller {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// Close tears down the live controller, if any.
func (m *Mount) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current != nil {
		m.current.Teardown()
		m.current = nil
	}
}

func isDone(c *Controller) bool {
	select {
	case <-c.done:
		return true
	default:
		return false
	}
}
