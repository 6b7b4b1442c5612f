// Package transporttest provides an in-memory transport for driving session
// state machines without a network.
package transporttest

import (
	"context"
	"sync"

	"github.com/DoyleJ11/cube-draft/internal/transport"
	"github.com/DoyleJ11/cube-draft/pkg/types"
)

type Opener struct {
	mu    sync.Mutex
	conns []*Conn
}

func (o *Opener) Open(_ context.Context, id types.Identity, emit func(transport.Event)) transport.Conn {
	o.mu.Lock()
	defer o.mu.Unlock()
	c := &Conn{Identity: id, emit: emit}
	o.conns = append(o.conns, c)
	return c
}

// Conns returns every connection opened so far, oldest first.
func (o *Opener) Conns() []*Conn {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]*Conn(nil), o.conns...)
}

// Last returns the most recent connection or nil.
func (o *Opener) Last() *Conn {
	o.mu.Lock()
	defer o.mu.Unlock()
	if len(o.conns) == 0 {
		return nil
	}
	return o.conns[len(o.conns)-1]
}

type Conn struct {
	Identity types.Identity

	mu      sync.Mutex
	emit    func(transport.Event)
	open    bool
	closed  bool
	sent    [][]byte
	SendErr error
}

// Accept marks the connection open and emits EventOpen.
func (c *Conn) Accept() {
	c.mu.Lock()
	c.open = true
	c.mu.Unlock()
	c.emit(transport.Event{Kind: transport.EventOpen, Conn: c})
}

// Deliver emits an inbound frame.
func (c *Conn) Deliver(frame string) {
	c.emit(transport.Event{Kind: transport.EventMessage, Conn: c, Data: []byte(frame)})
}

// Drop simulates an unplanned close.
func (c *Conn) Drop(err error) {
	c.mu.Lock()
	c.open = false
	c.mu.Unlock()
	c.emit(transport.Event{Kind: transport.EventClose, Conn: c, Err: err})
}

func (c *Conn) Send(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return transport.ErrClosed
	}
	if !c.open {
		return transport.ErrNotOpen
	}
	if c.SendErr != nil {
		return c.SendErr
	}
	c.sent = append(c.sent, append([]byte(nil), data...))
	return nil
}

func (c *Conn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.open = false
	return nil
}

func (c *Conn) Sent() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.sent))
	for i, b := range c.sent {
		out[i] = string(b)
	}
	return out
}

func (c *Conn) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}
