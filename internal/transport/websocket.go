package transport

import (
	"context"
	"sync"
	"time"

	"github.com/coder/websocket"
	"go.uber.org/zap"

	"github.com/DoyleJ11/cube-draft/pkg/types"
)

const (
	defaultDialTimeout  = 5 * time.Second
	defaultWriteTimeout = 3 * time.Second
	sendQueueSize       = 16
	readLimit           = 1 << 20
)

// WebSocket opens session connections with coder/websocket.
type WebSocket struct {
	BaseURL      string
	DialTimeout  time.Duration
	WriteTimeout time.Duration
	Log          *zap.Logger
}

func (w *WebSocket) Open(ctx context.Context, id types.Identity, emit func(Event)) Conn {
	ctx, cancel := context.WithCancel(ctx)
	c := &wsConn{
		out:    make(chan []byte, sendQueueSize),
		ctx:    ctx,
		cancel: cancel,
	}
	log := w.Log
	if log == nil {
		log = zap.NewNop()
	}
	go c.run(w, id, emit, log)
	return c
}

type wsConn struct {
	mu     sync.Mutex
	conn   *websocket.Conn
	open   bool
	closed bool

	out    chan []byte
	ctx    context.Context
	cancel context.CancelFunc
}

func (c *wsConn) run(w *WebSocket, id types.Identity, emit func(Event), log *zap.Logger) {
	defer c.cancel()

	target, err := Endpoint(w.BaseURL, id)
	if err != nil {
		emit(Event{Kind: EventError, Conn: c, Err: err})
		emit(Event{Kind: EventClose, Conn: c, Err: err})
		return
	}

	dialTimeout := w.DialTimeout
	if dialTimeout <= 0 {
		dialTimeout = defaultDialTimeout
	}
	dialCtx, dialCancel := context.WithTimeout(c.ctx, dialTimeout)
	conn, _, err := websocket.Dial(dialCtx, target, nil)
	dialCancel()
	if err != nil {
		log.Debug("dial failed", zap.String("url", target), zap.Error(err))
		emit(Event{Kind: EventError, Conn: c, Err: err})
		emit(Event{Kind: EventClose, Conn: c, Err: err})
		return
	}
	conn.SetReadLimit(readLimit)

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		_ = conn.Close(websocket.StatusNormalClosure, "bye")
		emit(Event{Kind: EventClose, Conn: c, Err: ErrClosed})
		return
	}
	c.conn = conn
	c.open = true
	c.mu.Unlock()

	emit(Event{Kind: EventOpen, Conn: c})

	// Writer goroutine
	writeTimeout := w.WriteTimeout
	if writeTimeout <= 0 {
		writeTimeout = defaultWriteTimeout
	}
	go func() {
		for {
			select {
			case <-c.ctx.Done():
				return
			case payload := <-c.out:
				ctx, cancel := context.WithTimeout(c.ctx, writeTimeout)
				err := conn.Write(ctx, websocket.MessageText, payload)
				cancel()
				if err != nil {
					log.Debug("write failed", zap.Error(err))
					_ = conn.Close(websocket.StatusInternalError, "write failed")
					return
				}
			}
		}
	}()

	// Reader loop
	for {
		_, data, err := conn.Read(c.ctx)
		if err != nil {
			c.mu.Lock()
			c.open = false
			c.mu.Unlock()
			switch websocket.CloseStatus(err) {
			case websocket.StatusNormalClosure, websocket.StatusGoingAway:
				log.Debug("connection closed by peer", zap.Error(err))
			default:
				emit(Event{Kind: EventError, Conn: c, Err: err})
			}
			emit(Event{Kind: EventClose, Conn: c, Err: err})
			return
		}
		emit(Event{Kind: EventMessage, Conn: c, Data: data})
	}
}

// Send queues a frame for the writer goroutine.
func (c *wsConn) Send(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	if !c.open {
		return ErrNotOpen
	}
	select {
	case c.out <- data:
		return nil
	default:
		return ErrBackpressure
	}
}

// Close is idempotent and never waits on the close handshake. A Close event
// still follows for a connection that was dialing or open.
func (c *wsConn) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.open = false
	conn := c.conn
	c.mu.Unlock()

	if conn != nil {
		go conn.Close(websocket.StatusNormalClosure, "bye")
	}
	c.cancel()
	return nil
}
