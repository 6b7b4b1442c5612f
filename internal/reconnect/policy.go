// Package reconnect keeps one session transport open for as long as it is
// wanted. It is not safe for concurrent use; the owning loop serialises every
// call, and timer/transport callbacks come back through the Emit and Fire hooks.
package reconnect

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/DoyleJ11/cube-draft/internal/codec"
	"github.com/DoyleJ11/cube-draft/internal/metrics"
	"github.com/DoyleJ11/cube-draft/internal/transport"
	"github.com/DoyleJ11/cube-draft/pkg/types"
)

type Phase int

const (
	PhaseIdle Phase = iota
	PhaseConnecting
	PhaseOpen
	PhaseClosing
	PhaseClosed
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseConnecting:
		return "connecting"
	case PhaseOpen:
		return "open"
	case PhaseClosing:
		return "closing"
	case PhaseClosed:
		return "closed"
	default:
		return "unknown"
	}
}

const (
	StatusConnecting   = "connecting…"
	StatusReconnecting = "reconnecting…"
	StatusConnected    = "connected"
	StatusDisconnected = "disconnected"
)

type Config struct {
	BaseDelay time.Duration
	MaxDelay  time.Duration
	Opener    transport.Opener
	Scheduler Scheduler
	// Emit receives transport events; Fire receives retry timer tokens.
	Emit func(transport.Event)
	Fire func(token uint64)
	Log  *zap.Logger
}

type Policy struct {
	cfg Config
	ctx context.Context
	log *zap.Logger

	id    types.Identity
	conn  transport.Conn
	phase Phase

	attempt      int
	wanted       bool
	torndown     bool
	timer        Timer
	token        uint64
	retryPending bool
	retryDelay   time.Duration
	status       string
}

func New(ctx context.Context, cfg Config) *Policy {
	if cfg.BaseDelay <= 0 {
		cfg.BaseDelay = DefaultBaseDelay
	}
	if cfg.MaxDelay <= 0 {
		cfg.MaxDelay = DefaultMaxDelay
	}
	if cfg.Scheduler == nil {
		cfg.Scheduler = SystemScheduler{}
	}
	log := cfg.Log
	if log == nil {
		log = zap.NewNop()
	}
	return &Policy{cfg: cfg, ctx: ctx, log: log}
}

// Connect opens a transport for id. An already open transport for the same
// identity is reused and asked for a fresh snapshot instead.
func (p *Policy) Connect(id types.Identity, isReconnect bool) {
	if p.torndown {
		return
	}
	p.wanted = true

	if p.conn != nil && p.phase == PhaseOpen && p.id == id {
		if err := p.conn.Send(codec.EncodeState()); err != nil {
			p.log.Debug("state refresh failed", zap.Error(err))
		}
		return
	}

	p.cancelTimer()
	p.closeConn()

	p.id = id
	p.phase = PhaseConnecting
	if isReconnect {
		p.status = StatusReconnecting
	} else {
		p.status = StatusConnecting
	}
	metrics.RecordConnect(isReconnect)
	p.log.Debug("opening transport", zap.Bool("reconnect", isReconnect), zap.Int("attempt", p.attempt))
	p.conn = p.cfg.Opener.Open(p.ctx, id, p.cfg.Emit)
}

// HandleEvent applies a transport event. It returns false for events from a
// connection that is no longer current; callers must ignore those entirely.
func (p *Policy) HandleEvent(ev transport.Event) bool {
	if p.conn == nil || ev.Conn != p.conn {
		return false
	}
	switch ev.Kind {
	case transport.EventOpen:
		p.phase = PhaseOpen
		p.attempt = 0
		p.status = StatusConnected
		p.log.Info("transport open")
	case transport.EventError:
		p.log.Debug("transport error", zap.Error(ev.Err))
	case transport.EventClose:
		p.conn = nil
		p.phase = PhaseClosed
		p.log.Info("transport closed", zap.Error(ev.Err))
		if p.wanted && !p.torndown {
			p.scheduleRetry()
		}
	}
	return true
}

func (p *Policy) scheduleRetry() {
	p.cancelTimer()
	d := Delay(p.attempt, p.cfg.BaseDelay, p.cfg.MaxDelay)
	p.token++
	tok := p.token
	fire := p.cfg.Fire
	p.timer = p.cfg.Scheduler.AfterFunc(d, func() { fire(tok) })
	p.retryPending = true
	p.retryDelay = d
	p.attempt++
	p.status = fmt.Sprintf("reconnecting in %s (attempt %d)", d, p.attempt)
	metrics.RecordRetry(d)
	p.log.Info("reconnect scheduled", zap.Duration("delay", d), zap.Int("attempt", p.attempt))
}

// HandleTimer runs a scheduled retry. Tokens from cancelled or superseded
// timers are ignored.
func (p *Policy) HandleTimer(token uint64) bool {
	if !p.retryPending || token != p.token || p.torndown || !p.wanted {
		return false
	}
	p.retryPending = false
	p.timer = nil
	p.Connect(p.id, true)
	return true
}

// Dispatch is the only way to write to the transport.
func (p *Policy) Dispatch(data []byte) error {
	if p.conn == nil || p.phase != PhaseOpen {
		return transport.ErrNotOpen
	}
	return p.conn.Send(data)
}

// Teardown stops reconnection for good, cancels any retry and closes the
// transport. The Policy ignores every later call and event.
func (p *Policy) Teardown() {
	p.wanted = false
	p.torndown = true
	p.cancelTimer()
	p.token++
	p.closeConn()
	p.phase = PhaseClosed
	p.status = StatusDisconnected
}

func (p *Policy) cancelTimer() {
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
	p.retryPending = false
}

func (p *Policy) closeConn() {
	if p.conn == nil {
		return
	}
	p.phase = PhaseClosing
	c := p.conn
	p.conn = nil
	if err := c.Close(); err != nil {
		p.log.Debug("transport close failed", zap.Error(err))
	}
}

func (p *Policy) Phase() Phase { return p.phase }
func (p *Policy) Attempt() int { return p.attempt }
func (p *Policy) Status() string { return p.status }
func (p *Policy) RetryPending() bool { return p.retryPending }
func (p *Policy) RetryDelay() time.Duration { return p.retryDelay }
func (p *Policy) Wanted() bool { return p.wanted }
func (p *Policy) TornDown() bool { return p.torndown }
func (p *Policy) Identity() types.Identity { return p.id }
