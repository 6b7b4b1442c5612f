// Package session is the per-seat draft controller. One Controller owns one
// room/seat identity for its whole life; all of its state is mutated on a
// single loop goroutine fed by transport events, retry timers and gestures.
package session

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/DoyleJ11/cube-draft/internal/codec"
	"github.com/DoyleJ11/cube-draft/internal/logging"
	"github.com/DoyleJ11/cube-draft/internal/metrics"
	"github.com/DoyleJ11/cube-draft/internal/reconnect"
	"github.com/DoyleJ11/cube-draft/internal/store"
	"github.com/DoyleJ11/cube-draft/internal/transport"
	"github.com/DoyleJ11/cube-draft/internal/view"
	"github.com/DoyleJ11/cube-draft/pkg/types"
)

type Phase int

const (
	PhaseUninitialized Phase = iota
	PhaseConnecting
	PhaseConnected
	PhaseReconnecting
	PhaseTerminated
)

func (p Phase) String() string {
	switch p {
	case PhaseUninitialized:
		return "uninitialized"
	case PhaseConnecting:
		return "connecting"
	case PhaseConnected:
		return "connected"
	case PhaseReconnecting:
		return "reconnecting"
	case PhaseTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}

const (
	DefaultRedirect    = "/"
	StatusNotConnected = "not connected"
	StatusServerError  = "server error"
	StatusSeatOccupied = "seat is already occupied"

	statusRoundFmt = "pack %d, pick %d"
)

type Options struct {
	Opener    transport.Opener
	Scheduler reconnect.Scheduler
	BaseDelay time.Duration
	MaxDelay  time.Duration
	Images    view.Images
	// Navigate receives the redirect target after a seat_occupied rejection.
	// It runs after the controller has stopped. When nil the target is kept
	// as the controller's Location.
	Navigate        func(target string)
	DefaultRedirect string
	Log             *zap.Logger
}

type Controller struct {
	id     types.Identity
	opts   Options
	log    *zap.Logger
	inbox  chan Msg
	frames chan view.Model
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}

	// Owned by the loop goroutine.
	policy     *reconnect.Policy
	store      *store.Store
	binder     *view.Binder
	phase      Phase
	everOpened bool
	redirect   string
	location   string
	model      view.Model
}

// New validates id and starts a controller that immediately begins connecting.
func New(parent context.Context, id types.Identity, opts Options) (*Controller, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if opts.Opener == nil {
		return nil, fmt.Errorf("session %s: no transport opener", id)
	}
	if opts.DefaultRedirect == "" {
		opts.DefaultRedirect = DefaultRedirect
	}

	ctx, cancel := context.WithCancel(parent)
	c := &Controller{
		id:     id,
		opts:   opts,
		log:    logging.WithSession(opts.Log, id),
		inbox:  make(chan Msg, 64),
		frames: make(chan view.Model, 1),
		ctx:    ctx,
		cancel: cancel,
		done:   make(chan struct{}),
		store:  store.New(),
	}
	c.policy = reconnect.New(ctx, reconnect.Config{
		BaseDelay: opts.BaseDelay,
		MaxDelay:  opts.MaxDelay,
		Opener:    opts.Opener,
		Scheduler: opts.Scheduler,
		Emit:      func(ev transport.Event) { c.post(transportEvent{ev: ev}) },
		Fire:      func(token uint64) { c.post(timerFired{token: token}) },
		Log:       c.log,
	})
	c.binder = &view.Binder{
		Store:    c.store,
		Render:   c.render,
		Dispatch: c.dispatchPick,
	}
	c.model = view.Build(c.viewInput(), opts.Images)

	metrics.ActiveSessions.Inc()
	go c.loop()
	return c, nil
}

func (c *Controller) Identity() types.Identity { return c.id }

// Done is closed once the controller has terminated.
func (c *Controller) Done() <-chan struct{} { return c.done }

// Frames delivers re-rendered view models, keeping only the newest unread one.
// It is closed when the controller terminates.
func (c *Controller) Frames() <-chan view.Model { return c.frames }

func (c *Controller) post(m Msg) bool {
	select {
	case c.inbox <- m:
		return true
	case <-c.done:
		return false
	}
}

func (c *Controller) loop() {
	defer func() {
		c.cancel()
		metrics.ActiveSessions.Dec()
		close(c.frames)
		close(c.done)
		if c.redirect != "" && c.opts.Navigate != nil {
			c.opts.Navigate(c.redirect)
		}
	}()

	c.policy.Connect(c.id, false)
	c.store.SetStatus(c.policy.Status())
	c.syncPhase()
	c.render()

	for {
		select {
		case <-c.ctx.Done():
			c.terminate(reconnect.StatusDisconnected)
			return
		case m := <-c.inbox:
			c.handle(m)
			if c.phase == PhaseTerminated {
				return
			}
		}
	}
}

func (c *Controller) handle(m Msg) {
	switch msg := m.(type) {
	case transportEvent:
		c.onTransport(msg.ev)

	case timerFired:
		if c.policy.HandleTimer(msg.token) {
			c.store.SetStatus(c.policy.Status())
			c.syncPhase()
			c.render()
		}

	case selectCard:
		msg.reply <- c.binder.Select(msg.index)

	case selectName:
		msg.reply <- c.binder.SelectByName(msg.name)

	case confirmPick:
		msg.reply <- c.binder.Confirm()

	case refresh:
		c.policy.Connect(c.id, false)
		if c.policy.Phase() != reconnect.PhaseOpen {
			c.store.SetStatus(c.policy.Status())
		}
		c.syncPhase()
		c.render()

	case teardown:
		c.terminate(reconnect.StatusDisconnected)

	case inspect:
		msg.reply <- c.info()
	}
}

func (c *Controller) onTransport(ev transport.Event) {
	if !c.policy.HandleEvent(ev) {
		return
	}
	switch ev.Kind {
	case transport.EventOpen:
		c.store.SetStatus(c.policy.Status())
		if c.everOpened {
			if err := c.policy.Dispatch(codec.EncodeState()); err != nil {
				c.log.Debug("resync request failed", zap.Error(err))
			}
		}
		c.everOpened = true
	case transport.EventMessage:
		c.onFrame(ev.Data)
	case transport.EventClose:
		c.store.SetStatus(c.policy.Status())
	case transport.EventError:
		return
	}
	c.syncPhase()
	c.render()
}

func (c *Controller) onFrame(data []byte) {
	n, ok := codec.Decode(data)
	if !ok {
		metrics.RecordDropped()
		c.log.Debug("dropping unparseable frame", zap.Int("bytes", len(data)))
		return
	}
	metrics.RecordFrame(n.Kind.String())

	switch n.Kind {
	case codec.KindState, codec.KindPickAccepted:
		c.store.Replace(n.Snapshot)

	case codec.KindRoundAdvanced:
		c.store.SetStatus(fmt.Sprintf(statusRoundFmt, n.PackNo+1, n.PickNo+1))

	case codec.KindDraftCompleted:
		if n.Snapshot != nil {
			c.store.Replace(n.Snapshot)
		}
		c.store.MarkComplete()

	case codec.KindSeatOccupied:
		msg := n.Message
		if msg == "" {
			msg = StatusSeatOccupied
		}
		c.log.Warn("seat occupied", zap.String("message", msg))
		c.redirect = n.Redirect
		if c.redirect == "" {
			c.redirect = c.opts.DefaultRedirect
		}
		if c.opts.Navigate == nil {
			c.location = c.redirect
		}
		c.terminate(msg)

	case codec.KindError:
		msg := n.Message
		if msg == "" {
			msg = StatusServerError
		}
		c.log.Warn("server rejected command", zap.String("message", msg))
		c.store.SetStatus(msg)
		c.store.ClearPending()
	}
}

func (c *Controller) dispatchPick(cmd types.PickCommand) bool {
	frame, err := codec.EncodePick(cmd)
	if err == nil {
		err = c.policy.Dispatch(frame)
	}
	if err != nil {
		metrics.RecordPick(false)
		c.log.Warn("pick not dispatched", zap.Error(err))
		c.store.ClearPending()
		c.store.SetStatus(StatusNotConnected)
		c.render()
		return false
	}
	metrics.RecordPick(true)
	c.log.Debug("pick dispatched", zap.Int("seq", cmd.Seq), zap.String("pack", cmd.PackID))
	return true
}

// terminate stops reconnection, cancels the retry timer and closes the
// transport in one step.
func (c *Controller) terminate(status string) {
	if c.phase == PhaseTerminated {
		return
	}
	c.policy.Teardown()
	c.store.ClearPending()
	c.store.ClearSelection()
	c.store.SetStatus(status)
	c.phase = PhaseTerminated
	c.render()
}

func (c *Controller) syncPhase() {
	if c.phase == PhaseTerminated {
		return
	}
	switch c.policy.Phase() {
	case reconnect.PhaseIdle:
		c.phase = PhaseUninitialized
	case reconnect.PhaseOpen:
		c.phase = PhaseConnected
	case reconnect.PhaseConnecting:
		if c.everOpened || c.policy.Attempt() > 0 {
			c.phase = PhaseReconnecting
		} else {
			c.phase = PhaseConnecting
		}
	default:
		c.phase = PhaseReconnecting
	}
}

func (c *Controller) viewInput() view.Input {
	return view.Input{
		Snapshot:   c.store.Snapshot(),
		Local:      c.store.Local(),
		Status:     c.store.Status(),
		Complete:   c.store.Complete(),
		Terminated: c.phase == PhaseTerminated,
	}
}

func (c *Controller) render() {
	c.model = view.Build(c.viewInput(), c.opts.Images)
	select {
	case <-c.frames:
	default:
	}
	select {
	case c.frames <- c.model:
	default:
	}
}

func (c *Controller) info() Info {
	return Info{
		Phase:    c.phase,
		View:     c.model,
		Redirect: c.redirect,
		Location: c.location,
	}
}
