package lobby

import (
	"context"
	"errors"
	"sort"

	"go.uber.org/zap"

	"github.com/DoyleJ11/cube-draft/internal/codec"
	"github.com/DoyleJ11/cube-draft/internal/engine"
	"github.com/DoyleJ11/cube-draft/pkg/types"
)

var ErrSeatOccupied = errors.New("seat already occupied")

type Msg interface{ isLobbyMsg() }

type FromClient struct {
	Seat     int
	ClientID string
	Msg      types.ClientMessage
}

func (FromClient) isLobbyMsg() {}

type Join struct {
	Seat     int
	ClientID string
	Outbox   chan types.ServerMessage // where this client wants to receive frames
	Reply    chan error
}

func (Join) isLobbyMsg() {}

type Leave struct {
	Seat     int
	ClientID string
}

func (Leave) isLobbyMsg() {}

type Shutdown struct{}

func (Shutdown) isLobbyMsg() {}

type GetState struct {
	Reply chan View
}

func (GetState) isLobbyMsg() {}

type View struct {
	State    types.DraftState
	PackNo   int
	PickNo   int
	Occupied []int
}

type client struct {
	id  string
	out chan types.ServerMessage
}

type Lobby struct {
	inbox  chan Msg
	draft  *engine.Draft
	seats  map[int]client
	log    *zap.Logger
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

func NewLobby(parent context.Context, draft *engine.Draft, log *zap.Logger) *Lobby {
	ctx, cancel := context.WithCancel(parent)
	if log == nil {
		log = zap.NewNop()
	}

	l := &Lobby{
		inbox:  make(chan Msg, 64), // Small buffer
		draft:  draft,
		seats:  make(map[int]client),
		log:    log,
		ctx:    ctx,
		cancel: cancel,
		done:   make(chan struct{}),
	}

	go l.loop()
	return l
}

func (l *Lobby) loop() {
	defer close(l.done)
	for {
		select {
		case <-l.ctx.Done():
			l.shutdown()
			return

		case m := <-l.inbox:
			switch msg := m.(type) {
			case Join:
				msg.Reply <- l.join(msg)

			case Leave:
				if c, ok := l.seats[msg.Seat]; ok && c.id == msg.ClientID {
					delete(l.seats, msg.Seat)
				}

			case FromClient:
				l.fromClient(msg)

			case GetState:
				msg.Reply <- l.view()

			case Shutdown:
				l.shutdown()
				return
			}
		}
	}
}

// join admits one client per seat and sends it the current snapshot.
func (l *Lobby) join(msg Join) error {
	st, err := l.draft.PlayerState(msg.Seat)
	if err != nil {
		return err
	}
	if _, taken := l.seats[msg.Seat]; taken {
		return ErrSeatOccupied
	}
	l.seats[msg.Seat] = client{id: msg.ClientID, out: msg.Outbox}
	l.send(msg.Seat, codec.StateMessage(st))
	return nil
}

func (l *Lobby) fromClient(msg FromClient) {
	if c, ok := l.seats[msg.Seat]; !ok || c.id != msg.ClientID {
		return
	}
	switch msg.Msg.Type {
	case types.TypeState:
		st, err := l.draft.PlayerState(msg.Seat)
		if err != nil {
			l.send(msg.Seat, codec.ErrorMessage(err.Error()))
			return
		}
		l.send(msg.Seat, codec.StateMessage(st))

	case types.TypePick:
		res, err := l.draft.Pick(msg.Seat, msg.Msg.Seq, msg.Msg.PackID, msg.Msg.CardName)
		if err != nil {
			l.log.Debug("pick rejected", zap.Int("seat", msg.Seat), zap.Error(err))
			l.send(msg.Seat, codec.ErrorMessage(err.Error()))
			return
		}
		st := res.State
		l.send(msg.Seat, types.ServerMessage{Type: types.TypePickAccepted, State: &st})

		switch {
		case res.RoundAdvanced:
			packNo, pickNo := l.draft.PackNo, l.draft.PickNo
			l.broadcast(func(int) types.ServerMessage {
				return types.ServerMessage{Type: types.TypeRoundAdvanced, PackNo: &packNo, PickNo: &pickNo}
			})
			l.broadcastState()
		case res.Completed:
			l.broadcast(func(seat int) types.ServerMessage {
				st, _ := l.draft.PlayerState(seat)
				return types.ServerMessage{Type: types.TypeDraftCompleted, State: &st}
			})
		}
	}
}

func (l *Lobby) broadcastState() {
	l.broadcast(func(seat int) types.ServerMessage {
		st, _ := l.draft.PlayerState(seat)
		return codec.StateMessage(st)
	})
}

func (l *Lobby) broadcast(build func(seat int) types.ServerMessage) {
	for seat := range l.seats {
		l.send(seat, build(seat))
	}
}

func (l *Lobby) send(seat int, m types.ServerMessage) {
	c, ok := l.seats[seat]
	if !ok {
		return
	}
	select {
	case c.out <- m:
		//ok
	default:
		// Client is slow/full - drop them.
		l.log.Warn("dropping slow client", zap.Int("seat", seat))
		close(c.out)
		delete(l.seats, seat)
	}
}

func (l *Lobby) view() View {
	occupied := make([]int, 0, len(l.seats))
	for seat := range l.seats {
		occupied = append(occupied, seat)
	}
	sort.Ints(occupied)
	return View{
		State:    l.draft.State(),
		PackNo:   l.draft.PackNo,
		PickNo:   l.draft.PickNo,
		Occupied: occupied,
	}
}

func (l *Lobby) shutdown() {
	for seat, c := range l.seats {
		close(c.out) // Tell client no more frames
		delete(l.seats, seat)
	}
	l.cancel()
}

// Expose the inbox so tests or WS layer can send messages.
func (l *Lobby) Inbox() chan<- Msg { return l.inbox }

// Done is closed when the lobby loop has exited.
func (l *Lobby) Done() <-chan struct{} { return l.done }
