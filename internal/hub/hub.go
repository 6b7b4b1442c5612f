package hub

import (
	"context"
	"errors"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/DoyleJ11/cube-draft/internal/engine"
	"github.com/DoyleJ11/cube-draft/internal/lobby"
)

var (
	ErrRoomExists   = errors.New("room already exists")
	ErrRoomNotFound = errors.New("room not found")
	ErrNotOwner     = errors.New("room belongs to another device")
)

// Room is immutable once created; only its lobby holds mutable state.
type Room struct {
	ID        string
	Config    engine.Config
	Owner     string
	CreatedAt time.Time
	Lobby     *lobby.Lobby
}

type HubMsg interface{ isHubMsg() }

type Created struct {
	Room *Room
	Err  error
}

type CreateRoom struct {
	ID     string
	Config engine.Config
	Deck   []string
	Owner  string
	Reply  chan Created
}

type GetRoom struct {
	ID    string
	Reply chan *Room
}

type ListRooms struct {
	Reply chan []*Room
}

type RemoveRoom struct {
	ID    string
	Owner string
	Reply chan error
}

type ShutdownHub struct{}

func (CreateRoom) isHubMsg()  {}
func (GetRoom) isHubMsg()     {}
func (ListRooms) isHubMsg()   {}
func (RemoveRoom) isHubMsg()  {}
func (ShutdownHub) isHubMsg() {}

type Hub struct {
	inbox  chan HubMsg
	rooms  map[string]*Room
	log    *zap.Logger
	now    func() time.Time
	ctx    context.Context
	cancel context.CancelFunc
}

func NewHub(parent context.Context, log *zap.Logger) *Hub {
	ctx, cancel := context.WithCancel(parent)
	if log == nil {
		log = zap.NewNop()
	}
	h := &Hub{
		inbox:  make(chan HubMsg, 64),
		rooms:  make(map[string]*Room),
		log:    log,
		now:    time.Now,
		ctx:    ctx,
		cancel: cancel,
	}
	go h.loop()
	return h
}

func (h *Hub) Inbox() chan<- HubMsg { return h.inbox }

func (h *Hub) loop() {
	for {
		select {
		case <-h.ctx.Done():
			h.shutdown()
			return

		case m := <-h.inbox:
			switch msg := m.(type) {
			case CreateRoom:
				msg.Reply <- h.create(msg)

			case GetRoom:
				msg.Reply <- h.rooms[msg.ID] // May be nil

			case ListRooms:
				out := make([]*Room, 0, len(h.rooms))
				for _, r := range h.rooms {
					out = append(out, r)
				}
				sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
				msg.Reply <- out

			case RemoveRoom:
				msg.Reply <- h.remove(msg)

			case ShutdownHub:
				h.shutdown()
				h.cancel()
				return
			}
		}
	}
}

func (h *Hub) create(msg CreateRoom) Created {
	if _, ok := h.rooms[msg.ID]; ok {
		return Created{Err: ErrRoomExists}
	}
	d, err := engine.NewDraft(msg.Config, msg.Deck)
	if err != nil {
		return Created{Err: err}
	}
	r := &Room{
		ID:        msg.ID,
		Config:    msg.Config,
		Owner:     msg.Owner,
		CreatedAt: h.now(),
		Lobby:     lobby.NewLobby(h.ctx, d, h.log.With(zap.String("room", msg.ID))),
	}
	h.rooms[msg.ID] = r
	h.log.Info("room created", zap.String("room", msg.ID), zap.Int("seats", msg.Config.SeatCount))
	return Created{Room: r}
}

func (h *Hub) remove(msg RemoveRoom) error {
	r, ok := h.rooms[msg.ID]
	if !ok {
		return ErrRoomNotFound
	}
	if r.Owner != msg.Owner {
		return ErrNotOwner
	}
	r.Lobby.Inbox() <- lobby.Shutdown{}
	delete(h.rooms, msg.ID)
	h.log.Info("room removed", zap.String("room", msg.ID))
	return nil
}

func (h *Hub) shutdown() {
	for _, r := range h.rooms {
		select {
		case r.Lobby.Inbox() <- lobby.Shutdown{}:
		case <-r.Lobby.Done():
		}
	}
	clear(h.rooms)
}
