package ws

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/DoyleJ11/cube-draft/internal/codec"
	"github.com/DoyleJ11/cube-draft/internal/hub"
	"github.com/DoyleJ11/cube-draft/internal/lobby"
	"github.com/DoyleJ11/cube-draft/pkg/types"
)

const writeTimeout = 3 * time.Second

// Redirect is sent with seat_occupied frames.
const Redirect = "/"

func Handler(h *hub.Hub, log *zap.Logger) http.HandlerFunc {
	if log == nil {
		log = zap.NewNop()
	}
	return func(w http.ResponseWriter, r *http.Request) {
		roomID := r.URL.Query().Get("room")
		if roomID == "" {
			http.Error(w, "missing room", http.StatusBadRequest)
			return
		}
		seat, err := strconv.Atoi(r.URL.Query().Get("seat"))
		if err != nil || seat < 0 {
			http.Error(w, "invalid seat", http.StatusBadRequest)
			return
		}

		reply := make(chan *hub.Room, 1)
		h.Inbox() <- hub.GetRoom{ID: roomID, Reply: reply}
		room := <-reply
		if room == nil {
			http.Error(w, "room not found", http.StatusNotFound)
			return
		}
		lb := room.Lobby

		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			// In dev ONLY, you can loosen origin checks:
			// OriginPatterns: []string{"http://localhost:*", "http://127.0.0.1:*"},
		})
		if err != nil {
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		log := log.With(zap.String("room", roomID), zap.Int("seat", seat))
		out := make(chan types.ServerMessage, 16)
		clientID := uuid.NewString()

		joined := make(chan error, 1)
		select {
		case lb.Inbox() <- lobby.Join{Seat: seat, ClientID: clientID, Outbox: out, Reply: joined}:
		case <-lb.Done():
			conn.Close(websocket.StatusGoingAway, "room closed")
			return
		}
		if err := <-joined; err != nil {
			reject(r.Context(), conn, seat, err)
			log.Info("join refused", zap.Error(err))
			return
		}
		defer func() {
			select {
			case lb.Inbox() <- lobby.Leave{Seat: seat, ClientID: clientID}:
			case <-lb.Done():
			}
		}()
		log.Debug("client joined", zap.String("client", clientID))

		// Writer goroutine
		writeCtx, writeCancel := context.WithCancel(r.Context())
		defer writeCancel()
		go func() {
			for m := range out {
				ctx, cancel := context.WithTimeout(writeCtx, writeTimeout)
				err := conn.Write(ctx, websocket.MessageText, codec.EncodeServer(m))
				cancel()
				if err != nil {
					return
				}
			}
			// Outbox closed: lobby dropped us or shut down.
			_ = conn.Close(websocket.StatusGoingAway, "room closed")
		}()

		// Reader loop
		for {
			_, data, err := conn.Read(r.Context())
			if err != nil {
				switch websocket.CloseStatus(err) {
				case websocket.StatusNormalClosure, websocket.StatusGoingAway:
				default:
					log.Debug("read failed", zap.Error(err))
				}
				return
			}

			cm, ok := codec.DecodeClient(data)
			if !ok {
				log.Debug("ignoring malformed client frame")
				continue
			}

			select {
			case lb.Inbox() <- lobby.FromClient{Seat: seat, ClientID: clientID, Msg: cm}:
			case <-lb.Done():
				return
			}
		}
	}
}

func reject(ctx context.Context, conn *websocket.Conn, seat int, err error) {
	m := codec.ErrorMessage(err.Error())
	if errors.Is(err, lobby.ErrSeatOccupied) {
		m = types.ServerMessage{
			Type:     types.TypeSeatOccupied,
			Message:  fmt.Sprintf("seat %d is already taken", seat),
			Redirect: Redirect,
		}
	}
	wctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	_ = conn.Write(wctx, websocket.MessageText, codec.EncodeServer(m))
}
