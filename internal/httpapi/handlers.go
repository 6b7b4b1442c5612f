package httpapi

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"math/big"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/DoyleJ11/cube-draft/internal/engine"
	"github.com/DoyleJ11/cube-draft/internal/hub"
	"github.com/DoyleJ11/cube-draft/internal/lobby"
	"github.com/DoyleJ11/cube-draft/pkg/types"
)

type ctxKey struct{}

func GenerateCode() (string, error) {
	const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	code := make([]byte, 6)
	for i := 0; i < 6; i++ {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			return "", err
		}
		code[i] = charset[num.Int64()]
	}
	return string(code), nil
}

// RequireDevice rejects requests without a device id header.
func RequireDevice(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		dev := r.Header.Get(types.DeviceHeader)
		if dev == "" {
			http.Error(w, "missing "+types.DeviceHeader, http.StatusBadRequest)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, dev)))
	})
}

func device(r *http.Request) string {
	dev, _ := r.Context().Value(ctxKey{}).(string)
	return dev
}

func CreateRoom(h *hub.Hub, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.CreateRoomRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		cfg := engine.Config{PackCount: req.Packs, PackSize: req.PackSize, SeatCount: req.Seats}

		for {
			code, err := GenerateCode()
			if err != nil {
				http.Error(w, "failed to generate code", http.StatusInternalServerError)
				return
			}
			reply := make(chan hub.Created, 1)
			h.Inbox() <- hub.CreateRoom{ID: code, Config: cfg, Deck: req.Cards, Owner: device(r), Reply: reply}
			res := <-reply
			switch {
			case errors.Is(res.Err, hub.ErrRoomExists):
				log.Debug("collision on code, regenerating")
				continue
			case res.Err != nil:
				http.Error(w, res.Err.Error(), http.StatusBadRequest)
				return
			}

			writeJSON(w, http.StatusCreated, types.CreateRoomResponse{RoomID: res.Room.ID})
			return
		}
	}
}

func ListRooms(h *hub.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reply := make(chan []*hub.Room, 1)
		h.Inbox() <- hub.ListRooms{Reply: reply}
		rooms := <-reply

		dev := device(r)
		out := make([]types.Room, 0, len(rooms))
		for _, room := range rooms {
			views := make(chan lobby.View, 1)
			select {
			case room.Lobby.Inbox() <- lobby.GetState{Reply: views}:
			case <-room.Lobby.Done():
				continue
			}
			v := <-views
			out = append(out, types.Room{
				ID:        room.ID,
				Seats:     room.Config.SeatCount,
				Packs:     room.Config.PackCount,
				PackSize:  room.Config.PackSize,
				State:     v.State,
				Occupied:  v.Occupied,
				Mine:      room.Owner == dev,
				CreatedAt: room.CreatedAt,
			})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func DeleteRoom(h *hub.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reply := make(chan error, 1)
		h.Inbox() <- hub.RemoveRoom{ID: chi.URLParam(r, "id"), Owner: device(r), Reply: reply}
		switch err := <-reply; {
		case errors.Is(err, hub.ErrRoomNotFound):
			http.Error(w, err.Error(), http.StatusNotFound)
		case errors.Is(err, hub.ErrNotOwner):
			http.Error(w, err.Error(), http.StatusForbidden)
		case err != nil:
			http.Error(w, err.Error(), http.StatusInternalServerError)
		default:
			w.WriteHeader(http.StatusNoContent)
		}
	}
}

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
