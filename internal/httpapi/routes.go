package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/DoyleJ11/cube-draft/internal/hub"
	"github.com/DoyleJ11/cube-draft/internal/ws"
)

func SetupRoutes(h *hub.Hub, log *zap.Logger) http.Handler {
	if log == nil {
		log = zap.NewNop()
	}
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	// Public routes
	r.Get("/healthz", Healthz)
	r.Get("/ws", ws.Handler(h, log))

	// Device-identified routes
	r.Group(func(r chi.Router) {
		r.Use(RequireDevice)
		r.Post("/rooms", CreateRoom(h, log))
		r.Get("/rooms", ListRooms(h))
		r.Delete("/rooms/{id}", DeleteRoom(h))
	})
	return r
}
