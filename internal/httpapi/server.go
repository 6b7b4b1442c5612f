package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/DoyleJ11/cube-draft/internal/hub"
)

const shutdownGrace = 5 * time.Second

// Serve runs the session server on addr until ctx is cancelled, then stops
// the hub and drains open requests.
func Serve(ctx context.Context, addr string, log *zap.Logger) error {
	h := hub.NewHub(ctx, log)
	srv := &http.Server{
		Addr:              addr,
		Handler:           SetupRoutes(h, log),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		log.Info("listening", zap.String("addr", addr))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	h.Inbox() <- hub.ShutdownHub{}
	sctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
