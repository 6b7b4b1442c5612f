package logging

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/DoyleJ11/cube-draft/pkg/types"
)

// New builds the process logger. Development mode uses the console encoder.
func New(level string, development bool) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level %q: %w", level, err)
	}
	cfg := zap.NewProductionConfig()
	if development {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = lvl
	return cfg.Build()
}

// WithSession annotates log with the room and seat of a session.
func WithSession(log *zap.Logger, id types.Identity) *zap.Logger {
	if log == nil {
		log = zap.NewNop()
	}
	return log.With(zap.String("room", id.RoomID), zap.Int("seat", id.Seat))
}
