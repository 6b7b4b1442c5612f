package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/DoyleJ11/cube-draft/pkg/types"
)

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := New("loud", false)
	assert.Error(t, err)

	log, err := New("debug", true)
	require.NoError(t, err)
	assert.True(t, log.Core().Enabled(zap.DebugLevel))
}

func TestWithSessionAddsFields(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	WithSession(zap.New(core), types.Identity{RoomID: "R9", Seat: 3}).Info("hello")

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "R9", fields["room"])
	assert.EqualValues(t, 3, fields["seat"])
}
