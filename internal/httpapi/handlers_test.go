package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DoyleJ11/cube-draft/internal/hub"
	"github.com/DoyleJ11/cube-draft/pkg/types"
)

func TestGenerateCode(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		code, err := GenerateCode()
		require.NoError(t, err)
		require.Len(t, code, 6)
		assert.Equal(t, strings.ToUpper(code), code)
		seen[code] = true
	}
	assert.Greater(t, len(seen), 1)
}

func TestRoutes(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	handler := SetupRoutes(hub.NewHub(ctx, nil), nil)

	tests := []struct {
		name   string
		method string
		path   string
		device string
		body   string
		want   int
	}{
		{"healthz", http.MethodGet, "/healthz", "", "", http.StatusOK},
		{"list without device", http.MethodGet, "/rooms", "", "", http.StatusBadRequest},
		{"list", http.MethodGet, "/rooms", "dev", "", http.StatusOK},
		{"create bad json", http.MethodPost, "/rooms", "dev", "{", http.StatusBadRequest},
		{"create bad config", http.MethodPost, "/rooms", "dev", `{"cards":[],"seats":0,"packs":1,"pack_size":1}`, http.StatusBadRequest},
		{"delete unknown", http.MethodDelete, "/rooms/NOPE", "dev", "", http.StatusNotFound},
		{"ws missing room", http.MethodGet, "/ws?seat=0", "", "", http.StatusBadRequest},
		{"ws bad seat", http.MethodGet, "/ws?room=X&seat=-1", "", "", http.StatusBadRequest},
		{"ws unknown room", http.MethodGet, "/ws?room=X&seat=0", "", "", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			if tt.device != "" {
				req.Header.Set(types.DeviceHeader, tt.device)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}
