package slackio

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

type staticStatus bool

func (s staticStatus) IsConnected() bool { return bool(s) }

func TestHealthServer(t *testing.T) {
	tests := []struct {
		name      string
		connected bool
		path      string
		wantCode  int
		wantBody  string
	}{
		{name: "healthz connected", connected: true, path: "/healthz", wantCode: http.StatusOK, wantBody: "ok"},
		{name: "healthz disconnected", connected: false, path: "/healthz", wantCode: http.StatusServiceUnavailable, wantBody: "disconnected"},
		{name: "readyz while disconnected", connected: false, path: "/readyz", wantCode: http.StatusOK, wantBody: "ready"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHealthServer(staticStatus(tt.connected), 0).Handler()
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantBody, rec.Body.String())
		})
	}
}
