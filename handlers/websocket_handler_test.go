package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
)

type FakeRoomServer struct {
	ServeFunc func(w http.ResponseWriter, r *http.Request, room string) error
	rooms     []string
}

func (f *FakeRoomServer) Serve(w http.ResponseWriter, r *http.Request, room string) error {
	f.rooms = append(f.rooms, room)
	if f.ServeFunc != nil {
		return f.ServeFunc(w, r, room)
	}
	w.WriteHeader(http.StatusSwitchingProtocols)
	return nil
}

func TestWebSocketHandler_ServeWs(t *testing.T) {
	tests := []struct {
		name      string
		path      string
		serveErr  error
		wantRooms []string
		wantCode  int
	}{
		{name: "joins tournament room", path: "/ws/tournaments/7", wantRooms: []string{"tournament_7"}, wantCode: http.StatusSwitchingProtocols},
		{name: "invalid id", path: "/ws/tournaments/abc", wantCode: http.StatusBadRequest},
		{name: "non-positive id", path: "/ws/tournaments/0", wantCode: http.StatusBadRequest},
		{name: "upgrade refused", path: "/ws/tournaments/3", serveErr: errors.New("bad handshake"), wantRooms: []string{"tournament_3"}, wantCode: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &FakeRoomServer{}
			if tt.serveErr != nil {
				fake.ServeFunc = func(http.ResponseWriter, *http.Request, string) error { return tt.serveErr }
			}
			h := NewWebSocketHandler(fake, nil)
			r := chi.NewRouter()
			r.Get("/ws/tournaments/{tournamentID}", h.ServeWs)

			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantRooms, fake.rooms)
		})
	}
}
