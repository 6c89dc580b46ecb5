package handlers

import (
	"log/slog"
	"net/http"

	"github.com/Dosada05/swiss-tournament-ui/live"
)

// RoomServer attaches an upgraded connection to a room.
type RoomServer interface {
	Serve(w http.ResponseWriter, r *http.Request, room string) error
}

type WebSocketHandler struct {
	hub    RoomServer
	logger *slog.Logger
}

func NewWebSocketHandler(hub RoomServer, logger *slog.Logger) *WebSocketHandler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &WebSocketHandler{hub: hub, logger: logger}
}

// ServeWs subscribes the browser to refresh notifications of one tournament.
// Browsers connect to /ws/tournaments/{tournamentID}.
func (h *WebSocketHandler) ServeWs(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, err)
		return
	}

	room := live.RoomForTournament(tournamentID)
	if err := h.hub.Serve(w, r, room); err != nil {
		// The upgrader has already answered the request.
		h.logger.Warn("websocket connection refused", slog.String("room", room), slog.Any("error", err))
		return
	}
	h.logger.Debug("websocket connection upgraded", slog.String("room", room))
}
