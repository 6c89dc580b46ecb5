package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/Dosada05/swiss-tournament-ui/apiclient"
	"github.com/Dosada05/swiss-tournament-ui/page"
	"github.com/Dosada05/swiss-tournament-ui/views"
)

func getIDFromURL(r *http.Request, paramName string) (int64, error) {
	idStr := chi.URLParam(r, paramName)
	if idStr == "" {
		return 0, fmt.Errorf("missing %s in URL path", paramName)
	}

	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s format: %q", paramName, idStr)
	}

	if id <= 0 {
		return 0, fmt.Errorf("invalid %s value: %d", paramName, id)
	}

	return id, nil
}

// redirectHome finishes a form post.
func redirectHome(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func errorResponse(w http.ResponseWriter, status int, message string) {
	http.Error(w, message, status)
}

func serverErrorResponse(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	logger.Error("internal server error",
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.Any("error", err),
	)
	errorResponse(w, http.StatusInternalServerError, "the server encountered a problem and could not process your request")
}

func badRequestResponse(w http.ResponseWriter, err error) {
	errorResponse(w, http.StatusBadRequest, err.Error())
}

func notFoundResponse(w http.ResponseWriter) {
	errorResponse(w, http.StatusNotFound, "the requested resource could not be found")
}

// logOutcome records a component failure. The message itself is already held
// by the component and shows up on the next render.
func logOutcome(r *http.Request, logger *slog.Logger, action string, err error) {
	var apiErr *apiclient.APIError
	switch {
	case err == nil:
	case errors.Is(err, views.ErrBusy),
		errors.Is(err, views.ErrDiscarded),
		errors.Is(err, views.ErrBlankPlayerName),
		errors.Is(err, views.ErrNoResultSelected),
		errors.Is(err, page.ErrNoTournament):
		logger.Debug("action not performed", slog.String("action", action), slog.Any("error", err))
	case errors.As(err, &apiErr) && apiErr.Transport():
		logger.Warn("backend unreachable", slog.String("action", action), slog.Any("error", err))
	case errors.As(err, &apiErr):
		logger.Info("backend rejected request",
			slog.String("action", action),
			slog.Int("status", apiErr.Status),
			slog.String("message", apiErr.Message),
		)
	default:
		logger.Error("action failed",
			slog.String("action", action),
			slog.String("path", r.URL.Path),
			slog.Any("error", err),
		)
	}
}
