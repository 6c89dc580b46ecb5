package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/Dosada05/swiss-tournament-ui/middleware"
	"github.com/Dosada05/swiss-tournament-ui/models"
	"github.com/Dosada05/swiss-tournament-ui/page"
	"github.com/Dosada05/swiss-tournament-ui/views"
	"github.com/Dosada05/swiss-tournament-ui/web"
)

const maxFormBytes = 64 << 10

// ErrInvalidTotalRounds is shown when the rounds field is not a positive integer.
var ErrInvalidTotalRounds = errors.New("Total rounds must be a positive number")

type PageHandler struct {
	renderer *web.Renderer
	logger   *slog.Logger
}

func NewPageHandler(renderer *web.Renderer, logger *slog.Logger) *PageHandler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &PageHandler{renderer: renderer, logger: logger}
}

// sessionPage fetches the page the session middleware attached.
func (h *PageHandler) sessionPage(w http.ResponseWriter, r *http.Request) (*page.Page, bool) {
	p, ok := middleware.PageFromContext(r.Context())
	if !ok {
		serverErrorResponse(w, r, h.logger, errors.New("no page in request context"))
		return nil, false
	}
	return p, true
}

func (h *PageHandler) parseForm(w http.ResponseWriter, r *http.Request) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		badRequestResponse(w, err)
		return false
	}
	return true
}

// Home renders the whole page.
func (h *PageHandler) Home(w http.ResponseWriter, r *http.Request) {
	p, ok := h.sessionPage(w, r)
	if !ok {
		return
	}
	if err := h.renderer.Page(w, http.StatusOK, p.View()); err != nil {
		serverErrorResponse(w, r, h.logger, err)
	}
}

func (h *PageHandler) CreateTournament(w http.ResponseWriter, r *http.Request) {
	p, ok := h.sessionPage(w, r)
	if !ok || !h.parseForm(w, r) {
		return
	}

	name := r.PostFormValue("name")
	rounds, err := strconv.Atoi(strings.TrimSpace(r.PostFormValue("totalRounds")))
	if err != nil || rounds <= 0 {
		p.RejectCreate(ErrInvalidTotalRounds.Error())
		redirectHome(w, r)
		return
	}

	logOutcome(r, h.logger, "create_tournament", p.CreateTournament(r.Context(), name, rounds))
	redirectHome(w, r)
}

func (h *PageHandler) ResetTournament(w http.ResponseWriter, r *http.Request) {
	p, ok := h.sessionPage(w, r)
	if !ok {
		return
	}
	p.Reset()
	redirectHome(w, r)
}

func (h *PageHandler) AddPlayer(w http.ResponseWriter, r *http.Request) {
	p, ok := h.sessionPage(w, r)
	if !ok || !h.parseForm(w, r) {
		return
	}
	logOutcome(r, h.logger, "add_player", p.AddPlayer(r.Context(), r.PostFormValue("name")))
	redirectHome(w, r)
}

func (h *PageHandler) GenerateNextRound(w http.ResponseWriter, r *http.Request) {
	p, ok := h.sessionPage(w, r)
	if !ok {
		return
	}
	logOutcome(r, h.logger, "generate_next_round", p.GenerateNextRound(r.Context()))
	redirectHome(w, r)
}

func (h *PageHandler) SubmitResult(w http.ResponseWriter, r *http.Request) {
	p, ok := h.sessionPage(w, r)
	if !ok {
		return
	}
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, err)
		return
	}
	if !h.parseForm(w, r) {
		return
	}

	code := models.ResultCode(strings.TrimSpace(r.PostFormValue("result")))
	err = p.SubmitResult(r.Context(), matchID, code)
	switch {
	case errors.Is(err, page.ErrUnknownMatch):
		notFoundResponse(w)
		return
	case errors.Is(err, views.ErrInvalidResult):
		badRequestResponse(w, err)
		return
	}
	logOutcome(r, h.logger, "submit_result", err)
	redirectHome(w, r)
}

// Standings renders the standings fragment. With reload=1 the table is
// fetched again first, which is how other browsers follow a change.
func (h *PageHandler) Standings(w http.ResponseWriter, r *http.Request) {
	p, ok := h.sessionPage(w, r)
	if !ok {
		return
	}
	if r.URL.Query().Get("reload") == "1" {
		err := p.ReloadStandings(r.Context())
		if errors.Is(err, page.ErrNoTournament) {
			notFoundResponse(w)
			return
		}
		logOutcome(r, h.logger, "reload_standings", err)
	}

	v, err := p.StandingsView()
	if errors.Is(err, page.ErrNoTournament) {
		notFoundResponse(w)
		return
	}
	if err := h.renderer.Standings(w, http.StatusOK, v); err != nil {
		serverErrorResponse(w, r, h.logger, err)
	}
}

func (h *PageHandler) RefreshStandings(w http.ResponseWriter, r *http.Request) {
	p, ok := h.sessionPage(w, r)
	if !ok {
		return
	}
	logOutcome(r, h.logger, "refresh_standings", p.RefreshStandings(r.Context()))
	redirectHome(w, r)
}
