package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware" // Alias to avoid conflict
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Dosada05/swiss-tournament-ui/handlers"
	"github.com/Dosada05/swiss-tournament-ui/web"
)

// Deps is everything the router needs from main.
type Deps struct {
	Pages          *handlers.PageHandler
	WebSocket      *handlers.WebSocketHandler
	Session        func(http.Handler) http.Handler
	Gatherer       prometheus.Gatherer
	AllowedOrigins []string
}

func SetupRoutes(router *chi.Mux, deps Deps) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if deps.Gatherer != nil {
		router.Handle("/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}
	router.Handle("/static/*", http.StripPrefix("/static/", web.Static()))

	// Everything below belongs to a browser session.
	router.Group(func(r chi.Router) {
		if deps.Session != nil {
			r.Use(deps.Session)
		}

		r.Get("/", deps.Pages.Home)

		r.Post("/tournament", deps.Pages.CreateTournament)
		r.Post("/tournament/reset", deps.Pages.ResetTournament)

		r.Post("/players", deps.Pages.AddPlayer)
		r.Post("/rounds/next", deps.Pages.GenerateNextRound)
		r.Post("/matches/{matchID}/result", deps.Pages.SubmitResult)

		r.Get("/standings", deps.Pages.Standings)
		r.Post("/standings/refresh", deps.Pages.RefreshStandings)

		r.Get("/ws/tournaments/{tournamentID}", deps.WebSocket.ServeWs)
	})
}
