package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"github.com/Dosada05/swiss-tournament-ui/apiclient"
	"github.com/Dosada05/swiss-tournament-ui/config"
	"github.com/Dosada05/swiss-tournament-ui/handlers"
	"github.com/Dosada05/swiss-tournament-ui/live"
	"github.com/Dosada05/swiss-tournament-ui/middleware"
	"github.com/Dosada05/swiss-tournament-ui/page"
	api "github.com/Dosada05/swiss-tournament-ui/routes"
	"github.com/Dosada05/swiss-tournament-ui/sessions"
	"github.com/Dosada05/swiss-tournament-ui/web"
)

const (
	sweepInterval   = time.Minute // How often idle sessions are evicted
	shutdownTimeout = 15 * time.Second
)

func main() {
	// Temporary logger until the configured level is known
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)
	logger.Info("configuration loaded",
		slog.Int("port", cfg.ServerPort),
		slog.String("api_base_url", cfg.APIBaseURL),
		slog.Duration("session_idle_timeout", cfg.SessionIdleTimeout),
		slog.Int("max_sessions", cfg.MaxSessions),
	)
	if cfg.SessionSecretGenerated {
		logger.Warn("SESSION_SECRET not set, sessions will not survive a restart")
	}

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	// Request client
	client, err := apiclient.New(cfg.APIBaseURL,
		apiclient.WithMetrics(apiclient.NewMetrics(registry)),
		apiclient.WithLogger(logger),
	)
	if err != nil {
		logger.Error("failed to initialize backend client", slog.Any("error", err))
		os.Exit(1)
	}

	// WebSocket Hub
	var checkOrigin func(r *http.Request) bool
	if cfg.AllowsAnyOrigin() {
		checkOrigin = func(*http.Request) bool { return true }
	} else {
		checkOrigin = originChecker(cfg.AllowedOrigins)
	}
	wsHub := live.NewHub(logger, checkOrigin)

	// One page per browser session
	clock := clockwork.NewRealClock()
	store := sessions.NewStore(func(ctx context.Context, origin string) *page.Page {
		return page.New(ctx, page.Options{
			Backend:  client,
			Clock:    clock,
			Notifier: wsHub,
			Logger:   logger.With(slog.String("origin", origin)),
			Origin:   origin,
		})
	}, cfg.SessionIdleTimeout, clock, logger, sessions.WithMaxSessions(cfg.MaxSessions))

	renderer, err := web.NewRenderer(client.BaseURL())
	if err != nil {
		logger.Error("failed to parse templates", slog.Any("error", err))
		os.Exit(1)
	}

	router := chi.NewRouter()
	api.SetupRoutes(router, api.Deps{
		Pages:          handlers.NewPageHandler(renderer, logger),
		WebSocket:      handlers.NewWebSocketHandler(wsHub, logger),
		Session:        middleware.Session(store, middleware.NewSessionCodec(cfg.SessionSecret), cfg.SecureCookies, logger),
		Gatherer:       registry,
		AllowedOrigins: cfg.AllowedOrigins,
	})
	logger.Info("routes configured")

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("WebSocket Hub started")
		return wsHub.Run(gctx)
	})
	g.Go(func() error {
		return store.Run(gctx, sweepInterval)
	})
	g.Go(func() error {
		logger.Info("starting server", slog.String("address", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			return err
		}
		logger.Info("server shutdown complete")
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("server error", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("application exited")
}

// originChecker accepts websocket handshakes from the configured origins only.
func originChecker(allowed []string) func(r *http.Request) bool {
	set := make(map[string]bool, len(allowed))
	for _, o := range allowed {
		set[strings.TrimRight(o, "/")] = true
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		if set[origin] {
			return true
		}
		// Same host as the UI itself.
		return strings.HasSuffix(origin, "://"+r.Host)
	}
}
