package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"example.com/scoreboard/internal/auth"
	"example.com/scoreboard/internal/config"
	"example.com/scoreboard/internal/httpapi"
	"example.com/scoreboard/internal/live"
	"example.com/scoreboard/internal/scoreboard"
	"example.com/scoreboard/internal/store"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
	"golang.org/x/sync/errgroup"
)

type App struct {
	cfg config.Config
	log *slog.Logger

	board     *scoreboard.Service
	rdb       *redis.Client
	publisher *store.Publisher

	srv *http.Server
}

func New(ctx context.Context, cfg config.Config, log *slog.Logger) (*App, error) {
	if log == nil {
		log = slog.Default()
	}

	// --- Scoreboard ---
	board := scoreboard.NewService(
		scoreboard.Config{Policy: cfg.Board.Policy},
		scoreboard.NewMemoryRegistry(),
		&scoreboard.Counter{},
		nil,
		log.With("component", "scoreboard"),
	)

	a := &App{cfg: cfg, log: log, board: board}

	// --- Redis mirror (optional) ---
	if cfg.Redis.Enabled {
		rdb := redis.NewClient(&redis.Options{
			Addr: cfg.Redis.Addr,
			DB:   cfg.Redis.DB,
		})

		// fail fast
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			_ = rdb.Close()
			return nil, fmt.Errorf("redis ping (%s db=%d): %w", cfg.Redis.Addr, cfg.Redis.DB, err)
		}

		boardStore := store.NewRedisBoardStore(rdb, cfg.Redis.BoardKey, cfg.Redis.BoardTTL)
		a.rdb = rdb
		a.publisher = store.NewPublisher(boardStore, cfg.Redis.WriteTimeout, log.With("component", "publisher"))
		board.Subscribe(a.publisher)
	}

	// --- Live feed ---
	hub := live.NewHub(board.Board(), log.With("component", "live"))
	board.Subscribe(hub)

	// --- Auth ---
	authSvc := auth.NewService([]byte(cfg.Auth.Secret))
	authH := &httpapi.AuthHandler{
		Auth:         authSvc,
		OperatorName: cfg.Auth.OperatorName,
		PasswordHash: []byte(cfg.Auth.PasswordHash),
		TokenTTL:     cfg.Auth.TokenTTL,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	httpapi.Routes(mux, &httpapi.MatchHandler{Board: board, Log: log.With("component", "http")}, authH, authSvc)
	hub.RegisterRoutes(mux)

	c := cors.New(cors.Options{
		AllowedOrigins: cfg.HTTP.AllowedOrigins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodDelete,
		},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	})

	a.srv = &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           c.Handler(mux),
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
		IdleTimeout:       cfg.HTTP.IdleTimeout,
	}

	return a, nil
}

// Handler exposes the full HTTP handler chain.
func (a *App) Handler() http.Handler {
	return a.srv.Handler
}

func (a *App) Scoreboard() *scoreboard.Service {
	return a.board
}

func (a *App) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	a.log.Info("http server starting", "addr", a.cfg.HTTP.Addr, "team_policy", a.cfg.Board.Policy.String())

	g.Go(func() error {
		err := a.srv.ListenAndServe()
		if err == nil || errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})

	if a.publisher != nil {
		g.Go(func() error {
			return a.publisher.Run(gctx)
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.HTTP.ShutdownTimeout)
		defer cancel()
		a.log.Info("http server shutting down")
		_ = a.srv.Shutdown(shutdownCtx)
		return nil
	})

	err := g.Wait()
	_ = a.Close(context.Background())
	return err
}

func (a *App) Close(ctx context.Context) error {
	// best-effort
	if a.rdb != nil {
		_ = a.rdb.Close()
	}
	return nil
}
