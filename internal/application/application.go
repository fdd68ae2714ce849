package application

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	cache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"github.com/Johay90/HighlightedItems/internal/api"
	"github.com/Johay90/HighlightedItems/internal/config"
	"github.com/Johay90/HighlightedItems/internal/optimizer"
	"github.com/Johay90/HighlightedItems/internal/storage"
)

// App encapsulates the application dependencies and HTTP server.
type App struct {
	storage   storage.Storage
	optimizer optimizer.Optimizer
	handler   *api.Handler
	router    http.Handler
	logger    *zap.Logger
	server    *http.Server
}

// New initializes the application with all dependencies from the provided configuration.
func New(cfg config.Config, logger *zap.Logger) (*App, error) {
	store := storage.NewMemoryStorage()
	if err := store.SetLayout(cfg.InitialLayout); err != nil {
		return nil, fmt.Errorf("failed to apply initial layout: %w", err)
	}

	opt := optimizer.New(optimizer.WithSeedCandidates(cfg.SeedCandidates))

	handlerOpts := []api.HandlerOption{}
	if cfg.CacheTTL > 0 {
		handlerOpts = append(handlerOpts, api.WithResultCache(cache.New(cfg.CacheTTL, 2*cfg.CacheTTL)))
	}

	handler := api.NewHandler(opt, store, handlerOpts...)
	router := api.NewRouter(handler, logger,
		api.WithLogging(cfg.EnableRequestLogging),
		api.WithRateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst),
	)

	return &App{
		storage:   store,
		optimizer: opt,
		handler:   handler,
		router:    router,
		logger:    logger,
		server:    NewServer(cfg, router),
	}, nil
}

// NewServer creates and configures an HTTP server from the provided configuration.
func NewServer(cfg config.Config, handler http.Handler) *http.Server {
	addr := cfg.Port
	if !strings.Contains(addr, ":") {
		addr = ":" + addr
	}

	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}
}

// Start starts the HTTP server in a goroutine and logs the listening address.
func (a *App) Start() error {
	go func() {
		a.logger.Info("server listening", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Fatal("server error", zap.Error(err))
		}
	}()
	return nil
}

// Server returns the HTTP server instance for shutdown handling.
func (a *App) Server() *http.Server {
	return a.server
}
