package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/sync/errgroup"

	"residents/internal/engine"
)

const reloadDebounce = 250 * time.Millisecond

// ServerConfig configures the HTTP front end.
type ServerConfig struct {
	Addr     string
	DataPath string
	Watch    bool
	Logger   *slog.Logger
}

// Server serves Handler over HTTP and keeps its snapshot loaded.
type Server struct {
	cfg     ServerConfig
	handler *Handler
	logger  *slog.Logger

	mu   sync.Mutex
	addr net.Addr
}

func NewServer(cfg ServerConfig, h *Handler) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Server{cfg: cfg, handler: h, logger: logger}
}

// NewEcho builds the router with the middleware stack and routes.
func NewEcho(h *Handler, logger *slog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.CORS())
	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []any{"method", v.Method, "uri", v.URI, "status", v.Status, "latency", v.Latency}
			if v.Error != nil {
				logger.Warn("request", append(attrs, "err", v.Error)...)
				return nil
			}
			logger.Debug("request", attrs...)
			return nil
		},
	}))
	h.RegisterRoutes(e)
	return e
}

// Addr returns the bound listen address once the server is up, or nil.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addr
}

// Run serves until ctx is cancelled. The listener comes up immediately and
// the dataset loads in the background; data routes answer 503 until then.
// Without Watch a failed load stops the server.
func (s *Server) Run(ctx context.Context) error {
	e := NewEcho(s.handler, s.logger)

	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.cfg.Addr, err)
	}
	e.Listener = ln
	s.mu.Lock()
	s.addr = ln.Addr()
	s.mu.Unlock()
	s.logger.Info("server ready, dataset loading in background", "addr", ln.Addr().String())

	eg, egctx := errgroup.WithContext(ctx)

	// Initial load
	eg.Go(func() error {
		if err := s.reload(); err != nil && !s.cfg.Watch {
			return err
		}
		return nil
	})

	if s.cfg.Watch {
		eg.Go(func() error {
			return s.watch(egctx)
		})
	}

	eg.Go(func() error {
		if err := e.Start(""); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Graceful shutdown
	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Debug("shutting down server")
		return e.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}

// reload loads the dataset and installs it. On error the previous snapshot stays.
func (s *Server) reload() error {
	t0 := time.Now()
	t, err := engine.LoadFile(s.cfg.DataPath, s.logger)
	if err != nil {
		s.logger.Error("dataset load failed", "path", s.cfg.DataPath, "err", err)
		return err
	}
	s.handler.SetData(t)
	s.logger.Info("dataset ready", "path", s.cfg.DataPath, "records", t.Len(), "elapsed", time.Since(t0))
	return nil
}

// watch reloads the dataset when its file is written or replaced. The parent
// directory is watched so editors that swap files in place are seen.
func (s *Server) watch(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer func() { _ = w.Close() }()

	target := filepath.Clean(s.cfg.DataPath)
	if err := w.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(target), err)
	}
	s.logger.Debug("watching dataset", "path", target)

	var (
		timer   *time.Timer
		pending <-chan time.Time
	)
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target || !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(reloadDebounce)
			pending = timer.C
		case <-pending:
			pending = nil
			_ = s.reload()
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			s.logger.Warn("watcher error", "err", err)
		}
	}
}
