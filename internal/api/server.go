package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/reelforge/reelforge-agent/internal/media"
	"github.com/reelforge/reelforge-agent/internal/playback"
	"github.com/reelforge/reelforge-agent/internal/style"
)

type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
}

type ServerConfig struct {
	Port             int
	Version          string
	Controller       *playback.Controller
	MediaService     media.MediaService
	Styles           *style.Catalog
	AudioServer      *playback.AudioServer
	Tokens           TokenStore
	ExportDir        string
	MediaItemSeconds float64
	Synthesizer      string
	AudioMode        string
	Logger           *slog.Logger
	StartTime        time.Time
	InstanceID       string
}

func NewServer(cfg ServerConfig) *Server {
	router := NewRouter(cfg)

	return &Server{
		httpServer: &http.Server{
			Addr:        fmt.Sprintf("127.0.0.1:%d", cfg.Port),
			Handler:     router,
			ReadTimeout: 15 * time.Second,
			// the event stream and audio responses are long lived
			WriteTimeout: 0,
			IdleTimeout:  60 * time.Second,
		},
		logger: cfg.Logger,
	}
}

func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", "addr", s.httpServer.Addr)
	err := s.httpServer.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) Addr() string {
	return s.httpServer.Addr
}
