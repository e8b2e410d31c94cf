package server

import (
	"context"
	"net/http"
	"time"

	"github.com/scythe504/architect-backend/internal"
	"github.com/scythe504/architect-backend/internal/config"
	"github.com/scythe504/architect-backend/internal/game"
)

// RoomLister is the part of the engine the HTTP surface reads from.
type RoomLister interface {
	Rooms(ctx context.Context) ([]internal.RoomSummary, error)
}

// HealthChecker reports the result store's status.
type HealthChecker interface {
	Health(ctx context.Context) map[string]string
}

type Server struct {
	allowedOrigins []string
	rooms          RoomLister
	db             HealthChecker
	transport      *game.Transport
	startedAt      time.Time
}

func New(cfg config.Config, engine *game.Engine, db HealthChecker) *Server {
	return &Server{
		allowedOrigins: cfg.AllowedOrigins,
		rooms:          engine,
		db:             db,
		transport:      game.NewTransport(engine, cfg.AllowedOrigins, cfg.InboundRate, cfg.InboundBurst),
		startedAt:      time.Now(),
	}
}

func NewServer(cfg config.Config, engine *game.Engine, db HealthChecker) *http.Server {
	s := New(cfg, engine, db)
	return &http.Server{
		Addr:         cfg.Addr(),
		Handler:      s.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}
