package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/scythe504/architect-backend/internal/config"
	"github.com/scythe504/architect-backend/internal/database"
	"github.com/scythe504/architect-backend/internal/game"
	"github.com/scythe504/architect-backend/internal/logger"
	"github.com/scythe504/architect-backend/internal/server"
	"github.com/scythe504/architect-backend/internal/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	logger.Setup(cfg.LogLevel, cfg.IsLocal())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(ctx, cfg)
	if err != nil {
		log.Error().Err(err).Msg("result store unavailable, match results will not be stored")
		db = database.Noop{}
	}
	defer db.Close()

	objectives := utils.DefaultObjectives
	if cfg.ObjectivesFile != "" {
		extra, err := utils.ReadObjectivesFile(cfg.ObjectivesFile)
		if err != nil {
			log.Fatal().Err(err).Msg("loading objectives")
		}
		objectives = utils.MergeObjectives(objectives, extra)
	}
	log.Info().Int("objectives", len(objectives)).Msg("objectives loaded")

	engine := game.NewEngine(game.SettingsFromConfig(cfg, objectives), db)
	engineCtx, stopEngine := context.WithCancel(context.Background())
	engineDone := make(chan struct{})
	go func() {
		engine.Run(engineCtx)
		close(engineDone)
	}()

	srv := server.NewServer(cfg, engine, db)
	serverErr := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Str("env", cfg.AppEnv).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	case err := <-serverErr:
		log.Error().Err(err).Msg("server stopped unexpectedly")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("http shutdown")
	}
	stopEngine()
	<-engineDone
	if err := engine.Wait(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("pending match results were not stored")
	}
	log.Info().Msg("server exited")
}
