package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	router "github.com/arslan3373/client-doctor-project/internal/adapters/http"
	wsignal "github.com/arslan3373/client-doctor-project/internal/adapters/signal"
	"github.com/arslan3373/client-doctor-project/internal/app"
	"github.com/arslan3373/client-doctor-project/internal/auth"
	"github.com/arslan3373/client-doctor-project/internal/config"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Initialize zerolog global logger early so config.Load can use it.
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	// Human-friendly output for terminal; in production you may want JSON only.
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JoinTokenTTL)
	registry := app.NewSessionRegistry()
	rooms := app.NewRoomTable()
	reaper := app.NewRoomReaper(rooms)

	gateway := wsignal.NewGateway(rooms, tokens, wsignal.Options{
		MaxRoomPeers: cfg.MaxRoomPeers,
		ReadLimit:    cfg.ReadLimit,
		PongWait:     cfg.PongWait,
		PingPeriod:   cfg.PingPeriod,
		WriteWait:    cfg.WriteWait,
	})
	video := router.NewVideoHandler(registry, app.ParticipantPolicy{}, tokens, cfg.JoinURLBase)

	// Background sweep for rooms left empty by a crashed cleanup path.
	quartz := cron.New(cron.WithLogger(cron.VerbosePrintfLogger(&log.Logger)))
	if _, err := quartz.AddFunc(fmt.Sprintf("@every %s", cfg.ReapInterval), func() {
		reaper.Sweep()
	}); err != nil {
		log.Fatal().Err(err).Msg("failed to schedule room reaper")
	}
	quartz.Start()
	defer quartz.Stop()

	r := router.SetupRouter(ctx, cfg, tokens, video, gateway)
	addr := fmt.Sprintf(":%d", cfg.Port)

	srv := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("video signaling server started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited gracefully")
}
