package http

import (
	"context"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/arslan3373/client-doctor-project/internal/adapters/signal"
	"github.com/arslan3373/client-doctor-project/internal/auth"
	"github.com/arslan3373/client-doctor-project/internal/config"
)

// SetupRouter wires the control surface and the WebSocket endpoint. The
// gateway authenticates its own connections (token in the query string), so
// only the REST group sits behind the auth middleware.
func SetupRouter(ctx context.Context, cfg *config.Config, verifier auth.Verifier, video *VideoHandler, gateway *signal.Gateway) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.Origin}
	corsConfig.AllowCredentials = true
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	r.Use(cors.New(corsConfig))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "UP"})
	})

	api := r.Group("/api/v1/video")

	api.GET("/ws", func(c *gin.Context) {
		gateway.HandleWS(ctx, c)
	})

	private := api.Group("")
	private.Use(AuthMiddleware(verifier))
	{
		private.POST("/schedule", video.Schedule)
		private.POST("/start", video.Start)
		private.POST("/join", video.Join)
		private.POST("/end", video.End)
		private.POST("/cancel", video.Cancel)
		private.GET("/session/:sessionId", video.GetSession)
		private.GET("/my-sessions", video.MySessions)
	}

	log.Info().Str("module", "adapters.http").Str("origin", cfg.Origin).Msg("router setup")
	return r
}
