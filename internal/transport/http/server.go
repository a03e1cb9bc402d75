package http

import (
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/latestview/internal/config"
	"github.com/vovakirdan/latestview/internal/core"
	"github.com/vovakirdan/latestview/internal/proto"
	"github.com/vovakirdan/latestview/internal/store"
)

// NewServer builds an HTTP server exposing the message API.
func NewServer(hub *core.Hub, st store.MessageStore, cfg *config.Config, logger *zerolog.Logger) *stdhttp.Server {
	return &stdhttp.Server{
		Addr:              cfg.Addr,
		Handler:           NewRouter(hub, st, cfg, logger),
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}

// NewRouter returns the root handler. The websocket watch route sits on a plain
// ServeMux in front of gin, since gin's writer cannot be hijacked after the
// upgrade response; every other route is served by gin.
func NewRouter(hub *core.Hub, st store.MessageStore, cfg *config.Config, logger *zerolog.Logger) stdhttp.Handler {
	limits := core.Limits{
		MaxTextBytes:    cfg.MaxTextBytes,
		MaxRoomIDLength: cfg.MaxRoomIDLength,
	}

	var limiter *IPRateLimiter
	if cfg.RateLimitRPS > 0 {
		limiter = NewIPRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	}

	watch := NewWatchHandler(hub, limits, logger)

	mux := stdhttp.NewServeMux()
	mux.Handle("GET /api/rooms/{room_id}/watch", wrapPlain(watch, limiter, logger))
	mux.Handle("/", newEngine(st, hub, limits, limiter, logger))
	return mux
}

func newEngine(st store.MessageStore, hub *core.Hub, limits core.Limits, limiter *IPRateLimiter, logger *zerolog.Logger) *gin.Engine {
	if logger.GetLevel() > zerolog.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	// Room ids are single escaped path segments and may contain "/".
	router.UseRawPath = true
	router.UnescapePathValues = true
	router.Use(RequestIDMiddleware())
	router.Use(LoggerMiddleware(logger))
	router.Use(gin.Recovery())

	router.GET("/health", healthHandler)

	api := router.Group("/api")
	if limiter != nil {
		api.Use(RateLimitMiddleware(limiter, logger))
	}

	messages := NewMessageHandlers(st, hub, limits, logger)
	api.GET("/messages/latest", messages.GetLatest)
	api.GET("/rooms/:room_id", messages.GetRoom)
	api.GET("/rooms/:room_id/message", messages.GetRoomMessage)
	api.PUT("/rooms/:room_id/message", messages.PutRoomMessage)

	return router
}

func healthHandler(c *gin.Context) {
	c.JSON(stdhttp.StatusOK, proto.HealthResponse{Status: "ok", Protocol: proto.ProtocolVersion})
}
