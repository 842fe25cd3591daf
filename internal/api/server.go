package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"BidSentinel/internal/api/handlers"
	"BidSentinel/internal/api/middleware"
	"BidSentinel/internal/session"
	"BidSentinel/internal/targets"
)

// NewRouter builds the control API routes.
func NewRouter(trader handlers.Trader, sess *session.Session, tl *targets.List, logger *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(middleware.Logger(logger))
	router.Use(middleware.ErrorHandler())
	router.NoRoute(middleware.NotFound)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	trading := handlers.NewTradingHandler(trader, sess, tl)
	api := router.Group("/api/v1")
	{
		api.GET("/status", trading.GetStatus)
		api.POST("/trading/start", trading.Start)
		api.POST("/trading/stop", trading.Stop)
		api.GET("/ledger", trading.GetLedger)
		api.GET("/log", trading.GetLog)
		api.GET("/watchlist", trading.GetWatchList)
		api.GET("/targets", trading.ListTargets)
		api.POST("/targets", trading.AddTarget)
	}
	return router
}

// NewServer wraps the router with CORS in an http.Server listening on addr.
func NewServer(addr string, router http.Handler, allowedOrigins []string) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           middleware.CORS(router, allowedOrigins),
		ReadHeaderTimeout: 10 * time.Second,
	}
}
