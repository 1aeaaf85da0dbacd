package api

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/Apurer/go-order-dispatch/internal/platform/config"
)

// RouterOptions carries the cross-cutting middleware settings.
type RouterOptions struct {
	ServiceName string
	Logger      *slog.Logger
	RateLimit   config.RateLimitConfig

	// Transport names the selected backend variant on /healthz.
	Transport string
}

// NewRouter registers the operator API.
func NewRouter(orders *OrderAPI, opts RouterOptions) *gin.Engine {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	router := gin.New()
	router.Use(gin.Recovery())
	if opts.ServiceName != "" {
		router.Use(otelgin.Middleware(opts.ServiceName))
	}
	router.Use(RequestLogger(logger))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "transport": opts.Transport})
	})

	v1 := router.Group("/api/v1")
	if opts.RateLimit.Enabled {
		v1.Use(RateLimit(opts.RateLimit.Rate, opts.RateLimit.Burst))
	}
	v1.GET("/menu", orders.GetMenu)
	v1.POST("/menu/sync", orders.SyncMenu)
	v1.GET("/orders", orders.ListOrders)
	v1.POST("/orders", orders.SubmitOrder)
	v1.GET("/orders/:id", orders.GetOrder)
	v1.DELETE("/orders/:id", orders.DeleteOrder)
	return router
}
