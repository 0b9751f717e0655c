package routes

import (
	"net/http"

	"github.com/01moynul/inventario-golang/internal/handlers"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// CORSMiddleware tells the browser that the configured frontend origin may
// call the API.
func CORSMiddleware(allowedOrigin string) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. Allow only the configured frontend
		c.Writer.Header().Set("Access-Control-Allow-Origin", allowedOrigin)

		// 2. Allow the headers and methods the frontend uses
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, accept, origin, Cache-Control, X-Requested-With, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "Content-Disposition, X-Request-ID, "+handlers.WarningHeader)

		// 3. Answer the preflight OPTIONS request with "204 No Content"
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// RequestIDMiddleware tags every request with an X-Request-ID, reusing the
// caller's when present.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("requestID", id)
		c.Writer.Header().Set("X-Request-ID", id)
		c.Next()
	}
}

// Options configures SetupRouter.
type Options struct {
	CORSOrigin string
	// Gatherer serves /metrics. Defaults to the global Prometheus registry.
	Gatherer prometheus.Gatherer
}

func SetupRouter(h *handlers.Handlers, opts Options) *gin.Engine {
	router := gin.Default()

	router.Use(CORSMiddleware(opts.CORSOrigin))
	router.Use(RequestIDMiddleware())

	gatherer := opts.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	// QR deep links land here with ?id=<record id>
	router.GET("/", h.ListItems)

	if h.UploadDir != "" {
		router.Static("/uploads", h.UploadDir)
	}

	v1 := router.Group("/v1")
	{
		// --- Ping Route ---
		v1.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"message": "pong!"})
		})

		// --- Inventory Routes ---
		v1.GET("/items", h.ListItems)
		v1.POST("/items", h.CreateItem)
		v1.PUT("/items", h.EditItems)
		v1.PUT("/items/:id", h.UpdateItem)
		v1.DELETE("/items/:id", h.DeleteItem)
		v1.GET("/items/:id/qr", h.GetItemQR)
		v1.GET("/options", h.GetOptions)
		v1.POST("/images", h.UploadImage)

		// --- Report Routes ---
		v1.GET("/summary", h.GetSummary)
		v1.GET("/summary/:key", h.GetSummaryDetail)

		// --- Export Routes ---
		export := v1.Group("/export")
		{
			export.GET("/items.csv", h.ExportItems)
			export.GET("/summary.csv", h.ExportSummary)
			export.GET("/summary/:key", h.ExportSummaryDetail)
		}

		// --- Settings Routes ---
		v1.GET("/settings", h.GetSettings)
		v1.PATCH("/settings", h.UpdateSettings)
		v1.POST("/refresh", h.Refresh)
	}

	return router
}
