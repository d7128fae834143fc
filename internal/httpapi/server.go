package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"grievance-analytics/internal/analytics"
	"grievance-analytics/internal/telemetry"
)

const shutdownTimeout = 30 * time.Second

// Options configure the dashboard API.
type Options struct {
	CORSOrigins  []string
	RateLimit    float64 // requests per second per client, 0 disables
	RateBurst    int
	TopLocations int
}

// Handlers serve the dashboard endpoints.
type Handlers struct {
	service      *analytics.Service
	topLocations int
}

// NewRouter builds the gin engine with middleware and routes.
// The returned limiter is nil when rate limiting is disabled.
func NewRouter(service *analytics.Service, opts Options) (*gin.Engine, *RateLimiter) {
	telemetry.Register()

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger())
	router.Use(gzip.Gzip(gzip.DefaultCompression))
	if len(opts.CORSOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:  opts.CORSOrigins,
			AllowMethods:  []string{"GET", "OPTIONS"},
			AllowHeaders:  []string{"Origin", "Content-Type", "Accept"},
			ExposeHeaders: []string{"Content-Length", "Content-Disposition"},
			MaxAge:        12 * time.Hour,
		}))
	}

	var limiter *RateLimiter
	if opts.RateLimit > 0 {
		limiter = NewRateLimiter(opts.RateLimit, opts.RateBurst)
	}

	h := &Handlers{service: service, topLocations: opts.TopLocations}
	if h.topLocations <= 0 {
		h.topLocations = 10
	}

	router.GET("/healthz", h.Health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	if limiter != nil {
		api.Use(limiter.Middleware())
	}
	{
		api.GET("/analytics", h.Analytics)

		api.GET("/heatmap/data", h.HeatmapData)
		api.GET("/heatmap/locations", h.HeatmapLocations)
		api.GET("/heatmap/clusters", h.HeatmapClusters)

		api.GET("/rankings/locations", h.RankLocations)

		api.GET("/export/summary.pdf", h.ExportSummaryPDF)
		api.GET("/export/departments.csv", h.ExportDepartmentsCSV)
		api.GET("/export/locations.csv", h.ExportLocationsCSV)
	}

	return router, limiter
}

// Serve runs the HTTP server until ctx is cancelled, then shuts it down gracefully.
func Serve(ctx context.Context, addr string, service *analytics.Service, opts Options) error {
	gin.SetMode(gin.ReleaseMode)
	router, limiter := NewRouter(service, opts)
	if limiter != nil {
		limiter.StartCleanup(ctx, time.Minute)
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("Starting HTTP server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("Shutting down HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Info().Msg("HTTP server exited")
	return nil
}
