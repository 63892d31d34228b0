package api

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"solar-storage-sim/internal/api/handlers"
	"solar-storage-sim/internal/api/middleware"
	"solar-storage-sim/internal/config"
	"solar-storage-sim/internal/data"
	"solar-storage-sim/internal/logger"
	"solar-storage-sim/internal/metrics"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Deps are the long-lived services the HTTP layer needs.
type Deps struct {
	Config   *config.ServerConfig
	Runs     handlers.RunStore
	Cache    *data.SeriesCache
	Metrics  *metrics.Recorder
	Gatherer prometheus.Gatherer
	Log      logger.Logger
}

// NewRouter wires middleware and routes.
func NewRouter(d Deps) *gin.Engine {
	if d.Log == nil {
		d.Log = logger.Nop()
	}
	if d.Gatherer == nil {
		d.Gatherer = prometheus.DefaultGatherer
	}
	cfg := d.Config

	router := gin.New()
	router.Use(middleware.CORS(cfg.API.AllowedOrigins))
	router.Use(middleware.Logger(d.Log))
	router.Use(middleware.Metrics(d.Metrics))
	router.Use(middleware.ErrorHandler(d.Log))

	series := &handlers.SeriesLoader{DataDir: cfg.Data.Dir, Cache: d.Cache}
	simulationHandler := handlers.NewSimulationHandler(series, cfg.Data.PresetDir, d.Runs, d.Metrics, d.Log)
	sweepHandler := handlers.NewSweepHandler(series)
	storageHandler := handlers.NewStorageHandler(cfg.Data.PresetDir, d.Log)
	datasetHandler := handlers.NewDatasetHandler(cfg.Data.Dir)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "cached_series": d.Cache.Len()})
	})
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})))

	v1 := router.Group("/api/v1")
	{
		v1.POST("/simulate", simulationHandler.RunSimulation)
		v1.GET("/simulations", simulationHandler.ListSimulations)
		v1.GET("/simulations/:id/table", simulationHandler.GetTable)

		v1.POST("/sweep", sweepHandler.RunSweep)

		v1.GET("/storage", storageHandler.ListPresets)
		v1.GET("/datasets", datasetHandler.ListDatasets)
	}

	serveStatic(router, cfg.API.StaticDir, d.Log)
	return router
}

// serveStatic serves a built single-page app from dir when it exists.
func serveStatic(router *gin.Engine, dir string, log logger.Logger) {
	if dir == "" {
		return
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		log.Debugf("static directory %s not found, skipping static file serving", dir)
		return
	}

	router.Static("/assets", filepath.Join(dir, "assets"))
	router.StaticFile("/favicon.ico", filepath.Join(dir, "favicon.ico"))

	// index.html for every non-API route (SPA routing)
	index := filepath.Join(dir, "index.html")
	router.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api") {
			c.JSON(http.StatusNotFound, gin.H{"error": gin.H{"code": "NOT_FOUND", "message": "Not found"}})
			return
		}
		c.File(index)
	})
	log.Infof("serving static files from %s", dir)
}
