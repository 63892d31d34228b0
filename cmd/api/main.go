package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"solar-storage-sim/internal/api"
	"solar-storage-sim/internal/config"
	"solar-storage-sim/internal/data"
	"solar-storage-sim/internal/logger"
	"solar-storage-sim/internal/metrics"
	"solar-storage-sim/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	configPath := flag.String("config", "", "optional server config YAML (SIM_* env vars override it)")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.LoadServer(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := logger.SetLevel(cfg.Log.Level); err != nil {
		return err
	}
	log := logger.New("api")

	if cfg.Production() {
		gin.SetMode(gin.ReleaseMode)
	}

	runs, err := store.Open(cfg.Store.Path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer runs.Close()

	cache := data.NewSeriesCache(cfg.Data.CacheTTL)
	defer cache.Close()

	rec, err := metrics.NewRecorder()
	if err != nil {
		return fmt.Errorf("register metrics: %w", err)
	}

	log.Infow("configuration loaded", map[string]any{
		"data_dir":   cfg.Data.Dir,
		"preset_dir": cfg.Data.PresetDir,
		"store":      cfg.Store.Path,
		"cache_ttl":  cfg.Data.CacheTTL.String(),
	})

	router := api.NewRouter(api.Deps{
		Config:   cfg,
		Runs:     runs,
		Cache:    cache,
		Metrics:  rec,
		Gatherer: prometheus.DefaultGatherer,
		Log:      log,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.API.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Infof("starting API server on %s", srv.Addr)
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

	log.Infof("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
