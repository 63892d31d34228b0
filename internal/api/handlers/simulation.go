package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"solar-storage-sim/internal/analysis"
	"solar-storage-sim/internal/api/models"
	"solar-storage-sim/internal/config"
	"solar-storage-sim/internal/data"
	"solar-storage-sim/internal/dispatch"
	"solar-storage-sim/internal/logger"
	"solar-storage-sim/internal/metrics"
	"solar-storage-sim/internal/model"
	"solar-storage-sim/internal/store"

	"github.com/gin-gonic/gin"
)

const defaultListLimit = 20

// RunStore persists simulation runs.
type RunStore interface {
	Save(ctx context.Context, run store.Run) (store.Run, error)
	Get(ctx context.Context, id string) (store.Run, error)
	List(ctx context.Context, limit int) ([]store.Run, error)
}

// SimulationHandler handles simulation-related requests
type SimulationHandler struct {
	series    *SeriesLoader
	presetDir string
	runs      RunStore
	metrics   *metrics.Recorder
	log       logger.Logger
}

// NewSimulationHandler creates a new simulation handler. metrics may be nil.
func NewSimulationHandler(series *SeriesLoader, presetDir string, runs RunStore, rec *metrics.Recorder, log logger.Logger) *SimulationHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &SimulationHandler{series: series, presetDir: presetDir, runs: runs, metrics: rec, log: log}
}

// RunSimulation handles POST /api/v1/simulate
func (h *SimulationHandler) RunSimulation(c *gin.Context) {
	var req models.SimulateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.metrics.RecordFailure(metrics.OutcomeInvalid)
		respondError(c, badRequest("INVALID_REQUEST", err), "INVALID_REQUEST")
		return
	}

	storage, err := h.resolveStorage(req)
	if err != nil {
		h.metrics.RecordFailure(metrics.OutcomeInvalid)
		respondError(c, err, "INVALID_STORAGE")
		return
	}

	aligned, err := h.series.Load(req.SeriesRequest, req.Options.LimitHours)
	if err != nil {
		h.metrics.RecordFailure(metrics.OutcomeInvalid)
		respondError(c, err, "DATA_LOAD_ERROR")
		return
	}

	started := time.Now()
	res, err := dispatch.New(engineOptions(req.Options)...).Run(aligned.Supply, aligned.Demand, storage.CapacityMWh)
	if err != nil {
		h.metrics.RecordFailure(failureOutcome(err))
		respondError(c, err, "SIMULATION_ERROR")
		return
	}
	summary := analysis.Summarize(res)
	h.metrics.RecordRun(res.Len(), time.Since(started), summary.UnmetDemand)

	name := req.Name
	if name == "" {
		name = storage.Name
	}
	table := res.DispatchTable()
	run, err := h.runs.Save(c.Request.Context(), store.Run{
		Name:            name,
		StorageCapacity: storage.CapacityMWh,
		Summary:         summary,
		Table:           table,
	})
	if err != nil {
		h.log.Errorf("save run: %v", err)
		respondError(c, err, "STORE_ERROR")
		return
	}

	h.log.Infow("simulation completed", map[string]any{
		"id":           run.ID,
		"hours":        summary.Hours,
		"capacity_mwh": storage.CapacityMWh,
		"reliability":  summary.Reliability,
	})

	resp := models.SimulateResponse{
		ID:              run.ID,
		Status:          "completed",
		Name:            name,
		StorageCapacity: storage.CapacityMWh,
		DroppedSupply:   aligned.DroppedSupply,
		DroppedDemand:   aligned.DroppedDemand,
		Summary:         summary,
	}
	if req.Options.IncludeTable {
		resp.Table = convertTable(table)
	}
	c.JSON(http.StatusOK, resp)
}

// ListSimulations handles GET /api/v1/simulations
func (h *SimulationHandler) ListSimulations(c *gin.Context) {
	limit := defaultListLimit
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			respondError(c, badRequest("INVALID_PARAM", fmt.Errorf("limit must be a positive integer, got %q", v)), "INVALID_PARAM")
			return
		}
		limit = n
	}

	runs, err := h.runs.List(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err, "STORE_ERROR")
		return
	}
	out := make([]models.RunInfo, len(runs))
	for i, r := range runs {
		out[i] = models.RunInfo{
			ID:              r.ID,
			Name:            r.Name,
			CreatedAt:       r.CreatedAt,
			StorageCapacity: r.StorageCapacity,
			Summary:         r.Summary,
		}
	}
	c.JSON(http.StatusOK, gin.H{"simulations": out, "count": len(out)})
}

// GetTable handles GET /api/v1/simulations/:id/table
func (h *SimulationHandler) GetTable(c *gin.Context) {
	id := c.Param("id")
	run, err := h.runs.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "STORE_ERROR")
		return
	}

	switch c.DefaultQuery("format", "json") {
	case "csv":
		c.Header("Content-Type", "text/csv")
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "dispatch-"+run.ID+".csv"))
		c.Status(http.StatusOK)
		if err := dispatch.EncodeTableCSV(c.Writer, run.Table); err != nil {
			h.log.Errorf("write csv for %s: %v", run.ID, err)
		}
	case "json":
		c.JSON(http.StatusOK, models.TableResponse{ID: run.ID, Table: convertTable(run.Table)})
	default:
		respondError(c, badRequest("INVALID_PARAM", errors.New("format must be json or csv")), "INVALID_PARAM")
	}
}

// resolveStorage loads the named preset, if any, and applies the explicit
// capacity on top of it.
func (h *SimulationHandler) resolveStorage(req models.SimulateRequest) (model.StorageParams, error) {
	var sc config.StorageConfig
	if req.Storage != "" {
		path, err := data.ResolveDataset(h.presetDir, req.Storage+".yaml")
		if err != nil {
			return model.StorageParams{}, badRequest("PRESET_NOT_FOUND", err)
		}
		sc, err = config.LoadStorageFile(path)
		if err != nil {
			return model.StorageParams{}, badRequest("INVALID_PRESET", err)
		}
		if sc.Name == "" {
			sc.Name = req.Storage
		}
	}
	switch {
	case req.StorageCapacityMWh != nil:
		sc.CapacityMWh = req.StorageCapacityMWh
	case req.Storage == "":
		return model.StorageParams{}, badRequest("MISSING_CAPACITY", errors.New("storage or storage_capacity_mwh is required"))
	}

	p := sc.ToModelParams()
	if err := p.Validate(); err != nil {
		return p, badRequest("INVALID_STORAGE", err)
	}
	return p, nil
}

func engineOptions(o models.SimulateOptions) []dispatch.Option {
	if o.ClampInitialLevel {
		return []dispatch.Option{dispatch.WithClampedStart()}
	}
	return nil
}

func failureOutcome(err error) string {
	if errors.Is(err, dispatch.ErrInvalidInput) {
		return metrics.OutcomeInvalid
	}
	return metrics.OutcomeError
}

func convertTable(rows []dispatch.TableRow) []models.DispatchRow {
	out := make([]models.DispatchRow, len(rows))
	for i, r := range rows {
		out[i] = models.DispatchRow{
			Year:            r.Year,
			Month:           r.Month,
			Day:             r.Day,
			Hour:            r.Hour,
			Demand:          r.Demand,
			Supply:          r.Supply,
			StorageDemand:   r.StorageDemand,
			StorageSupplied: r.StorageSupplied,
			StorageLevel:    r.StorageLevel,
			CurtailedSupply: r.CurtailedSupply,
			TotalSupplied:   r.TotalSupplied,
			Action:          string(model.ActionFromStorageSupplied(r.StorageSupplied)),
		}
	}
	return out
}
