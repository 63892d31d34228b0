package handlers

import (
	"errors"
	"net/http"

	"solar-storage-sim/internal/analysis"
	"solar-storage-sim/internal/api/models"
	"solar-storage-sim/internal/model"

	"github.com/gin-gonic/gin"
)

// SweepHandler handles capacity sweeps
type SweepHandler struct {
	series *SeriesLoader
}

func NewSweepHandler(series *SeriesLoader) *SweepHandler {
	return &SweepHandler{series: series}
}

// RunSweep handles POST /api/v1/sweep
func (h *SweepHandler) RunSweep(c *gin.Context) {
	var req models.SweepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, badRequest("INVALID_REQUEST", err), "INVALID_REQUEST")
		return
	}
	if req.Target < 0 || req.Target > 1 {
		respondError(c, badRequest("INVALID_TARGET", errors.New("target must be within [0, 1]")), "INVALID_TARGET")
		return
	}

	aligned, err := h.series.Load(req.SeriesRequest, req.Options.LimitHours)
	if err != nil {
		respondError(c, err, "DATA_LOAD_ERROR")
		return
	}

	points, err := analysis.Sweep(c.Request.Context(),
		model.Values(aligned.Supply), model.Values(aligned.Demand), req.Capacities,
		engineOptions(req.Options)...)
	if err != nil {
		respondError(c, err, "SWEEP_ERROR")
		return
	}

	ranked := analysis.RankByReliability(points)
	resp := models.SweepResponse{Points: make([]models.RankedPoint, len(ranked))}
	for i, p := range ranked {
		resp.Points[i] = models.RankedPoint{
			Rank:            i + 1,
			StorageCapacity: p.StorageCapacity,
			Summary:         p.Summary,
		}
	}
	if req.Target > 0 {
		if best, ok := analysis.MinimumCapacity(points, req.Target); ok {
			capacity := best.StorageCapacity
			resp.MinimumCapacity = &capacity
		}
	}
	c.JSON(http.StatusOK, resp)
}
