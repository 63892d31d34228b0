package handlers

import (
	"errors"
	"net/http"
	"os"

	"solar-storage-sim/internal/api/models"
	"solar-storage-sim/internal/data"

	"github.com/gin-gonic/gin"
)

// DatasetHandler lists the CSV files available to simulations
type DatasetHandler struct {
	dataDir string
}

func NewDatasetHandler(dataDir string) *DatasetHandler {
	return &DatasetHandler{dataDir: dataDir}
}

// ListDatasets handles GET /api/v1/datasets
func (h *DatasetHandler) ListDatasets(c *gin.Context) {
	found, err := data.ScanDatasets(h.dataDir)
	if err != nil {
		// A missing data directory is an empty catalog.
		if errors.Is(err, os.ErrNotExist) {
			c.JSON(http.StatusOK, gin.H{"datasets": []models.DatasetInfo{}, "count": 0})
			return
		}
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "DATASETS_LOAD_ERROR",
				Message: err.Error(),
			},
		})
		return
	}

	datasets := make([]models.DatasetInfo, len(found))
	for i, d := range found {
		datasets[i] = models.DatasetInfo{
			Name:      d.Name,
			Kind:      string(d.Kind),
			SizeBytes: d.SizeBytes,
			ModTime:   d.ModTime,
		}
	}
	c.JSON(http.StatusOK, gin.H{"datasets": datasets, "count": len(datasets)})
}
