package handlers

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"solar-storage-sim/internal/api/models"
	"solar-storage-sim/internal/config"
	"solar-storage-sim/internal/logger"

	"github.com/gin-gonic/gin"
)

// StorageHandler serves the storage presets
type StorageHandler struct {
	presetDir string
	log       logger.Logger
}

// NewStorageHandler creates a new storage handler
func NewStorageHandler(presetDir string, log logger.Logger) *StorageHandler {
	if log == nil {
		log = logger.Nop()
	}
	if abs, err := filepath.Abs(presetDir); err == nil {
		presetDir = abs
	}
	return &StorageHandler{presetDir: presetDir, log: log}
}

// ListPresets handles GET /api/v1/storage
func (h *StorageHandler) ListPresets(c *gin.Context) {
	presets := []models.StoragePreset{}

	entries, err := os.ReadDir(h.presetDir)
	if err != nil {
		if !os.IsNotExist(err) {
			h.log.Warnf("read preset dir %s: %v", h.presetDir, err)
		}
		c.JSON(http.StatusOK, gin.H{"presets": presets})
		return
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}
		path := filepath.Join(h.presetDir, entry.Name())
		sc, err := config.LoadStorageFile(path)
		if err != nil {
			h.log.Warnf("skip preset %s: %v", path, err)
			continue
		}

		// "1_small.yaml" -> "1_small"
		id := strings.TrimSuffix(entry.Name(), ".yaml")
		name := sc.Name
		if name == "" {
			name = id
		}
		presets = append(presets, models.StoragePreset{
			ID:          id,
			Name:        name,
			File:        entry.Name(),
			CapacityMWh: sc.ToModelParams().CapacityMWh,
		})
	}

	c.JSON(http.StatusOK, gin.H{"presets": presets})
}
