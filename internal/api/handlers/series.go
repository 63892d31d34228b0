package handlers

import (
	"errors"
	"strconv"
	"time"

	"solar-storage-sim/internal/api/models"
	"solar-storage-sim/internal/config"
	"solar-storage-sim/internal/data"
	"solar-storage-sim/internal/model"
)

// SeriesLoader turns a series request into aligned hourly records.
type SeriesLoader struct {
	DataDir string
	Cache   *data.SeriesCache
}

func (l *SeriesLoader) Load(req models.SeriesRequest, limitHours int) (data.Aligned, error) {
	var aligned data.Aligned
	if req.Inline() {
		start := time.Time{}
		if req.Start != "" {
			t, err := data.ParseDate(req.Start)
			if err != nil {
				return aligned, badRequest("INVALID_START", err)
			}
			start = t
		}
		aligned = data.Aligned{
			Supply: inlineRecords(req.Supply, start),
			Demand: inlineRecords(req.Demand, start),
		}
	} else {
		if req.SupplyDataset == "" || req.DemandDataset == "" {
			return aligned, badRequest("MISSING_SERIES",
				errors.New("either supply/demand values or supply_dataset and demand_dataset are required"))
		}
		supply, err := l.loadSupply(req)
		if err != nil {
			return aligned, err
		}
		demand, err := l.loadDemand(req)
		if err != nil {
			return aligned, err
		}
		aligned = data.Align(supply, demand)
	}

	if limitHours < 0 {
		return aligned, badRequest("INVALID_OPTIONS", errors.New("limit_hours must be >= 0"))
	}
	return aligned.Truncate(limitHours), nil
}

func (l *SeriesLoader) loadSupply(req models.SeriesRequest) ([]model.HourlyRecord, error) {
	path, err := data.ResolveDataset(l.DataDir, req.SupplyDataset)
	if err != nil {
		return nil, badRequest("DATASET_NOT_FOUND", err)
	}
	solar := model.SolarParams{CapacityMW: req.SolarCapacityMW}
	if solar.CapacityMW == 0 {
		solar.CapacityMW = config.DefaultSolarCapacityMW
	}
	if err := solar.Validate(); err != nil {
		return nil, badRequest("INVALID_SOLAR", err)
	}

	key, err := data.FileCacheKey("supply", path, strconv.FormatFloat(solar.CapacityMW, 'g', -1, 64))
	if err != nil {
		return nil, badRequest("DATA_LOAD_ERROR", err)
	}
	recs, err := l.Cache.GetOrLoad(key, func() ([]model.HourlyRecord, error) {
		return data.LoadSupplyCSV(path, solar)
	})
	if err != nil {
		return nil, badRequest("DATA_LOAD_ERROR", err)
	}
	return recs, nil
}

func (l *SeriesLoader) loadDemand(req models.SeriesRequest) ([]model.HourlyRecord, error) {
	path, err := data.ResolveDataset(l.DataDir, req.DemandDataset)
	if err != nil {
		return nil, badRequest("DATASET_NOT_FOUND", err)
	}
	zone := req.Zone
	if zone == "" {
		zone = data.DefaultZone
	}

	key, err := data.FileCacheKey("demand", path, zone)
	if err != nil {
		return nil, badRequest("DATA_LOAD_ERROR", err)
	}
	recs, err := l.Cache.GetOrLoad(key, func() ([]model.HourlyRecord, error) {
		return data.LoadDemandCSV(path, zone)
	})
	if err != nil {
		return nil, badRequest("DATA_LOAD_ERROR", err)
	}
	return recs, nil
}

// inlineRecords labels values hour by hour from start. A zero start leaves
// the calendar fields zero.
func inlineRecords(values []float64, start time.Time) []model.HourlyRecord {
	out := make([]model.HourlyRecord, len(values))
	for i, v := range values {
		if start.IsZero() {
			out[i] = model.HourlyRecord{Value: v}
			continue
		}
		out[i] = model.RecordFromTime(start.Add(time.Duration(i)*time.Hour), v)
	}
	return out
}
