package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"solar-storage-sim/internal/data"
	"solar-storage-sim/internal/model"

	"gopkg.in/yaml.v3"
)

// DefaultSolarCapacityMW is the fleet size used when a scenario omits it.
const DefaultSolarCapacityMW = 17500

// Config is the on-disk scenario shape (YAML).
type Config struct {
	// Optional: load storage parameters from a preset (e.g. presets/storage/*.yaml).
	// Explicit values under storage override the preset.
	StorageFile string           `yaml:"storage_file"`
	Storage     StorageConfig    `yaml:"storage"`
	Solar       SolarConfig      `yaml:"solar"`
	Demand      DemandConfig     `yaml:"demand"`
	Simulation  SimulationConfig `yaml:"simulation"`
}

type StorageConfig struct {
	Name string `yaml:"name"`
	// CapacityMWh is nil when unset, so an explicit 0 still overrides a preset.
	CapacityMWh *float64 `yaml:"capacity_mwh"`
}

type SolarConfig struct {
	CapacityMW float64 `yaml:"capacity_mw"`
	File       string  `yaml:"file"`
}

type DemandConfig struct {
	File string `yaml:"file"`
	Zone string `yaml:"zone"`
}

type SimulationConfig struct {
	// ClampInitialLevel clamps the first hour's storage level to capacity.
	ClampInitialLevel bool `yaml:"clamp_initial_level"`
	// LimitHours keeps only the first N aligned hours (0 = all).
	LimitHours int `yaml:"limit_hours"`
}

func Load(path string) (*Config, error) {
	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	c.SetDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadUnchecked loads and merges config, but does not validate it.
// Relative data files are resolved against the config file directory when
// they exist there.
func LoadUnchecked(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	base := filepath.Dir(path)
	if c.StorageFile != "" {
		loaded, err := LoadStorageFile(resolve(base, c.StorageFile))
		if err != nil {
			return nil, err
		}
		c.Storage = MergeStorage(loaded, c.Storage)
	}
	c.Solar.File = resolve(base, c.Solar.File)
	c.Demand.File = resolve(base, c.Demand.File)
	return &c, nil
}

func resolve(base, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	cand := filepath.Join(base, p)
	if _, err := os.Stat(cand); err == nil {
		return cand
	}
	return p
}

func (c *Config) SetDefaults() {
	if c.Solar.CapacityMW == 0 {
		c.Solar.CapacityMW = DefaultSolarCapacityMW
	}
	if c.Demand.Zone == "" {
		c.Demand.Zone = data.DefaultZone
	}
}

func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if err := c.Storage.ToModelParams().Validate(); err != nil {
		return fmt.Errorf("storage config invalid: %w", err)
	}
	if err := c.Solar.ToModelParams().Validate(); err != nil {
		return fmt.Errorf("solar config invalid: %w", err)
	}
	if c.Solar.File == "" {
		return errors.New("solar.file is required")
	}
	if c.Demand.File == "" {
		return errors.New("demand.file is required")
	}
	if c.Simulation.LimitHours < 0 {
		return errors.New("simulation.limit_hours must be >= 0")
	}
	return nil
}

// ToModelParams treats an unset capacity as 0.
func (s StorageConfig) ToModelParams() model.StorageParams {
	p := model.StorageParams{Name: s.Name}
	if s.CapacityMWh != nil {
		p.CapacityMWh = *s.CapacityMWh
	}
	return p
}

func (s SolarConfig) ToModelParams() model.SolarParams {
	return model.SolarParams{CapacityMW: s.CapacityMW}
}

type storageFileWrapper struct {
	Storage StorageConfig `yaml:"storage"`
}

// LoadStorageFile reads a storage preset (a YAML document with a top-level
// storage key).
func LoadStorageFile(path string) (StorageConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return StorageConfig{}, err
	}
	var w storageFileWrapper
	if err := yaml.Unmarshal(raw, &w); err != nil {
		return StorageConfig{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return w.Storage, nil
}

// MergeStorage overlays the fields set in override onto base.
func MergeStorage(base, override StorageConfig) StorageConfig {
	out := base
	if override.Name != "" {
		out.Name = override.Name
	}
	if override.CapacityMWh != nil {
		out.CapacityMWh = override.CapacityMWh
	}
	return out
}
