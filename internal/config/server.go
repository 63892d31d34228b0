package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix marks environment overrides. A double underscore separates
// nesting levels, e.g. SIM_API__PORT=9090 sets api.port.
const EnvPrefix = "SIM_"

// ServerConfig holds settings of the HTTP service.
type ServerConfig struct {
	API   APIConfig   `json:"api"`
	Data  DataConfig  `json:"data"`
	Store StoreConfig `json:"store"`
	Log   LogConfig   `json:"log"`
}

type APIConfig struct {
	Port      int    `json:"port"`
	Env       string `json:"env"`
	StaticDir string `json:"static_dir"`
	// AllowedOrigins for CORS; empty allows any origin.
	AllowedOrigins []string `json:"allowed_origins"`
}

type DataConfig struct {
	Dir       string        `json:"dir"`
	PresetDir string        `json:"preset_dir"`
	CacheTTL  time.Duration `json:"cache_ttl"`
}

type StoreConfig struct {
	Path string `json:"path"`
}

type LogConfig struct {
	Level string `json:"level"`
}

// LoadServer reads an optional YAML file and applies SIM_ environment
// overrides on top. An empty path skips the file.
func LoadServer(path string) (*ServerConfig, error) {
	k := koanf.New(".")
	if path != "" {
		ext := strings.ToLower(filepath.Ext(path))
		if ext != ".yaml" && ext != ".yml" {
			return nil, fmt.Errorf("unsupported config format: %s", ext)
		}
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, err
		}
	}
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), strings.ToLower(EnvPrefix))
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg ServerConfig
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *ServerConfig) SetDefaults() {
	if c.API.Port == 0 {
		c.API.Port = 8080
	}
	if c.API.StaticDir == "" {
		c.API.StaticDir = "./web/dist"
	}
	if c.Data.Dir == "" {
		c.Data.Dir = "./data"
	}
	if c.Data.PresetDir == "" {
		c.Data.PresetDir = "./presets/storage"
	}
	if c.Data.CacheTTL == 0 {
		c.Data.CacheTTL = time.Hour
	}
	if c.Store.Path == "" {
		c.Store.Path = "./results.db"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

func (c *ServerConfig) Validate() error {
	if c.API.Port <= 0 || c.API.Port > 65535 {
		return fmt.Errorf("api.port out of range: %d", c.API.Port)
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log.level %q", c.Log.Level)
	}
	if c.Data.CacheTTL < 0 {
		return fmt.Errorf("data.cache_ttl must be >= 0")
	}
	return nil
}

// Production reports whether the service runs with API env "production".
func (c *ServerConfig) Production() bool {
	return strings.EqualFold(c.API.Env, "production")
}
