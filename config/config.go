package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config es la configuración completa del servicio.
type Config struct {
	Dashboard DashboardConfig `yaml:"dashboard"`
	API       APIConfig       `yaml:"api"`
	Server    ServerConfig    `yaml:"server"`
	Storage   StorageConfig   `yaml:"storage"`
	Log       LogConfig       `yaml:"log"`
}

// DashboardConfig controla el refresh de la watchlist.
type DashboardConfig struct {
	QuickConcurrency       int `yaml:"quick_concurrency" validate:"gte=1,lte=50"`
	FullConcurrency        int `yaml:"full_concurrency" validate:"gte=1,lte=50"`
	HistoryCacheTTLSeconds int `yaml:"history_cache_ttl_seconds" validate:"gte=0"`
	// RefreshIntervalSeconds: cada cuánto refresca `serve` en segundo plano. 0 lo desactiva.
	RefreshIntervalSeconds int `yaml:"refresh_interval_seconds" validate:"gte=0"`
}

// APIConfig contiene los base URLs del upstream y la política de reintentos.
type APIConfig struct {
	DataBase        string `yaml:"data_base" validate:"required,url"`
	GammaBase       string `yaml:"gamma_base" validate:"required,url"`
	SiteBase        string `yaml:"site_base" validate:"required,url"`
	CacheTTLSeconds int    `yaml:"cache_ttl_seconds" validate:"gte=0"`
	TimeoutSeconds  int    `yaml:"timeout_seconds" validate:"gte=1"`
	Retries         int    `yaml:"retries" validate:"gte=0,lte=10"`
}

// ServerConfig controla el backend HTTP.
type ServerConfig struct {
	Listen string `yaml:"listen" validate:"required"`
}

// StorageConfig controla dónde se persisten los datos.
type StorageConfig struct {
	DSN string `yaml:"dsn" validate:"required"` // ruta al archivo SQLite, o ":memory:"
}

// LogConfig controla el formato, nivel y destino del logging.
type LogConfig struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" validate:"oneof=text json"`
	// File, si no está vacío, rota el log con lumberjack además de stderr.
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb" validate:"gte=0"`
	MaxBackups int    `yaml:"max_backups" validate:"gte=0"`
	MaxAgeDays int    `yaml:"max_age_days" validate:"gte=0"`
}

// Load carga la configuración desde el archivo YAML y el archivo .env si existe.
// Un path inexistente no es error: se usan los defaults.
func Load(path string) (*Config, error) {
	// Cargar .env si existe (silencia error si no hay archivo)
	_ = godotenv.Load()

	var cfg Config
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("config.Load: read %q: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("config.Load: parse YAML: %w", err)
		}
	}

	applyEnvOverrides(&cfg)
	setDefaults(&cfg)

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("config.Load: invalid config: %w", err)
	}
	return &cfg, nil
}

// CacheTTL devuelve el TTL de la caché de respuestas del upstream.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.API.CacheTTLSeconds) * time.Second
}

// HistoryCacheTTL devuelve el TTL de la caché de historias reconstruidas.
func (c *Config) HistoryCacheTTL() time.Duration {
	return time.Duration(c.Dashboard.HistoryCacheTTLSeconds) * time.Second
}

// Timeout devuelve el timeout por request HTTP al upstream.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.API.TimeoutSeconds) * time.Second
}

// RefreshInterval devuelve el intervalo de refresh en segundo plano (0 = desactivado).
func (c *Config) RefreshInterval() time.Duration {
	return time.Duration(c.Dashboard.RefreshIntervalSeconds) * time.Second
}

// applyEnvOverrides sobreescribe valores con variables de entorno si están presentes.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv("POLYWATCH_DB"); v != "" {
		cfg.Storage.DSN = v
	}
	if v := os.Getenv("POLYWATCH_LISTEN"); v != "" {
		cfg.Server.Listen = v
	}
}

// setDefaults asegura que los valores requeridos tengan valores sensatos.
func setDefaults(cfg *Config) {
	if cfg.Dashboard.QuickConcurrency <= 0 {
		cfg.Dashboard.QuickConcurrency = 10
	}
	if cfg.Dashboard.FullConcurrency <= 0 {
		cfg.Dashboard.FullConcurrency = 6
	}
	if cfg.Dashboard.HistoryCacheTTLSeconds <= 0 {
		cfg.Dashboard.HistoryCacheTTLSeconds = 60
	}
	if cfg.API.DataBase == "" {
		cfg.API.DataBase = "https://data-api.polymarket.com"
	}
	if cfg.API.GammaBase == "" {
		cfg.API.GammaBase = "https://gamma-api.polymarket.com"
	}
	if cfg.API.SiteBase == "" {
		cfg.API.SiteBase = "https://polymarket.com"
	}
	if cfg.API.CacheTTLSeconds <= 0 {
		cfg.API.CacheTTLSeconds = 30
	}
	if cfg.API.TimeoutSeconds <= 0 {
		cfg.API.TimeoutSeconds = 15
	}
	if cfg.API.Retries <= 0 {
		cfg.API.Retries = 3
	}
	if cfg.Server.Listen == "" {
		cfg.Server.Listen = ":3000"
	}
	if cfg.Storage.DSN == "" {
		cfg.Storage.DSN = "polywatch.db"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
	if cfg.Log.MaxSizeMB <= 0 {
		cfg.Log.MaxSizeMB = 50
	}
	if cfg.Log.MaxBackups <= 0 {
		cfg.Log.MaxBackups = 3
	}
	if cfg.Log.MaxAgeDays <= 0 {
		cfg.Log.MaxAgeDays = 14
	}
}
