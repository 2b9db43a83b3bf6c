package app

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/nationaldronesau/agri-drone-ops-sub003/internal/metadata"
	"github.com/nationaldronesau/agri-drone-ops-sub003/internal/projection"
)

const (
	VariantFlat    = "flat"
	VariantTerrain = "terrain"

	PitchNadirMinus90 = "nadirMinus90"
	PitchNadirZero    = "nadirZero"
)

// Config represents the main application configuration
type Config struct {
	Settings   Settings         `yaml:"settings"`
	Database   DatabaseConfig   `yaml:"database"`
	Terrain    TerrainConfig    `yaml:"terrain"`
	Projection ProjectionConfig `yaml:"projection"`
	Workers    int              `yaml:"workers"`
}

// Settings represents global application settings
type Settings struct {
	LogLevel string `yaml:"logLevel"`
}

// Level parses the configured log level, defaulting to info.
func (s Settings) Level() slog.Level {
	switch strings.ToLower(s.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// DatabaseConfig represents mission database settings
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// TerrainConfig represents the elevation model settings
type TerrainConfig struct {
	GridPath string `yaml:"gridPath"` // ESRI ASCII grid, required for the terrain variant
}

// ProjectionConfig represents projector and extraction settings
type ProjectionConfig struct {
	Variant           string         `yaml:"variant"` // flat (default) or terrain
	MaxIterations     int            `yaml:"maxIterations"`
	ConvergenceMeters float64        `yaml:"convergenceMeters"`
	GeoidCorrection   *bool          `yaml:"geoidCorrection"`
	PitchConvention   string         `yaml:"pitchConvention"` // nadirMinus90 (default) or nadirZero
	Defaults          DefaultsConfig `yaml:"defaults"`
}

// DefaultsConfig overrides the metadata extraction fallbacks
type DefaultsConfig struct {
	AltitudeMeters   float64 `yaml:"altitudeMeters"`
	HorizontalFovDeg float64 `yaml:"horizontalFovDeg"`
	ImageWidthPx     int     `yaml:"imageWidthPx"`
	ImageHeightPx    int     `yaml:"imageHeightPx"`
}

// LoadConfig reads and validates a YAML configuration file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading configuration: %w", err)
	}

	config := Config{Workers: 4}
	if err = yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parsing configuration: %w", err)
	}

	if config.Database.Path == "" {
		return nil, fmt.Errorf("database path is required")
	}
	if config.Workers <= 0 {
		return nil, fmt.Errorf("workers must be positive, got %d", config.Workers)
	}

	switch config.Projection.Variant {
	case "", VariantFlat, VariantTerrain:
	default:
		return nil, fmt.Errorf("unknown projection variant %q", config.Projection.Variant)
	}
	if config.Projection.Variant == VariantTerrain && config.Terrain.GridPath == "" {
		return nil, fmt.Errorf("terrain variant requires terrain.gridPath")
	}

	switch config.Projection.PitchConvention {
	case "", PitchNadirMinus90, PitchNadirZero:
	default:
		return nil, fmt.Errorf("unknown pitch convention %q", config.Projection.PitchConvention)
	}

	return &config, nil
}

func (c *Config) variant() projection.Variant {
	if c.Projection.Variant == VariantTerrain {
		return projection.TerrainAware
	}
	return projection.FlatGround
}

func (c *Config) pitchConvention() metadata.PitchConvention {
	if c.Projection.PitchConvention == PitchNadirZero {
		return metadata.PitchNadirZero
	}
	return metadata.PitchNadirMinus90
}

func (c *Config) extractorDefaults() metadata.Defaults {
	defaults := metadata.NewDefaults()
	if c.Projection.Defaults.AltitudeMeters > 0 {
		defaults.AltitudeMeters = c.Projection.Defaults.AltitudeMeters
	}
	if c.Projection.Defaults.HorizontalFovDeg > 0 {
		defaults.HorizontalFOVDeg = c.Projection.Defaults.HorizontalFovDeg
	}
	if c.Projection.Defaults.ImageWidthPx > 0 {
		defaults.ImageWidthPx = c.Projection.Defaults.ImageWidthPx
	}
	if c.Projection.Defaults.ImageHeightPx > 0 {
		defaults.ImageHeightPx = c.Projection.Defaults.ImageHeightPx
	}
	return defaults
}
