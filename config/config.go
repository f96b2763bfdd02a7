// Package config holds the tool's settings. Every field has a default, so a
// config file is optional; the defaults reproduce the fixed output paths and
// window geometry of the desktop tool.
package config

import (
	"strings"

	"github.com/michaelf2104/InternetProviderVisualization/apperr"
	"github.com/michaelf2104/InternetProviderVisualization/logging"
)

const (
	DefaultHeatmapPath       = "../heatmaps/new_heatmap.html"
	DefaultCircleHeatmapPath = "../heatmaps/new_circle_heatmap.html"
	DefaultWindowTitle       = "netzwerkanalyse"
	DefaultWindowWidth       = 600
	DefaultWindowHeight      = 400
	DefaultProvider          = "Telekom"
	DefaultRegion            = "München"
)

type Config struct {
	Log    logging.LogConfig `mapstructure:"log"`
	Output OutputConfig      `mapstructure:"output"`
	Window WindowConfig      `mapstructure:"window"`
	Cells  CellsConfig       `mapstructure:"cells"`
}

type OutputConfig struct {
	HeatmapPath       string `mapstructure:"heatmap_path"`
	CircleHeatmapPath string `mapstructure:"circle_heatmap_path"`
	// Workbook, when set, also writes the rendered rows as an xlsx report.
	Workbook string `mapstructure:"workbook"`
}

type WindowConfig struct {
	Title           string `mapstructure:"title"`
	Width           int    `mapstructure:"width"`
	Height          int    `mapstructure:"height"`
	DefaultProvider string `mapstructure:"default_provider"`
	DefaultRegion   string `mapstructure:"default_region"`
}

// CellsConfig points at an optional read-only SQLite cell-site directory.
type CellsConfig struct {
	DBPath string `mapstructure:"db_path"`
}

// Default returns a fully populated Config.
func Default() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults fills every unset field.
func ApplyDefaults(cfg *Config) {
	if cfg.Log.Level == "" {
		cfg.Log.Level = logging.LevelInfo
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Output.HeatmapPath == "" {
		cfg.Output.HeatmapPath = DefaultHeatmapPath
	}
	if cfg.Output.CircleHeatmapPath == "" {
		cfg.Output.CircleHeatmapPath = DefaultCircleHeatmapPath
	}
	if cfg.Window.Title == "" {
		cfg.Window.Title = DefaultWindowTitle
	}
	if cfg.Window.Width <= 0 {
		cfg.Window.Width = DefaultWindowWidth
	}
	if cfg.Window.Height <= 0 {
		cfg.Window.Height = DefaultWindowHeight
	}
	if cfg.Window.DefaultProvider == "" {
		cfg.Window.DefaultProvider = DefaultProvider
	}
	if cfg.Window.DefaultRegion == "" {
		cfg.Window.DefaultRegion = DefaultRegion
	}
}

// Validate rejects configurations that would make both heatmaps land in the
// same file or use an unknown log format.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Output.HeatmapPath) == strings.TrimSpace(c.Output.CircleHeatmapPath) {
		return apperr.New(apperr.CodeInvalidConfig, "heatmap and circle heatmap paths must differ").
			WithDetail(c.Output.HeatmapPath)
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		return apperr.New(apperr.CodeInvalidConfig, "log.format must be console or json").WithDetail(c.Log.Format)
	}
	return nil
}
