// Package config loads the exacldraw configuration file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"Exacldraw/internal/state"
)

// CurrentConfigVersion marks the supported config version.
const CurrentConfigVersion = 1

// EnvPrefix prefixes environment overrides, e.g. EXACLDRAW_BACKEND_BASE_URL.
const EnvPrefix = "EXACLDRAW"

// Config is the top-level application configuration.
type Config struct {
	ConfigVersion int           `mapstructure:"config_version" yaml:"config_version"`
	Canvas        CanvasConfig  `mapstructure:"canvas" yaml:"canvas"`
	History       HistoryConfig `mapstructure:"history" yaml:"history"`
	Backend       BackendConfig `mapstructure:"backend" yaml:"backend"`
	Tools         ToolsConfig   `mapstructure:"tools" yaml:"tools"`
}

// CanvasConfig sets the drawing surface size in pixels.
type CanvasConfig struct {
	Width  int `mapstructure:"width" yaml:"width"`
	Height int `mapstructure:"height" yaml:"height"`
}

// HistoryConfig controls the undo/redo stacks.
type HistoryConfig struct {
	Limit    int  `mapstructure:"limit" yaml:"limit"`
	Compress bool `mapstructure:"compress" yaml:"compress"`
}

// BackendConfig locates and talks to the drawing backend.
type BackendConfig struct {
	BaseURL                string `mapstructure:"base_url" yaml:"base_url"`
	Discover               bool   `mapstructure:"discover" yaml:"discover"`
	DiscoverTimeoutSeconds int    `mapstructure:"discover_timeout_seconds" yaml:"discover_timeout_seconds"`
	TokenFile              string `mapstructure:"token_file" yaml:"token_file"`
	TimeoutSeconds         int    `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
	RetryMax               int    `mapstructure:"retry_max" yaml:"retry_max"`
}

// DiscoverTimeout is DiscoverTimeoutSeconds as a duration.
func (c BackendConfig) DiscoverTimeout() time.Duration {
	return time.Duration(c.DiscoverTimeoutSeconds) * time.Second
}

// Timeout is TimeoutSeconds as a duration.
func (c BackendConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// ToolsConfig holds the initial control panel selection.
type ToolsConfig struct {
	Tool       string  `mapstructure:"tool" yaml:"tool"`
	Color      string  `mapstructure:"color" yaml:"color"`
	BrushSize  int     `mapstructure:"brush_size" yaml:"brush_size"`
	FontSize   float64 `mapstructure:"font_size" yaml:"font_size"`
	FontWeight string  `mapstructure:"font_weight" yaml:"font_weight"`
	Italic     bool    `mapstructure:"italic" yaml:"italic"`
	Underline  bool    `mapstructure:"underline" yaml:"underline"`
	FontFamily string  `mapstructure:"font_family" yaml:"font_family"`
}

// Selection converts the tools section into an engine tool and style.
func (c ToolsConfig) Selection() (state.Tool, state.Style, error) {
	tool, err := state.ParseTool(c.Tool)
	if err != nil {
		return 0, state.Style{}, fmt.Errorf("tools.tool: %w", err)
	}
	col, err := state.ParseColor(c.Color)
	if err != nil {
		return 0, state.Style{}, fmt.Errorf("tools.color: %w", err)
	}
	if c.BrushSize < state.MinBrushSize || c.BrushSize > state.MaxBrushSize {
		return 0, state.Style{}, fmt.Errorf("tools.brush_size must be between %d and %d, got %d",
			state.MinBrushSize, state.MaxBrushSize, c.BrushSize)
	}
	if c.FontSize <= 0 {
		return 0, state.Style{}, fmt.Errorf("tools.font_size must be positive, got %v", c.FontSize)
	}
	weight, err := state.ParseWeight(c.FontWeight)
	if err != nil {
		return 0, state.Style{}, fmt.Errorf("tools.font_weight: %w", err)
	}
	return tool, state.Style{
		Color:     col,
		BrushSize: c.BrushSize,
		Text: state.TextStyle{
			Size:      c.FontSize,
			Weight:    weight,
			Italic:    c.Italic,
			Underline: c.Underline,
			Family:    c.FontFamily,
		},
	}, nil
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() (Config, error) {
	dir, err := DefaultDir()
	if err != nil {
		return Config{}, err
	}
	style := state.DefaultStyle()
	return Config{
		ConfigVersion: CurrentConfigVersion,
		Canvas: CanvasConfig{
			Width:  1280,
			Height: 800,
		},
		History: HistoryConfig{
			Limit:    100,
			Compress: true,
		},
		Backend: BackendConfig{
			Discover:               true,
			DiscoverTimeoutSeconds: 2,
			TokenFile:              filepath.Join(dir, "token"),
			TimeoutSeconds:         30,
			RetryMax:               3,
		},
		Tools: ToolsConfig{
			Tool:       state.ToolPen.String(),
			Color:      state.FormatColor(style.Color),
			BrushSize:  style.BrushSize,
			FontSize:   style.Text.Size,
			FontWeight: style.Text.Weight.String(),
			FontFamily: style.Text.Family,
		},
	}, nil
}

// DefaultDir is the per-user exacldraw directory.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".exacldraw"), nil
}

// DefaultConfigPath returns the standard config path.
func DefaultConfigPath() (string, error) {
	dir, err := DefaultDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}
