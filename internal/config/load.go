package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Load reads configuration from path, falling back to DefaultConfigPath when
// path is empty. A missing file yields the defaults. EXACLDRAW_* environment
// variables override file values.
func Load(path string) (Config, error) {
	if path == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			return Config{}, err
		}
		path = defaultPath
	}

	cfg, err := DefaultConfig()
	if err != nil {
		return Config{}, err
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.SetDefault("config_version", cfg.ConfigVersion)
	v.SetDefault("canvas.width", cfg.Canvas.Width)
	v.SetDefault("canvas.height", cfg.Canvas.Height)
	v.SetDefault("history.limit", cfg.History.Limit)
	v.SetDefault("history.compress", cfg.History.Compress)
	v.SetDefault("backend.base_url", cfg.Backend.BaseURL)
	v.SetDefault("backend.discover", cfg.Backend.Discover)
	v.SetDefault("backend.discover_timeout_seconds", cfg.Backend.DiscoverTimeoutSeconds)
	v.SetDefault("backend.token_file", cfg.Backend.TokenFile)
	v.SetDefault("backend.timeout_seconds", cfg.Backend.TimeoutSeconds)
	v.SetDefault("backend.retry_max", cfg.Backend.RetryMax)
	v.SetDefault("tools.tool", cfg.Tools.Tool)
	v.SetDefault("tools.color", cfg.Tools.Color)
	v.SetDefault("tools.brush_size", cfg.Tools.BrushSize)
	v.SetDefault("tools.font_size", cfg.Tools.FontSize)
	v.SetDefault("tools.font_weight", cfg.Tools.FontWeight)
	v.SetDefault("tools.italic", cfg.Tools.Italic)
	v.SetDefault("tools.underline", cfg.Tools.Underline)
	v.SetDefault("tools.font_family", cfg.Tools.FontFamily)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return Config{}, err
		}
	} else if v.GetInt("config_version") != CurrentConfigVersion {
		return Config{}, fmt.Errorf("unsupported config_version %d; expected %d", v.GetInt("config_version"), CurrentConfigVersion)
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	cfg.Backend.TokenFile = expandEnv(cfg.Backend.TokenFile)
	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the configuration for values the application cannot use.
func Validate(cfg Config) error {
	if cfg.Canvas.Width <= 0 || cfg.Canvas.Height <= 0 {
		return fmt.Errorf("canvas size must be positive, got %dx%d", cfg.Canvas.Width, cfg.Canvas.Height)
	}
	if cfg.History.Limit < 0 {
		return fmt.Errorf("history.limit must not be negative, got %d", cfg.History.Limit)
	}
	if baseURL := strings.TrimSpace(cfg.Backend.BaseURL); baseURL != "" {
		parsed, err := url.Parse(baseURL)
		if err != nil || parsed.Scheme == "" || parsed.Host == "" {
			return fmt.Errorf("backend.base_url must include scheme and host (e.g. http://localhost:3001)")
		}
	}
	if cfg.Backend.TimeoutSeconds < 0 || cfg.Backend.DiscoverTimeoutSeconds < 0 {
		return fmt.Errorf("backend timeouts must not be negative")
	}
	if cfg.Backend.RetryMax < 0 {
		return fmt.Errorf("backend.retry_max must not be negative, got %d", cfg.Backend.RetryMax)
	}
	if _, _, err := cfg.Tools.Selection(); err != nil {
		return err
	}
	return nil
}

func expandEnv(value string) string {
	if value == "" {
		return value
	}
	if rest, ok := strings.CutPrefix(value, "~/"); ok {
		if home, err := os.UserHomeDir(); err == nil {
			value = filepath.Join(home, rest)
		}
	}
	return os.Expand(value, func(key string) string {
		if val, ok := os.LookupEnv(key); ok {
			return val
		}
		return "$" + key
	})
}

// WriteDefault writes the default config to path, or to DefaultConfigPath
// when path is empty, and returns the path written.
func WriteDefault(path string, overwrite bool) (string, error) {
	if path == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			return "", err
		}
		path = defaultPath
	}

	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return "", fmt.Errorf("config already exists at %s", path)
		}
	}

	cfg, err := DefaultConfig()
	if err != nil {
		return "", err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", err
	}
	return path, nil
}
