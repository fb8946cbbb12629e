package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"

	"github.com/mchmarny/navmenu/pkg/logger"
	"github.com/mchmarny/navmenu/pkg/menu"
	"github.com/mchmarny/navmenu/pkg/nav"
	"github.com/mchmarny/navmenu/pkg/server"
	"github.com/mchmarny/navmenu/pkg/theme"
)

const (
	// EnvPrefix prefixes every environment override, e.g. NAVMENU_PORT.
	EnvPrefix = "NAVMENU_"

	// DefaultPath is the config file read when none is given.
	DefaultPath = "navmenu.yaml"

	// DefaultNavigationFile is the navigation document read when none is configured.
	DefaultNavigationFile = "navigation.json"
)

// Config is the navmenu server configuration, corresponding to navmenu.yaml.
type Config struct {
	Title           string        `yaml:"title" koanf:"title"`
	Port            int           `yaml:"port" koanf:"port"`
	LogLevel        string        `yaml:"log_level" koanf:"log_level"`
	LogFormat       string        `yaml:"log_format" koanf:"log_format"`
	Breakpoint      int           `yaml:"breakpoint" koanf:"breakpoint"`
	NavigationFile  string        `yaml:"navigation_file" koanf:"navigation_file"`
	NavigationKey   string        `yaml:"navigation_key" koanf:"navigation_key"`
	RedisURL        string        `yaml:"redis_url" koanf:"redis_url"`
	RedisPrefix     string        `yaml:"redis_prefix" koanf:"redis_prefix"`
	AllowedOrigins  []string      `yaml:"allowed_origins,omitempty" koanf:"allowed_origins"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" koanf:"shutdown_timeout"`
}

// DefaultConfig returns a Config with every field at its default.
func DefaultConfig() *Config {
	return &Config{
		Title:           "navmenu",
		Port:            server.DefaultPort,
		LogLevel:        "info",
		LogFormat:       logger.FormatJSON,
		Breakpoint:      menu.DefaultBreakpoint,
		NavigationFile:  DefaultNavigationFile,
		NavigationKey:   nav.DefaultKey,
		RedisPrefix:     theme.DefaultKeyPrefix,
		ShutdownTimeout: server.DefaultShutdownTimeout,
	}
}

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (NAVMENU_*). A missing file yields defaults.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := DefaultConfig()

	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	// NAVMENU_REDIS_URL -> redis_url
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

var validLogLevels = map[string]bool{
	"debug":   true,
	"info":    true,
	"warn":    true,
	"warning": true,
	"error":   true,
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}

	if c.LogLevel != "" && !validLogLevels[strings.ToLower(c.LogLevel)] {
		return fmt.Errorf("invalid log_level %q: must be one of debug, info, warn, error", c.LogLevel)
	}

	if c.LogFormat != "" && c.LogFormat != logger.FormatJSON && c.LogFormat != logger.FormatText {
		return fmt.Errorf("invalid log_format %q: must be json or text", c.LogFormat)
	}

	if c.Breakpoint <= 0 {
		return fmt.Errorf("breakpoint must be positive")
	}

	if c.NavigationFile == "" {
		return fmt.Errorf("navigation_file is required")
	}

	if _, err := nav.FormatFromPath(c.NavigationFile); err != nil {
		return fmt.Errorf("invalid navigation_file: %w", err)
	}

	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("shutdown_timeout must be positive")
	}

	return nil
}
