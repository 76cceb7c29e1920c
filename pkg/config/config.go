// Package config loads the cookiebot YAML configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/gobwas/glob"
	"gopkg.in/yaml.v3"

	"github.com/entrhq/cookiebot/pkg/logging"
)

// DefaultGameURL is the public Cookie Clicker page.
const DefaultGameURL = "https://orteil.dashnet.org/cookieclicker/"

// Config is the bot configuration.
type Config struct {
	Game      GameConfig     `yaml:"game" json:"game"`
	Browser   BrowserConfig  `yaml:"browser" json:"browser"`
	Database  DatabaseConfig `yaml:"database" json:"database"`
	Intervals IntervalConfig `yaml:"intervals" json:"intervals"`
	Store     StoreConfig    `yaml:"store" json:"store"`
	Logging   LoggingConfig  `yaml:"logging" json:"logging"`
}

type GameConfig struct {
	URL string `yaml:"url" json:"url"`
}

// BrowserConfig controls the playwright-driven browser.
type BrowserConfig struct {
	Headless bool `yaml:"headless" json:"headless"`

	// Install downloads the playwright driver and browsers on start.
	Install bool          `yaml:"install" json:"install"`
	Timeout time.Duration `yaml:"timeout" json:"timeout"`
	Width   int           `yaml:"width" json:"width"`
	Height  int           `yaml:"height" json:"height"`
}

type DatabaseConfig struct {
	Path     string `yaml:"path" json:"path"`
	PoolSize int    `yaml:"pool_size" json:"pool_size"`
}

// IntervalConfig sets how often each bot loop runs.
type IntervalConfig struct {
	Backup    time.Duration `yaml:"backup" json:"backup"`
	BigCookie time.Duration `yaml:"big_cookie" json:"big_cookie"`
	Store     time.Duration `yaml:"store" json:"store"`
	Retry     time.Duration `yaml:"retry" json:"retry"`
}

// StoreConfig selects what the bot buys.
type StoreConfig struct {
	BuyUpgrades bool `yaml:"buy_upgrades" json:"buy_upgrades"`

	// Buildings are glob patterns matched against building names such as
	// "cursor" or "wizard_tower".
	Buildings []string `yaml:"buildings" json:"buildings"`
}

type LoggingConfig struct {
	// Verbosity is one of quiet, normal, verbose or debug.
	Verbosity string `yaml:"verbosity" json:"verbosity"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Game: GameConfig{URL: DefaultGameURL},
		Browser: BrowserConfig{
			Headless: true,
			Install:  true,
			Timeout:  30 * time.Second,
			Width:    1280,
			Height:   720,
		},
		Database: DatabaseConfig{
			Path:     "cookiebot.db",
			PoolSize: 4,
		},
		Intervals: IntervalConfig{
			Backup:    time.Minute,
			BigCookie: 100 * time.Millisecond,
			Store:     5 * time.Second,
			Retry:     250 * time.Millisecond,
		},
		Store: StoreConfig{
			BuyUpgrades: true,
			Buildings:   []string{"*"},
		},
		Logging: LoggingConfig{Verbosity: "normal"},
	}
}

// Load reads path on top of the defaults. An empty path returns the
// defaults.
func Load(path string) (*Config, error) {
	config := DefaultConfig()
	if path == "" {
		return config, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return config, nil
}

// Validate checks the configuration and fills in a missing verbosity.
func (c *Config) Validate() error {
	var errs []error

	if c.Game.URL == "" {
		errs = append(errs, errors.New("game.url is required"))
	}
	if c.Database.Path == "" {
		errs = append(errs, errors.New("database.path is required"))
	}
	if c.Database.PoolSize < 1 {
		errs = append(errs, fmt.Errorf("database.pool_size must be positive, got %d", c.Database.PoolSize))
	}
	if c.Browser.Timeout < 0 {
		errs = append(errs, errors.New("browser.timeout cannot be negative"))
	}

	intervals := []struct {
		name string
		d    time.Duration
	}{
		{"backup", c.Intervals.Backup},
		{"big_cookie", c.Intervals.BigCookie},
		{"store", c.Intervals.Store},
		{"retry", c.Intervals.Retry},
	}
	for _, interval := range intervals {
		if interval.d <= 0 {
			errs = append(errs, fmt.Errorf("intervals.%s must be positive", interval.name))
		}
	}

	if _, err := c.Store.Matchers(); err != nil {
		errs = append(errs, err)
	}

	if c.Logging.Verbosity == "" {
		c.Logging.Verbosity = "normal"
	}
	if _, err := c.Logging.Level(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// Matchers compiles the building patterns.
func (s StoreConfig) Matchers() ([]glob.Glob, error) {
	matchers := make([]glob.Glob, 0, len(s.Buildings))
	for _, pattern := range s.Buildings {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid building pattern %q: %w", pattern, err)
		}
		matchers = append(matchers, g)
	}
	return matchers, nil
}

// Level maps the verbosity onto a logger level.
func (l LoggingConfig) Level() (logging.Level, error) {
	switch l.Verbosity {
	case "quiet":
		return logging.LevelError, nil
	case "normal", "":
		return logging.LevelInfo, nil
	case "verbose", "debug":
		return logging.LevelDebug, nil
	default:
		return logging.LevelInfo, fmt.Errorf("invalid logging verbosity: %s (must be 'quiet', 'normal', 'verbose', or 'debug')", l.Verbosity)
	}
}
