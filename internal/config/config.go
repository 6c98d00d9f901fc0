// Package config loads gocol settings from a YAML file, a .env file and
// GOCOL_* environment variables, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/alexiusacademia/gocol/internal/batch"
	"github.com/alexiusacademia/gocol/internal/ec3"
	"github.com/alexiusacademia/gocol/internal/store"
)

// Config represents the application configuration
type Config struct {
	Design   Design   `yaml:"design"`
	Batch    Batch    `yaml:"batch"`
	Database Database `yaml:"database"`
	Server   Server   `yaml:"server"`
}

// Design holds the default design inputs.
type Design struct {
	YieldStress float64 `yaml:"yield_stress"` // MPa
	GammaM      float64 `yaml:"gamma_m"`
	Height      float64 `yaml:"height"` // mm
}

// Batch configures catalog evaluation.
type Batch struct {
	Workers       int    `yaml:"workers"` // 0 means GOMAXPROCS
	FailurePolicy string `yaml:"failure_policy"`
}

type Database struct {
	Path string `yaml:"path"`
}

// Server configures the HTTP API.
type Server struct {
	Addr      string  `yaml:"addr"`
	RateLimit float64 `yaml:"rate_limit"` // requests per second per client
	Burst     int     `yaml:"burst"`
}

// Environment variables that override the file.
const (
	EnvConfig        = "GOCOL_CONFIG"
	EnvDB            = "GOCOL_DB"
	EnvAddr          = "GOCOL_ADDR"
	EnvWorkers       = "GOCOL_WORKERS"
	EnvFailurePolicy = "GOCOL_FAILURE_POLICY"
	EnvYieldStress   = "GOCOL_YIELD_STRESS"
	EnvGammaM        = "GOCOL_GAMMA_M"
)

var ErrInvalid = errors.New("invalid configuration")

// Default returns the built-in configuration.
func Default() *Config {
	dbPath, err := store.DefaultPath()
	if err != nil {
		dbPath = filepath.Join(".gocol", "runs.db")
	}
	return &Config{
		Design: Design{
			YieldStress: ec3.FyS235,
			GammaM:      ec3.GammaM0,
			Height:      6000,
		},
		Batch: Batch{
			Workers:       0,
			FailurePolicy: batch.Abort.String(),
		},
		Database: Database{Path: dbPath},
		Server: Server{
			Addr:      ":8080",
			RateLimit: 5,
			Burst:     10,
		},
	}
}

// Load reads the config file from the user's config directory, then .env
// and the environment. A missing file yields the defaults.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		path = ""
	}
	return LoadFile(path)
}

// LoadFile is Load with an explicit config file path. An empty path skips
// the file.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, err
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("%s: %w", path, err)
			}
		}
	}

	// .env is optional; variables already set in the environment win
	_ = godotenv.Load()

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overrides fields from GOCOL_* variables.
func (c *Config) applyEnv() error {
	if v := os.Getenv(EnvDB); v != "" {
		c.Database.Path = v
	}
	if v := os.Getenv(EnvAddr); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv(EnvFailurePolicy); v != "" {
		c.Batch.FailurePolicy = v
	}
	if v := os.Getenv(EnvWorkers); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q", ErrInvalid, EnvWorkers, v)
		}
		c.Batch.Workers = n
	}
	for name, dst := range map[string]*float64{
		EnvYieldStress: &c.Design.YieldStress,
		EnvGammaM:      &c.Design.GammaM,
	} {
		v := os.Getenv(name)
		if v == "" {
			continue
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return fmt.Errorf("%w: %s=%q", ErrInvalid, name, v)
		}
		*dst = f
	}
	return nil
}

// Validate checks values that would make every later calculation fail.
func (c *Config) Validate() error {
	if _, err := batch.ParsePolicy(c.Batch.FailurePolicy); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if c.Batch.Workers < 0 {
		return fmt.Errorf("%w: batch.workers must not be negative", ErrInvalid)
	}
	if c.Design.GammaM <= 0 {
		return fmt.Errorf("%w: design.gamma_m must be positive", ErrInvalid)
	}
	if c.Server.RateLimit <= 0 || c.Server.Burst <= 0 {
		return fmt.Errorf("%w: server.rate_limit and server.burst must be positive", ErrInvalid)
	}
	return nil
}

// Policy returns the parsed failure policy.
func (c *Config) Policy() batch.Policy {
	p, _ := batch.ParsePolicy(c.Batch.FailurePolicy)
	return p
}

// Save writes the config to path, creating its directory.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Path returns the config file location: $GOCOL_CONFIG, then
// $XDG_CONFIG_HOME/gocol/config.yaml, then ~/.config/gocol/config.yaml.
func Path() (string, error) {
	if p := os.Getenv(EnvConfig); p != "" {
		return p, nil
	}
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, "gocol", "config.yaml"), nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", "gocol", "config.yaml"), nil
}
