package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigPath is used when --config is not provided.
	DefaultConfigPath = "config.yml"

	defaultPort            = 3000
	defaultEnv             = "development"
	defaultSessionTTL      = 24 * time.Hour
	defaultSweepInterval   = time.Hour
	defaultMonitorInterval = 5 * time.Minute
	defaultRoomCapacity    = 10
	defaultJoinAttempts    = 10
	defaultAuthLimit       = 5
	defaultAPILimit        = 100
	defaultLimitWindow     = 15 * time.Minute
)

// AppConfig holds runtime startup configuration loaded from YAML.
type AppConfig struct {
	Port            int             `yaml:"port"`
	Env             string          `yaml:"env"` // "development" | "production"
	AllowedOrigins  []string        `yaml:"allowed_origins"`
	JWTSecret       string          `yaml:"jwt_secret"`
	SessionTTL      time.Duration   `yaml:"session_ttl"`
	SweepInterval   time.Duration   `yaml:"sweep_interval"`
	MonitorInterval time.Duration   `yaml:"monitor_interval"`
	Room            RoomConfig      `yaml:"room"`
	RateLimit       RateLimitConfig `yaml:"rate_limit"`
}

// RoomConfig bounds room membership and per-connection join attempts.
type RoomConfig struct {
	Capacity        int `yaml:"capacity"`
	MaxJoinAttempts int `yaml:"max_join_attempts"`
}

// RateLimitConfig configures the per-IP request limiters.
type RateLimitConfig struct {
	AuthMax int           `yaml:"auth_max"`
	APIMax  int           `yaml:"api_max"`
	Window  time.Duration `yaml:"window"`
}

// Load reads the YAML config file at path, applying defaults and environment
// fallbacks (PORT, SECRET_KEY, NODE_ENV-compatible ENV). A missing file is not
// an error; the defaults describe a working development instance.
func Load(path string) (*AppConfig, error) {
	cfg := &AppConfig{}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	case os.IsNotExist(err):
		// defaults only
	default:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *AppConfig) applyEnv() {
	if c.Port == 0 {
		if p, err := strconv.Atoi(strings.TrimSpace(os.Getenv("PORT"))); err == nil && p > 0 {
			c.Port = p
		}
	}
	if strings.TrimSpace(c.JWTSecret) == "" {
		c.JWTSecret = strings.TrimSpace(os.Getenv("SECRET_KEY"))
	}
	if strings.TrimSpace(c.Env) == "" {
		c.Env = strings.TrimSpace(os.Getenv("ENV"))
	}
}

func (c *AppConfig) applyDefaults() {
	if c.Port == 0 {
		c.Port = defaultPort
	}
	if strings.TrimSpace(c.Env) == "" {
		c.Env = defaultEnv
	}
	if c.SessionTTL <= 0 {
		c.SessionTTL = defaultSessionTTL
	}
	if c.SweepInterval <= 0 {
		c.SweepInterval = defaultSweepInterval
	}
	if c.MonitorInterval <= 0 {
		c.MonitorInterval = defaultMonitorInterval
	}
	if c.Room.Capacity <= 0 {
		c.Room.Capacity = defaultRoomCapacity
	}
	if c.Room.MaxJoinAttempts <= 0 {
		c.Room.MaxJoinAttempts = defaultJoinAttempts
	}
	if c.RateLimit.AuthMax <= 0 {
		c.RateLimit.AuthMax = defaultAuthLimit
	}
	if c.RateLimit.APIMax <= 0 {
		c.RateLimit.APIMax = defaultAPILimit
	}
	if c.RateLimit.Window <= 0 {
		c.RateLimit.Window = defaultLimitWindow
	}
}

func (c *AppConfig) validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	switch c.Env {
	case "development", "production":
	default:
		return fmt.Errorf("invalid env %q: expect development or production", c.Env)
	}
	return nil
}

// IsDev reports whether the instance runs in development mode.
func (c *AppConfig) IsDev() bool { return c.Env == "development" }
