package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the full process configuration, loaded from YAML and then
// overridden by environment variables, extended with the session
// tunables the game-session runtime needs.
type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		TTL      string `yaml:"ttl"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	Quiz struct {
		TTL string `yaml:"ttl"`
	} `yaml:"quiz"`
	Session struct {
		ReapDelay       string `yaml:"reapDelay"`
		MaxFrameBytes   int    `yaml:"maxFrameBytes"`
		MaxParticipants int    `yaml:"maxParticipants"`
	} `yaml:"session"`
}

const (
	DefaultPort           = "3000"
	DefaultReapDelay      = 10 * time.Minute
	DefaultMaxFrameBytes  = 4096
	DefaultMaxParticipants = 100
)

// Load reads YAML config from path, then applies .env and process
// environment overrides for a handful of operationally common fields.
// A missing .env file is not an error; a missing config file is.
func Load(path string) (Config, error) {
	_ = godotenv.Load()

	cfg := Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}

	if port := os.Getenv("PORT"); port != "" {
		cfg.Server.Port = port
	}
	if reap := os.Getenv("REAP_DELAY"); reap != "" {
		cfg.Session.ReapDelay = reap
	}
	return cfg, nil
}

// TTLDuration parses a duration string or returns the fallback if empty
// or unparseable.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}

// ReapDelay returns the configured session reap delay, falling back to
// the 10-minute default.
func (c Config) ReapDelay() time.Duration {
	return TTLDuration(c.Session.ReapDelay, DefaultReapDelay)
}

// MaxFrameBytes returns the configured inbound frame size cap, falling
// back to the 4096-byte default.
func (c Config) MaxFrameBytes() int {
	if c.Session.MaxFrameBytes <= 0 {
		return DefaultMaxFrameBytes
	}
	return c.Session.MaxFrameBytes
}

// MaxParticipants returns the configured per-session participant cap,
// falling back to the 100-participant default.
func (c Config) MaxParticipants() int {
	if c.Session.MaxParticipants <= 0 {
		return DefaultMaxParticipants
	}
	return c.Session.MaxParticipants
}
