package config

import (
	"errors"
	"io/fs"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Storage backends understood by the CLI.
const (
	BackendFile     = "file"
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

type Config struct {
	Server struct {
		Port string `yaml:"port" env:"PORT"`
	} `yaml:"server"`
	Log struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	} `yaml:"log"`
	Storage struct {
		Backend string `yaml:"backend" env:"LEADERBOARD_STORAGE_BACKEND"`
		Path    string `yaml:"path" env:"LEADERBOARD_STORAGE_PATH"`
	} `yaml:"storage"`
	Redis struct {
		Addr       string `yaml:"addr" env:"REDIS_ADDR"`
		Password   string `yaml:"password" env:"REDIS_PASSWORD"`
		DB         int    `yaml:"db" env:"REDIS_DB"`
		Key        string `yaml:"key" env:"REDIS_RESULTS_KEY"`
		MaxRetries int    `yaml:"max_retries"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url" env:"POSTGRES_URL"`
	} `yaml:"postgres"`
	Quiz struct {
		TTL    string            `yaml:"ttl"`
		Titles map[string]string `yaml:"titles"`
	} `yaml:"quiz"`
	Leaderboard struct {
		Limit  int    `yaml:"limit" env:"LEADERBOARD_LIMIT"`
		Footer string `yaml:"footer"`
	} `yaml:"leaderboard"`
	Telegram struct {
		Token       string `yaml:"token" env:"TELEGRAM_BOT_TOKEN"`
		PollTimeout int    `yaml:"poll_timeout"`
	} `yaml:"telegram"`
}

// Load reads YAML config from path and applies environment overrides. A
// missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return cfg, err
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, err
		}
	}
	if err := env.Parse(&cfg); err != nil {
		return cfg, err
	}
	applyDefaults(&cfg)
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Storage.Backend == "" {
		cfg.Storage.Backend = BackendFile
	}
	if cfg.Storage.Path == "" {
		cfg.Storage.Path = "data/leaderboard_results.json"
	}
	if cfg.Redis.Key == "" {
		cfg.Redis.Key = "leaderboard:results"
	}
	if cfg.Redis.MaxRetries <= 0 {
		cfg.Redis.MaxRetries = 5
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Telegram.PollTimeout <= 0 {
		cfg.Telegram.PollTimeout = 60
	}
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
