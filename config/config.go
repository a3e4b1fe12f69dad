package config

import (
	"encoding/json"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server  ServerConfig  `json:"server"`
	Backend BackendConfig `json:"backend"`
	Storage StorageConfig `json:"storage"`
	Refresh RefreshConfig `json:"refresh"`
}

type ServerConfig struct {
	Port string `json:"port"`
}

type BackendConfig struct {
	BaseURL        string `json:"base_url"`
	TimeoutSeconds int    `json:"timeout_seconds"`
}

type StorageConfig struct {
	Path string `json:"path"`
}

type RefreshConfig struct {
	IntervalMillis int     `json:"interval_millis"`
	NearbyRadiusM  float64 `json:"nearby_radius_m"`
}

func LoadConfig(path string) (*Config, error) {
	godotenv.Load()

	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var config Config
	decoder := json.NewDecoder(file)
	if err := decoder.Decode(&config); err != nil {
		return nil, err
	}

	applyDefaults(&config)
	applyEnv(&config)

	return &config, nil
}

func applyDefaults(c *Config) {
	if c.Server.Port == "" {
		c.Server.Port = "4100"
	}
	if c.Backend.TimeoutSeconds <= 0 {
		c.Backend.TimeoutSeconds = 10
	}
	if c.Refresh.IntervalMillis <= 0 {
		c.Refresh.IntervalMillis = 2000
	}
	if c.Refresh.NearbyRadiusM <= 0 {
		c.Refresh.NearbyRadiusM = 500
	}
	if c.Storage.Path == "" {
		c.Storage.Path = "cleanify.db"
	}
}

func applyEnv(c *Config) {
	if v := os.Getenv("CLEANIFY_PORT"); v != "" {
		c.Server.Port = v
	}
	if v := os.Getenv("CLEANIFY_BACKEND_URL"); v != "" {
		c.Backend.BaseURL = v
	}
	if v := os.Getenv("CLEANIFY_DB_PATH"); v != "" {
		c.Storage.Path = v
	}
	if v := os.Getenv("CLEANIFY_REFRESH_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms > 0 {
			c.Refresh.IntervalMillis = ms
		}
	}
}

func (c *Config) BackendTimeout() time.Duration {
	return time.Duration(c.Backend.TimeoutSeconds) * time.Second
}

func (c *Config) RefreshInterval() time.Duration {
	return time.Duration(c.Refresh.IntervalMillis) * time.Millisecond
}
