package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

type Server struct {
	Port              string `json:"port"`
	RequestTimeoutSec int    `json:"request_timeout_sec"`
}

type Yahoo struct {
	BaseURL   string `json:"base_url"`
	NewsCount int    `json:"news_count"`
}

type Rates struct {
	BaseURL string `json:"base_url"`
	APIKey  string `json:"api_key"`
}

type Batch struct {
	MaxConcurrency int `json:"max_concurrency"`
}

type Config struct {
	Server      Server `json:"server"`
	Yahoo       Yahoo  `json:"yahoo"`
	Rates       Rates  `json:"rates"`
	Batch       Batch  `json:"batch"`
	CatalogPath string `json:"catalog_path"`
}

func Default() Config {
	return Config{
		Server: Server{Port: "8080", RequestTimeoutSec: 10},
		Yahoo: Yahoo{
			BaseURL:   "https://query2.finance.yahoo.com",
			NewsCount: 200,
		},
		Batch:       Batch{MaxConcurrency: 4},
		CatalogPath: "configs/catalog.yaml",
	}
}

// Load reads JSON config from path. If path is empty or the file does
// not exist, it returns defaults. Environment variables override select
// fields for secrecy.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		if _, err := os.Stat("config.json"); err == nil {
			path = "config.json"
		}
	}
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err == nil {
			if err := json.Unmarshal(b, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config: %w", err)
			}
		}
	}
	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("PORT"); v != "" {
		cfg.Server.Port = v
	}
	if v := os.Getenv("REQUEST_TIMEOUT_SEC"); v != "" {
		var x int
		_, _ = fmt.Sscanf(v, "%d", &x)
		if x > 0 {
			cfg.Server.RequestTimeoutSec = x
		}
	}
	if v := os.Getenv("YAHOO_BASE_URL"); v != "" {
		cfg.Yahoo.BaseURL = v
	}
	if v := os.Getenv("NEWS_COUNT"); v != "" {
		var x int
		_, _ = fmt.Sscanf(v, "%d", &x)
		if x > 0 {
			cfg.Yahoo.NewsCount = x
		}
	}
	if v := os.Getenv("FXRATES_BASE_URL"); v != "" {
		cfg.Rates.BaseURL = v
	}
	if v := os.Getenv("FXRATES_API_KEY"); v != "" {
		cfg.Rates.APIKey = v
	}
	if v := os.Getenv("BATCH_MAX_CONCURRENCY"); v != "" {
		var x int
		_, _ = fmt.Sscanf(v, "%d", &x)
		if x > 0 {
			cfg.Batch.MaxConcurrency = x
		}
	}
	if v := os.Getenv("CATALOG_PATH"); v != "" {
		cfg.CatalogPath = v
	}
}
