package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Finnhub struct {
		BaseURL       string   `yaml:"base_url"`
		APIKey        string   `yaml:"api_key"`
		Exchange      string   `yaml:"exchange"`
		SecurityTypes []string `yaml:"security_types"`
	} `yaml:"finnhub"`
	MarketData struct {
		Source       string `yaml:"source"` // "yahoo" or "alpaca"
		AlpacaKey    string `yaml:"alpaca_key"`
		AlpacaSecret string `yaml:"alpaca_secret"`
	} `yaml:"market_data"`
	Screener struct {
		TargetCount     int     `yaml:"target_count"`
		LookbackYears   int     `yaml:"lookback_years"`
		R2Threshold     float64 `yaml:"r2_threshold"`
		RequestDelaySec float64 `yaml:"request_delay_seconds"`
		ChartsDir       string  `yaml:"charts_dir"`
	} `yaml:"screener"`
	Cache struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"cache"`
	Schedule struct {
		ScanCron string `yaml:"scan_cron"`
	} `yaml:"schedule"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("FINNHUB_API_KEY"); v != "" {
		cfg.Finnhub.APIKey = v
	}
	if v := os.Getenv("FINNHUB_BASE_URL"); v != "" {
		cfg.Finnhub.BaseURL = v
	}
	if v := os.Getenv("MARKET_DATA_SOURCE"); v != "" {
		cfg.MarketData.Source = v
	}
	if v := os.Getenv("ALPACA_API_KEY"); v != "" {
		cfg.MarketData.AlpacaKey = v
	}
	if v := os.Getenv("ALPACA_SECRET_KEY"); v != "" {
		cfg.MarketData.AlpacaSecret = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Cache.SQLitePath = v
	}
	if v := os.Getenv("SCAN_CRON"); v != "" {
		cfg.Schedule.ScanCron = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("TARGET_COUNT"); v != "" {
		var n int
		if _, err := fmt.Sscanf(v, "%d", &n); err == nil {
			cfg.Screener.TargetCount = n
		}
	}

	// Defaults
	if cfg.Finnhub.BaseURL == "" {
		cfg.Finnhub.BaseURL = "https://finnhub.io/api/v1"
	}
	if cfg.Finnhub.Exchange == "" {
		cfg.Finnhub.Exchange = "US"
	}
	if len(cfg.Finnhub.SecurityTypes) == 0 {
		cfg.Finnhub.SecurityTypes = []string{"Common Stock", "ADR"}
	}
	if cfg.MarketData.Source == "" {
		cfg.MarketData.Source = "yahoo"
	}
	if cfg.Screener.TargetCount == 0 {
		cfg.Screener.TargetCount = 100
	}
	if cfg.Screener.LookbackYears == 0 {
		cfg.Screener.LookbackYears = 5
	}
	if cfg.Screener.R2Threshold == 0 {
		cfg.Screener.R2Threshold = 0.8
	}
	if cfg.Screener.RequestDelaySec == 0 {
		cfg.Screener.RequestDelaySec = 2
	}
	if cfg.Screener.ChartsDir == "" {
		cfg.Screener.ChartsDir = "charts"
	}
	if cfg.Cache.SQLitePath == "" {
		cfg.Cache.SQLitePath = "data/screener.db"
	}
	if cfg.Schedule.ScanCron == "" {
		cfg.Schedule.ScanCron = "0 0 7 * * 1-5"
	}

	return cfg, nil
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	if c.Finnhub.APIKey == "" {
		return fmt.Errorf("finnhub.api_key is required")
	}
	switch c.MarketData.Source {
	case "yahoo":
	case "alpaca":
		if c.MarketData.AlpacaKey == "" || c.MarketData.AlpacaSecret == "" {
			return fmt.Errorf("market_data.alpaca_key and alpaca_secret are required for the alpaca source")
		}
	default:
		return fmt.Errorf("market_data.source must be \"yahoo\" or \"alpaca\", got %q", c.MarketData.Source)
	}
	if c.Screener.TargetCount <= 0 {
		return fmt.Errorf("screener.target_count must be positive")
	}
	if c.Screener.LookbackYears <= 0 {
		return fmt.Errorf("screener.lookback_years must be positive")
	}
	if c.Screener.R2Threshold <= 0 || c.Screener.R2Threshold > 1 {
		return fmt.Errorf("screener.r2_threshold must be in (0, 1]")
	}
	if c.Screener.RequestDelaySec < 0 {
		return fmt.Errorf("screener.request_delay_seconds must not be negative")
	}
	return nil
}
