package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"MarketDash/internal/calculator"
	"MarketDash/internal/logger"
	"MarketDash/internal/model"
)

// Config holds all application configuration.
type Config struct {
	DataSource struct {
		Provider     string `yaml:"provider" default:"alpaca" validate:"oneof=alpaca yahoo polygon csv"`
		BaseURL      string `yaml:"base_url"`
		APIKey       string `yaml:"api_key"`
		APISecret    string `yaml:"api_secret"`
		Feed         string `yaml:"feed" default:"iex"`
		LookbackDays int    `yaml:"lookback_days" default:"120" validate:"gt=0"`
		CSVDir       string `yaml:"csv_dir" default:"data/bars"`
	} `yaml:"data_source"`
	Symbols    []model.StockInfo `yaml:"symbols" validate:"dive"`
	Indicators calculator.Params `yaml:"indicators"`
	Schedule   struct {
		PollCron     string        `yaml:"poll_cron" default:"*/5 * * * * *"`
		FetchTimeout time.Duration `yaml:"fetch_timeout" default:"20s" validate:"gt=0"`
	} `yaml:"schedule"`
	HTTP struct {
		Addr string `yaml:"addr" default:":8080" validate:"required"`
	} `yaml:"http"`
	Redis struct {
		Addr     string        `yaml:"addr"`
		Password string        `yaml:"password"`
		DB       int           `yaml:"db"`
		Prefix   string        `yaml:"prefix" default:"marketdash"`
		TTL      time.Duration `yaml:"ttl" default:"24h"`
	} `yaml:"redis"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Log   logger.Config `yaml:"log"`
	Proxy string        `yaml:"proxy"`
}

// DefaultSymbols is the watch list used when the config names none.
var DefaultSymbols = []model.StockInfo{
	{Symbol: "SPY", Name: "SPDR S&P 500 ETF Trust", Sector: "ETF", MarketCap: 400, PE: 20},
	{Symbol: "QQQ", Name: "Invesco QQQ Trust", Sector: "ETF", MarketCap: 200, PE: 25},
	{Symbol: "IWM", Name: "iShares Russell 2000 ETF", Sector: "ETF", MarketCap: 60, PE: 18},
	{Symbol: "F", Name: "Ford Motor Company", Sector: "Consumer Cyclical", MarketCap: 50, PE: 8},
	{Symbol: "AAPL", Name: "Apple Inc.", Sector: "Technology", MarketCap: 2500, PE: 30},
}

// EnvFiles are loaded, when present, before environment overrides are applied.
var EnvFiles = []string{".env", ".env.local"}

var validate = validator.New()

// Load reads config from a YAML file, then applies .env files, environment overrides and defaults.
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

	for _, f := range EnvFiles {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}
	applyEnv(cfg)

	if err := defaults.Set(cfg); err != nil {
		return nil, fmt.Errorf("apply defaults: %w", err)
	}
	if len(cfg.Symbols) == 0 {
		cfg.Symbols = append([]model.StockInfo(nil), DefaultSymbols...)
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("DATA_PROVIDER"); v != "" {
		cfg.DataSource.Provider = v
	}
	if v := os.Getenv("ALPACA_API_KEY"); v != "" && cfg.DataSource.Provider != "polygon" {
		cfg.DataSource.APIKey = v
	}
	if v := os.Getenv("ALPACA_SECRET_KEY"); v != "" {
		cfg.DataSource.APISecret = v
	}
	if v := os.Getenv("POLYGON_API_KEY"); v != "" && cfg.DataSource.Provider == "polygon" {
		cfg.DataSource.APIKey = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("POLL_CRON"); v != "" {
		cfg.Schedule.PollCron = v
	}
	if v := os.Getenv("HTTP_ADDR"); v != "" {
		cfg.HTTP.Addr = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOOKBACK_DAYS"); v != "" {
		if days, err := strconv.Atoi(v); err == nil {
			cfg.DataSource.LookbackDays = days
		}
	}
}

// Validate checks field constraints and the credentials the selected provider needs.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := c.Indicators.Validate(); err != nil {
		return err
	}
	switch c.DataSource.Provider {
	case "alpaca":
		if c.DataSource.APIKey == "" || c.DataSource.APISecret == "" {
			return fmt.Errorf("data_source.api_key and data_source.api_secret are required for alpaca")
		}
	case "polygon":
		if c.DataSource.APIKey == "" {
			return fmt.Errorf("data_source.api_key is required for polygon")
		}
	case "csv":
		if c.DataSource.CSVDir == "" {
			return fmt.Errorf("data_source.csv_dir is required for csv")
		}
	}
	if (c.Telegram.BotToken == "") != (c.Telegram.ChatID == "") {
		return fmt.Errorf("telegram.bot_token and telegram.chat_id must be set together")
	}
	seen := make(map[string]bool, len(c.Symbols))
	for _, s := range c.Symbols {
		if seen[s.Symbol] {
			return fmt.Errorf("symbol %s listed twice", s.Symbol)
		}
		seen[s.Symbol] = true
	}
	return nil
}

// SymbolNames returns the configured tickers in order.
func (c *Config) SymbolNames() []string {
	out := make([]string, len(c.Symbols))
	for i, s := range c.Symbols {
		out[i] = s.Symbol
	}
	return out
}
