// Package config loads StudioOps settings from defaults, an optional YAML
// file, STUDIOOPS_* environment variables and command-line flags, in
// increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alexanderramin/studioops/internal/domain"
	"github.com/alexanderramin/studioops/internal/estimate"
	"github.com/alexanderramin/studioops/internal/llm"
	"github.com/alexanderramin/studioops/internal/pricing"
	"github.com/shopspring/decimal"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const envPrefix = "STUDIOOPS"

type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Logger   LoggerConfig   `mapstructure:"logger"`
	Pricing  PricingConfig  `mapstructure:"pricing"`
	Catalog  CatalogConfig  `mapstructure:"catalog"`
	HTTP     HTTPConfig     `mapstructure:"http"`
	LLM      LLMConfig      `mapstructure:"llm"`
}

type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

type PricingConfig struct {
	Currency        string                    `mapstructure:"currency"`
	FanOut          int                       `mapstructure:"fan_out"`
	LookupTimeoutMs int                       `mapstructure:"lookup_timeout_ms"`
	Baselines       map[string]BaselineConfig `mapstructure:"baselines"`
}

// BaselineConfig overrides a category's fallback price. Price is a decimal
// string so that money never passes through float64.
type BaselineConfig struct {
	Price string `mapstructure:"price"`
	Unit  string `mapstructure:"unit"`
}

const (
	CatalogSQLite = "sqlite"
	CatalogStatic = "static"
)

type CatalogConfig struct {
	Mode   string              `mapstructure:"mode"`
	Quotes []StaticQuoteConfig `mapstructure:"quotes"`
}

// StaticQuoteConfig is one canned quote served in static catalog mode.
type StaticQuoteConfig struct {
	Item       string  `mapstructure:"item"`
	Category   string  `mapstructure:"category"`
	Vendor     string  `mapstructure:"vendor"`
	UnitPrice  string  `mapstructure:"unit_price"`
	Unit       string  `mapstructure:"unit"`
	Confidence float64 `mapstructure:"confidence"`
	SKU        string  `mapstructure:"sku"`
	Historical bool    `mapstructure:"historical"`
	FetchedAt  string  `mapstructure:"fetched_at"`
}

type HTTPConfig struct {
	Addr string `mapstructure:"addr"`
	Mode string `mapstructure:"mode"`
}

type LLMConfig struct {
	Enabled          bool   `mapstructure:"enabled"`
	Endpoint         string `mapstructure:"endpoint"`
	Model            string `mapstructure:"model"`
	TimeoutMs        int    `mapstructure:"timeout_ms"`
	ExtractTimeoutMs int    `mapstructure:"extract_timeout_ms"`
	MaxRetries       int    `mapstructure:"max_retries"`
}

// LoadOptions selects where configuration comes from. File must exist when
// set; otherwise studioops.yaml is looked up in the working directory and in
// ~/.studioops and skipped if absent. Flags, when given, override everything
// for the keys they are bound to.
type LoadOptions struct {
	File  string
	Flags *pflag.FlagSet
	// FlagKeys maps config keys to flag names, e.g. "database.path" -> "db".
	FlagKeys map[string]string
}

// Load builds a Config. It uses its own viper instance, so loading twice
// never leaks state between calls.
func Load(opts LoadOptions) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	if opts.File != "" {
		v.SetConfigFile(opts.File)
	} else {
		v.SetConfigName("studioops")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".studioops"))
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if opts.File != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	if opts.Flags != nil {
		for key, name := range opts.FlagKeys {
			f := opts.Flags.Lookup(name)
			if f == nil {
				return nil, fmt.Errorf("binding %s: no flag named %q", key, name)
			}
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("binding %s: %w", key, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "studioops.db"
	}
	return filepath.Join(home, ".studioops", "studioops.db")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("database.path", defaultDBPath())

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.output_path", "stderr")

	v.SetDefault("pricing.currency", domain.DefaultCurrency)
	v.SetDefault("pricing.fan_out", estimate.DefaultFanOut)
	v.SetDefault("pricing.lookup_timeout_ms", 2000)

	v.SetDefault("catalog.mode", CatalogSQLite)

	v.SetDefault("http.addr", "127.0.0.1:8080")
	v.SetDefault("http.mode", "release")

	llmDefaults := llm.DefaultConfig()
	v.SetDefault("llm.enabled", llmDefaults.Enabled)
	v.SetDefault("llm.endpoint", llmDefaults.Endpoint)
	v.SetDefault("llm.model", llmDefaults.Model)
	v.SetDefault("llm.timeout_ms", llmDefaults.TimeoutMs)
	v.SetDefault("llm.extract_timeout_ms", llmDefaults.Tasks[llm.TaskExtractNeeds].TimeoutMs)
	v.SetDefault("llm.max_retries", llmDefaults.MaxRetries)
}

// Validate rejects settings the rest of the program cannot start with.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Database.Path) == "" {
		return fmt.Errorf("database.path is required")
	}
	switch strings.ToLower(c.Logger.Format) {
	case "console", "json":
	default:
		return fmt.Errorf("logger.format must be console or json, got %q", c.Logger.Format)
	}
	if strings.TrimSpace(c.Pricing.Currency) == "" {
		return fmt.Errorf("pricing.currency is required")
	}
	if c.Pricing.FanOut < 1 {
		return fmt.Errorf("pricing.fan_out must be at least 1, got %d", c.Pricing.FanOut)
	}
	if c.Pricing.LookupTimeoutMs < 0 {
		return fmt.Errorf("pricing.lookup_timeout_ms must not be negative")
	}
	if _, err := c.Pricing.BaselineOverrides(); err != nil {
		return err
	}
	switch c.Catalog.Mode {
	case CatalogSQLite:
	case CatalogStatic:
		if _, err := c.Catalog.StaticQuotes(); err != nil {
			return err
		}
	default:
		return fmt.Errorf("catalog.mode must be %s or %s, got %q", CatalogSQLite, CatalogStatic, c.Catalog.Mode)
	}
	if c.LLM.MaxRetries < 0 {
		return fmt.Errorf("llm.max_retries must not be negative")
	}
	return nil
}

func (c PricingConfig) LookupTimeout() time.Duration {
	return time.Duration(c.LookupTimeoutMs) * time.Millisecond
}

// BaselineOverrides converts the configured baselines for pricing.NewResolver.
func (c PricingConfig) BaselineOverrides() (map[domain.Category]pricing.Baseline, error) {
	out := make(map[domain.Category]pricing.Baseline, len(c.Baselines))
	for name, b := range c.Baselines {
		cat, err := domain.ParseCategory(name)
		if err != nil {
			return nil, fmt.Errorf("pricing.baselines: %w", err)
		}
		price, err := decimal.NewFromString(strings.TrimSpace(b.Price))
		if err != nil {
			return nil, fmt.Errorf("pricing.baselines.%s.price: %w", name, err)
		}
		if price.IsNegative() {
			return nil, fmt.Errorf("pricing.baselines.%s.price must not be negative", name)
		}
		out[cat] = pricing.Baseline{UnitPrice: price, Unit: b.Unit}
	}
	return out, nil
}

// StaticQuotes groups the configured canned quotes by item and category.
func (c CatalogConfig) StaticQuotes() (map[string]map[domain.Category][]domain.CandidateQuote, error) {
	out := make(map[string]map[domain.Category][]domain.CandidateQuote)
	for i, q := range c.Quotes {
		cat, err := domain.ParseCategory(domain.CoalesceStr(q.Category, string(domain.CategoryMaterials)))
		if err != nil {
			return nil, fmt.Errorf("catalog.quotes[%d]: %w", i, err)
		}
		if strings.TrimSpace(q.Item) == "" || strings.TrimSpace(q.Vendor) == "" {
			return nil, fmt.Errorf("catalog.quotes[%d]: item and vendor are required", i)
		}
		price, err := decimal.NewFromString(strings.TrimSpace(q.UnitPrice))
		if err != nil {
			return nil, fmt.Errorf("catalog.quotes[%d].unit_price: %w", i, err)
		}
		cq := domain.CandidateQuote{
			Vendor:       q.Vendor,
			UnitPrice:    price,
			Confidence:   q.Confidence,
			IsHistorical: q.Historical,
			IsQuote:      !q.Historical,
			SKU:          q.SKU,
			Unit:         q.Unit,
		}
		if q.FetchedAt != "" {
			if cq.FetchedAt, err = time.Parse(time.DateOnly, q.FetchedAt); err != nil {
				if cq.FetchedAt, err = time.Parse(time.RFC3339, q.FetchedAt); err != nil {
					return nil, fmt.Errorf("catalog.quotes[%d].fetched_at: %w", i, err)
				}
			}
		}
		if out[q.Item] == nil {
			out[q.Item] = make(map[domain.Category][]domain.CandidateQuote)
		}
		out[q.Item][cat] = append(out[q.Item][cat], cq)
	}
	return out, nil
}

// Client returns the llm package configuration.
func (c LLMConfig) Client() llm.LLMConfig {
	cfg := llm.DefaultConfig()
	cfg.Enabled = c.Enabled
	cfg.Endpoint = strings.TrimRight(c.Endpoint, "/")
	cfg.Model = c.Model
	cfg.TimeoutMs = c.TimeoutMs
	cfg.MaxRetries = c.MaxRetries
	task := cfg.Tasks[llm.TaskExtractNeeds]
	task.TimeoutMs = c.ExtractTimeoutMs
	cfg.Tasks[llm.TaskExtractNeeds] = task
	return cfg
}
