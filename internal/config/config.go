package config

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config represents the complete application configuration
type Config struct {
	Admission AdmissionConfig `mapstructure:"admission"`
	Risk      RiskConfig      `mapstructure:"risk"`
	Provider  ProviderConfig  `mapstructure:"provider"`
	Ledger    LedgerConfig    `mapstructure:"ledger"`
	Discovery DiscoveryConfig `mapstructure:"discovery"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Telegram  TelegramConfig  `mapstructure:"telegram"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
}

// AdmissionConfig holds admission pipeline configuration
type AdmissionConfig struct {
	Interval         time.Duration `mapstructure:"interval"`
	MinSecurityScore float64       `mapstructure:"min_security_score"`
	MinLiquidityUsd  float64       `mapstructure:"min_liquidity_usd"`
	Workers          int           `mapstructure:"workers"`
}

// RiskConfig holds risk control loop configuration
type RiskConfig struct {
	Interval time.Duration `mapstructure:"interval"`
	CapRatio float64       `mapstructure:"cap_ratio"`
	Workers  int           `mapstructure:"workers"`
}

// ProviderConfig holds market data provider configuration
type ProviderConfig struct {
	BaseURL    string        `mapstructure:"base_url"`
	APIKey     string        `mapstructure:"api_key"`
	Timeout    time.Duration `mapstructure:"timeout"`
	MaxRetries int           `mapstructure:"max_retries"`
}

// LedgerConfig holds ledger gateway configuration
type LedgerConfig struct {
	RPCURL         string        `mapstructure:"rpc_url"`
	SignerSeed     string        `mapstructure:"signer_seed"`
	SubmitTimeout  time.Duration `mapstructure:"submit_timeout"`
	ConfirmTimeout time.Duration `mapstructure:"confirm_timeout"`
}

// DiscoveryConfig holds token discovery configuration
type DiscoveryConfig struct {
	WSURL      string `mapstructure:"ws_url"`
	BufferSize int    `mapstructure:"buffer_size"`
}

// StorageConfig holds storage backend configuration
type StorageConfig struct {
	Backend       string `mapstructure:"backend"` // "memory" or "postgres"
	PostgresDSN   string `mapstructure:"postgres_dsn"`
	ClickhouseDSN string `mapstructure:"clickhouse_dsn"` // empty disables cap history
}

// TelegramConfig holds Telegram notification configuration
type TelegramConfig struct {
	BotToken string `mapstructure:"bot_token"`
	ChatID   int64  `mapstructure:"chat_id"`
	Enabled  bool   `mapstructure:"enabled"`
}

// MetricsConfig holds the Prometheus endpoint configuration
type MetricsConfig struct {
	ListenAddr string `mapstructure:"listen_addr"`
	Enabled    bool   `mapstructure:"enabled"`
}

// Load reads configuration from file and environment variables
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetConfigFile(path)

	setDefaults(v)

	// Enable environment variable override
	v.SetEnvPrefix("DEXFREE")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// setDefaults configures default values for all configuration options
func setDefaults(v *viper.Viper) {
	// Admission defaults
	v.SetDefault("admission.interval", "60s")
	v.SetDefault("admission.min_security_score", 80.0)
	v.SetDefault("admission.min_liquidity_usd", 50000.0)
	v.SetDefault("admission.workers", 8)

	// Risk defaults
	v.SetDefault("risk.interval", "300s")
	v.SetDefault("risk.cap_ratio", 0.5)
	v.SetDefault("risk.workers", 8)

	// Provider defaults
	v.SetDefault("provider.timeout", "10s")
	v.SetDefault("provider.max_retries", 1)

	// Ledger defaults
	v.SetDefault("ledger.submit_timeout", "15s")
	v.SetDefault("ledger.confirm_timeout", "30s")

	// Discovery defaults
	v.SetDefault("discovery.buffer_size", 1024)

	// Storage defaults
	v.SetDefault("storage.backend", "memory")

	// Metrics defaults
	v.SetDefault("metrics.listen_addr", ":9090")
	v.SetDefault("metrics.enabled", true)
}

// Validate checks that all configuration values are valid
func (c *Config) Validate() error {
	if c.Admission.Interval < time.Second {
		return fmt.Errorf("admission.interval must be at least 1 second")
	}
	if c.Admission.MinSecurityScore < 0 || c.Admission.MinSecurityScore > 100 {
		return fmt.Errorf("admission.min_security_score must be between 0 and 100")
	}
	if c.Admission.MinLiquidityUsd < 0 {
		return fmt.Errorf("admission.min_liquidity_usd must not be negative")
	}
	if c.Admission.Workers < 1 {
		return fmt.Errorf("admission.workers must be at least 1")
	}

	if c.Risk.Interval < time.Second {
		return fmt.Errorf("risk.interval must be at least 1 second")
	}
	if c.Risk.CapRatio <= 0 || c.Risk.CapRatio > 1 {
		return fmt.Errorf("risk.cap_ratio must be in (0, 1]")
	}
	if c.Risk.Workers < 1 {
		return fmt.Errorf("risk.workers must be at least 1")
	}

	if c.Provider.BaseURL == "" {
		return fmt.Errorf("provider.base_url is required")
	}
	if c.Provider.MaxRetries < 0 {
		return fmt.Errorf("provider.max_retries must not be negative")
	}

	if c.Ledger.RPCURL == "" {
		return fmt.Errorf("ledger.rpc_url is required")
	}

	switch c.Storage.Backend {
	case "memory":
	case "postgres":
		if c.Storage.PostgresDSN == "" {
			return fmt.Errorf("storage.postgres_dsn is required for postgres backend")
		}
	default:
		return fmt.Errorf("storage.backend must be one of: memory, postgres")
	}

	if c.Telegram.Enabled {
		if c.Telegram.BotToken == "" {
			return fmt.Errorf("telegram.bot_token is required when telegram is enabled")
		}
		if c.Telegram.ChatID == 0 {
			return fmt.Errorf("telegram.chat_id is required when telegram is enabled")
		}
	}

	if c.Metrics.Enabled && c.Metrics.ListenAddr == "" {
		return fmt.Errorf("metrics.listen_addr is required when metrics is enabled")
	}

	return nil
}

// MinLiquidityDecimal returns the liquidity threshold as a decimal amount.
func (c *AdmissionConfig) MinLiquidityDecimal() decimal.Decimal {
	return decimal.NewFromFloat(c.MinLiquidityUsd)
}

// CapRatioDecimal returns the cap ratio as a decimal multiplier.
func (c *RiskConfig) CapRatioDecimal() decimal.Decimal {
	return decimal.NewFromFloat(c.CapRatio)
}
