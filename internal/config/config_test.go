package config

import (
	"os"
	"testing"
	"time"
)

func TestLoadAndValidate(t *testing.T) {
	content := `
admission:
  interval: 60s
  min_security_score: 80
  min_liquidity_usd: 50000
  workers: 8

risk:
  interval: 300s
  cap_ratio: 0.5

provider:
  base_url: "https://provider.example.com"
  api_key: "test_key"

ledger:
  rpc_url: "https://ledger.example.com/rpc"

storage:
  backend: "memory"

telegram:
  enabled: false

metrics:
  listen_addr: ":9090"
  enabled: true
`
	tmpfile, err := os.CreateTemp("", "config-*.yaml")
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = os.Remove(tmpfile.Name()) }()

	if _, err := tmpfile.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	if err := tmpfile.Close(); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(tmpfile.Name())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Admission.Interval != 60*time.Second {
		t.Errorf("Unexpected admission interval: %v", cfg.Admission.Interval)
	}
	if cfg.Risk.Interval != 300*time.Second {
		t.Errorf("Unexpected risk interval: %v", cfg.Risk.Interval)
	}
	if cfg.Admission.MinSecurityScore != 80 {
		t.Errorf("Unexpected min security score: %f", cfg.Admission.MinSecurityScore)
	}
	if cfg.Risk.CapRatio != 0.5 {
		t.Errorf("Unexpected cap ratio: %f", cfg.Risk.CapRatio)
	}
	// Defaults fill what the file omits.
	if cfg.Provider.MaxRetries != 1 {
		t.Errorf("Unexpected max retries default: %d", cfg.Provider.MaxRetries)
	}
	if cfg.Risk.Workers != 8 {
		t.Errorf("Unexpected risk workers default: %d", cfg.Risk.Workers)
	}

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
}

func validConfig() *Config {
	return &Config{
		Admission: AdmissionConfig{
			Interval:         60 * time.Second,
			MinSecurityScore: 80,
			MinLiquidityUsd:  50000,
			Workers:          8,
		},
		Risk: RiskConfig{
			Interval: 300 * time.Second,
			CapRatio: 0.5,
			Workers:  8,
		},
		Provider: ProviderConfig{
			BaseURL: "https://provider.example.com",
		},
		Ledger: LedgerConfig{
			RPCURL: "https://ledger.example.com/rpc",
		},
		Storage: StorageConfig{
			Backend: "memory",
		},
	}
}

func TestValidateErrors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid",
			mutate:  func(*Config) {},
			wantErr: false,
		},
		{
			name:    "cap ratio above one",
			mutate:  func(c *Config) { c.Risk.CapRatio = 1.5 },
			wantErr: true,
		},
		{
			name:    "cap ratio zero",
			mutate:  func(c *Config) { c.Risk.CapRatio = 0 },
			wantErr: true,
		},
		{
			name:    "security score out of range",
			mutate:  func(c *Config) { c.Admission.MinSecurityScore = 150 },
			wantErr: true,
		},
		{
			name:    "missing provider url",
			mutate:  func(c *Config) { c.Provider.BaseURL = "" },
			wantErr: true,
		},
		{
			name:    "missing ledger url",
			mutate:  func(c *Config) { c.Ledger.RPCURL = "" },
			wantErr: true,
		},
		{
			name:    "unknown storage backend",
			mutate:  func(c *Config) { c.Storage.Backend = "sqlite" },
			wantErr: true,
		},
		{
			name:    "postgres backend without dsn",
			mutate:  func(c *Config) { c.Storage.Backend = "postgres" },
			wantErr: true,
		},
		{
			name:    "telegram enabled without token",
			mutate:  func(c *Config) { c.Telegram.Enabled = true; c.Telegram.ChatID = 42 },
			wantErr: true,
		},
		{
			name:    "zero workers",
			mutate:  func(c *Config) { c.Admission.Workers = 0 },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
