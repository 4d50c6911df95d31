package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"ONECHAIN_RPC_URL", "STORE_BACKEND", "ONECHAIN_GAS_BUDGET", "PACKAGE_ID", "STORAGE_PATH_PREFIX"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Chain.RpcURL != DefaultRpcURL {
		t.Errorf("Expected rpc url %s, got %s", DefaultRpcURL, cfg.Chain.RpcURL)
	}
	if cfg.Database.Backend != "sqlite" {
		t.Errorf("Expected sqlite backend, got %s", cfg.Database.Backend)
	}
	if cfg.Chain.GasBudget != DefaultGasBudget {
		t.Errorf("Expected gas budget %d, got %d", DefaultGasBudget, cfg.Chain.GasBudget)
	}
	if cfg.Contract.PackageId != "" {
		t.Errorf("Expected package id to be resolved later, got %s", cfg.Contract.PackageId)
	}
	if cfg.Storage.PathPrefix != "merchandise" {
		t.Errorf("Expected merchandise prefix, got %s", cfg.Storage.PathPrefix)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("ONECHAIN_RPC_URL", "http://localhost:9000")
	t.Setenv("ONECHAIN_FINALITY_TIMEOUT", "5s")
	t.Setenv("ONECHAIN_GAS_BUDGET", "5000")
	t.Setenv("PACKAGE_ID", "0xabc")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Chain.RpcURL != "http://localhost:9000" {
		t.Errorf("Expected overridden rpc url, got %s", cfg.Chain.RpcURL)
	}
	if cfg.Chain.FinalityTimeout != 5*time.Second {
		t.Errorf("Expected 5s finality timeout, got %v", cfg.Chain.FinalityTimeout)
	}
	if cfg.Chain.GasBudget != 5000 {
		t.Errorf("Expected gas budget 5000, got %d", cfg.Chain.GasBudget)
	}
	if cfg.Contract.PackageId != "0xabc" {
		t.Errorf("Expected package id 0xabc, got %s", cfg.Contract.PackageId)
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"ONECHAIN_POLL_INTERVAL", "soon"},
		{"ONECHAIN_GAS_BUDGET", "-1"},
		{"DB_PING_TIMEOUT", "5 seconds"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			if _, err := Load(); err == nil {
				t.Errorf("Expected error for %s=%q", tt.key, tt.value)
			}
		})
	}
}
