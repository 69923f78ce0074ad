package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/mintleaf-io/roost/reward"
)

func resetGlobalConfig() {
	globalConfig = &Config{
		DatabasePath:    ".roost",
		BindAddr:        "0.0.0.0",
		ApiPort:         3000,
		MetricsPort:     12798,
		AccrualPeriod:   "daily",
		RewardSymbol:    "WYNX",
		RewardPrecision: 2,
		RecheckOnClaim:  true,
		RunMode:         RunModeServe,
		ShutdownTimeout: DefaultShutdownTimeout,
	}
}

func TestLoad_CompareFullStruct(t *testing.T) {
	resetGlobalConfig()
	yamlContent := `
databasePath: "/var/lib/roost"
bindAddr: "127.0.0.1"
adminToken: "topsecret"
oracleUrl: "http://oracle.local:9000"
treasuryUrl: "http://treasury.local:9001"
accrualPeriod: "hourly"
rewardSymbol: "GAS"
rewardPrecision: 4
apiPort: 8080
metricsPort: 8088
recheckOnClaim: false
custodial: true
`

	tmpDir := t.TempDir()
	tmpFile := filepath.Join(tmpDir, "test-roost.yaml")

	err := os.WriteFile(tmpFile, []byte(yamlContent), 0644)
	if err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	defer os.Remove(tmpFile)

	expected := &Config{
		DatabasePath:    "/var/lib/roost",
		BindAddr:        "127.0.0.1",
		AdminToken:      "topsecret",
		OracleURL:       "http://oracle.local:9000",
		TreasuryURL:     "http://treasury.local:9001",
		AccrualPeriod:   "hourly",
		RewardSymbol:    "GAS",
		RewardPrecision: 4,
		ApiPort:         8080,
		MetricsPort:     8088,
		RecheckOnClaim:  false,
		Custodial:       true,
		RunMode:         RunModeServe,
		ShutdownTimeout: DefaultShutdownTimeout,
	}

	actual, err := LoadConfig(tmpFile)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if !reflect.DeepEqual(actual, expected) {
		t.Errorf(
			"Loaded config does not match expected.\nActual: %+v\nExpected: %+v",
			actual,
			expected,
		)
	}
}

func TestLoad_WithoutConfigFile_UsesDefaults(t *testing.T) {
	resetGlobalConfig()

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	expected := &Config{
		DatabasePath:    ".roost",
		BindAddr:        "0.0.0.0",
		ApiPort:         3000,
		MetricsPort:     12798,
		AccrualPeriod:   "daily",
		RewardSymbol:    "WYNX",
		RewardPrecision: 2,
		RecheckOnClaim:  true,
		RunMode:         RunModeServe,
		ShutdownTimeout: DefaultShutdownTimeout,
	}

	if !reflect.DeepEqual(cfg, expected) {
		t.Errorf(
			"config mismatch without file:\nExpected: %+v\nGot:      %+v",
			expected,
			cfg,
		)
	}
}

func TestLoad_WithDevModeConfig(t *testing.T) {
	resetGlobalConfig()

	yamlContent := `
runMode: "dev"
`

	tmpDir := t.TempDir()
	tmpFile := filepath.Join(tmpDir, "test-dev-mode.yaml")

	err := os.WriteFile(tmpFile, []byte(yamlContent), 0644)
	if err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := LoadConfig(tmpFile)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if !cfg.RunMode.IsDevMode() {
		t.Errorf("expected dev run mode, got: %v", cfg.RunMode)
	}
}

func TestLoad_InvalidRunMode(t *testing.T) {
	resetGlobalConfig()

	yamlContent := `
runMode: "bogus"
`

	tmpDir := t.TempDir()
	tmpFile := filepath.Join(tmpDir, "test-invalid-mode.yaml")

	err := os.WriteFile(tmpFile, []byte(yamlContent), 0644)
	if err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	if _, err := LoadConfig(tmpFile); err == nil {
		t.Error("expected error for invalid run mode, got nil")
	}
}

func TestPeriodSeconds(t *testing.T) {
	resetGlobalConfig()

	cfg := &Config{AccrualPeriod: "hourly"}
	period, err := cfg.PeriodSeconds()
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if period != reward.PeriodHourly {
		t.Errorf("expected %d, got: %d", reward.PeriodHourly, period)
	}

	cfg = &Config{}
	period, err = cfg.PeriodSeconds()
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if period != reward.PeriodDaily {
		t.Errorf("expected %d, got: %d", reward.PeriodDaily, period)
	}

	cfg = &Config{AccrualPeriod: "weekly"}
	if _, err := cfg.PeriodSeconds(); err == nil {
		t.Error("expected error for unknown period, got nil")
	}
}
