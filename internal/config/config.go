// Copyright 2026 Mintleaf Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kelseyhightower/envconfig"
	"github.com/mintleaf-io/roost/reward"
	"gopkg.in/yaml.v3"
)

type ctxKey string

const configContextKey ctxKey = "roost.config"

const DefaultShutdownTimeout = "30s"

func WithContext(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configContextKey, cfg)
}

func FromContext(ctx context.Context) *Config {
	cfg, ok := ctx.Value(configContextKey).(*Config)
	if !ok {
		return nil
	}
	return cfg
}

// RunMode represents the operational mode of the roost daemon
type RunMode string

const (
	RunModeServe RunMode = "serve" // Normal operation against live external services (default)
	RunModeDev   RunMode = "dev"   // Development mode (in-memory oracle and treasury)
)

// Valid returns true if the RunMode is a known valid mode
func (m RunMode) Valid() bool {
	switch m {
	case RunModeServe, RunModeDev, "":
		return true
	default:
		return false
	}
}

// IsDevMode returns true if the mode enables development behaviors
func (m RunMode) IsDevMode() bool {
	return m == RunModeDev
}

type Config struct {
	DatabasePath    string  `yaml:"databasePath"                                      split_words:"true"`
	BindAddr        string  `yaml:"bindAddr"                                          split_words:"true"`
	AdminToken      string  `yaml:"adminToken"      envconfig:"ROOST_ADMIN_TOKEN"`
	OracleURL       string  `yaml:"oracleUrl"       envconfig:"ROOST_ORACLE_URL"`
	TreasuryURL     string  `yaml:"treasuryUrl"     envconfig:"ROOST_TREASURY_URL"`
	AccrualPeriod   string  `yaml:"accrualPeriod"                                     split_words:"true"`
	RewardSymbol    string  `yaml:"rewardSymbol"                                      split_words:"true"`
	RewardPrecision uint8   `yaml:"rewardPrecision"                                   split_words:"true"`
	ShutdownTimeout string  `yaml:"shutdownTimeout"                                   split_words:"true"`
	RunMode         RunMode `yaml:"runMode"         envconfig:"ROOST_RUN_MODE"`
	ApiPort         uint    `yaml:"apiPort"                                           split_words:"true"`
	MetricsPort     uint    `yaml:"metricsPort"                                       split_words:"true"`
	RecheckOnClaim  bool    `yaml:"recheckOnClaim"                                    split_words:"true"`
	Custodial       bool    `yaml:"custodial"`
}

// PeriodSeconds resolves the configured accrual period name to seconds
func (c *Config) PeriodSeconds() (uint64, error) {
	switch c.AccrualPeriod {
	case "", "daily":
		return reward.PeriodDaily, nil
	case "hourly":
		return reward.PeriodHourly, nil
	default:
		return 0, fmt.Errorf(
			"invalid accrualPeriod: %q (must be 'hourly' or 'daily')",
			c.AccrualPeriod,
		)
	}
}

var globalConfig = &Config{
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

func LoadConfig(configFile string) (*Config, error) {
	// Load config file as YAML if provided
	if configFile == "" {
		// Check for config file in this path: ~/.roost/roost.yaml
		if homeDir, err := os.UserHomeDir(); err == nil {
			userPath := filepath.Join(homeDir, ".roost", "roost.yaml")
			if _, err := os.Stat(userPath); err == nil {
				configFile = userPath
			}
		}

		// Try to check for /etc/roost/roost.yaml if still not found
		if configFile == "" {
			systemPath := "/etc/roost/roost.yaml"
			if _, err := os.Stat(systemPath); err == nil {
				configFile = systemPath
			}
		}
	}

	if configFile != "" {
		buf, err := os.ReadFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		err = yaml.Unmarshal(buf, globalConfig)
		if err != nil {
			return nil, fmt.Errorf("error parsing config file: %w", err)
		}
	}
	// Process environment variables
	err := envconfig.Process("roost", globalConfig)
	if err != nil {
		return nil, fmt.Errorf("error processing environment: %+w", err)
	}

	// Validate and default RunMode
	if !globalConfig.RunMode.Valid() {
		return nil, fmt.Errorf(
			"invalid runMode: %q (must be 'serve' or 'dev')",
			globalConfig.RunMode,
		)
	}
	if globalConfig.RunMode == "" {
		globalConfig.RunMode = RunModeServe
	}

	// Validate the accrual period name
	if _, err := globalConfig.PeriodSeconds(); err != nil {
		return nil, err
	}

	return globalConfig, nil
}

func GetConfig() *Config {
	return globalConfig
}
