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

package roost

import (
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/mintleaf-io/roost/reward"
	"github.com/prometheus/client_golang/prometheus"
)

type Config struct {
	promRegistry    prometheus.Registerer
	logger          *slog.Logger
	dataDir         string
	listenAddress   string
	adminToken      string
	oracleURL       string
	treasuryURL     string
	accrualPeriod   uint64
	rewardSymbol    reward.Symbol
	shutdownTimeout time.Duration
	recheckClaim    bool
	custodial       bool
	devMode         bool
}

func (n *Node) configValidate() error {
	if n.config.rewardSymbol.Code == "" {
		return errors.New("no reward symbol configured")
	}
	if !n.config.devMode {
		if n.config.oracleURL == "" {
			return errors.New(
				"no ownership oracle URL configured (or enable dev mode)",
			)
		}
		if n.config.treasuryURL == "" {
			return errors.New(
				"no treasury URL configured (or enable dev mode)",
			)
		}
	}
	return nil
}

// ConfigOptionFunc is a type that represents functions that modify the node config
type ConfigOptionFunc func(*Config)

// NewConfig creates a new node config with the specified options
func NewConfig(opts ...ConfigOptionFunc) Config {
	c := Config{
		// Default logger will throw away logs
		// We do this so we don't have to add guards around every log operation
		logger:        slog.New(slog.NewJSONHandler(io.Discard, nil)),
		accrualPeriod: reward.PeriodDaily,
	}
	// Apply options
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// WithLogger specifies the logger to use. This defaults to discarding log output
func WithLogger(logger *slog.Logger) ConfigOptionFunc {
	return func(c *Config) {
		c.logger = logger
	}
}

// WithDatabasePath specifies the persistent data directory to use. The default is to store everything in memory
func WithDatabasePath(dataDir string) ConfigOptionFunc {
	return func(c *Config) {
		c.dataDir = dataDir
	}
}

// WithPrometheusRegistry specifies a prometheus.Registerer instance to add metrics to. In most cases, prometheus.DefaultRegistry would be
// a good choice to get metrics working
func WithPrometheusRegistry(registry prometheus.Registerer) ConfigOptionFunc {
	return func(c *Config) {
		c.promRegistry = registry
	}
}

// WithApiListenAddress specifies the listen address for the REST API
// server. The default is ":3000"
func WithApiListenAddress(addr string) ConfigOptionFunc {
	return func(c *Config) {
		c.listenAddress = addr
	}
}

// WithAdminToken specifies the bearer token protecting administrative
// API routes. An empty token leaves them open, which is only suitable
// for dev mode
func WithAdminToken(token string) ConfigOptionFunc {
	return func(c *Config) {
		c.adminToken = token
	}
}

// WithAccrualPeriod specifies the accrual period in seconds that reward
// rates are denominated in. The default is daily
func WithAccrualPeriod(periodSeconds uint64) ConfigOptionFunc {
	return func(c *Config) {
		c.accrualPeriod = periodSeconds
	}
}

// WithRewardSymbol specifies the reward currency
func WithRewardSymbol(symbol reward.Symbol) ConfigOptionFunc {
	return func(c *Config) {
		c.rewardSymbol = symbol
	}
}

// WithRecheckOwnershipOnClaim re-verifies asset ownership through the
// oracle on every claim. This is disabled by default
func WithRecheckOwnershipOnClaim(recheck bool) ConfigOptionFunc {
	return func(c *Config) {
		c.recheckClaim = recheck
	}
}

// WithCustodial marks this a deposit-based deployment, where staked
// assets are held by the treasury and returned on unstake. This is
// disabled by default
func WithCustodial(custodial bool) ConfigOptionFunc {
	return func(c *Config) {
		c.custodial = custodial
	}
}

// WithOracleURL specifies the base URL of the asset ownership API
func WithOracleURL(url string) ConfigOptionFunc {
	return func(c *Config) {
		c.oracleURL = url
	}
}

// WithTreasuryURL specifies the base URL of the treasury disbursement API
func WithTreasuryURL(url string) ConfigOptionFunc {
	return func(c *Config) {
		c.treasuryURL = url
	}
}

// WithDevMode enables development behaviors: an in-memory ownership
// oracle and a disbursement recorder replace the HTTP clients
func WithDevMode(devMode bool) ConfigOptionFunc {
	return func(c *Config) {
		c.devMode = devMode
	}
}

// WithShutdownTimeout specifies the timeout for graceful shutdown. The default is 30 seconds
func WithShutdownTimeout(timeout time.Duration) ConfigOptionFunc {
	return func(c *Config) {
		c.shutdownTimeout = timeout
	}
}
