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
	"testing"

	"github.com/mintleaf-io/roost/reward"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigDefaults(t *testing.T) {
	cfg := NewConfig()
	assert.NotNil(t, cfg.logger)
	assert.Equal(t, uint64(reward.PeriodDaily), cfg.accrualPeriod)
	assert.Empty(t, cfg.dataDir)
	assert.False(t, cfg.devMode)
}

func TestNewConfigOptions(t *testing.T) {
	cfg := NewConfig(
		WithDatabasePath("/tmp/roost"),
		WithApiListenAddress(":8080"),
		WithAdminToken("secret"),
		WithAccrualPeriod(reward.PeriodHourly),
		WithRewardSymbol(reward.Symbol{Code: "WYNX", Precision: 2}),
		WithRecheckOwnershipOnClaim(true),
		WithCustodial(true),
		WithDevMode(true),
	)
	assert.Equal(t, "/tmp/roost", cfg.dataDir)
	assert.Equal(t, ":8080", cfg.listenAddress)
	assert.Equal(t, "secret", cfg.adminToken)
	assert.Equal(t, uint64(reward.PeriodHourly), cfg.accrualPeriod)
	assert.Equal(t, "WYNX", cfg.rewardSymbol.Code)
	assert.True(t, cfg.recheckClaim)
	assert.True(t, cfg.custodial)
	assert.True(t, cfg.devMode)
}

func TestConfigValidation(t *testing.T) {
	// Missing reward symbol
	_, err := New(NewConfig(WithDevMode(true)))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reward symbol")

	// Missing external service URLs outside dev mode
	_, err = New(NewConfig(
		WithRewardSymbol(reward.Symbol{Code: "WYNX", Precision: 2}),
	))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "oracle URL")

	_, err = New(NewConfig(
		WithRewardSymbol(reward.Symbol{Code: "WYNX", Precision: 2}),
		WithOracleURL("http://localhost:9000"),
	))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "treasury URL")

	// Dev mode needs no URLs
	n, err := New(NewConfig(
		WithRewardSymbol(reward.Symbol{Code: "WYNX", Precision: 2}),
		WithDevMode(true),
	))
	require.NoError(t, err)
	require.NotNil(t, n)

	// Fully specified
	n, err = New(NewConfig(
		WithRewardSymbol(reward.Symbol{Code: "WYNX", Precision: 2}),
		WithOracleURL("http://localhost:9000"),
		WithTreasuryURL("http://localhost:9001"),
	))
	require.NoError(t, err)
	require.NotNil(t, n)
}
