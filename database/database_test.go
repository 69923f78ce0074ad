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

package database_test

import (
	"testing"

	"github.com/mintleaf-io/roost/database"
	"github.com/mintleaf-io/roost/database/models"
	"github.com/mintleaf-io/roost/database/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDatabase(t *testing.T) *database.Database {
	t.Helper()
	db, err := database.New(&database.Config{
		DataDir: t.TempDir(),
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		db.Close() //nolint:errcheck
	})
	return db
}

func TestSettingsRoundTrip(t *testing.T) {
	db := newTestDatabase(t)

	// No settings before initialization
	settings, err := db.GetSettings(nil)
	require.NoError(t, err)
	assert.Nil(t, settings)

	err = db.SetSettings("wynx.token", "atomicassets", "undeadpinups", nil)
	require.NoError(t, err)

	settings, err = db.GetSettings(nil)
	require.NoError(t, err)
	require.NotNil(t, settings)
	assert.Equal(t, "wynx.token", settings.TokenContract)
	assert.Equal(t, "atomicassets", settings.AssetsContract)
	assert.Equal(t, "undeadpinups", settings.Collection)
}

func TestTemplateRateUpsert(t *testing.T) {
	db := newTestDatabase(t)

	// Missing entry resolves to zero
	rate, err := db.GetTemplateRate(877575, nil)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), rate)

	err = db.SetTemplateRate(877575, 1000, nil)
	require.NoError(t, err)
	rate, err = db.GetTemplateRate(877575, nil)
	require.NoError(t, err)
	assert.Equal(t, uint64(1000), rate)

	// Upsert overwrites
	err = db.SetTemplateRate(877575, 3000, nil)
	require.NoError(t, err)
	rate, err = db.GetTemplateRate(877575, nil)
	require.NoError(t, err)
	assert.Equal(t, uint64(3000), rate)

	// Only one row exists after the upsert
	rates, err := db.ListTemplateRates(nil)
	require.NoError(t, err)
	require.Len(t, rates, 1)
	assert.Equal(t, uint64(877575), rates[0].TemplateId)
}

func TestTemplateRateDelete(t *testing.T) {
	db := newTestDatabase(t)

	err := db.DeleteTemplateRate(12345, nil)
	require.ErrorIs(t, err, database.ErrTemplateRateNotFound)

	err = db.SetTemplateRate(12345, 500, nil)
	require.NoError(t, err)
	err = db.DeleteTemplateRate(12345, nil)
	require.NoError(t, err)

	rate, err := db.GetTemplateRate(12345, nil)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), rate)
}

func TestStakeRecordLifecycle(t *testing.T) {
	db := newTestDatabase(t)

	record := &models.StakeRecord{
		AssetId:     1099511627776, // above 2^32 to exercise the string column
		Owner:       "alice",
		TemplateId:  877575,
		StakedAt:    1700000000,
		LastClaimed: 1700000000,
	}
	err := db.AddStake(record, nil)
	require.NoError(t, err)

	// Unique index rejects a second live record
	dupe := &models.StakeRecord{
		AssetId:     1099511627776,
		Owner:       "bob",
		TemplateId:  877575,
		StakedAt:    1700000100,
		LastClaimed: 1700000100,
	}
	err = db.AddStake(dupe, nil)
	require.Error(t, err)

	stake, err := db.GetStake(1099511627776, nil)
	require.NoError(t, err)
	require.NotNil(t, stake)
	assert.Equal(t, "alice", stake.Owner)
	assert.Equal(t, uint64(877575), stake.TemplateId)

	err = db.SetStakeLastClaimed(1099511627776, 1700003600, nil)
	require.NoError(t, err)
	stake, err = db.GetStake(1099511627776, nil)
	require.NoError(t, err)
	require.NotNil(t, stake)
	assert.Equal(t, uint64(1700003600), stake.LastClaimed)
	assert.Equal(t, uint64(1700000000), stake.StakedAt)

	err = db.DeleteStake(1099511627776, nil)
	require.NoError(t, err)
	stake, err = db.GetStake(1099511627776, nil)
	require.NoError(t, err)
	assert.Nil(t, stake)
}

func TestStakesByOwner(t *testing.T) {
	db := newTestDatabase(t)

	for i := uint64(1); i <= 3; i++ {
		owner := "alice"
		if i == 3 {
			owner = "bob"
		}
		err := db.AddStake(&models.StakeRecord{
			AssetId:     types.Uint64(i),
			Owner:       owner,
			TemplateId:  100,
			StakedAt:    1700000000,
			LastClaimed: 1700000000,
		}, nil)
		require.NoError(t, err)
	}

	stakes, err := db.StakesByOwner("alice", nil)
	require.NoError(t, err)
	require.Len(t, stakes, 2)
	stakes, err = db.StakesByOwner("bob", nil)
	require.NoError(t, err)
	require.Len(t, stakes, 1)
	stakes, err = db.StakesByOwner("carol", nil)
	require.NoError(t, err)
	assert.Empty(t, stakes)
}

func TestReceiptRoundTrip(t *testing.T) {
	db := newTestDatabase(t)

	receipts := []database.Receipt{
		{
			AssetId: 42,
			Owner:   "alice",
			Amount:  500,
			Symbol:  "WYNX",
			Memo:    "Staking reward",
			PaidAt:  1700003600,
		},
		{
			AssetId: 42,
			Owner:   "alice",
			Amount:  250,
			Symbol:  "WYNX",
			Memo:    "Final staking reward",
			PaidAt:  1700007200,
		},
		{
			AssetId: 43,
			Owner:   "bob",
			Amount:  100,
			Symbol:  "WYNX",
			Memo:    "Staking reward",
			PaidAt:  1700003600,
		},
	}
	for i := range receipts {
		err := db.AddReceipt(&receipts[i], nil)
		require.NoError(t, err)
	}

	ret, err := db.ReceiptsForAsset(42, nil)
	require.NoError(t, err)
	require.Len(t, ret, 2)
	// Payout order
	assert.Equal(t, uint64(500), ret[0].Amount)
	assert.Equal(t, uint64(250), ret[1].Amount)
}

func TestTxnRollback(t *testing.T) {
	db := newTestDatabase(t)

	txn := db.Transaction(true)
	err := db.AddStake(&models.StakeRecord{
		AssetId:     7,
		Owner:       "alice",
		TemplateId:  100,
		StakedAt:    1700000000,
		LastClaimed: 1700000000,
	}, txn)
	require.NoError(t, err)
	err = db.AddReceipt(&database.Receipt{
		AssetId: 7,
		Owner:   "alice",
		Amount:  100,
		Symbol:  "WYNX",
		PaidAt:  1700000000,
	}, txn)
	require.NoError(t, err)
	require.NoError(t, txn.Rollback())

	// Neither mutation is visible after rollback
	stake, err := db.GetStake(7, nil)
	require.NoError(t, err)
	assert.Nil(t, stake)
	ret, err := db.ReceiptsForAsset(7, nil)
	require.NoError(t, err)
	assert.Empty(t, ret)
}

func TestTxnDo(t *testing.T) {
	db := newTestDatabase(t)

	// Error from the callback rolls everything back
	wantErr := assert.AnError
	err := db.Transaction(true).Do(func(txn *database.Txn) error {
		if err := db.AddStake(&models.StakeRecord{
			AssetId:     8,
			Owner:       "alice",
			TemplateId:  100,
			StakedAt:    1700000000,
			LastClaimed: 1700000000,
		}, txn); err != nil {
			return err
		}
		return wantErr
	})
	require.ErrorIs(t, err, wantErr)
	stake, err := db.GetStake(8, nil)
	require.NoError(t, err)
	assert.Nil(t, stake)

	// Success commits
	err = db.Transaction(true).Do(func(txn *database.Txn) error {
		return db.AddStake(&models.StakeRecord{
			AssetId:     9,
			Owner:       "alice",
			TemplateId:  100,
			StakedAt:    1700000000,
			LastClaimed: 1700000000,
		}, txn)
	})
	require.NoError(t, err)
	stake, err = db.GetStake(9, nil)
	require.NoError(t, err)
	require.NotNil(t, stake)
}
