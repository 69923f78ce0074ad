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

package database

import (
	"errors"

	"github.com/mintleaf-io/roost/database/models"
	"github.com/mintleaf-io/roost/database/types"
	"gorm.io/gorm"
)

// GetStake returns the live stake record for an asset id, or nil if the
// asset is not staked
func (d *Database) GetStake(
	assetId uint64,
	txn *Txn,
) (*models.StakeRecord, error) {
	if txn == nil {
		txn = d.Transaction(false)
		defer txn.Commit() //nolint:errcheck
	}
	ret := &models.StakeRecord{}
	result := txn.Metadata().
		Where("asset_id = ?", types.Uint64(assetId)).
		First(ret)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return ret, nil
}

// StakesByOwner returns all live stake records for an owning account
func (d *Database) StakesByOwner(
	owner string,
	txn *Txn,
) ([]models.StakeRecord, error) {
	if txn == nil {
		txn = d.Transaction(false)
		defer txn.Commit() //nolint:errcheck
	}
	var ret []models.StakeRecord
	result := txn.Metadata().
		Where("owner = ?", owner).
		Order("id").
		Find(&ret)
	if result.Error != nil {
		return nil, result.Error
	}
	return ret, nil
}

// CountStakes returns the number of live stake records
func (d *Database) CountStakes(txn *Txn) (int64, error) {
	if txn == nil {
		txn = d.Transaction(false)
		defer txn.Commit() //nolint:errcheck
	}
	var ret int64
	result := txn.Metadata().
		Model(&models.StakeRecord{}).
		Count(&ret)
	if result.Error != nil {
		return 0, result.Error
	}
	return ret, nil
}

// AddStake creates a new stake record. The unique index on asset id
// rejects a second live record for the same asset.
func (d *Database) AddStake(
	record *models.StakeRecord,
	txn *Txn,
) error {
	if txn == nil {
		txn = d.Transaction(true)
		defer txn.Commit() //nolint:errcheck
	}
	return txn.Metadata().Create(record).Error
}

// SetStakeLastClaimed advances the last-claimed timestamp on a stake record
func (d *Database) SetStakeLastClaimed(
	assetId uint64,
	lastClaimed uint64,
	txn *Txn,
) error {
	if txn == nil {
		txn = d.Transaction(true)
		defer txn.Commit() //nolint:errcheck
	}
	result := txn.Metadata().
		Model(&models.StakeRecord{}).
		Where("asset_id = ?", types.Uint64(assetId)).
		Update("last_claimed", lastClaimed)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteStake removes the stake record for an asset id
func (d *Database) DeleteStake(
	assetId uint64,
	txn *Txn,
) error {
	if txn == nil {
		txn = d.Transaction(true)
		defer txn.Commit() //nolint:errcheck
	}
	return txn.Metadata().
		Where("asset_id = ?", types.Uint64(assetId)).
		Delete(&models.StakeRecord{}).Error
}
