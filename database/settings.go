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
	"gorm.io/gorm"
)

// GetSettings returns the ledger settings singleton, or nil if the ledger
// has not been initialized
func (d *Database) GetSettings(txn *Txn) (*models.Settings, error) {
	if txn == nil {
		txn = d.Transaction(false)
		defer txn.Commit() //nolint:errcheck
	}
	ret := &models.Settings{}
	result := txn.Metadata().First(ret)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return ret, nil
}

// SetSettings stores the ledger settings singleton. The caller is
// responsible for rejecting re-initialization.
func (d *Database) SetSettings(
	tokenContract, assetsContract, collection string,
	txn *Txn,
) error {
	if txn == nil {
		txn = d.Transaction(true)
		defer txn.Commit() //nolint:errcheck
	}
	settings := models.Settings{
		ID:             1,
		TokenContract:  tokenContract,
		AssetsContract: assetsContract,
		Collection:     collection,
	}
	return txn.Metadata().Save(&settings).Error
}
