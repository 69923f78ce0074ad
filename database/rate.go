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
	"fmt"

	"github.com/mintleaf-io/roost/database/models"
	"github.com/mintleaf-io/roost/database/types"
	"gorm.io/gorm"
)

// ErrTemplateRateNotFound is returned when removing a rate for an unknown template
var ErrTemplateRateNotFound = errors.New("template rate not found")

// GetTemplateRate returns the reward rate for a template id. A missing
// entry resolves to zero, the universal "ineligible" sentinel, never an
// error.
func (d *Database) GetTemplateRate(
	templateId uint64,
	txn *Txn,
) (uint64, error) {
	if txn == nil {
		txn = d.Transaction(false)
		defer txn.Commit() //nolint:errcheck
	}
	ret := &models.TemplateRate{}
	result := txn.Metadata().
		Where("template_id = ?", templateId).
		First(ret)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, result.Error
	}
	return uint64(ret.Rate), nil
}

// SetTemplateRate creates or updates the reward rate for a template id
func (d *Database) SetTemplateRate(
	templateId uint64,
	rate uint64,
	txn *Txn,
) error {
	if txn == nil {
		txn = d.Transaction(true)
		defer txn.Commit() //nolint:errcheck
	}
	tmpRate := &models.TemplateRate{}
	result := txn.Metadata().
		FirstOrCreate(tmpRate, models.TemplateRate{TemplateId: templateId})
	if result.Error != nil {
		return fmt.Errorf(
			"failed to find or create template rate: %w",
			result.Error,
		)
	}
	result = txn.Metadata().
		Model(tmpRate).
		Update("rate", types.Uint64(rate))
	return result.Error
}

// DeleteTemplateRate removes the rate entry for a template id
func (d *Database) DeleteTemplateRate(
	templateId uint64,
	txn *Txn,
) error {
	if txn == nil {
		txn = d.Transaction(true)
		defer txn.Commit() //nolint:errcheck
	}
	tmpRate := &models.TemplateRate{}
	result := txn.Metadata().
		Where("template_id = ?", templateId).
		First(tmpRate)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return ErrTemplateRateNotFound
		}
		return result.Error
	}
	return txn.Metadata().Delete(tmpRate).Error
}

// ListTemplateRates returns all configured template rates
func (d *Database) ListTemplateRates(
	txn *Txn,
) ([]models.TemplateRate, error) {
	if txn == nil {
		txn = d.Transaction(false)
		defer txn.Commit() //nolint:errcheck
	}
	var ret []models.TemplateRate
	result := txn.Metadata().
		Order("template_id").
		Find(&ret)
	if result.Error != nil {
		return nil, result.Error
	}
	return ret, nil
}
