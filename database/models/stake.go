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

package models

import (
	"github.com/mintleaf-io/roost/database/types"
)

// StakeRecord tracks a single staked asset. There is at most one live
// record per asset id, enforced by the unique index. The owner column
// carries a secondary index for enumeration by account.
type StakeRecord struct {
	ID          uint         `gorm:"primarykey"`
	AssetId     types.Uint64 `gorm:"uniqueIndex"`
	Owner       string       `gorm:"index"`
	TemplateId  uint64       `gorm:"index"`
	StakedAt    uint64
	LastClaimed uint64
}

func (StakeRecord) TableName() string {
	return "stake_record"
}
