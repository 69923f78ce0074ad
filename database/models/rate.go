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

// TemplateRate maps a template id to its reward rate in minimal currency
// units per accrual period. A missing row resolves to a rate of zero,
// which marks the template ineligible for staking.
type TemplateRate struct {
	ID         uint         `gorm:"primarykey"`
	TemplateId uint64       `gorm:"uniqueIndex"`
	Rate       types.Uint64
}

func (TemplateRate) TableName() string {
	return "template_rate"
}
