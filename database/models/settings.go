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

// Settings is the one-time ledger configuration singleton. It records the
// external token-transfer target, the asset registry target, and the
// accepted collection. The row is written once by initialize and is
// immutable afterwards.
type Settings struct {
	ID             uint `gorm:"primarykey"`
	TokenContract  string
	AssetsContract string
	Collection     string
}

func (Settings) TableName() string {
	return "settings"
}
