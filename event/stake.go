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

package event

// StakedEventType is the event type for newly created stake records
const StakedEventType = EventType("stake.staked")

// StakedEvent is emitted once per asset after a stake batch commits
type StakedEvent struct {
	AssetId    uint64
	Owner      string
	TemplateId uint64
	StakedAt   uint64
}

// ClaimedEventType is the event type for reward claims
const ClaimedEventType = EventType("stake.claimed")

// ClaimedEvent is emitted after a claim's payout and timestamp advance
// have committed
type ClaimedEvent struct {
	AssetId uint64
	Owner   string
	Units   uint64
	Symbol  string
	PaidAt  uint64
}

// UnstakedEventType is the event type for removed stake records
const UnstakedEventType = EventType("stake.unstaked")

// UnstakedEvent is emitted after an unstake commits. Units is zero when
// nothing had accrued since the last claim.
type UnstakedEvent struct {
	AssetId  uint64
	Owner    string
	Units    uint64
	Symbol   string
	Returned bool
}

// RateChangedEventType is the event type for template rate updates
const RateChangedEventType = EventType("registry.rate")

// RateChangedEvent is emitted after an admin creates, updates, or
// removes a template rate. Removed is true for deletions.
type RateChangedEvent struct {
	TemplateId uint64
	Rate       uint64
	Removed    bool
}
