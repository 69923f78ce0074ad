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

package ledger

import (
	"errors"
)

// Every error below is a normal, expected rejection of a single
// operation. The operation that raised it leaves no partial state
// behind.
var (
	// ErrNotInitialized is returned by every ledger operation before
	// Initialize has succeeded
	ErrNotInitialized = errors.New("ledger is not initialized")

	// ErrAlreadyInitialized is returned when Initialize is called twice
	ErrAlreadyInitialized = errors.New("ledger is already initialized")

	// ErrNotFound is returned when no live stake record exists for an
	// asset id
	ErrNotFound = errors.New("stake record not found")

	// ErrNotOwner is returned when the caller does not match the
	// owning account on the stake record
	ErrNotOwner = errors.New("caller does not own this stake record")

	// ErrAlreadyStaked is returned when staking an asset that already
	// has a live stake record, regardless of caller
	ErrAlreadyStaked = errors.New("asset is already staked")

	// ErrOwnershipInvalid is returned when the ownership oracle reports
	// the asset as missing, held by a different account, or outside the
	// configured collection
	ErrOwnershipInvalid = errors.New("asset ownership verification failed")

	// ErrNotEligible is returned when staking an asset whose template
	// resolves to a zero rate
	ErrNotEligible = errors.New("asset template is not eligible for staking")

	// ErrNothingAccrued is returned by claim when the computed reward
	// is zero. Unstake never returns it.
	ErrNothingAccrued = errors.New("no rewards accrued yet")

	// ErrTransferFailed wraps a disbursement gateway failure. The
	// triggering state mutation is rolled back.
	ErrTransferFailed = errors.New("reward transfer failed")

	// ErrInvalidRequest is returned for malformed operation input, such
	// as an empty caller or an empty asset id batch
	ErrInvalidRequest = errors.New("invalid request")
)
