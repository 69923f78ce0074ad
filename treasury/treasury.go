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

// Package treasury defines the disbursement gateway consumed by the
// stake ledger. The gateway pays out accrued rewards and, in custodial
// deployments, returns assets on unstake. Callers compose gateway calls
// with the state mutation that triggered them: the ledger stages its
// mutation, dispatches the transfer, and only commits when the transfer
// succeeds.
package treasury

import (
	"context"
	"sync"

	"github.com/mintleaf-io/roost/reward"
)

// Gateway is the disbursement gateway interface
type Gateway interface {
	// Transfer pays amount to the given account
	Transfer(
		ctx context.Context,
		to string,
		amount reward.Amount,
		memo string,
	) error
	// ReturnAssets transfers custody of assets back to the given
	// account. Only invoked by deposit-based (custodial) deployments.
	ReturnAssets(
		ctx context.Context,
		to string,
		assetIds []uint64,
		memo string,
	) error
}

// Payment records a single disbursement made through the Recorder
type Payment struct {
	To     string
	Amount reward.Amount
	Memo   string
}

// AssetReturn records a single custody return made through the Recorder
type AssetReturn struct {
	To       string
	AssetIds []uint64
	Memo     string
}

// Recorder is an in-memory gateway used by dev mode and tests. It
// records every disbursement and can be primed to fail, which exercises
// the ledger's rollback path.
type Recorder struct {
	mu           sync.Mutex
	payments     []Payment
	assetReturns []AssetReturn
	nextErr      error
}

// NewRecorder creates an empty in-memory gateway
func NewRecorder() *Recorder {
	return &Recorder{}
}

// FailNext primes the recorder to fail its next call with the given error
func (r *Recorder) FailNext(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextErr = err
}

// Payments returns a copy of the recorded disbursements
func (r *Recorder) Payments() []Payment {
	r.mu.Lock()
	defer r.mu.Unlock()
	ret := make([]Payment, len(r.payments))
	copy(ret, r.payments)
	return ret
}

// AssetReturns returns a copy of the recorded custody returns
func (r *Recorder) AssetReturns() []AssetReturn {
	r.mu.Lock()
	defer r.mu.Unlock()
	ret := make([]AssetReturn, len(r.assetReturns))
	copy(ret, r.assetReturns)
	return ret
}

// Transfer implements Gateway
func (r *Recorder) Transfer(
	_ context.Context,
	to string,
	amount reward.Amount,
	memo string,
) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.nextErr != nil {
		err := r.nextErr
		r.nextErr = nil
		return err
	}
	r.payments = append(r.payments, Payment{
		To:     to,
		Amount: amount,
		Memo:   memo,
	})
	return nil
}

// ReturnAssets implements Gateway
func (r *Recorder) ReturnAssets(
	_ context.Context,
	to string,
	assetIds []uint64,
	memo string,
) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.nextErr != nil {
		err := r.nextErr
		r.nextErr = nil
		return err
	}
	ids := make([]uint64, len(assetIds))
	copy(ids, assetIds)
	r.assetReturns = append(r.assetReturns, AssetReturn{
		To:       to,
		AssetIds: ids,
		Memo:     memo,
	})
	return nil
}
