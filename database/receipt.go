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
	"encoding/json"

	"github.com/mintleaf-io/roost/database/types"
)

// Receipt is the audit record written to the blob store alongside every
// disbursement. Receipts are immutable and keyed by asset id and payout
// time, so an independent auditor can recompute historical payouts from
// the stored rate and timestamps.
type Receipt struct {
	AssetId uint64 `json:"assetId"`
	Owner   string `json:"owner"`
	Amount  uint64 `json:"amount"`
	Symbol  string `json:"symbol"`
	Memo    string `json:"memo"`
	PaidAt  uint64 `json:"paidAt"`
	Seq     uint32 `json:"seq"`
}

// AddReceipt stores a payout receipt in the blob store within the given
// transaction. The receipt commits atomically with the metadata mutation
// staged on the same Txn.
func (d *Database) AddReceipt(
	receipt *Receipt,
	txn *Txn,
) error {
	if txn == nil {
		txn = d.Transaction(true)
		defer txn.Commit() //nolint:errcheck
	}
	key := types.ReceiptBlobKey(receipt.AssetId, receipt.PaidAt, receipt.Seq)
	val, err := json.Marshal(receipt)
	if err != nil {
		return err
	}
	return d.blob.Set(txn.Blob(), key, val)
}

// ReceiptsForAsset returns all payout receipts for an asset id in payout
// order
func (d *Database) ReceiptsForAsset(
	assetId uint64,
	txn *Txn,
) ([]Receipt, error) {
	if txn == nil {
		txn = d.Transaction(false)
		defer txn.Commit() //nolint:errcheck
	}
	prefix := types.ReceiptBlobKeyPrefixForAsset(assetId)
	var ret []Receipt
	iterOpts := badgerIteratorOptions(prefix)
	it := txn.Blob().NewIterator(iterOpts)
	defer it.Close()
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		val, err := it.Item().ValueCopy(nil)
		if err != nil {
			return nil, err
		}
		var receipt Receipt
		if err := json.Unmarshal(val, &receipt); err != nil {
			return nil, err
		}
		ret = append(ret, receipt)
	}
	return ret, nil
}
