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

package types

import (
	"encoding/binary"
)

const (
	ReceiptBlobKeyPrefix = "r"
)

func receiptKeyUint64ToBytes(input uint64) []byte {
	ret := make([]byte, 8)
	binary.BigEndian.PutUint64(ret, input)
	return ret
}

// ReceiptBlobKey builds the blob key for a payout receipt. Keys order by
// asset id and then payout time, so a prefix scan over an asset id yields
// that asset's receipts in payout order.
func ReceiptBlobKey(assetId uint64, paidAt uint64, seq uint32) []byte {
	key := []byte(ReceiptBlobKeyPrefix)
	key = append(key, receiptKeyUint64ToBytes(assetId)...)
	key = append(key, receiptKeyUint64ToBytes(paidAt)...)
	seqBytes := make([]byte, 4)
	binary.BigEndian.PutUint32(seqBytes, seq)
	key = append(key, seqBytes...)
	return key
}

// ReceiptBlobKeyPrefixForAsset builds the key prefix covering all payout
// receipts for a single asset id.
func ReceiptBlobKeyPrefixForAsset(assetId uint64) []byte {
	key := []byte(ReceiptBlobKeyPrefix)
	key = append(key, receiptKeyUint64ToBytes(assetId)...)
	return key
}
