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

// Package oracle defines the read-only ownership oracle consumed by the
// stake ledger. The oracle answers a single point-in-time question: does
// an account currently hold an asset, and what collection and template
// does the asset belong to. The ledger never writes through this
// interface.
package oracle

import (
	"context"
	"sync"
)

// AssetInfo describes an asset as reported by the ownership registry
type AssetInfo struct {
	AssetId    uint64
	Owner      string
	Collection string
	TemplateId uint64
}

// Oracle is the ownership oracle interface. OwnsAsset returns the asset
// info when the asset exists and is held by account, and nil when the
// asset is unknown or held by a different account.
type Oracle interface {
	OwnsAsset(
		ctx context.Context,
		account string,
		assetId uint64,
	) (*AssetInfo, error)
}

// Static is an in-memory oracle used by dev mode and tests. Assets are
// registered up front and ownership answers come from the local table.
type Static struct {
	mu     sync.RWMutex
	assets map[uint64]AssetInfo
}

// NewStatic creates an empty in-memory oracle
func NewStatic() *Static {
	return &Static{
		assets: make(map[uint64]AssetInfo),
	}
}

// SetAsset registers or replaces an asset in the local table
func (s *Static) SetAsset(info AssetInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.assets[info.AssetId] = info
}

// RemoveAsset drops an asset from the local table
func (s *Static) RemoveAsset(assetId uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.assets, assetId)
}

// OwnsAsset implements Oracle
func (s *Static) OwnsAsset(
	_ context.Context,
	account string,
	assetId uint64,
) (*AssetInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	info, ok := s.assets[assetId]
	if !ok || info.Owner != account {
		return nil, nil
	}
	ret := info
	return &ret, nil
}
