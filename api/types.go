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

package api

// ErrorResponse is the error body returned by every failing route
type ErrorResponse struct {
	StatusCode int    `json:"status_code"`
	Error      string `json:"error"`
	Message    string `json:"message"`
}

// HealthResponse is the body returned by GET /health
type HealthResponse struct {
	IsHealthy   bool `json:"is_healthy"`
	Initialized bool `json:"initialized"`
}

// InitRequest is the body accepted by POST /v1/init
type InitRequest struct {
	TokenContract  string `json:"tokenContract"`
	AssetsContract string `json:"assetsContract"`
	Collection     string `json:"collection"`
}

// SetTemplateRateRequest is the body accepted by PUT /v1/templates/{templateId}
type SetTemplateRateRequest struct {
	Rate uint64 `json:"rate"`
}

// StakeRequest is the body accepted by POST /v1/stakes
type StakeRequest struct {
	Owner    string   `json:"owner"`
	AssetIds []uint64 `json:"assetIds"`
}

// ClaimRequest is the body accepted by POST /v1/stakes/{assetId}/claim
type ClaimRequest struct {
	Owner string `json:"owner"`
}

// PayoutResponse is the body returned by claim and unstake routes
type PayoutResponse struct {
	AssetId  uint64 `json:"assetId"`
	Owner    string `json:"owner"`
	Units    uint64 `json:"units"`
	Quantity string `json:"quantity"`
}
