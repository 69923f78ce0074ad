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

package oracle

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// assetResponse is the envelope returned by the asset registry API
// (AtomicAssets-compatible)
type assetResponse struct {
	Success bool      `json:"success"`
	Data    assetData `json:"data"`
}

type assetData struct {
	AssetId    string          `json:"asset_id"`
	Owner      string          `json:"owner"`
	Collection assetCollection `json:"collection"`
	Template   assetTemplate   `json:"template"`
}

type assetCollection struct {
	CollectionName string `json:"collection_name"`
}

type assetTemplate struct {
	TemplateId string `json:"template_id"`
}

// Client is an HTTP client for an AtomicAssets-compatible asset registry
// REST API. It implements Oracle.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// ClientOption is a functional option for configuring a Client
type ClientOption func(*Client)

// WithHTTPClient sets a custom *http.Client for the registry client
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// NewClient creates a new asset registry API client. The baseURL should
// be the base URL of the registry API
// (e.g., "https://wax.api.atomicassets.io").
func NewClient(
	baseURL string,
	opts ...ClientOption,
) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// OwnsAsset implements Oracle. Corresponds to
// GET /atomicassets/v1/assets/{assetId}. A 404 from the registry means
// the asset does not exist and yields (nil, nil), matching an ownership
// mismatch rather than an operational error.
func (c *Client) OwnsAsset(
	ctx context.Context,
	account string,
	assetId uint64,
) (*AssetInfo, error) {
	reqURL := c.baseURL + "/atomicassets/v1/assets/" +
		strconv.FormatUint(assetId, 10)
	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodGet,
		reqURL,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf(
			"building asset request: %w",
			err,
		)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf(
			"getting asset %d: %w",
			assetId,
			err,
		)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf(
			"getting asset %d: unexpected status %d",
			assetId,
			resp.StatusCode,
		)
	}
	var assetResp assetResponse
	if err := json.NewDecoder(resp.Body).Decode(&assetResp); err != nil {
		return nil, fmt.Errorf(
			"decoding asset %d: %w",
			assetId,
			err,
		)
	}
	if !assetResp.Success {
		return nil, nil
	}
	if assetResp.Data.Owner != account {
		return nil, nil
	}
	templateId, err := strconv.ParseUint(
		assetResp.Data.Template.TemplateId,
		10,
		64,
	)
	if err != nil {
		return nil, fmt.Errorf(
			"parsing template id for asset %d: %w",
			assetId,
			err,
		)
	}
	return &AssetInfo{
		AssetId:    assetId,
		Owner:      assetResp.Data.Owner,
		Collection: assetResp.Data.Collection.CollectionName,
		TemplateId: templateId,
	}, nil
}
