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

package treasury

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/mintleaf-io/roost/reward"
)

type transferRequest struct {
	To       string `json:"to"`
	Quantity string `json:"quantity"`
	Memo     string `json:"memo"`
}

type assetReturnRequest struct {
	To       string   `json:"to"`
	AssetIds []uint64 `json:"asset_ids"`
	Memo     string   `json:"memo"`
}

// Client is an HTTP client for the token service's transfer API. It
// implements Gateway.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// ClientOption is a functional option for configuring a Client
type ClientOption func(*Client)

// WithHTTPClient sets a custom *http.Client for the treasury client
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// NewClient creates a new token service API client
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

func (c *Client) post(ctx context.Context, path string, body any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encoding request: %w", err)
	}
	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.baseURL+path,
		bytes.NewReader(payload),
	)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK &&
		resp.StatusCode != http.StatusCreated {
		return fmt.Errorf(
			"unexpected status %d from %s",
			resp.StatusCode,
			path,
		)
	}
	return nil
}

// Transfer implements Gateway. Corresponds to POST /v1/transfers.
func (c *Client) Transfer(
	ctx context.Context,
	to string,
	amount reward.Amount,
	memo string,
) error {
	err := c.post(ctx, "/v1/transfers", transferRequest{
		To:       to,
		Quantity: amount.String(),
		Memo:     memo,
	})
	if err != nil {
		return fmt.Errorf(
			"transferring %s to %s: %w",
			amount,
			to,
			err,
		)
	}
	return nil
}

// ReturnAssets implements Gateway. Corresponds to POST /v1/asset-returns.
func (c *Client) ReturnAssets(
	ctx context.Context,
	to string,
	assetIds []uint64,
	memo string,
) error {
	err := c.post(ctx, "/v1/asset-returns", assetReturnRequest{
		To:       to,
		AssetIds: assetIds,
		Memo:     memo,
	})
	if err != nil {
		return fmt.Errorf(
			"returning %d asset(s) to %s: %w",
			len(assetIds),
			to,
			err,
		)
	}
	return nil
}
