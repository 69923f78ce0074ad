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

// Package api implements the REST API surface over the stake ledger and
// rate registry. Administrative routes (init, rate management) require
// the configured bearer token; staking routes act on behalf of the
// account named in the request.
package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/mintleaf-io/roost/ledger"
	"github.com/mintleaf-io/roost/registry"
)

// Config is the API server configuration
type Config struct {
	Logger *slog.Logger
	// ListenAddress is the host:port to listen on, default ":3000"
	ListenAddress string
	// AdminToken protects administrative routes. When empty, the
	// administrative routes are open, which is only suitable for dev
	// mode.
	AdminToken string
}

// Api is the REST API server
type Api struct {
	config     Config
	logger     *slog.Logger
	ledger     *ledger.Ledger
	registry   *registry.Registry
	httpServer *http.Server
	mu         sync.Mutex
}

// New creates a new API server instance
func New(
	cfg Config,
	stakeLedger *ledger.Ledger,
	rateRegistry *registry.Registry,
) *Api {
	if cfg.Logger == nil {
		cfg.Logger = slog.New(
			slog.NewJSONHandler(io.Discard, nil),
		)
	}
	if cfg.ListenAddress == "" {
		cfg.ListenAddress = ":3000"
	}
	return &Api{
		config:   cfg,
		logger:   cfg.Logger.With("component", "api"),
		ledger:   stakeLedger,
		registry: rateRegistry,
	}
}

// Handler returns the route table as an http.Handler, used by both the
// server and the tests
func (a *Api) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", a.handleHealth)
	mux.HandleFunc("POST /v1/init", a.requireAdmin(a.handleInit))
	mux.HandleFunc("GET /v1/templates", a.handleListTemplates)
	mux.HandleFunc(
		"PUT /v1/templates/{templateId}",
		a.requireAdmin(a.handleSetTemplateRate),
	)
	mux.HandleFunc(
		"DELETE /v1/templates/{templateId}",
		a.requireAdmin(a.handleRemoveTemplateRate),
	)
	mux.HandleFunc("POST /v1/stakes", a.handleStake)
	mux.HandleFunc("GET /v1/stakes", a.handleListStakes)
	mux.HandleFunc("POST /v1/stakes/{assetId}/claim", a.handleClaim)
	mux.HandleFunc("DELETE /v1/stakes/{assetId}", a.handleUnstake)
	mux.HandleFunc("GET /v1/stakes/{assetId}/receipts", a.handleReceipts)
	return mux
}

// Start starts the HTTP server in a background goroutine
func (a *Api) Start(ctx context.Context) error {
	a.mu.Lock()
	if a.httpServer != nil {
		a.mu.Unlock()
		return errors.New("server already started")
	}
	server := &http.Server{
		Addr:              a.config.ListenAddress,
		Handler:           a.Handler(),
		ReadHeaderTimeout: 60 * time.Second,
	}
	a.httpServer = server
	a.mu.Unlock()

	if err := a.startServer(server); err != nil {
		a.mu.Lock()
		a.httpServer = nil
		a.mu.Unlock()
		return err
	}

	a.logger.Info(
		"API listener started on " + a.config.ListenAddress,
	)

	// Monitor context for cancellation
	go func() {
		<-ctx.Done()
		a.mu.Lock()
		srv := a.httpServer
		a.httpServer = nil
		a.mu.Unlock()
		if srv != nil {
			shutdownCtx, cancel := context.WithTimeout(
				context.Background(),
				30*time.Second,
			)
			defer cancel()
			//nolint:contextcheck
			if err := srv.Shutdown(shutdownCtx); err != nil {
				a.logger.Error(
					"failed to shutdown API server on context cancellation",
					"error", err,
				)
			}
		}
	}()

	return nil
}

// Stop gracefully shuts down the HTTP server
func (a *Api) Stop(ctx context.Context) error {
	a.mu.Lock()
	srv := a.httpServer
	a.httpServer = nil
	a.mu.Unlock()
	if srv != nil {
		a.logger.Debug("shutting down API server")
		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf(
				"failed to shutdown API server: %w",
				err,
			)
		}
	}
	return nil
}

// startServer binds the listening socket first so port conflicts are
// detected immediately, then serves in a background goroutine
func (a *Api) startServer(server *http.Server) error {
	ln, err := net.Listen("tcp", server.Addr)
	if err != nil {
		return fmt.Errorf(
			"failed to listen for API server: %w",
			err,
		)
	}
	go func() {
		if err := server.Serve(ln); err != nil &&
			!errors.Is(err, http.ErrServerClosed) {
			a.logger.Error(
				"API server error",
				"error", err,
			)
		}
	}()
	return nil
}
