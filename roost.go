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

// Package roost wires the stake ledger daemon together: database, stake
// ledger, rate registry, event bus, external service clients, and the
// REST API server.
package roost

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/mintleaf-io/roost/api"
	"github.com/mintleaf-io/roost/database"
	"github.com/mintleaf-io/roost/event"
	"github.com/mintleaf-io/roost/ledger"
	"github.com/mintleaf-io/roost/oracle"
	"github.com/mintleaf-io/roost/registry"
	"github.com/mintleaf-io/roost/reward"
	"github.com/mintleaf-io/roost/treasury"
)

type Node struct {
	config       Config
	eventBus     *event.EventBus
	db           *database.Database
	stakeLedger  *ledger.Ledger
	rateRegistry *registry.Registry
	apiServer    *api.Api
	oracle       oracle.Oracle
	gateway      treasury.Gateway
	done         chan struct{}
	shutdownOnce sync.Once
}

func New(cfg Config) (*Node, error) {
	n := &Node{
		config:   cfg,
		eventBus: event.NewEventBus(cfg.promRegistry, cfg.logger),
		done:     make(chan struct{}),
	}
	if err := n.configValidate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return n, nil
}

// Ledger returns the stake ledger. It is nil until Run is called.
func (n *Node) Ledger() *ledger.Ledger {
	return n.stakeLedger
}

// Registry returns the rate registry. It is nil until Run is called.
func (n *Node) Registry() *registry.Registry {
	return n.rateRegistry
}

// Oracle returns the ownership oracle in use. In dev mode this is a
// *oracle.Static that assets can be registered with.
func (n *Node) Oracle() oracle.Oracle {
	return n.oracle
}

// Gateway returns the treasury gateway in use. In dev mode this is a
// *treasury.Recorder.
func (n *Node) Gateway() treasury.Gateway {
	return n.gateway
}

func (n *Node) Run(ctx context.Context) error {
	// Load database
	db, err := database.New(
		&database.Config{
			DataDir:      n.config.dataDir,
			Logger:       n.config.logger,
			PromRegistry: n.config.promRegistry,
		},
	)
	if db == nil {
		return errors.New("empty database returned")
	}
	n.db = db
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	// Configure external services
	if n.config.devMode {
		n.oracle = oracle.NewStatic()
		n.gateway = treasury.NewRecorder()
	} else {
		n.oracle = oracle.NewClient(n.config.oracleURL)
		n.gateway = treasury.NewClient(n.config.treasuryURL)
	}
	// Build accrual schedule
	schedule, err := reward.NewSchedule(
		n.config.accrualPeriod,
		n.config.rewardSymbol,
	)
	if err != nil {
		return err
	}
	// Load stake ledger
	n.stakeLedger, err = ledger.NewLedger(
		ledger.Config{
			Logger:                  n.config.logger,
			PromRegistry:            n.config.promRegistry,
			EventBus:                n.eventBus,
			Database:                n.db,
			Oracle:                  n.oracle,
			Gateway:                 n.gateway,
			Schedule:                schedule,
			RecheckOwnershipOnClaim: n.config.recheckClaim,
			Custodial:               n.config.custodial,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to load stake ledger: %w", err)
	}
	// Load rate registry
	n.rateRegistry, err = registry.NewRegistry(
		registry.Config{
			Logger:   n.config.logger,
			EventBus: n.eventBus,
			Database: n.db,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to load rate registry: %w", err)
	}
	// Start API server
	n.apiServer = api.New(
		api.Config{
			Logger:        n.config.logger,
			ListenAddress: n.config.listenAddress,
			AdminToken:    n.config.adminToken,
		},
		n.stakeLedger,
		n.rateRegistry,
	)
	if err := n.apiServer.Start(ctx); err != nil {
		return err
	}

	// Wait for shutdown signal
	<-n.done
	return nil
}

func (n *Node) Stop() error {
	var err error
	n.shutdownOnce.Do(func() {
		err = n.shutdown()
	})
	return err
}

func (n *Node) shutdown() error {
	shutdownTimeout := 30 * time.Second
	if n.config.shutdownTimeout > 0 {
		shutdownTimeout = n.config.shutdownTimeout
	}
	ctx, cancel := context.WithTimeout(
		context.Background(),
		shutdownTimeout,
	)
	defer cancel()

	var err error

	n.config.logger.Debug("starting graceful shutdown")

	// Stop accepting new requests
	if n.apiServer != nil {
		if stopErr := n.apiServer.Stop(ctx); stopErr != nil {
			err = errors.Join(
				err,
				fmt.Errorf("api shutdown: %w", stopErr),
			)
		}
	}

	// Flush state and close the database
	if n.db != nil {
		if closeErr := n.db.Close(); closeErr != nil {
			err = errors.Join(
				err,
				fmt.Errorf("database close: %w", closeErr),
			)
		}
	}

	if n.eventBus != nil {
		n.eventBus.Stop()
	}

	n.config.logger.Debug("graceful shutdown complete")
	close(n.done)
	return err
}
