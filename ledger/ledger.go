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

// Package ledger implements the stake ledger state machine. It owns the
// lifecycle of every stake record (stake, claim, unstake), delegates
// ownership checks to the oracle, accrual math to the reward schedule,
// and payouts to the treasury gateway, and keeps all of its state in the
// database layer.
//
// Every mutating operation is serialized and atomic: the operation
// either fully applies (state mutation plus any payout, committed
// together) or leaves no trace. A failed disbursement rolls the staged
// mutation back.
package ledger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/mintleaf-io/roost/database"
	"github.com/mintleaf-io/roost/database/models"
	"github.com/mintleaf-io/roost/database/types"
	"github.com/mintleaf-io/roost/event"
	"github.com/mintleaf-io/roost/oracle"
	"github.com/mintleaf-io/roost/reward"
	"github.com/mintleaf-io/roost/treasury"
	"github.com/prometheus/client_golang/prometheus"
)

// Memo strings attached to outgoing transfers. These are part of the
// external payout record and must not change between releases.
const (
	memoClaimReward   = "Staking reward"
	memoUnstakeReward = "Final staking reward"
	memoUnstakeReturn = "Unstaked NFT"
)

// Config is the ledger configuration
type Config struct {
	Logger       *slog.Logger
	PromRegistry prometheus.Registerer
	EventBus     *event.EventBus
	Database     *database.Database
	Oracle       oracle.Oracle
	Gateway      treasury.Gateway
	Schedule     reward.Schedule
	// RecheckOwnershipOnClaim re-verifies ownership through the oracle
	// on every claim, rejecting claims for assets the owner has since
	// transferred away. Only meaningful for non-custodial deployments.
	RecheckOwnershipOnClaim bool
	// Custodial marks deposit-based deployments, where staked assets are
	// held by the treasury and returned on unstake
	Custodial bool
	// TimeNow overrides the wall clock, used by tests
	TimeNow func() time.Time
}

// StakeInfo is a read-model view of one stake record, including the
// reward accrued but not yet claimed as of the query
type StakeInfo struct {
	AssetId     uint64 `json:"assetId"`
	Owner       string `json:"owner"`
	TemplateId  uint64 `json:"templateId"`
	StakedAt    uint64 `json:"stakedAt"`
	LastClaimed uint64 `json:"lastClaimed"`
	Accrued     uint64 `json:"accrued"`
}

type ledgerMetrics struct {
	opsTotal     *prometheus.CounterVec
	unitsPaid    prometheus.Counter
	activeStakes prometheus.Gauge
}

// Ledger is the stake ledger. Mutating operations are serialized by a
// single mutex, which gives the operation-level atomicity and ordering
// the accrual math depends on.
type Ledger struct {
	config  Config
	logger  *slog.Logger
	db      *database.Database
	metrics *ledgerMetrics
	mu      sync.Mutex
}

// NewLedger creates a Ledger from the provided config
func NewLedger(cfg Config) (*Ledger, error) {
	if cfg.Database == nil {
		return nil, fmt.Errorf("no database provided")
	}
	if cfg.Oracle == nil {
		return nil, fmt.Errorf("no ownership oracle provided")
	}
	if cfg.Gateway == nil {
		return nil, fmt.Errorf("no treasury gateway provided")
	}
	if cfg.Schedule.PeriodSeconds() == 0 {
		return nil, fmt.Errorf("no accrual schedule provided")
	}
	if cfg.TimeNow == nil {
		cfg.TimeNow = time.Now
	}
	if cfg.Logger == nil {
		// Default logger throws away logs
		cfg.Logger = slog.New(
			slog.NewJSONHandler(io.Discard, nil),
		)
	}
	l := &Ledger{
		config: cfg,
		logger: cfg.Logger.With("component", "ledger"),
		db:     cfg.Database,
	}
	if cfg.PromRegistry != nil {
		l.initMetrics(cfg.PromRegistry)
		count, err := l.db.CountStakes(nil)
		if err != nil {
			return nil, fmt.Errorf("failed to count stakes: %w", err)
		}
		l.metrics.activeStakes.Set(float64(count))
	}
	return l, nil
}

func (l *Ledger) initMetrics(promRegistry prometheus.Registerer) {
	l.metrics = &ledgerMetrics{
		opsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_operations_total",
				Help: "total ledger operations by type",
			},
			[]string{"op"},
		),
		unitsPaid: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "ledger_reward_units_paid_total",
				Help: "total reward units disbursed",
			},
		),
		activeStakes: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "ledger_active_stakes",
				Help: "current live stake record count",
			},
		),
	}
	promRegistry.MustRegister(l.metrics.opsTotal)
	promRegistry.MustRegister(l.metrics.unitsPaid)
	promRegistry.MustRegister(l.metrics.activeStakes)
}

// Schedule returns the accrual schedule the ledger was configured with
func (l *Ledger) Schedule() reward.Schedule {
	return l.config.Schedule
}

// Initialized reports whether the ledger settings have been written
func (l *Ledger) Initialized() (bool, error) {
	settings, err := l.db.GetSettings(nil)
	if err != nil {
		return false, err
	}
	return settings != nil, nil
}

// Initialize writes the ledger settings singleton. The settings are
// write-once: a second call fails with ErrAlreadyInitialized and changes
// nothing.
func (l *Ledger) Initialize(
	tokenContract, assetsContract, collection string,
) error {
	if tokenContract == "" || assetsContract == "" || collection == "" {
		return fmt.Errorf(
			"%w: token contract, assets contract, and collection are required",
			ErrInvalidRequest,
		)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	txn := l.db.Transaction(true)
	err := txn.Do(func(txn *database.Txn) error {
		settings, err := l.db.GetSettings(txn)
		if err != nil {
			return err
		}
		if settings != nil {
			return ErrAlreadyInitialized
		}
		return l.db.SetSettings(
			tokenContract,
			assetsContract,
			collection,
			txn,
		)
	})
	if err != nil {
		return err
	}
	l.logger.Info(
		"ledger initialized",
		"tokenContract", tokenContract,
		"assetsContract", assetsContract,
		"collection", collection,
	)
	return nil
}

// Stake creates stake records for a batch of assets owned by owner. The
// batch is atomic: a failure on any asset rejects the whole batch, and
// no records are created. Accrual for each asset starts at the moment
// the batch commits.
func (l *Ledger) Stake(
	ctx context.Context,
	owner string,
	assetIds []uint64,
) error {
	if owner == "" {
		return fmt.Errorf("%w: owner is required", ErrInvalidRequest)
	}
	if len(assetIds) == 0 {
		return fmt.Errorf(
			"%w: at least one asset id is required",
			ErrInvalidRequest,
		)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	settings, err := l.db.GetSettings(nil)
	if err != nil {
		return err
	}
	if settings == nil {
		return ErrNotInitialized
	}
	// Verify ownership and eligibility for the whole batch before
	// staging any records
	seen := make(map[uint64]struct{}, len(assetIds))
	infos := make([]*oracle.AssetInfo, 0, len(assetIds))
	for _, assetId := range assetIds {
		if _, ok := seen[assetId]; ok {
			return fmt.Errorf(
				"%w: duplicate asset %d in batch",
				ErrInvalidRequest,
				assetId,
			)
		}
		seen[assetId] = struct{}{}
		// The already-staked check comes before the ownership check so a
		// second stake of the same asset fails AlreadyStaked regardless
		// of caller
		existing, err := l.db.GetStake(assetId, nil)
		if err != nil {
			return err
		}
		if existing != nil {
			return fmt.Errorf("%w: asset %d", ErrAlreadyStaked, assetId)
		}
		info, err := l.config.Oracle.OwnsAsset(ctx, owner, assetId)
		if err != nil {
			return fmt.Errorf("ownership lookup failed: %w", err)
		}
		if info == nil || info.Collection != settings.Collection {
			return fmt.Errorf(
				"%w: asset %d",
				ErrOwnershipInvalid,
				assetId,
			)
		}
		rate, err := l.db.GetTemplateRate(info.TemplateId, nil)
		if err != nil {
			return err
		}
		if rate == 0 {
			return fmt.Errorf(
				"%w: asset %d (template %d)",
				ErrNotEligible,
				assetId,
				info.TemplateId,
			)
		}
		infos = append(infos, info)
	}
	now := l.now()
	txn := l.db.Transaction(true)
	err = txn.Do(func(txn *database.Txn) error {
		for _, info := range infos {
			existing, err := l.db.GetStake(info.AssetId, txn)
			if err != nil {
				return err
			}
			if existing != nil {
				return fmt.Errorf(
					"%w: asset %d",
					ErrAlreadyStaked,
					info.AssetId,
				)
			}
			record := &models.StakeRecord{
				AssetId:     types.Uint64(info.AssetId),
				Owner:       owner,
				TemplateId:  info.TemplateId,
				StakedAt:    now,
				LastClaimed: now,
			}
			if err := l.db.AddStake(record, txn); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	for _, info := range infos {
		l.publishEvent(
			event.StakedEventType,
			event.StakedEvent{
				AssetId:    info.AssetId,
				Owner:      owner,
				TemplateId: info.TemplateId,
				StakedAt:   now,
			},
		)
	}
	if l.metrics != nil {
		l.metrics.opsTotal.WithLabelValues("stake").Inc()
		l.metrics.activeStakes.Add(float64(len(infos)))
	}
	l.logger.Info(
		"staked assets",
		"owner", owner,
		"count", len(infos),
	)
	return nil
}

// Claim pays out the reward accrued on a staked asset since the last
// claim and advances the record's accrual anchor. The timestamp advance,
// payout receipt, and transfer commit together: a failed transfer rolls
// everything back and the accrual remains claimable.
func (l *Ledger) Claim(
	ctx context.Context,
	caller string,
	assetId uint64,
) (reward.Amount, error) {
	if caller == "" {
		return reward.Amount{}, fmt.Errorf(
			"%w: caller is required",
			ErrInvalidRequest,
		)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	var amount reward.Amount
	now := l.now()
	txn := l.db.Transaction(true)
	err := txn.Do(func(txn *database.Txn) error {
		record, settings, err := l.loadOwnedStake(txn, caller, assetId)
		if err != nil {
			return err
		}
		if l.config.RecheckOwnershipOnClaim && !l.config.Custodial {
			// Same predicate as stake-time verification, collection
			// membership included
			info, err := l.config.Oracle.OwnsAsset(ctx, caller, assetId)
			if err != nil {
				return fmt.Errorf("ownership lookup failed: %w", err)
			}
			if info == nil || info.Collection != settings.Collection {
				return ErrOwnershipInvalid
			}
		}
		rate, err := l.db.GetTemplateRate(record.TemplateId, txn)
		if err != nil {
			return err
		}
		amount = l.config.Schedule.Accrue(now, record.LastClaimed, rate)
		if amount.IsZero() {
			return ErrNothingAccrued
		}
		if err := l.db.SetStakeLastClaimed(assetId, now, txn); err != nil {
			return err
		}
		err = l.db.AddReceipt(
			&database.Receipt{
				AssetId: assetId,
				Owner:   caller,
				Amount:  amount.Units,
				Symbol:  amount.Symbol.String(),
				Memo:    memoClaimReward,
				PaidAt:  now,
			},
			txn,
		)
		if err != nil {
			return err
		}
		// The transfer happens inside the transaction scope so that a
		// gateway failure unwinds the staged timestamp and receipt
		if err := l.config.Gateway.Transfer(
			ctx,
			caller,
			amount,
			memoClaimReward,
		); err != nil {
			return fmt.Errorf("%w: %w", ErrTransferFailed, err)
		}
		return nil
	})
	if err != nil {
		return reward.Amount{}, err
	}
	l.publishEvent(
		event.ClaimedEventType,
		event.ClaimedEvent{
			AssetId: assetId,
			Owner:   caller,
			Units:   amount.Units,
			Symbol:  amount.Symbol.String(),
			PaidAt:  now,
		},
	)
	if l.metrics != nil {
		l.metrics.opsTotal.WithLabelValues("claim").Inc()
		l.metrics.unitsPaid.Add(float64(amount.Units))
	}
	l.logger.Info(
		"claimed reward",
		"owner", caller,
		"assetId", assetId,
		"amount", amount.String(),
	)
	return amount, nil
}

// Unstake removes the stake record for an asset, paying out any final
// accrued reward along the way. Unlike Claim, a zero accrual is not an
// error: the record is removed and no payment is made. In custodial
// deployments the asset itself is returned to the owner as part of the
// same atomic operation.
func (l *Ledger) Unstake(
	ctx context.Context,
	caller string,
	assetId uint64,
) (reward.Amount, error) {
	if caller == "" {
		return reward.Amount{}, fmt.Errorf(
			"%w: caller is required",
			ErrInvalidRequest,
		)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	var amount reward.Amount
	now := l.now()
	txn := l.db.Transaction(true)
	err := txn.Do(func(txn *database.Txn) error {
		record, _, err := l.loadOwnedStake(txn, caller, assetId)
		if err != nil {
			return err
		}
		rate, err := l.db.GetTemplateRate(record.TemplateId, txn)
		if err != nil {
			return err
		}
		amount = l.config.Schedule.Accrue(now, record.LastClaimed, rate)
		if err := l.db.DeleteStake(assetId, txn); err != nil {
			return err
		}
		if !amount.IsZero() {
			err = l.db.AddReceipt(
				&database.Receipt{
					AssetId: assetId,
					Owner:   caller,
					Amount:  amount.Units,
					Symbol:  amount.Symbol.String(),
					Memo:    memoUnstakeReward,
					PaidAt:  now,
				},
				txn,
			)
			if err != nil {
				return err
			}
			if err := l.config.Gateway.Transfer(
				ctx,
				caller,
				amount,
				memoUnstakeReward,
			); err != nil {
				return fmt.Errorf("%w: %w", ErrTransferFailed, err)
			}
		}
		if l.config.Custodial {
			if err := l.config.Gateway.ReturnAssets(
				ctx,
				caller,
				[]uint64{assetId},
				memoUnstakeReturn,
			); err != nil {
				return fmt.Errorf("%w: %w", ErrTransferFailed, err)
			}
		}
		return nil
	})
	if err != nil {
		return reward.Amount{}, err
	}
	l.publishEvent(
		event.UnstakedEventType,
		event.UnstakedEvent{
			AssetId:  assetId,
			Owner:    caller,
			Units:    amount.Units,
			Symbol:   amount.Symbol.String(),
			Returned: l.config.Custodial,
		},
	)
	if l.metrics != nil {
		l.metrics.opsTotal.WithLabelValues("unstake").Inc()
		l.metrics.unitsPaid.Add(float64(amount.Units))
		l.metrics.activeStakes.Dec()
	}
	l.logger.Info(
		"unstaked asset",
		"owner", caller,
		"assetId", assetId,
		"amount", amount.String(),
	)
	return amount, nil
}

// StakesByOwner returns all live stake records for an account, each with
// the reward accrued but not yet claimed as of now
func (l *Ledger) StakesByOwner(owner string) ([]StakeInfo, error) {
	settings, err := l.db.GetSettings(nil)
	if err != nil {
		return nil, err
	}
	if settings == nil {
		return nil, ErrNotInitialized
	}
	records, err := l.db.StakesByOwner(owner, nil)
	if err != nil {
		return nil, err
	}
	now := l.now()
	ret := make([]StakeInfo, 0, len(records))
	for _, record := range records {
		rate, err := l.db.GetTemplateRate(record.TemplateId, nil)
		if err != nil {
			return nil, err
		}
		accrued := l.config.Schedule.Accrue(now, record.LastClaimed, rate)
		ret = append(ret, StakeInfo{
			AssetId:     uint64(record.AssetId),
			Owner:       record.Owner,
			TemplateId:  record.TemplateId,
			StakedAt:    record.StakedAt,
			LastClaimed: record.LastClaimed,
			Accrued:     accrued.Units,
		})
	}
	return ret, nil
}

// Receipts returns the payout receipts recorded for an asset in payout
// order
func (l *Ledger) Receipts(assetId uint64) ([]database.Receipt, error) {
	return l.db.ReceiptsForAsset(assetId, nil)
}

// loadOwnedStake fetches a stake record and checks the caller against
// its owning account
func (l *Ledger) loadOwnedStake(
	txn *database.Txn,
	caller string,
	assetId uint64,
) (*models.StakeRecord, *models.Settings, error) {
	settings, err := l.db.GetSettings(txn)
	if err != nil {
		return nil, nil, err
	}
	if settings == nil {
		return nil, nil, ErrNotInitialized
	}
	record, err := l.db.GetStake(assetId, txn)
	if err != nil {
		return nil, nil, err
	}
	if record == nil {
		return nil, nil, fmt.Errorf("%w: asset %d", ErrNotFound, assetId)
	}
	if record.Owner != caller {
		return nil, nil, ErrNotOwner
	}
	return record, settings, nil
}

func (l *Ledger) now() uint64 {
	now := l.config.TimeNow().Unix()
	if now < 0 {
		return 0
	}
	return uint64(now)
}

func (l *Ledger) publishEvent(eventType event.EventType, data any) {
	if l.config.EventBus == nil {
		return
	}
	l.config.EventBus.Publish(
		eventType,
		event.NewEvent(eventType, data),
	)
}
