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

// Package registry manages the template rate table: the administrative
// mapping from asset template to reward rate. A missing entry resolves
// to a zero rate, which marks the template ineligible for staking and
// zeroes all future accrual on records that reference it. Rate changes
// never rewrite history; accrual already anchored at a last-claimed
// timestamp is computed with the rate in effect at claim time. The rate
// table is independent of the deployment settings singleton, so an
// administrator can populate it before the ledger is initialized.
package registry

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/mintleaf-io/roost/database"
	"github.com/mintleaf-io/roost/event"
)

// ErrRateNotFound is returned when removing a rate for a template that
// has no entry
var ErrRateNotFound = errors.New("template rate not found")

// TemplateRate is a read-model view of one rate table entry
type TemplateRate struct {
	TemplateId uint64 `json:"templateId"`
	Rate       uint64 `json:"rate"`
}

// Config is the registry configuration
type Config struct {
	Logger   *slog.Logger
	EventBus *event.EventBus
	Database *database.Database
}

// Registry is the template rate registry. Mutations are serialized by a
// mutex so concurrent admin calls cannot interleave.
type Registry struct {
	config Config
	logger *slog.Logger
	db     *database.Database
	mu     sync.Mutex
}

// NewRegistry creates a Registry from the provided config
func NewRegistry(cfg Config) (*Registry, error) {
	if cfg.Database == nil {
		return nil, fmt.Errorf("no database provided")
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(
			slog.NewJSONHandler(io.Discard, nil),
		)
	}
	return &Registry{
		config: cfg,
		logger: cfg.Logger.With("component", "registry"),
		db:     cfg.Database,
	}, nil
}

// SetRate creates or updates the reward rate for a template. A zero rate
// is allowed and marks the template explicitly ineligible.
func (r *Registry) SetRate(templateId, rate uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.db.SetTemplateRate(templateId, rate, nil); err != nil {
		return err
	}
	r.publishChange(templateId, rate, false)
	r.logger.Info(
		"template rate set",
		"templateId", templateId,
		"rate", rate,
	)
	return nil
}

// RemoveRate deletes the rate entry for a template. Existing stake
// records for the template survive, but their future accrual resolves
// to zero.
func (r *Registry) RemoveRate(templateId uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.db.DeleteTemplateRate(templateId, nil); err != nil {
		if errors.Is(err, database.ErrTemplateRateNotFound) {
			return fmt.Errorf("%w: template %d", ErrRateNotFound, templateId)
		}
		return err
	}
	r.publishChange(templateId, 0, true)
	r.logger.Info(
		"template rate removed",
		"templateId", templateId,
	)
	return nil
}

// GetRate returns the rate for a template. A missing entry resolves to
// zero, never an error.
func (r *Registry) GetRate(templateId uint64) (uint64, error) {
	return r.db.GetTemplateRate(templateId, nil)
}

// List returns all configured template rates in template id order
func (r *Registry) List() ([]TemplateRate, error) {
	rates, err := r.db.ListTemplateRates(nil)
	if err != nil {
		return nil, err
	}
	ret := make([]TemplateRate, 0, len(rates))
	for _, rate := range rates {
		ret = append(ret, TemplateRate{
			TemplateId: rate.TemplateId,
			Rate:       uint64(rate.Rate),
		})
	}
	return ret, nil
}

func (r *Registry) publishChange(templateId, rate uint64, removed bool) {
	if r.config.EventBus == nil {
		return
	}
	r.config.EventBus.Publish(
		event.RateChangedEventType,
		event.NewEvent(
			event.RateChangedEventType,
			event.RateChangedEvent{
				TemplateId: templateId,
				Rate:       rate,
				Removed:    removed,
			},
		),
	)
}
