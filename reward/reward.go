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

// Package reward implements the reward accrual computation. Accrual is a
// pure function of elapsed wall-clock time and the configured per-period
// rate; it keeps no state of its own.
package reward

import (
	"errors"
	"fmt"
	"math"
	"math/big"
)

const (
	// PeriodHourly denominates rates in minimal units per hour
	PeriodHourly = 3600
	// PeriodDaily denominates rates in minimal units per day
	PeriodDaily = 86400
)

// ErrInvalidSchedule is returned when constructing a schedule with a zero
// period or an empty currency symbol
var ErrInvalidSchedule = errors.New("invalid accrual schedule")

// Schedule describes how rewards accrue for one deployment: the accrual
// period the rates are denominated in, and the currency the rewards are
// paid in.
type Schedule struct {
	periodSeconds uint64
	symbol        Symbol
}

// NewSchedule creates an accrual schedule. The period is a pluggable
// deployment parameter rather than a constant because different
// deployments of the same ledger logic accrue hourly or daily.
func NewSchedule(periodSeconds uint64, symbol Symbol) (Schedule, error) {
	if periodSeconds == 0 {
		return Schedule{}, fmt.Errorf(
			"%w: period must be non-zero",
			ErrInvalidSchedule,
		)
	}
	if symbol.Code == "" {
		return Schedule{}, fmt.Errorf(
			"%w: currency symbol must be set",
			ErrInvalidSchedule,
		)
	}
	return Schedule{
		periodSeconds: periodSeconds,
		symbol:        symbol,
	}, nil
}

// PeriodSeconds returns the accrual period in seconds
func (s Schedule) PeriodSeconds() uint64 {
	return s.periodSeconds
}

// Symbol returns the currency the schedule pays rewards in
func (s Schedule) Symbol() Symbol {
	return s.symbol
}

// Accrue computes the reward accrued between lastClaimed and now at the
// given per-period rate, in minimal currency units.
//
//	reward = floor(elapsed_seconds * rate / periodSeconds)
//
// The truncating division is intentional and must be preserved exactly:
// it determines payout amounts, and an independent auditor recomputing
// historical payouts must arrive at the same values. Elapsed time clamps
// to zero when now precedes lastClaimed, and a quotient beyond the
// uint64 range saturates at MaxUint64 rather than wrapping.
func (s Schedule) Accrue(now, lastClaimed, rate uint64) Amount {
	var elapsed uint64
	if now > lastClaimed {
		elapsed = now - lastClaimed
	}
	// The elapsed*rate product can exceed 64 bits for large rates over
	// long intervals, so the intermediate math uses big.Int
	units := new(big.Int).SetUint64(elapsed)
	units.Mul(units, new(big.Int).SetUint64(rate))
	units.Div(units, new(big.Int).SetUint64(s.periodSeconds))
	if !units.IsUint64() {
		return Amount{
			Units:  math.MaxUint64,
			Symbol: s.symbol,
		}
	}
	return Amount{
		Units:  units.Uint64(),
		Symbol: s.symbol,
	}
}
