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

package registry

import (
	"testing"
	"time"

	"github.com/mintleaf-io/roost/database"
	"github.com/mintleaf-io/roost/event"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRegistry(t *testing.T) (*Registry, *database.Database) {
	t.Helper()
	db, err := database.New(
		&database.Config{
			DataDir: t.TempDir(),
		},
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		db.Close() //nolint:errcheck
	})
	reg, err := NewRegistry(Config{Database: db})
	require.NoError(t, err)
	return reg, db
}

func TestSetRateBeforeInit(t *testing.T) {
	// Rate administration works on a fresh database; the rate table does
	// not depend on the deployment settings singleton
	reg, _ := newTestRegistry(t)
	require.NoError(t, reg.SetRate(7, 1000))
	rate, err := reg.GetRate(7)
	require.NoError(t, err)
	assert.Equal(t, uint64(1000), rate)
	require.NoError(t, reg.RemoveRate(7))
}

func TestSetAndGetRate(t *testing.T) {
	reg, _ := newTestRegistry(t)

	require.NoError(t, reg.SetRate(7, 1000))
	rate, err := reg.GetRate(7)
	require.NoError(t, err)
	assert.Equal(t, uint64(1000), rate)

	// Updates replace the existing entry
	require.NoError(t, reg.SetRate(7, 2500))
	rate, err = reg.GetRate(7)
	require.NoError(t, err)
	assert.Equal(t, uint64(2500), rate)

	// Missing entries resolve to zero
	rate, err = reg.GetRate(99)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), rate)
}

func TestRemoveRate(t *testing.T) {
	reg, _ := newTestRegistry(t)

	require.NoError(t, reg.SetRate(7, 1000))
	require.NoError(t, reg.RemoveRate(7))

	rate, err := reg.GetRate(7)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), rate)

	err = reg.RemoveRate(7)
	assert.ErrorIs(t, err, ErrRateNotFound)
}

func TestList(t *testing.T) {
	reg, _ := newTestRegistry(t)

	require.NoError(t, reg.SetRate(9, 300))
	require.NoError(t, reg.SetRate(3, 100))
	require.NoError(t, reg.SetRate(5, 200))

	rates, err := reg.List()
	require.NoError(t, err)
	require.Len(t, rates, 3)
	assert.Equal(
		t,
		[]TemplateRate{
			{TemplateId: 3, Rate: 100},
			{TemplateId: 5, Rate: 200},
			{TemplateId: 9, Rate: 300},
		},
		rates,
	)
}

func TestRateChangeEvents(t *testing.T) {
	db, err := database.New(
		&database.Config{
			DataDir: t.TempDir(),
		},
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		db.Close() //nolint:errcheck
	})

	bus := event.NewEventBus(nil, nil)
	defer bus.Stop()
	reg, err := NewRegistry(Config{Database: db, EventBus: bus})
	require.NoError(t, err)

	_, evtCh := bus.Subscribe(event.RateChangedEventType)

	require.NoError(t, reg.SetRate(7, 1000))
	require.NoError(t, reg.RemoveRate(7))

	expected := []event.RateChangedEvent{
		{TemplateId: 7, Rate: 1000, Removed: false},
		{TemplateId: 7, Rate: 0, Removed: true},
	}
	for _, want := range expected {
		select {
		case evt := <-evtCh:
			got, ok := evt.Data.(event.RateChangedEvent)
			require.True(t, ok)
			assert.Equal(t, want, got)
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for rate change event")
		}
	}
}
