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

package event

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestSubscribePublish(t *testing.T) {
	bus := NewEventBus(nil, nil)
	defer bus.Stop()

	subId, evtCh := bus.Subscribe(StakedEventType)
	defer bus.Unsubscribe(StakedEventType, subId)

	bus.Publish(
		StakedEventType,
		NewEvent(StakedEventType, StakedEvent{
			AssetId: 7,
			Owner:   "alice",
		}),
	)

	select {
	case evt := <-evtCh:
		require.Equal(t, StakedEventType, evt.Type)
		data, ok := evt.Data.(StakedEvent)
		require.True(t, ok)
		assert.Equal(t, uint64(7), data.AssetId)
		assert.Equal(t, "alice", data.Owner)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
	}
}

func TestPublishWithoutSubscribers(t *testing.T) {
	bus := NewEventBus(nil, nil)
	defer bus.Stop()
	// Publishing with no subscribers must not block or panic
	bus.Publish(
		ClaimedEventType,
		NewEvent(ClaimedEventType, ClaimedEvent{AssetId: 1}),
	)
}

func TestSubscribeFunc(t *testing.T) {
	bus := NewEventBus(nil, nil)
	defer bus.Stop()

	var wg sync.WaitGroup
	wg.Add(1)
	var got UnstakedEvent
	bus.SubscribeFunc(
		UnstakedEventType,
		func(evt Event) {
			got = evt.Data.(UnstakedEvent)
			wg.Done()
		},
	)

	bus.Publish(
		UnstakedEventType,
		NewEvent(UnstakedEventType, UnstakedEvent{
			AssetId: 42,
			Owner:   "bob",
			Units:   500,
		}),
	)

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for handler")
	}
	assert.Equal(t, uint64(42), got.AssetId)
	assert.Equal(t, uint64(500), got.Units)
}

func TestUnsubscribe(t *testing.T) {
	bus := NewEventBus(nil, nil)
	defer bus.Stop()

	subId, evtCh := bus.Subscribe(RateChangedEventType)
	bus.Unsubscribe(RateChangedEventType, subId)

	// Channel is closed after unsubscribe
	_, ok := <-evtCh
	assert.False(t, ok)
}
