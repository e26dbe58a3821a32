/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package beacon

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carverauto/podradar/pkg/models"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestWindow(t *testing.T) (*Window, *fakeClock) {
	t.Helper()

	clock := &fakeClock{t: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)}

	return NewWindow(DefaultRetention, WithClock(clock.Now)), clock
}

func obs(addr string, rssi int) models.Observation {
	return models.Observation{Address: addr, RSSI: rssi}
}

func TestObserveSameAddressOverridesRSSI(t *testing.T) {
	t.Parallel()

	w, _ := newTestWindow(t)

	first := w.Observe(obs("a", 10))
	assert.Equal(t, 10, first.RSSI)

	second := w.Observe(obs("a", 5))
	assert.Equal(t, "a", second.Address)
	assert.Equal(t, 5, second.RSSI, "latest reading of the leader is returned")
	assert.Equal(t, 2, w.Len())
}

func TestObserveStrongerDeviceTakesOver(t *testing.T) {
	t.Parallel()

	w, _ := newTestWindow(t)

	w.Observe(obs("a", 10))

	leader := w.Observe(obs("b", 20))
	assert.Equal(t, "b", leader.Address)

	leader = w.Observe(obs("a", 12))
	assert.Equal(t, "b", leader.Address, "weaker device cannot regain leadership")
	assert.Equal(t, 20, leader.RSSI)
}

func TestObserveReturnsOlderStrongerEntryForOtherAddress(t *testing.T) {
	t.Parallel()

	w, _ := newTestWindow(t)

	w.Observe(obs("a", -40))
	leader := w.Observe(obs("b", -80))
	assert.Equal(t, "a", leader.Address)
	assert.Equal(t, -40, leader.RSSI)
}

func TestObserveTieKeepsFirstSeen(t *testing.T) {
	t.Parallel()

	w, _ := newTestWindow(t)

	w.Observe(obs("a", -50))
	leader := w.Observe(obs("b", -50))
	assert.Equal(t, "a", leader.Address)
}

func TestObserveEvictsAtRetention(t *testing.T) {
	t.Parallel()

	w, clock := newTestWindow(t)

	w.Observe(obs("strong", 30))

	clock.Advance(DefaultRetention - time.Nanosecond)
	leader := w.Observe(obs("weak", -90))
	assert.Equal(t, "strong", leader.Address, "entry is still live just before the budget")

	clock.Advance(time.Nanosecond)
	leader = w.Observe(obs("weak", -91))
	assert.Equal(t, "weak", leader.Address, "entry inserted at T is gone at T+retention")
	assert.Equal(t, -91, leader.RSSI)
	assert.Equal(t, 2, w.Len())
}

func TestPruneAndCurrentBest(t *testing.T) {
	t.Parallel()

	w, clock := newTestWindow(t)

	_, ok := w.CurrentBest()
	assert.False(t, ok)

	w.Observe(obs("a", -60))
	clock.Advance(4 * time.Second)
	w.Observe(obs("b", -70))

	best, ok := w.CurrentBest()
	require.True(t, ok)
	assert.Equal(t, "a", best.Address)

	clock.Advance(7 * time.Second)
	assert.Equal(t, 1, w.Prune())

	best, ok = w.CurrentBest()
	require.True(t, ok)
	assert.Equal(t, "b", best.Address)

	clock.Advance(10 * time.Second)
	assert.Equal(t, 1, w.Prune())
	assert.Zero(t, w.Len())
}

func TestNewWindowDefaults(t *testing.T) {
	t.Parallel()

	assert.Equal(t, DefaultRetention, NewWindow(0).Retention())
	assert.Equal(t, 3*time.Second, NewWindow(3*time.Second).Retention())
}
