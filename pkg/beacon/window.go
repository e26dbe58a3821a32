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

// Package beacon keeps a short, time-bounded history of advertisements so a
// device that drops out of a single scan is not forgotten immediately.
package beacon

import (
	"sync"
	"time"

	"github.com/carverauto/podradar/pkg/models"
)

// DefaultRetention is how long an observation stays eligible for selection.
const DefaultRetention = 10 * time.Second

type entry struct {
	capturedAt time.Time
	obs        models.Observation
}

// Window ranks recent observations by signal strength.
type Window struct {
	mu        sync.Mutex
	entries   []entry
	retention time.Duration
	now       func() time.Time
}

// Option configures a Window.
type Option func(*Window)

// WithClock replaces the wall clock used for insertion stamps and ageing.
func WithClock(now func() time.Time) Option {
	return func(w *Window) {
		if now != nil {
			w.now = now
		}
	}
}

// NewWindow returns an empty window. A non-positive retention falls back to
// DefaultRetention.
func NewWindow(retention time.Duration, opts ...Option) *Window {
	if retention <= 0 {
		retention = DefaultRetention
	}

	w := &Window{
		retention: retention,
		now:       time.Now,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Retention returns the configured retention budget.
func (w *Window) Retention() time.Duration {
	return w.retention
}

// Observe records obs and returns the current leader.
//
// The leader is the strongest observation still inside the retention
// budget. When the leader belongs to the same address as obs, obs itself is
// returned, so a leading device always reports its freshest reading even if
// that reading is weaker than an older one.
func (w *Window) Observe(obs models.Observation) models.Observation {
	w.mu.Lock()
	defer w.mu.Unlock()

	now := w.now()
	w.entries = append(w.entries, entry{capturedAt: now, obs: obs})
	w.pruneLocked(now)

	best, ok := w.strongestLocked()
	if !ok || best.Address == obs.Address {
		return obs
	}

	return best
}

// Prune drops every stale entry and returns how many were removed.
func (w *Window) Prune() int {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.pruneLocked(w.now())
}

// CurrentBest returns the strongest live observation without inserting one.
func (w *Window) CurrentBest() (models.Observation, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.pruneLocked(w.now())

	return w.strongestLocked()
}

// Len returns the number of entries currently held, stale or not.
func (w *Window) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()

	return len(w.entries)
}

// pruneLocked removes entries whose age at now has reached the retention
// budget. Order of the survivors is preserved.
func (w *Window) pruneLocked(now time.Time) int {
	kept := w.entries[:0]

	for _, e := range w.entries {
		if now.Sub(e.capturedAt) >= w.retention {
			continue
		}

		kept = append(kept, e)
	}

	removed := len(w.entries) - len(kept)

	// clear the tail so dropped manufacturer payloads can be collected
	for i := len(kept); i < len(w.entries); i++ {
		w.entries[i] = entry{}
	}

	w.entries = kept

	return removed
}

// strongestLocked returns the highest RSSI entry; the oldest wins ties.
func (w *Window) strongestLocked() (models.Observation, bool) {
	if len(w.entries) == 0 {
		return models.Observation{}, false
	}

	best := w.entries[0].obs
	for _, e := range w.entries[1:] {
		if e.obs.RSSI > best.RSSI {
			best = e.obs
		}
	}

	return best, true
}
