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

package airpods

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, time.Second, cfg.PollInterval())
	assert.Equal(t, -70, cfg.MinRSSI)
	assert.Equal(t, 10*time.Second, cfg.Retention())
	assert.Equal(t, 5*time.Second, cfg.ScanTimeout())
	assert.True(t, cfg.EmitMisses)
	assert.Empty(t, cfg.MetricsAddr)
	assert.Equal(t, "stderr", cfg.Logging.Output)
}

func TestConfigNormalizeClamps(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		poll, scan   float64
		wantPoll     time.Duration
		wantScanTime time.Duration
	}{
		{name: "zero uses defaults", wantPoll: time.Second, wantScanTime: 5 * time.Second},
		{name: "too small", poll: 0.01, scan: 0.1, wantPoll: 100 * time.Millisecond, wantScanTime: 500 * time.Millisecond},
		{name: "negative", poll: -3, scan: -1, wantPoll: 100 * time.Millisecond, wantScanTime: 500 * time.Millisecond},
		{name: "too large", poll: 1e6, scan: math.Inf(1), wantPoll: 5 * time.Minute, wantScanTime: time.Minute},
		{name: "in range", poll: 2.5, scan: 8, wantPoll: 2500 * time.Millisecond, wantScanTime: 8 * time.Second},
		{name: "nan", poll: math.NaN(), scan: math.NaN(), wantPoll: time.Second, wantScanTime: 5 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := &Config{PollIntervalSeconds: tt.poll, ScanTimeoutSeconds: tt.scan}
			cfg.Normalize()

			assert.Equal(t, tt.wantPoll, cfg.PollInterval())
			assert.Equal(t, tt.wantScanTime, cfg.ScanTimeout())
		})
	}
}

func TestConfigValidateRejects(t *testing.T) {
	t.Parallel()

	for _, retention := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		cfg := DefaultConfig()
		cfg.RetentionSeconds = retention
		require.ErrorIs(t, cfg.Validate(), errInvalidRetention, "retention %v", retention)
	}

	for _, rssi := range []int{-128, 21} {
		cfg := DefaultConfig()
		cfg.MinRSSI = rssi
		require.ErrorIs(t, cfg.Validate(), errInvalidRSSI, "rssi %d", rssi)
	}
}
