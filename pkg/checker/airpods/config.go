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
	"errors"
	"fmt"
	"math"
	"time"

	pods "github.com/carverauto/podradar/pkg/airpods"
	"github.com/carverauto/podradar/pkg/beacon"
	"github.com/carverauto/podradar/pkg/logger"
	"github.com/carverauto/podradar/pkg/scan"
	"github.com/carverauto/podradar/pkg/sink"
)

const (
	defaultPollInterval = time.Second
	minPollInterval     = 100 * time.Millisecond
	maxPollInterval     = 5 * time.Minute

	minScanTimeout = 500 * time.Millisecond
	maxScanTimeout = time.Minute
)

var (
	errInvalidRetention = errors.New("retention_seconds must be greater than zero")
	errInvalidRSSI      = errors.New("min_rssi must be between -127 and 20 dBm")
)

// Config is the airpods checker configuration.
type Config struct {
	PollIntervalSeconds float64       `json:"poll_interval_seconds" yaml:"poll_interval_seconds"`
	MinRSSI             int           `json:"min_rssi" yaml:"min_rssi"`
	RetentionSeconds    float64       `json:"retention_seconds" yaml:"retention_seconds"`
	ScanTimeoutSeconds  float64       `json:"scan_timeout_seconds" yaml:"scan_timeout_seconds"`
	EmitMisses          bool          `json:"emit_misses" yaml:"emit_misses"`
	MetricsAddr         string        `json:"metrics_addr" yaml:"metrics_addr"`
	Output              sink.Config   `json:"output" yaml:"output"`
	Logging             logger.Config `json:"logging" yaml:"logging"`
}

// DefaultConfig returns the configuration used when nothing is overridden.
func DefaultConfig() *Config {
	return &Config{
		PollIntervalSeconds: defaultPollInterval.Seconds(),
		MinRSSI:             pods.DefaultMinRSSI,
		RetentionSeconds:    beacon.DefaultRetention.Seconds(),
		ScanTimeoutSeconds:  scan.DefaultScanTimeout.Seconds(),
		EmitMisses:          true,
		Logging:             *logger.DefaultConfig(),
	}
}

// Normalize clamps the intervals into their supported ranges.
func (c *Config) Normalize() {
	c.PollIntervalSeconds = clampSeconds(c.PollIntervalSeconds, defaultPollInterval, minPollInterval, maxPollInterval)
	c.ScanTimeoutSeconds = clampSeconds(c.ScanTimeoutSeconds, scan.DefaultScanTimeout, minScanTimeout, maxScanTimeout)
}

// Validate normalizes c and rejects values that cannot be clamped.
func (c *Config) Validate() error {
	c.Normalize()

	if !(c.RetentionSeconds > 0) || math.IsInf(c.RetentionSeconds, 0) {
		return fmt.Errorf("%w: %v", errInvalidRetention, c.RetentionSeconds)
	}

	if c.MinRSSI < -127 || c.MinRSSI > 20 {
		return fmt.Errorf("%w: %d", errInvalidRSSI, c.MinRSSI)
	}

	return nil
}

func (c *Config) PollInterval() time.Duration {
	return seconds(c.PollIntervalSeconds)
}

func (c *Config) Retention() time.Duration {
	return seconds(c.RetentionSeconds)
}

func (c *Config) ScanTimeout() time.Duration {
	return seconds(c.ScanTimeoutSeconds)
}

func clampSeconds(v float64, def, lo, hi time.Duration) float64 {
	switch {
	case v == 0 || math.IsNaN(v):
		return def.Seconds()
	case v < lo.Seconds():
		return lo.Seconds()
	case v > hi.Seconds():
		return hi.Seconds()
	default:
		return v
	}
}

func seconds(v float64) time.Duration {
	return time.Duration(v * float64(time.Second))
}
