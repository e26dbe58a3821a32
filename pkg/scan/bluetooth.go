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

package scan

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"tinygo.org/x/bluetooth"

	"github.com/carverauto/podradar/pkg/logger"
	"github.com/carverauto/podradar/pkg/models"
)

const (
	// DefaultScanTimeout matches the length of a typical discover pass.
	DefaultScanTimeout = 5 * time.Second

	defaultStopGrace = 2 * time.Second
)

// advertisement is the subset of a scan result the scanner keeps.
type advertisement struct {
	address          string
	rssi             int
	manufacturerData map[uint16][]byte
}

// radio is the piece of the bluetooth adapter the scanner drives.
type radio interface {
	Enable() error
	Scan(fn func(advertisement)) error
	StopScan() error
}

type tinygoRadio struct {
	adapter *bluetooth.Adapter
}

func (r tinygoRadio) Enable() error {
	return r.adapter.Enable()
}

func (r tinygoRadio) Scan(fn func(advertisement)) error {
	return r.adapter.Scan(func(_ *bluetooth.Adapter, result bluetooth.ScanResult) {
		adv := advertisement{
			address: result.Address.String(),
			rssi:    int(result.RSSI),
		}

		for _, el := range result.ManufacturerData() {
			if adv.manufacturerData == nil {
				adv.manufacturerData = make(map[uint16][]byte)
			}

			adv.manufacturerData[el.CompanyID] = append([]byte(nil), el.Data...)
		}

		fn(adv)
	})
}

func (r tinygoRadio) StopScan() error {
	return r.adapter.StopScan()
}

// BluetoothScanner discovers nearby devices with the host bluetooth adapter.
type BluetoothScanner struct {
	ScanTimeout time.Duration

	radio     radio
	logger    logger.Logger
	now       func() time.Time
	stopGrace time.Duration

	enableOnce sync.Once
	enableErr  error
	scanning   atomic.Bool
}

// NewBluetoothScanner returns a scanner over bluetooth.DefaultAdapter.
func NewBluetoothScanner(timeout time.Duration, log logger.Logger) *BluetoothScanner {
	return newBluetoothScanner(tinygoRadio{adapter: bluetooth.DefaultAdapter}, timeout, log)
}

func newBluetoothScanner(r radio, timeout time.Duration, log logger.Logger) *BluetoothScanner {
	if timeout <= 0 {
		timeout = DefaultScanTimeout
	}

	return &BluetoothScanner{
		ScanTimeout: timeout,
		radio:       r,
		logger:      log,
		now:         time.Now,
		stopGrace:   defaultStopGrace,
	}
}

// Discover scans for ScanTimeout and returns the latest advertisement of
// every address heard. Cancelling ctx ends the pass early with ctx.Err().
// The scanner stays busy until the radio's Scan call returns, even when
// Discover gave up waiting for it.
func (s *BluetoothScanner) Discover(ctx context.Context) ([]models.Observation, error) {
	if !s.scanning.CompareAndSwap(false, true) {
		return nil, ErrScanInProgress
	}

	s.enableOnce.Do(func() {
		s.enableErr = s.radio.Enable()
	})

	if s.enableErr != nil {
		s.scanning.Store(false)

		return nil, fmt.Errorf("%w: %w", ErrAdapterEnable, s.enableErr)
	}

	scanCtx, cancel := context.WithTimeout(ctx, s.ScanTimeout)
	defer cancel()

	seen := newCollector()
	done := make(chan error, 1)

	go func() {
		err := s.radio.Scan(func(adv advertisement) {
			seen.add(adv, s.now())
		})

		s.scanning.Store(false)
		done <- err
	}()

	select {
	case err := <-done:
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanFailed, err)
		}
	case <-scanCtx.Done():
		if err := s.stop(done); err != nil {
			return nil, err
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	obs := seen.observations()

	s.logger.Debug().
		Int("devices", len(obs)).
		Dur("timeout", s.ScanTimeout).
		Msg("Discovery pass complete")

	return obs, nil
}

// stop asks the radio to end the scan and waits for Scan to return. The
// request is repeated once in case it raced the start of the scan.
func (s *BluetoothScanner) stop(done <-chan error) error {
	for attempt := 0; attempt < 2; attempt++ {
		if err := s.radio.StopScan(); err != nil {
			s.logger.Debug().Err(err).Int("attempt", attempt+1).Msg("StopScan failed")
		}

		select {
		case err := <-done:
			if err != nil {
				s.logger.Debug().Err(err).Msg("Scan returned error after stop")
			}

			return nil
		case <-time.After(s.stopGrace):
		}
	}

	return ErrStopTimeout
}

// collector keeps the latest advertisement per address in first-seen order.
type collector struct {
	mu    sync.Mutex
	order []string
	byKey map[string]models.Observation
}

func newCollector() *collector {
	return &collector{byKey: make(map[string]models.Observation)}
}

func (c *collector) add(adv advertisement, at time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.byKey[adv.address]; !ok {
		c.order = append(c.order, adv.address)
	}

	c.byKey[adv.address] = models.Observation{
		CapturedAt:       at,
		Address:          adv.address,
		RSSI:             adv.rssi,
		ManufacturerData: adv.manufacturerData,
	}
}

func (c *collector) observations() []models.Observation {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]models.Observation, 0, len(c.order))
	for _, addr := range c.order {
		out = append(out, c.byKey[addr])
	}

	return out
}
