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

// Package airpods recognises AirPods proximity pairing advertisements and
// decodes their battery and charging nibbles.
package airpods

import (
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/carverauto/podradar/pkg/models"
)

const (
	// DefaultMinRSSI is the weakest signal still considered nearby.
	DefaultMinRSSI = -70
	// PayloadHexLength is the length of a proximity pairing payload in hex characters.
	PayloadHexLength = 54

	typeNibbleIndex    = 1
	proximityTypeValue = 0x7
)

// Rejection reasons returned by Filter.Candidate.
var (
	ErrWeakSignal          = errors.New("signal below threshold")
	ErrNoAppleData         = errors.New("no apple manufacturer data")
	ErrPayloadLength       = errors.New("unexpected payload length")
	ErrNotProximityPairing = errors.New("not a proximity pairing message")
)

// Candidate is an observation that passed the filter, with its payload in hex.
type Candidate struct {
	Observation models.Observation
	RawHex      string
}

// Filter decides whether an observation looks like an AirPods beacon.
type Filter struct {
	MinRSSI int
}

// NewFilter returns a filter with the given RSSI threshold.
func NewFilter(minRSSI int) Filter {
	return Filter{MinRSSI: minRSSI}
}

// Candidate validates obs and returns its hex payload. The returned error
// names the first check that failed.
func (f Filter) Candidate(obs models.Observation) (Candidate, error) {
	if obs.RSSI < f.MinRSSI {
		return Candidate{}, fmt.Errorf("%w: %d < %d", ErrWeakSignal, obs.RSSI, f.MinRSSI)
	}

	data, ok := obs.ManufacturerPayload(models.AppleCompanyID)
	if !ok {
		return Candidate{}, ErrNoAppleData
	}

	raw := hex.EncodeToString(data)
	if len(raw) != PayloadHexLength {
		return Candidate{}, fmt.Errorf("%w: %d hex chars", ErrPayloadLength, len(raw))
	}

	if v, ok := nibble(raw, typeNibbleIndex); !ok || v != proximityTypeValue {
		return Candidate{}, fmt.Errorf("%w: type nibble %q", ErrNotProximityPairing, raw[typeNibbleIndex])
	}

	return Candidate{Observation: obs, RawHex: raw}, nil
}

// Accept reports whether obs passes every check.
func (f Filter) Accept(obs models.Observation) bool {
	_, err := f.Candidate(obs)

	return err == nil
}
