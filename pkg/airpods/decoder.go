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
	"time"

	"github.com/carverauto/podradar/pkg/models"
)

// Nibble offsets into the hex payload.
const (
	modelIndex    = 7
	flipIndex     = 10
	rightIndex    = 12
	leftIndex     = 13
	chargingIndex = 14
	caseIndex     = 15
)

const (
	flipMask        = 0x2
	chargingSlotOne = 0x1
	chargingSlotTwo = 0x2
	chargingCase    = 0x4

	fullChargeNibble = 10
)

var modelTable = map[byte]models.Model{
	'e': models.ModelAirPodsPro,
	'4': models.ModelAirPodsPro2,
	'3': models.ModelAirPods3,
	'f': models.ModelAirPods2,
	'2': models.ModelAirPods1,
	'a': models.ModelAirPodsMax,
}

// Decode turns an accepted candidate into a status record.
func Decode(c Candidate, capturedAt time.Time) models.DecodedStatus {
	return DecodeHex(c.Observation.Address, c.RawHex, capturedAt)
}

// DecodeHex decodes a raw hex payload. It never fails: nibbles that are
// missing or out of range degrade to an unknown model or charge.
func DecodeHex(address, raw string, capturedAt time.Time) models.DecodedStatus {
	flipped := isFlipped(raw)

	left, right := leftIndex, rightIndex
	leftBit, rightBit := uint8(chargingSlotOne), uint8(chargingSlotTwo)

	if flipped {
		left, right = right, left
		leftBit, rightBit = rightBit, leftBit
	}

	flags, _ := nibble(raw, chargingIndex)

	return models.DecodedStatus{
		Address:       address,
		Model:         decodeModel(raw),
		Left:          decodeCharge(raw, left),
		Right:         decodeCharge(raw, right),
		Case:          decodeCharge(raw, caseIndex),
		ChargingLeft:  flags&leftBit != 0,
		ChargingRight: flags&rightBit != 0,
		ChargingCase:  flags&chargingCase != 0,
		Flipped:       flipped,
		CapturedAt:    capturedAt,
		RawHex:        raw,
	}
}

// isFlipped reports whether the left and right slots are swapped.
func isFlipped(raw string) bool {
	v, _ := nibble(raw, flipIndex)

	return v&flipMask == 0
}

func decodeModel(raw string) models.Model {
	if modelIndex >= len(raw) {
		return models.ModelUnknown
	}

	if m, ok := modelTable[lower(raw[modelIndex])]; ok {
		return m
	}

	return models.ModelUnknown
}

// decodeCharge maps a level nibble: 0-9 to 5..95, 10 to 100, anything
// else to unknown.
func decodeCharge(raw string, idx int) models.Charge {
	v, ok := nibble(raw, idx)

	switch {
	case !ok:
		return models.UnknownCharge()
	case v == fullChargeNibble:
		return models.ChargeOf(100)
	case v < fullChargeNibble:
		return models.ChargeOf(int(v)*10 + 5)
	default:
		return models.UnknownCharge()
	}
}

// nibble parses the hex digit at idx.
func nibble(raw string, idx int) (uint8, bool) {
	if idx < 0 || idx >= len(raw) {
		return 0, false
	}

	c := lower(raw[idx])

	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	default:
		return 0, false
	}
}

func lower(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + ('a' - 'A')
	}

	return c
}
