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

package models

import (
	"encoding/json"
	"time"
)

// Model identifies the product inside the AirPods family.
type Model int

const (
	ModelUnknown Model = iota
	ModelAirPods1
	ModelAirPods2
	ModelAirPods3
	ModelAirPodsPro
	ModelAirPodsPro2
	ModelAirPodsMax
)

var modelNames = map[Model]string{
	ModelUnknown:     "unknown",
	ModelAirPods1:    "AirPods1",
	ModelAirPods2:    "AirPods2",
	ModelAirPods3:    "AirPods3",
	ModelAirPodsPro:  "AirPodsPro",
	ModelAirPodsPro2: "AirPodsPro2",
	ModelAirPodsMax:  "AirPodsMax",
}

// String returns the name used on the wire.
func (m Model) String() string {
	if name, ok := modelNames[m]; ok {
		return name
	}

	return modelNames[ModelUnknown]
}

// MarshalJSON encodes the model as its wire name.
func (m Model) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

// unknownChargeWire is what the record format uses for a component with no reading.
const unknownChargeWire = -1

// Charge is a battery percentage that may be unknown, e.g. a bud that is
// out of range or a case that is not reporting.
type Charge struct {
	percent int
	known   bool
}

// ChargeOf returns a known charge.
func ChargeOf(percent int) Charge {
	return Charge{percent: percent, known: true}
}

// UnknownCharge returns a charge with no reading.
func UnknownCharge() Charge {
	return Charge{}
}

// Percent returns the percentage and whether it is known.
func (c Charge) Percent() (int, bool) {
	return c.percent, c.known
}

// Known reports whether the component reported a level.
func (c Charge) Known() bool {
	return c.known
}

// Wire returns the record representation, -1 when unknown.
func (c Charge) Wire() int {
	if !c.known {
		return unknownChargeWire
	}

	return c.percent
}

// MarshalJSON encodes the charge in record form.
func (c Charge) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Wire())
}

// DecodedStatus is the battery and charging state decoded from one
// proximity pairing advertisement.
type DecodedStatus struct {
	Address       string
	Model         Model
	Left          Charge
	Right         Charge
	Case          Charge
	ChargingLeft  bool
	ChargingRight bool
	ChargingCase  bool
	// Flipped is set when the right bud reports into the left slot.
	Flipped    bool
	CapturedAt time.Time
	RawHex     string
}
