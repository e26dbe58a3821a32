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

// Package models pkg/models/observation.go
package models

import "time"

// AppleCompanyID is the Bluetooth SIG company identifier carried in the
// manufacturer data of Apple continuity advertisements.
const AppleCompanyID uint16 = 76

// Observation is a single advertisement seen during a discovery pass.
type Observation struct {
	CapturedAt       time.Time
	Address          string
	RSSI             int
	ManufacturerData map[uint16][]byte
}

// ManufacturerPayload returns the manufacturer data stored under id.
func (o Observation) ManufacturerPayload(id uint16) ([]byte, bool) {
	if o.ManufacturerData == nil {
		return nil, false
	}

	data, ok := o.ManufacturerData[id]

	return data, ok
}
