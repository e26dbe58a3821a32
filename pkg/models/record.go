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

const (
	// StatusNotFound marks a tick in which no candidate survived filtering.
	StatusNotFound = 0
	// StatusFound marks a tick that produced a decoded status.
	StatusFound = 1

	notFoundModel = "AirPods not found"

	// RecordDateLayout is the layout of the record "date" field.
	RecordDateLayout = "2006-01-02 15:04:05"
)

// Record is the per-tick output unit written to sinks.
type Record struct {
	status *DecodedStatus
}

// NotFoundRecord returns the record emitted when nothing was found.
func NotFoundRecord() Record {
	return Record{}
}

// FoundRecord wraps a decoded status.
func FoundRecord(status DecodedStatus) Record {
	return Record{status: &status}
}

// Found reports whether the record carries a decoded status.
func (r Record) Found() bool {
	return r.status != nil
}

// Status returns the decoded status of a found record.
func (r Record) Status() (DecodedStatus, bool) {
	if r.status == nil {
		return DecodedStatus{}, false
	}

	return *r.status, true
}

type chargeSet struct {
	Left  Charge `json:"left"`
	Right Charge `json:"right"`
	Case  Charge `json:"case"`
}

type foundRecord struct {
	Address       string    `json:"address"`
	Status        int       `json:"status"`
	Charge        chargeSet `json:"charge"`
	ChargingLeft  bool      `json:"charging_left"`
	ChargingRight bool      `json:"charging_right"`
	ChargingCase  bool      `json:"charging_case"`
	Model         Model     `json:"model"`
	Date          string    `json:"date"`
	Raw           string    `json:"raw"`
}

type notFoundRecord struct {
	Status int    `json:"status"`
	Model  string `json:"model"`
}

// MarshalJSON renders the record in its line format. Key order is stable.
func (r Record) MarshalJSON() ([]byte, error) {
	if r.status == nil {
		return json.Marshal(notFoundRecord{Status: StatusNotFound, Model: notFoundModel})
	}

	s := r.status

	return json.Marshal(foundRecord{
		Address: s.Address,
		Status:  StatusFound,
		Charge: chargeSet{
			Left:  s.Left,
			Right: s.Right,
			Case:  s.Case,
		},
		ChargingLeft:  s.ChargingLeft,
		ChargingRight: s.ChargingRight,
		ChargingCase:  s.ChargingCase,
		Model:         s.Model,
		Date:          formatDate(s.CapturedAt),
		Raw:           s.RawHex,
	})
}

func formatDate(t time.Time) string {
	return t.Local().Format(RecordDateLayout)
}
