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

package metrics

import (
	"time"

	"github.com/carverauto/podradar/pkg/models"
)

//go:generate mockgen -destination=mock_recorder.go -package=metrics github.com/carverauto/podradar/pkg/metrics Recorder

// Recorder receives poll cycle measurements.
type Recorder interface {
	TickCompleted(found bool, d time.Duration)
	ScanFailed()
	SinkFailed()
	StatusDecoded(status models.DecodedStatus)
}

// Nop discards every measurement.
type Nop struct{}

func (Nop) TickCompleted(bool, time.Duration)  {}
func (Nop) ScanFailed()                        {}
func (Nop) SinkFailed()                        {}
func (Nop) StatusDecoded(models.DecodedStatus) {}
