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

// Package scan runs BLE discovery passes and turns advertisements into
// observations.
package scan

import (
	"context"

	"github.com/carverauto/podradar/pkg/models"
)

//go:generate mockgen -destination=mock_scanner.go -package=scan github.com/carverauto/podradar/pkg/scan Scanner

// Scanner performs one bounded discovery pass and returns the devices it
// heard, one observation per address in first-seen order.
type Scanner interface {
	Discover(ctx context.Context) ([]models.Observation, error)
}
