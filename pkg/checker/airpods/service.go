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

// Package airpods implements the poll cycle that turns BLE discovery passes
// into one AirPods status record per tick.
package airpods

import (
	"context"
	"errors"
	"time"

	pods "github.com/carverauto/podradar/pkg/airpods"
	"github.com/carverauto/podradar/pkg/beacon"
	"github.com/carverauto/podradar/pkg/logger"
	"github.com/carverauto/podradar/pkg/metrics"
	"github.com/carverauto/podradar/pkg/models"
	"github.com/carverauto/podradar/pkg/scan"
	"github.com/carverauto/podradar/pkg/sink"
)

// Service runs scanner → window → filter → decoder → sink.
type Service struct {
	log        logger.Logger
	scanner    scan.Scanner
	window     *beacon.Window
	filter     pods.Filter
	out        sink.Sink
	recorder   metrics.Recorder
	interval   time.Duration
	emitMisses bool
	now        func() time.Time
}

// NewService wires a poll cycle. cfg is expected to be validated already.
func NewService(
	log logger.Logger,
	cfg *Config,
	scanner scan.Scanner,
	window *beacon.Window,
	out sink.Sink,
	recorder metrics.Recorder,
) *Service {
	if recorder == nil {
		recorder = metrics.Nop{}
	}

	return &Service{
		log:        log,
		scanner:    scanner,
		window:     window,
		filter:     pods.NewFilter(cfg.MinRSSI),
		out:        out,
		recorder:   recorder,
		interval:   cfg.PollInterval(),
		emitMisses: cfg.EmitMisses,
		now:        time.Now,
	}
}

// Tick runs one discovery pass. Observations are fed to the window in scan
// order and the window leader after each one is run through the filter; the
// first leader that passes is decoded and ends the pass. A scan error is
// returned as is.
func (s *Service) Tick(ctx context.Context) (models.Record, error) {
	observations, err := s.scanner.Discover(ctx)
	if err != nil {
		return models.Record{}, err
	}

	for _, obs := range observations {
		leader := s.window.Observe(obs)

		candidate, err := s.filter.Candidate(leader)
		if err != nil {
			s.log.Trace().
				Str("address", leader.Address).
				Int("rssi", leader.RSSI).
				Err(err).
				Msg("Leader rejected")

			continue
		}

		status := pods.Decode(candidate, s.now())

		s.log.Debug().
			Str("address", status.Address).
			Str("model", status.Model.String()).
			Int("rssi", leader.RSSI).
			Bool("flipped", status.Flipped).
			Msg("Decoded AirPods status")

		return models.FoundRecord(status), nil
	}

	return models.NotFoundRecord(), nil
}

// Run ticks until ctx is cancelled, sleeping the poll interval between
// ticks. Scan and sink failures are logged and counted.
func (s *Service) Run(ctx context.Context) error {
	s.log.Info().
		Dur("interval", s.interval).
		Dur("retention", s.window.Retention()).
		Int("min_rssi", s.filter.MinRSSI).
		Bool("emit_misses", s.emitMisses).
		Msg("Starting poll loop")

	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info().Msg("Poll loop stopped")

			return nil
		case <-timer.C:
		}

		s.cycle(ctx)

		timer.Reset(s.interval)
	}
}

func (s *Service) cycle(ctx context.Context) {
	start := s.now()

	rec, err := s.Tick(ctx)
	if err != nil {
		if ctx.Err() != nil && errors.Is(err, ctx.Err()) {
			return
		}

		s.recorder.ScanFailed()
		s.log.Warn().Err(err).Msg("Discovery pass failed")

		return
	}

	s.recorder.TickCompleted(rec.Found(), s.now().Sub(start))

	if status, ok := rec.Status(); ok {
		s.recorder.StatusDecoded(status)
	} else if !s.emitMisses {
		return
	}

	if err := s.out.Write(ctx, rec); err != nil {
		s.recorder.SinkFailed()
		s.log.Error().Err(err).Bool("found", rec.Found()).Msg("Failed to write record")
	}
}
