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

package sink

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/carverauto/podradar/pkg/logger"
	"github.com/carverauto/podradar/pkg/models"
)

const (
	defaultBreakerMaxFailures uint32 = 5
	defaultBreakerTimeout            = 30 * time.Second
	defaultBreakerInterval           = 60 * time.Second
)

var ErrBreakerOpen = errors.New("sink circuit open")

// BreakerConfig tunes the circuit breaker placed in front of network sinks.
type BreakerConfig struct {
	MaxFailures uint32          `json:"max_failures" yaml:"max_failures"`
	Timeout     models.Duration `json:"timeout" yaml:"timeout"`
	Interval    models.Duration `json:"interval" yaml:"interval"`
}

// BreakerSink fails fast while the wrapped sink keeps failing.
type BreakerSink struct {
	inner   Sink
	breaker *gobreaker.CircuitBreaker[struct{}]
}

// WithBreaker wraps inner in a circuit breaker named after the sink type.
func WithBreaker(name string, inner Sink, cfg BreakerConfig, log logger.Logger) *BreakerSink {
	maxFailures := cfg.MaxFailures
	if maxFailures == 0 {
		maxFailures = defaultBreakerMaxFailures
	}

	timeout := time.Duration(cfg.Timeout)
	if timeout <= 0 {
		timeout = defaultBreakerTimeout
	}

	interval := time.Duration(cfg.Interval)
	if interval <= 0 {
		interval = defaultBreakerInterval
	}

	cb := gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
		Name:        "sink:" + name,
		MaxRequests: 1,
		Interval:    interval,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		IsSuccessful: isBreakerSuccess,
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("Sink circuit breaker state change")
		},
	})

	return &BreakerSink{inner: inner, breaker: cb}
}

func (s *BreakerSink) Write(ctx context.Context, rec models.Record) error {
	_, err := s.breaker.Execute(func() (struct{}, error) {
		return struct{}{}, s.inner.Write(ctx, rec)
	})

	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%w: %w", ErrBreakerOpen, err)
	}

	return err
}

// isBreakerSuccess keeps shutdown cancellation from counting against the sink.
func isBreakerSuccess(err error) bool {
	return err == nil || errors.Is(err, context.Canceled)
}

// State reports the breaker state.
func (s *BreakerSink) State() gobreaker.State {
	return s.breaker.State()
}

func (s *BreakerSink) Close() error {
	return s.inner.Close()
}
