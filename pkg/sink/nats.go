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
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"github.com/carverauto/podradar/pkg/logger"
	"github.com/carverauto/podradar/pkg/models"
)

const (
	defaultNATSSource  = "podradar/checker"
	natsConnectTimeout = 5 * time.Second
	natsFlushTimeout   = 5 * time.Second
)

// NATSSink publishes each record as a CloudEvent on a NATS subject.
type NATSSink struct {
	nc      *nats.Conn
	subject string
	source  string
	logger  logger.Logger
	now     func() time.Time
}

// NewNATSSink connects to cfg.URL and returns a sink publishing to cfg.Subject.
func NewNATSSink(cfg NATSConfig, log logger.Logger, opts ...nats.Option) (*NATSSink, error) {
	if cfg.URL == "" {
		return nil, ErrMissingNATSURL
	}

	if cfg.Subject == "" {
		return nil, ErrMissingSubject
	}

	opts = append([]nats.Option{
		nats.Name("podradar"),
		nats.Timeout(natsConnectTimeout),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				log.Warn().Err(err).Msg("NATS disconnected")
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info().Str("url", nc.ConnectedUrl()).Msg("NATS reconnected")
		}),
	}, opts...)

	nc, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w to NATS: %w", ErrConnect, err)
	}

	return newNATSSink(nc, cfg, log), nil
}

func newNATSSink(nc *nats.Conn, cfg NATSConfig, log logger.Logger) *NATSSink {
	source := cfg.Source
	if source == "" {
		source = defaultNATSSource
	}

	return &NATSSink{
		nc:      nc,
		subject: cfg.Subject,
		source:  source,
		logger:  log,
		now:     time.Now,
	}
}

func (s *NATSSink) Write(ctx context.Context, rec models.Record) error {
	ts := s.now()
	if status, ok := rec.Status(); ok && !status.CapturedAt.IsZero() {
		ts = status.CapturedAt
	}

	event := models.CloudEvent{
		SpecVersion:     models.CloudEventSpecVersion,
		ID:              uuid.New().String(),
		Source:          s.source,
		Type:            models.StatusEventType,
		DataContentType: "application/json",
		Subject:         s.subject,
		Time:            &ts,
		Data:            rec,
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal status event: %w", err)
	}

	if err := s.nc.Publish(s.subject, payload); err != nil {
		return fmt.Errorf("%w to %s: %w", ErrPublish, s.subject, err)
	}

	if err := s.flush(ctx); err != nil {
		return fmt.Errorf("%w to %s: %w", ErrPublish, s.subject, err)
	}

	s.logger.Debug().Str("event_id", event.ID).Str("subject", s.subject).Msg("Published status event")

	return nil
}

// flush waits for the server to acknowledge pending publishes. nats.go
// refuses contexts without a deadline, so one is added when missing.
func (s *NATSSink) flush(ctx context.Context) error {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, natsFlushTimeout)
		defer cancel()
	}

	return s.nc.FlushWithContext(ctx)
}

func (s *NATSSink) Close() error {
	if err := s.nc.Drain(); err != nil {
		s.nc.Close()

		return err
	}

	return nil
}
