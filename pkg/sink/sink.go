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

// Package sink delivers per-tick records to their destination.
package sink

import (
	"context"
	"errors"
	"strings"

	"github.com/carverauto/podradar/pkg/models"
)

//go:generate mockgen -destination=mock_sink.go -package=sink github.com/carverauto/podradar/pkg/sink Sink

// Sink receives one record per tick.
type Sink interface {
	Write(ctx context.Context, rec models.Record) error
	Close() error
}

const (
	TypeConsole = "console"
	TypeFile    = "file"
	TypeNATS    = "nats"
	TypeMQTT    = "mqtt"
)

var (
	ErrUnknownSink    = errors.New("unknown sink type")
	ErrMissingPath    = errors.New("file sink requires a path")
	ErrMissingNATSURL = errors.New("nats sink requires a url")
	ErrMissingSubject = errors.New("nats sink requires a subject")
	ErrMissingBroker  = errors.New("mqtt sink requires a broker")
	ErrMissingTopic   = errors.New("mqtt sink requires a topic")
	ErrPublish        = errors.New("failed to publish record")
	ErrConnect        = errors.New("failed to connect")
)

// Config selects and configures the output sink.
type Config struct {
	Type    string        `json:"type" yaml:"type"`
	Path    string        `json:"path" yaml:"path"`
	NATS    NATSConfig    `json:"nats" yaml:"nats"`
	MQTT    MQTTConfig    `json:"mqtt" yaml:"mqtt"`
	Breaker BreakerConfig `json:"breaker" yaml:"breaker"`
}

type NATSConfig struct {
	URL     string `json:"url" yaml:"url"`
	Subject string `json:"subject" yaml:"subject"`
	Source  string `json:"source" yaml:"source"`
}

type MQTTConfig struct {
	Broker   string          `json:"broker" yaml:"broker"`
	Topic    string          `json:"topic" yaml:"topic"`
	ClientID string          `json:"client_id" yaml:"client_id"`
	Timeout  models.Duration `json:"timeout" yaml:"timeout"`
}

// ResolveType applies the selection rule: an explicit type wins, then a
// configured path selects the file sink, then the console.
func (c Config) ResolveType() string {
	if t := strings.ToLower(strings.TrimSpace(c.Type)); t != "" {
		return t
	}

	if c.Path != "" {
		return TypeFile
	}

	return TypeConsole
}
