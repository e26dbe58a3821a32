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
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/carverauto/podradar/pkg/logger"
	"github.com/carverauto/podradar/pkg/models"
)

const (
	defaultMQTTClientID = "podradar"
	defaultMQTTTimeout  = 5 * time.Second
	mqttQoS             = 0
	mqttDisconnectQuiet = 250 // milliseconds
)

// MQTTSink publishes each record as JSON on an MQTT topic.
type MQTTSink struct {
	client  mqtt.Client
	topic   string
	timeout time.Duration
}

// NewMQTTSink connects to cfg.Broker and returns a sink publishing to cfg.Topic.
func NewMQTTSink(cfg MQTTConfig, log logger.Logger) (*MQTTSink, error) {
	if cfg.Broker == "" {
		return nil, ErrMissingBroker
	}

	if cfg.Topic == "" {
		return nil, ErrMissingTopic
	}

	clientID := cfg.ClientID
	if clientID == "" {
		clientID = defaultMQTTClientID
	}

	timeout := time.Duration(cfg.Timeout)
	if timeout <= 0 {
		timeout = defaultMQTTTimeout
	}

	opts := mqtt.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectTimeout(timeout).
		SetConnectionLostHandler(func(_ mqtt.Client, err error) {
			log.Warn().Err(err).Str("broker", cfg.Broker).Msg("MQTT connection lost")
		})

	client := mqtt.NewClient(opts)

	token := client.Connect()
	if !token.WaitTimeout(timeout) {
		return nil, fmt.Errorf("%w to MQTT broker %s: timed out", ErrConnect, cfg.Broker)
	}

	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("%w to MQTT broker %s: %w", ErrConnect, cfg.Broker, err)
	}

	return newMQTTSink(client, cfg.Topic, timeout), nil
}

func newMQTTSink(client mqtt.Client, topic string, timeout time.Duration) *MQTTSink {
	return &MQTTSink{client: client, topic: topic, timeout: timeout}
}

func (s *MQTTSink) Write(ctx context.Context, rec models.Record) error {
	line, err := encodeLine(rec)
	if err != nil {
		return err
	}

	token := s.client.Publish(s.topic, mqttQoS, false, line[:len(line)-1])

	return waitToken(ctx, token, s.timeout, s.topic)
}

func (s *MQTTSink) Close() error {
	s.client.Disconnect(mqttDisconnectQuiet)

	return nil
}

func waitToken(ctx context.Context, token mqtt.Token, timeout time.Duration, topic string) error {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-token.Done():
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return fmt.Errorf("%w to %s: timed out after %s", ErrPublish, topic, timeout)
	}

	if err := token.Error(); err != nil {
		return fmt.Errorf("%w to %s: %w", ErrPublish, topic, err)
	}

	return nil
}
