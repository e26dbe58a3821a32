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

package logger

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigParseLevel(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		want    zerolog.Level
		wantErr bool
	}{
		{name: "empty defaults to info", config: Config{}, want: zerolog.InfoLevel},
		{name: "explicit level", config: Config{Level: "warn"}, want: zerolog.WarnLevel},
		{name: "debug flag wins", config: Config{Level: "error", Debug: true}, want: zerolog.DebugLevel},
		{name: "invalid level", config: Config{Level: "loud"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.config.ParseLevel()
			if tt.wantErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConfigWriterDefaultsToStderr(t *testing.T) {
	assert.Equal(t, os.Stderr, (&Config{}).Writer())
	assert.Equal(t, os.Stderr, (&Config{Output: "stderr"}).Writer())
	assert.Equal(t, os.Stdout, (&Config{Output: "stdout"}).Writer())
}

func TestNewAppliesLevel(t *testing.T) {
	l, err := New(context.Background(), &Config{Level: "warn", Output: "stderr"})
	require.NoError(t, err)
	assert.Equal(t, zerolog.WarnLevel, l.GetLevel())

	_, err = New(context.Background(), &Config{Level: "nope"})
	require.Error(t, err)
}

func TestNewRejectsIncompleteOTelConfig(t *testing.T) {
	_, err := New(context.Background(), &Config{OTel: OTelConfig{Enabled: true}})
	require.ErrorIs(t, err, ErrOTelEndpointRequired)
}

func TestInitReplacesGlobalLogger(t *testing.T) {
	require.NoError(t, Init(context.Background(), &Config{Debug: true}))
	assert.Equal(t, zerolog.DebugLevel, GetLogger().GetLevel())

	require.NoError(t, Init(context.Background(), &Config{Level: "info"}))
	assert.Equal(t, zerolog.InfoLevel, GetLogger().GetLevel())
}

func TestDefaultConfig(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("LOG_OUTPUT", "")
	t.Setenv("DEBUG", "")
	t.Setenv("OTEL_SERVICE_NAME", "")

	config := DefaultConfig()

	assert.Equal(t, "info", config.Level)
	assert.Equal(t, OutputStderr, config.Output)
	assert.False(t, config.Debug)
	assert.Equal(t, defaultServiceName, config.OTel.ServiceName)
}

func TestDefaultConfigFromEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("DEBUG", "yes")
	t.Setenv("OTEL_LOGS_ENABLED", "true")
	t.Setenv("OTEL_EXPORTER_OTLP_LOGS_ENDPOINT", "collector:4317")
	t.Setenv("OTEL_EXPORTER_OTLP_LOGS_HEADERS", "x-api-key = secret, tenant=pods")
	t.Setenv("OTEL_EXPORTER_OTLP_LOGS_TIMEOUT", "2s")

	config := DefaultConfig()

	assert.Equal(t, "debug", config.Level)
	assert.True(t, config.Debug)
	assert.True(t, config.OTel.Enabled)
	assert.Equal(t, "collector:4317", config.OTel.Endpoint)
	assert.Equal(t, map[string]string{"x-api-key": "secret", "tenant": "pods"}, config.OTel.Headers)
	assert.Equal(t, 2*time.Second, time.Duration(config.OTel.BatchTimeout))
}

func TestMultiWriter(t *testing.T) {
	var a, b bytes.Buffer

	n, err := NewMultiWriter(&a, &b).Write([]byte("line\n"))
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, "line\n", a.String())
	assert.Equal(t, "line\n", b.String())
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("closed") }

type shortWriter struct{}

func (shortWriter) Write(p []byte) (int, error) { return len(p) - 1, nil }

func TestMultiWriterStopsOnFailure(t *testing.T) {
	var after bytes.Buffer

	_, err := NewMultiWriter(failingWriter{}, &after).Write([]byte("x"))
	require.Error(t, err)
	assert.Empty(t, after.String())

	_, err = NewMultiWriter(shortWriter{}).Write([]byte("xy"))
	require.ErrorIs(t, err, io.ErrShortWrite)
}

func TestTestLoggerDiscards(t *testing.T) {
	l := NewTestLogger()
	l.Info().Str("k", "v").Msg("dropped")
	l.SetLevel(zerolog.DebugLevel)
	l.SetDebug(true)

	assert.Nil(t, l.Debug(), "level changes must not re-enable the test logger")

	c := l.WithComponent("scan")
	assert.Equal(t, zerolog.Disabled, c.GetLevel())
}
