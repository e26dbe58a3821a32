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

package lifecycle

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carverauto/podradar/pkg/logger"
)

func TestCreateComponentLogger(t *testing.T) {
	l, err := CreateComponentLogger(context.Background(), "poll", &logger.Config{Level: "warn"})
	require.NoError(t, err)

	impl, ok := l.(*LoggerImpl)
	require.True(t, ok)
	assert.Equal(t, zerolog.WarnLevel, impl.logger.GetLevel())

	l.SetDebug(true)
	assert.Equal(t, zerolog.DebugLevel, impl.logger.GetLevel())

	l.SetDebug(false)
	assert.Equal(t, zerolog.InfoLevel, impl.logger.GetLevel())
}

func TestCreateComponentLoggerInvalidLevel(t *testing.T) {
	_, err := CreateComponentLogger(context.Background(), "poll", &logger.Config{Level: "shout"})
	require.Error(t, err)
}

func TestWithSignalsCancelFunc(t *testing.T) {
	ctx, cancel := WithSignalCancel(context.Background())
	cancel()

	<-ctx.Done()
	require.ErrorIs(t, ctx.Err(), context.Canceled)
}
