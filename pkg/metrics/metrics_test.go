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
	"context"
	"io"
	"net"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carverauto/podradar/pkg/logger"
	"github.com/carverauto/podradar/pkg/models"
)

func TestPrometheusCounters(t *testing.T) {
	t.Parallel()

	p := NewPrometheus()

	p.TickCompleted(true, 2*time.Second)
	p.TickCompleted(false, time.Second)
	p.TickCompleted(false, time.Second)
	p.ScanFailed()
	p.SinkFailed()
	p.SinkFailed()

	assert.InDelta(t, 1, testutil.ToFloat64(p.ticks.WithLabelValues(resultFound)), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(p.ticks.WithLabelValues(resultNotFound)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(p.scanErrors), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(p.sinkErrors), 0)
	assert.Equal(t, 1, testutil.CollectAndCount(p.tickDuration))
}

func TestPrometheusStatusGauges(t *testing.T) {
	t.Parallel()

	p := NewPrometheus()
	p.StatusDecoded(models.DecodedStatus{
		Left:         models.ChargeOf(55),
		Right:        models.ChargeOf(100),
		Case:         models.UnknownCharge(),
		ChargingLeft: true,
	})

	expected := `
# HELP podradar_battery_percent Last decoded battery level, -1 when unknown.
# TYPE podradar_battery_percent gauge
podradar_battery_percent{component="case"} -1
podradar_battery_percent{component="left"} 55
podradar_battery_percent{component="right"} 100
`
	require.NoError(t, testutil.GatherAndCompare(p.Registry(), strings.NewReader(expected), "podradar_battery_percent"))

	assert.InDelta(t, 1, testutil.ToFloat64(p.charging.WithLabelValues(componentLeft)), 0)
	assert.InDelta(t, 0, testutil.ToFloat64(p.charging.WithLabelValues(componentRight)), 0)
	assert.InDelta(t, 0, testutil.ToFloat64(p.charging.WithLabelValues(componentCase)), 0)
}

func TestServeExposesMetricsUntilCancelled(t *testing.T) {
	t.Parallel()

	p := NewPrometheus()
	p.ScanFailed()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	go func() {
		done <- serve(ctx, ln, p.Registry(), logger.NewTestLogger())
	}()

	url := "http://" + ln.Addr().String() + metricsPath

	var body string

	require.Eventually(t, func() bool {
		resp, err := http.Get(url) //nolint:noctx // test helper
		if err != nil {
			return false
		}
		defer resp.Body.Close()

		b, err := io.ReadAll(resp.Body)
		if err != nil {
			return false
		}

		body = string(b)

		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)

	assert.Contains(t, body, "podradar_scan_errors_total 1")

	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("metrics server did not stop")
	}
}

func TestNopRecorder(t *testing.T) {
	t.Parallel()

	var r Recorder = Nop{}

	r.TickCompleted(true, time.Second)
	r.ScanFailed()
	r.SinkFailed()
	r.StatusDecoded(models.DecodedStatus{})
}
