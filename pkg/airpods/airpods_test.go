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

package airpods

import (
	"encoding/hex"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carverauto/podradar/pkg/models"
)

// samplePayload is a proximity pairing payload for an AirPods Pro with the
// flip bit clear: left 55%, right 100%, case 5%, left bud charging.
const samplePayload = "0719010e2000" + "5a20" + "00000000000000000000000000000000000000"

// payloadWith returns samplePayload with the given nibble overrides.
func payloadWith(t *testing.T, overrides map[int]byte) string {
	t.Helper()

	b := []byte(samplePayload)
	require.Len(t, b, PayloadHexLength)

	for idx, c := range overrides {
		b[idx] = c
	}

	return string(b)
}

func TestDecodeEndToEnd(t *testing.T) {
	t.Parallel()

	captured := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	status := DecodeHex("aa:bb", samplePayload, captured)

	assert.Equal(t, models.ModelAirPodsPro, status.Model)
	assert.True(t, status.Flipped)
	assert.Equal(t, models.ChargeOf(55), status.Left)
	assert.Equal(t, models.ChargeOf(100), status.Right)
	assert.Equal(t, models.ChargeOf(5), status.Case)
	assert.True(t, status.ChargingLeft)
	assert.False(t, status.ChargingRight)
	assert.False(t, status.ChargingCase)
	assert.Equal(t, "aa:bb", status.Address)
	assert.Equal(t, captured, status.CapturedAt)
	assert.Equal(t, samplePayload, status.RawHex)
}

func TestDecodeChargeNibbles(t *testing.T) {
	t.Parallel()

	for v := 0; v < 16; v++ {
		digit := "0123456789abcdef"[v]
		raw := payloadWith(t, map[int]byte{caseIndex: digit})
		got := DecodeHex("", raw, time.Time{}).Case

		switch {
		case v <= 9:
			assert.Equal(t, models.ChargeOf(v*10+5), got, "nibble %d", v)
		case v == 10:
			assert.Equal(t, models.ChargeOf(100), got, "nibble %d", v)
		default:
			assert.False(t, got.Known(), "nibble %d", v)
			assert.Equal(t, -1, got.Wire())
		}
	}
}

func TestDecodeFlipSwapsSlots(t *testing.T) {
	t.Parallel()

	// left slot (13) = 3, right slot (12) = 8, flags: slot one + case
	base := map[int]byte{rightIndex: '8', leftIndex: '3', chargingIndex: '5', caseIndex: '9'}

	notFlipped := copyWith(base, flipIndex, '2')
	s := DecodeHex("", payloadWith(t, notFlipped), time.Time{})
	assert.False(t, s.Flipped)
	assert.Equal(t, models.ChargeOf(35), s.Left)
	assert.Equal(t, models.ChargeOf(85), s.Right)
	assert.True(t, s.ChargingLeft)
	assert.False(t, s.ChargingRight)
	assert.True(t, s.ChargingCase)
	assert.Equal(t, models.ChargeOf(95), s.Case)

	flipped := copyWith(base, flipIndex, '1')
	s = DecodeHex("", payloadWith(t, flipped), time.Time{})
	assert.True(t, s.Flipped)
	assert.Equal(t, models.ChargeOf(85), s.Left)
	assert.Equal(t, models.ChargeOf(35), s.Right)
	assert.False(t, s.ChargingLeft)
	assert.True(t, s.ChargingRight)
	assert.True(t, s.ChargingCase, "case flag ignores flip")
	assert.Equal(t, models.ChargeOf(95), s.Case, "case level ignores flip")
}

func TestDecodeModelTable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		nibble byte
		want   models.Model
	}{
		{'e', models.ModelAirPodsPro},
		{'E', models.ModelAirPodsPro},
		{'4', models.ModelAirPodsPro2},
		{'3', models.ModelAirPods3},
		{'f', models.ModelAirPods2},
		{'2', models.ModelAirPods1},
		{'a', models.ModelAirPodsMax},
		{'0', models.ModelUnknown},
		{'b', models.ModelUnknown},
		{'z', models.ModelUnknown},
	}

	for _, tt := range tests {
		raw := payloadWith(t, map[int]byte{modelIndex: tt.nibble})
		assert.Equal(t, tt.want, DecodeHex("", raw, time.Time{}).Model, "nibble %q", tt.nibble)
	}
}

func TestDecodeDegradesOnMalformedInput(t *testing.T) {
	t.Parallel()

	s := DecodeHex("x", "07", time.Time{})
	assert.Equal(t, models.ModelUnknown, s.Model)
	assert.False(t, s.Left.Known())
	assert.False(t, s.Right.Known())
	assert.False(t, s.Case.Known())
	assert.False(t, s.ChargingLeft || s.ChargingRight || s.ChargingCase)

	raw := payloadWith(t, map[int]byte{leftIndex: 'g', rightIndex: '?'})
	s = DecodeHex("x", raw, time.Time{})
	assert.False(t, s.Left.Known())
	assert.False(t, s.Right.Known())
}

func appleObs(t *testing.T, rssi int, raw string) models.Observation {
	t.Helper()

	data, err := hex.DecodeString(raw)
	require.NoError(t, err)

	return models.Observation{
		Address:          "aa:bb:cc:dd:ee:ff",
		RSSI:             rssi,
		ManufacturerData: map[uint16][]byte{models.AppleCompanyID: data},
	}
}

func TestFilterAccepts(t *testing.T) {
	t.Parallel()

	f := NewFilter(DefaultMinRSSI)

	c, err := f.Candidate(appleObs(t, -70, samplePayload))
	require.NoError(t, err)
	assert.Equal(t, samplePayload, c.RawHex)
	assert.Equal(t, -70, c.Observation.RSSI)

	status := Decode(c, time.Time{})
	assert.Equal(t, "aa:bb:cc:dd:ee:ff", status.Address)
}

func TestFilterRejections(t *testing.T) {
	t.Parallel()

	f := NewFilter(DefaultMinRSSI)

	tests := []struct {
		name string
		obs  models.Observation
		want error
	}{
		{
			name: "weak signal",
			obs:  appleObs(t, -71, samplePayload),
			want: ErrWeakSignal,
		},
		{
			name: "other manufacturer",
			obs: models.Observation{
				RSSI:             -40,
				ManufacturerData: map[uint16][]byte{0x0006: {0x01, 0x02}},
			},
			want: ErrNoAppleData,
		},
		{
			name: "no manufacturer data",
			obs:  models.Observation{RSSI: -40},
			want: ErrNoAppleData,
		},
		{
			name: "short payload",
			obs:  appleObs(t, -40, samplePayload[:52]),
			want: ErrPayloadLength,
		},
		{
			name: "long payload",
			obs:  appleObs(t, -40, samplePayload+"00"),
			want: ErrPayloadLength,
		},
		{
			name: "wrong type nibble",
			obs:  appleObs(t, -40, "1"+"2"+samplePayload[2:]),
			want: ErrNotProximityPairing,
		},
		{
			name: "type in high nibble only",
			obs:  appleObs(t, -40, "70"+samplePayload[2:]),
			want: ErrNotProximityPairing,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := f.Candidate(tt.obs)
			require.ErrorIs(t, err, tt.want)
			assert.False(t, f.Accept(tt.obs))
		})
	}
}

func TestFilterThresholdIsConfigurable(t *testing.T) {
	t.Parallel()

	o := appleObs(t, -80, samplePayload)
	assert.False(t, NewFilter(DefaultMinRSSI).Accept(o))
	assert.True(t, NewFilter(-90).Accept(o))
	assert.True(t, strings.HasPrefix(samplePayload, "07"))
}

func copyWith(m map[int]byte, idx int, c byte) map[int]byte {
	out := make(map[int]byte, len(m)+1)
	for k, v := range m {
		out[k] = v
	}

	out[idx] = c

	return out
}
