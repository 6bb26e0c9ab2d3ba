package geo

import (
	"encoding/binary"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tolerance = 1e-9

func TestRoundTripText(t *testing.T) {
	want := Coordinates{Longitude: -46.633, Latitude: -23.550}

	got, err := ResolveString(Encode(want))
	require.NoError(t, err)
	assert.InDelta(t, want.Longitude, got.Longitude, tolerance)
	assert.InDelta(t, want.Latitude, got.Latitude, tolerance)
}

func TestRoundTripBinary(t *testing.T) {
	want := Coordinates{Longitude: -46.633, Latitude: -23.550}

	data, err := EncodeBinary(want)
	require.NoError(t, err)

	got, err := Resolve(data)
	require.NoError(t, err)
	assert.InDelta(t, want.Longitude, got.Longitude, tolerance)
	assert.InDelta(t, want.Latitude, got.Latitude, tolerance)
}

func TestResolveAcceptedForms(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		lng, lat float64
	}{
		{"wkt", "POINT(-46.633 -23.55)", -46.633, -23.55},
		{"wkt with space", "POINT (-122.4194 37.7749)", -122.4194, 37.7749},
		{"lowercase", "point(1.5 2.5)", 1.5, 2.5},
		{"surrounding whitespace", "  POINT(10 20)\n", 10, 20},
		{"ewkt", "SRID=4326;POINT(-46.633 -23.55)", -46.633, -23.55},
		{"hex ewkb", "0101000020E6100000000000000000F03F0000000000000040", 1, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve([]byte(tt.input))
			require.NoError(t, err)
			assert.InDelta(t, tt.lng, got.Longitude, tolerance)
			assert.InDelta(t, tt.lat, got.Latitude, tolerance)
		})
	}
}

func TestResolveFailures(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
	}{
		{"nil", nil},
		{"empty", []byte("")},
		{"blank", []byte("   ")},
		{"empty point", []byte("POINT EMPTY")},
		{"one ordinate", []byte("POINT(1)")},
		{"three ordinates", []byte("POINT Z (1 2 3)")},
		{"not a point", []byte("LINESTRING(0 0, 1 1)")},
		{"non numeric", []byte("POINT(abc def)")},
		{"unbalanced", []byte("POINT(1 2")},
		{"garbage", []byte("garbage")},
		{"non finite", []byte("POINT(NaN 1)")},
		{"truncated wkb", []byte{0x01, 0x01, 0x00}},
		{"bad hex ewkb", []byte("0101000020E610")},
		{"ewkb point z", wkbBytes(0x80000001, 1, 2, 3)},
		{"ewkb point m", wkbBytes(0x40000001, 1, 2, 3)},
		{"ewkb point zm with srid", wkbBytes(0xE0000001, 4326, 1, 2, 3, 4)},
		{"hex ewkb point z", []byte("01010000A0E6100000000000000000F03F00000000000000400000000000000840")},
		{"iso point z", wkbBytes(1001, 1, 2, 3)},
		{"iso point m", wkbBytes(2001, 1, 2, 3)},
		{"iso point zm", wkbBytes(3001, 1, 2, 3, 4)},
		{"wkb linestring", wkbBytes(2, 1, 0, 0, 1, 1)},
		{"trailing bytes", append(wkbBytes(1, 1, 2), 0xde, 0xad)},
		{"srid flag without srid", wkbBytes(0x20000001, 1, 2)},
		{"unknown byte order", []byte{0x02, 0x01, 0, 0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(tt.input)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrDecode), "error %v should match ErrDecode", err)
			assert.Equal(t, Coordinates{}, got)

			var decodeErr *DecodeError
			require.True(t, errors.As(err, &decodeErr))
			assert.NotEmpty(t, decodeErr.Reason)
		})
	}
}

// wkbBytes builds little-endian WKB with the given type word. With the
// SRID flag set, the first value is written as the uint32 SRID; each
// remaining value is a float64 ordinate (or a uint32 count for
// non-point types, which never reach decoding).
func wkbBytes(typ uint32, values ...float64) []byte {
	buf := []byte{0x01}
	buf = binary.LittleEndian.AppendUint32(buf, typ)
	if typ&0x20000000 != 0 && len(values) > 0 {
		buf = binary.LittleEndian.AppendUint32(buf, uint32(values[0]))
		values = values[1:]
	}
	for _, v := range values {
		buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(v))
	}
	return buf
}

func TestResolveBinaryForms(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
	}{
		{"wkb", wkbBytes(1, 1, 2)},
		{"ewkb with srid", wkbBytes(0x20000001, 4326, 1, 2)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(tt.input)
			require.NoError(t, err)
			assert.Equal(t, Coordinates{Longitude: 1, Latitude: 2}, got)
		})
	}
}

func TestDecodeErrorMessage(t *testing.T) {
	_, err := ResolveString("POINT(1)")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"POINT(1)"`)
	assert.Contains(t, err.Error(), "got 1 ordinates, want 2")
}

func TestEncode(t *testing.T) {
	assert.Equal(t, "POINT(-46.633 -23.55)", Encode(Coordinates{Longitude: -46.633, Latitude: -23.55}))
}
