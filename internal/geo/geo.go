// Package geo decodes stored point geometries into longitude/latitude pairs.
//
// Points arrive in one of the forms a spatial column can hand back:
// well-known text ("POINT(-46.633 -23.55)"), extended WKT with an SRID
// prefix ("SRID=4326;POINT(...)"), raw WKB/EWKB bytes, or hex-encoded EWKB
// as PostGIS prints it. Ordinates are always (x, y) = (longitude, latitude).
package geo

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/ewkb"
	"github.com/paulmach/orb/encoding/wkb"
	"github.com/paulmach/orb/encoding/wkt"
)

// ErrDecode matches every *DecodeError via errors.Is.
var ErrDecode = errors.New("geometry decode failed")

// DecodeError reports a stored point that cannot be turned into coordinates.
type DecodeError struct {
	Input  string
	Reason string
	Err    error
}

func (e *DecodeError) Error() string {
	msg := fmt.Sprintf("decoding point %q: %s", e.Input, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Is reports whether target is ErrDecode.
func (e *DecodeError) Is(target error) bool { return target == ErrDecode }

// Coordinates is a resolved point.
type Coordinates struct {
	Longitude float64 `json:"longitude"`
	Latitude  float64 `json:"latitude"`
}

// Resolve decodes raw into coordinates. Text and binary encodings are
// told apart by the first byte: WKB always starts with a byte-order
// marker of 0x00 or 0x01.
func Resolve(raw []byte) (Coordinates, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return Coordinates{}, decodeErr(raw, "empty input", nil)
	}
	if raw[0] == 0x00 || raw[0] == 0x01 {
		return resolveBinary(raw)
	}
	return ResolveString(string(raw))
}

// ResolveString decodes a textual point: WKT, EWKT or hex-encoded EWKB.
func ResolveString(s string) (Coordinates, error) {
	text := strings.TrimSpace(s)
	if text == "" {
		return Coordinates{}, decodeErr([]byte(s), "empty input", nil)
	}

	if isHex(text) {
		data, err := hex.DecodeString(text)
		if err != nil {
			return Coordinates{}, decodeErr([]byte(s), "invalid hex", err)
		}
		return resolveBinary(data)
	}

	text = stripSRID(text)
	upper := strings.ToUpper(text)
	if !strings.HasPrefix(upper, "POINT") {
		return Coordinates{}, decodeErr([]byte(s), "not a point", nil)
	}
	if strings.Contains(upper, "EMPTY") {
		return Coordinates{}, decodeErr([]byte(s), "empty point", nil)
	}
	if n := ordinateCount(text); n != 2 {
		return Coordinates{}, decodeErr([]byte(s), fmt.Sprintf("got %d ordinates, want 2", n), nil)
	}

	g, err := wkt.Unmarshal(upper)
	if err != nil {
		return Coordinates{}, decodeErr([]byte(s), "malformed wkt", err)
	}
	return fromGeometry([]byte(s), g)
}

// WKB type word flags and sizes. EWKB marks Z, M and SRID with high bits;
// ISO WKB adds 1000, 2000 or 3000 to the base type instead.
const (
	wkbPoint     = 1
	ewkbZFlag    = 0x80000000
	ewkbMFlag    = 0x40000000
	ewkbSRIDFlag = 0x20000000
	isoDimBase   = 1000
	wkbPointLen  = 1 + 4 + 8 + 8
	sridLen      = 4
)

func resolveBinary(data []byte) (Coordinates, error) {
	if reason := checkPointHeader(data); reason != "" {
		return Coordinates{}, decodeErr(data, reason, nil)
	}

	g, err := wkb.Unmarshal(data)
	if err != nil {
		var ewkbErr error
		g, _, ewkbErr = ewkb.Unmarshal(data)
		if ewkbErr != nil {
			return Coordinates{}, decodeErr(data, "malformed wkb", err)
		}
	}
	return fromGeometry(data, g)
}

// checkPointHeader returns why data is not a 2-D WKB/EWKB point of exact
// length, or "" if it is. orb drops Z and M ordinates and ignores
// trailing bytes, so both are rejected here.
func checkPointHeader(data []byte) string {
	if len(data) < 5 {
		return "truncated wkb header"
	}

	var order binary.ByteOrder
	switch data[0] {
	case 0x00:
		order = binary.BigEndian
	case 0x01:
		order = binary.LittleEndian
	default:
		return "unknown wkb byte order"
	}

	typ := order.Uint32(data[1:5])
	if typ&(ewkbZFlag|ewkbMFlag) != 0 {
		return "has Z or M ordinates, want 2"
	}
	want := wkbPointLen
	if typ&ewkbSRIDFlag != 0 {
		want += sridLen
		typ &^= ewkbSRIDFlag
	}
	if typ >= isoDimBase {
		return fmt.Sprintf("wkb type %d has Z or M ordinates, want 2", typ)
	}
	if typ != wkbPoint {
		return fmt.Sprintf("wkb type %d is not a point", typ)
	}
	if len(data) != want {
		return fmt.Sprintf("got %d wkb bytes, want %d", len(data), want)
	}
	return ""
}

func fromGeometry(raw []byte, g orb.Geometry) (Coordinates, error) {
	p, ok := g.(orb.Point)
	if !ok {
		return Coordinates{}, decodeErr(raw, fmt.Sprintf("geometry is %s, not a point", g.GeoJSONType()), nil)
	}
	lng, lat := p.Lon(), p.Lat()
	if math.IsNaN(lng) || math.IsNaN(lat) || math.IsInf(lng, 0) || math.IsInf(lat, 0) {
		return Coordinates{}, decodeErr(raw, "non-finite ordinate", nil)
	}
	return Coordinates{Longitude: lng, Latitude: lat}, nil
}

// Encode returns the WKT form of c, as stored in a locations row.
func Encode(c Coordinates) string {
	return wkt.MarshalString(orb.Point{c.Longitude, c.Latitude})
}

// EncodeBinary returns the little-endian WKB form of c.
func EncodeBinary(c Coordinates) ([]byte, error) {
	data, err := wkb.Marshal(orb.Point{c.Longitude, c.Latitude})
	if err != nil {
		return nil, fmt.Errorf("encoding wkb: %w", err)
	}
	return data, nil
}

// stripSRID drops an EWKT "SRID=n;" prefix.
func stripSRID(s string) string {
	if len(s) < 5 || !strings.EqualFold(s[:5], "SRID=") {
		return s
	}
	if i := strings.IndexByte(s, ';'); i >= 0 {
		return strings.TrimSpace(s[i+1:])
	}
	return s
}

// ordinateCount counts the numbers between the parentheses of a POINT.
// Returns -1 when there are no balanced parentheses.
func ordinateCount(s string) int {
	open := strings.IndexByte(s, '(')
	closing := strings.LastIndexByte(s, ')')
	if open < 0 || closing < open {
		return -1
	}
	return len(strings.Fields(s[open+1 : closing]))
}

func isHex(s string) bool {
	if len(s)%2 != 0 {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !(c >= '0' && c <= '9' || c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F') {
			return false
		}
	}
	return true
}

func decodeErr(raw []byte, reason string, err error) *DecodeError {
	input := string(raw)
	if !isPrintable(raw) {
		input = hex.EncodeToString(raw)
	}
	return &DecodeError{Input: input, Reason: reason, Err: err}
}

func isPrintable(b []byte) bool {
	for _, c := range b {
		if c < 0x20 || c > 0x7e {
			return false
		}
	}
	return true
}
