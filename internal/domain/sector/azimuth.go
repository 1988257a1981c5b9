package sector

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Azimuth is a sector's mounted azimuth exactly as the inventory API sent it.
// The API delivers either a JSON number or a numeric string, and older
// records carry null or free text. Unusable values are kept, not rejected:
// the matcher skips them.
type Azimuth struct {
	raw   json.RawMessage
	deg   float64
	valid bool
}

// AzimuthOf returns a usable azimuth for deg.
func AzimuthOf(deg float64) Azimuth {
	raw, err := json.Marshal(deg)
	if err != nil {
		// NaN and Inf do not marshal
		return Azimuth{raw: json.RawMessage("null")}
	}
	return Azimuth{raw: raw, deg: deg, valid: true}
}

// ParseAzimuth interprets s as a numeric-string azimuth.
func ParseAzimuth(s string) Azimuth {
	raw, _ := json.Marshal(s)
	deg, ok := parseDegrees(s)
	return Azimuth{raw: raw, deg: deg, valid: ok}
}

// Degrees returns the azimuth and whether it is usable.
func (a Azimuth) Degrees() (float64, bool) {
	return a.deg, a.valid
}

// IsSet reports whether any value (usable or not) was supplied.
func (a Azimuth) IsSet() bool {
	return len(a.raw) > 0 && !bytes.Equal(a.raw, []byte("null"))
}

// String returns the raw value as text.
func (a Azimuth) String() string {
	if !a.IsSet() {
		return ""
	}
	var s string
	if err := json.Unmarshal(a.raw, &s); err == nil {
		return s
	}
	return string(a.raw)
}

// MarshalJSON writes the raw value back verbatim.
func (a Azimuth) MarshalJSON() ([]byte, error) {
	if len(a.raw) == 0 {
		return []byte("null"), nil
	}
	return a.raw, nil
}

// UnmarshalJSON accepts any JSON value and never fails on content.
func (a *Azimuth) UnmarshalJSON(data []byte) error {
	a.raw = append(json.RawMessage(nil), bytes.TrimSpace(data)...)
	a.deg, a.valid = 0, false

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil //nolint:nilerr // malformed azimuth is unusable, not an error
	}

	switch t := v.(type) {
	case json.Number:
		a.deg, a.valid = parseDegrees(t.String())
	case string:
		a.deg, a.valid = parseDegrees(t)
	}
	return nil
}

func parseDegrees(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
