package sector

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func sec(id string, az float64) Sector {
	return Sector{ID: id, Azimuth: AzimuthOf(az)}
}

func TestFindBestMatch_Wraparound(t *testing.T) {
	sectors := []Sector{sec("a", 10), sec("b", 170), sec("c", 190)}

	got, ok := FindBestMatch(sectors, 0)
	if !ok {
		t.Fatal("expected a match")
	}
	if got.ID != "a" {
		t.Errorf("expected sector a (azimuth 10), got %q", got.ID)
	}
}

func TestFindBestMatch_TieKeepsFirst(t *testing.T) {
	sectors := []Sector{sec("A", 10), sec("B", 350)}

	got, ok := FindBestMatch(sectors, 0)
	if !ok || got.ID != "A" {
		t.Fatalf("expected A, got %q (ok=%v)", got.ID, ok)
	}

	// Reversed order: first occurrence still wins.
	got, _ = FindBestMatch([]Sector{sec("B", 350), sec("A", 10)}, 0)
	if got.ID != "B" {
		t.Errorf("expected B when listed first, got %q", got.ID)
	}
}

func TestFindBestMatch_Empty(t *testing.T) {
	if _, ok := FindBestMatch(nil, 90); ok {
		t.Error("nil input should not match")
	}
	if _, ok := FindBestMatch([]Sector{}, 90); ok {
		t.Error("empty input should not match")
	}
}

func TestFindBestMatch_SkipsUnusableAzimuths(t *testing.T) {
	sectors := []Sector{
		{ID: "missing"},
		{ID: "text", Azimuth: ParseAzimuth("north-ish")},
		{ID: "nan", Azimuth: ParseAzimuth("NaN")},
		{ID: "string", Azimuth: ParseAzimuth(" 95.5 ")},
		sec("far", 300),
	}

	got, ok := FindBestMatch(sectors, 90)
	if !ok || got.ID != "string" {
		t.Fatalf("expected numeric-string sector, got %q (ok=%v)", got.ID, ok)
	}
}

func TestFindBestMatch_NoUsableAzimuth(t *testing.T) {
	sectors := []Sector{{ID: "x"}, {ID: "y", Azimuth: ParseAzimuth("")}}
	if _, ok := FindBestMatch(sectors, 0); ok {
		t.Error("expected no match")
	}
}

func TestFindBestMatch_DoesNotMutateInput(t *testing.T) {
	sectors := []Sector{sec("a", 200), sec("b", 10), sec("c", 120)}
	before := make([]Sector, len(sectors))
	copy(before, sectors)

	FindBestMatch(sectors, 115)

	if diff := cmp.Diff(before, sectors, cmp.Comparer(func(x, y Azimuth) bool {
		return string(x.raw) == string(y.raw)
	})); diff != "" {
		t.Errorf("input mutated (-before +after):\n%s", diff)
	}
}

func TestFindBestMatch_OutOfRangeAzimuths(t *testing.T) {
	// 370 is 10 degrees from north, -20 is 340.
	sectors := []Sector{sec("wrapped", 370), sec("negative", -20)}
	got, ok := FindBestMatch(sectors, 5)
	if !ok || got.ID != "wrapped" {
		t.Fatalf("expected wrapped, got %q", got.ID)
	}
}

func TestAzimuth_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   float64
		usable bool
	}{
		{"number", `{"azimuth": 120}`, 120, true},
		{"float", `{"azimuth": 45.25}`, 45.25, true},
		{"numeric string", `{"azimuth": "270"}`, 270, true},
		{"padded string", `{"azimuth": " 15.5"}`, 15.5, true},
		{"garbage string", `{"azimuth": "abc"}`, 0, false},
		{"empty string", `{"azimuth": ""}`, 0, false},
		{"null", `{"azimuth": null}`, 0, false},
		{"missing", `{}`, 0, false},
		{"object", `{"azimuth": {"deg": 5}}`, 0, false},
		{"bool", `{"azimuth": true}`, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s Sector
			if err := json.Unmarshal([]byte(tt.input), &s); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			got, ok := s.Azimuth.Degrees()
			if ok != tt.usable {
				t.Fatalf("usable = %v, want %v", ok, tt.usable)
			}
			if ok && got != tt.want {
				t.Errorf("degrees = %f, want %f", got, tt.want)
			}
		})
	}
}

func TestAzimuth_MarshalPreservesRaw(t *testing.T) {
	in := `[{"id":"s1","name":"Alpha","azimuth":"120"},{"id":"s2","azimuth":240},{"id":"s3","azimuth":null}]`
	var sectors []Sector
	if err := json.Unmarshal([]byte(in), &sectors); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	out, err := json.Marshal(sectors)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != in {
		t.Errorf("raw not preserved:\ngot:  %s\nwant: %s", out, in)
	}
}

func TestAzimuth_String(t *testing.T) {
	if got := ParseAzimuth("120").String(); got != "120" {
		t.Errorf("got %q", got)
	}
	if got := AzimuthOf(45.5).String(); got != "45.5" {
		t.Errorf("got %q", got)
	}
	if got := (Azimuth{}).String(); got != "" {
		t.Errorf("zero azimuth: got %q", got)
	}
	if (Azimuth{}).IsSet() {
		t.Error("zero azimuth should not be set")
	}
}
