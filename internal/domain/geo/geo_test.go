package geo

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func almost(a, b, eps float64) bool {
	if a > b {
		return a-b < eps
	}
	return b-a < eps
}

func TestInitialBearing_SamePoint(t *testing.T) {
	points := []Coordinate{
		{0, 0},
		{40.7128, -74.0060},
		{-33.8688, 151.2093},
		{89.999, 10},
		{-90, 0},
	}
	for _, p := range points {
		if b := InitialBearing(p, p); b != 0 {
			t.Errorf("InitialBearing(%v, %v) = %f, want 0", p, p, b)
		}
	}
}

func TestInitialBearing_KnownValues(t *testing.T) {
	tests := []struct {
		name      string
		from, to  Coordinate
		expected  float64
		tolerance float64
	}{
		{"equator east", Coordinate{0, 0}, Coordinate{0, 90}, 90, 1e-9},
		{"equator west", Coordinate{0, 0}, Coordinate{0, -90}, 270, 1e-9},
		{"due north", Coordinate{40, -122}, Coordinate{41, -122}, 0, 1e-9},
		{"due south", Coordinate{40, -122}, Coordinate{39, -122}, 180, 1e-9},
		{"east at 40N", Coordinate{40, -122}, Coordinate{40, -121}, 90, 1.0},
		{"northeast", Coordinate{40, -122}, Coordinate{40.7, -121.3}, 45, 10},
		// NYC to London initial course ~51.2°
		{"nyc to london", Coordinate{40.7128, -74.0060}, Coordinate{51.5074, -0.1278}, 51.2, 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, InitialBearing(tt.from, tt.to), tt.tolerance)
		})
	}
}

func TestInitialBearing_NearPole(t *testing.T) {
	from := Coordinate{0, 0}
	for _, lat := range []float64{89.9, 89.999999, 90} {
		b := InitialBearing(from, Coordinate{lat, 0})
		if math.IsNaN(b) || math.IsInf(b, 0) {
			t.Fatalf("bearing to lat %f is not finite: %f", lat, b)
		}
		if b < 0 || b >= 360 {
			t.Fatalf("bearing to lat %f out of range: %f", lat, b)
		}
		if CircularDistance(b, 0) > 1e-6 {
			t.Errorf("bearing to lat %f: want ~0, got %f", lat, b)
		}
	}

	// Standing on the pole every direction is south.
	b := InitialBearing(Coordinate{90, 0}, Coordinate{10, 45})
	if math.IsNaN(b) || b < 0 || b >= 360 {
		t.Fatalf("bearing from pole not in range: %f", b)
	}
}

func TestInitialBearing_RangeProperty(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 5000; i++ {
		from := Coordinate{rng.Float64()*180 - 90, rng.Float64()*360 - 180}
		to := Coordinate{rng.Float64()*180 - 90, rng.Float64()*360 - 180}
		b := InitialBearing(from, to)
		if b < 0 || b >= 360 || math.IsNaN(b) {
			t.Fatalf("InitialBearing(%v, %v) = %f out of [0,360)", from, to, b)
		}
		d := DistanceMeters(from, to)
		if d < 0 || math.IsNaN(d) {
			t.Fatalf("DistanceMeters(%v, %v) = %f", from, to, d)
		}
	}
}

func TestHaversine_SamePoint(t *testing.T) {
	d := Haversine(40.7128, -74.0060, 40.7128, -74.0060)
	if d != 0 {
		t.Fatalf("want 0, got %f", d)
	}
	if d := DistanceMeters(Coordinate{0, 0}, Coordinate{0, 0}); d != 0 {
		t.Fatalf("want 0, got %f", d)
	}
}

func TestDistanceMeters_OneDegreeOfLongitudeAtEquator(t *testing.T) {
	d := DistanceMeters(Coordinate{0, 0}, Coordinate{0, 1})
	expected := 111_195.0
	if !almost(d, expected, expected*0.01) {
		t.Fatalf("want ~%.0fm, got %.0fm", expected, d)
	}
	// Exact value for R = 6,371,000: R * pi / 180
	assert.InDelta(t, EarthRadiusMeters*math.Pi/180, d, 1e-6)
}

func TestHaversine_NewYork_London(t *testing.T) {
	// NYC to London: ~5,570 km
	d := Haversine(40.7128, -74.0060, 51.5074, -0.1278)
	expected := 5_570_000.0
	if !almost(d, expected, 30_000) { // 30km tolerance (spherical approx)
		t.Fatalf("want ~%.0fm, got %.0fm", expected, d)
	}
}

func TestHaversine_Antipodal(t *testing.T) {
	// Opposite sides of Earth: ~20,015 km (half circumference)
	d := Haversine(0, 0, 0, 180)
	expected := math.Pi * EarthRadiusMeters
	if !almost(d, expected, 1) {
		t.Fatalf("want ~%.0fm, got %.0fm", expected, d)
	}
	d = Haversine(45, 10, -45, -170)
	if math.IsNaN(d) || !almost(d, expected, 1) {
		t.Fatalf("antipodal off-equator: want ~%.0fm, got %f", expected, d)
	}
}

func TestDistanceMeters_MonotonicWithSeparation(t *testing.T) {
	prev := 0.0
	for lon := 0.5; lon <= 180; lon += 0.5 {
		d := DistanceMeters(Coordinate{0, 0}, Coordinate{0, lon})
		if d <= prev {
			t.Fatalf("distance not increasing at lon %f: %f <= %f", lon, d, prev)
		}
		prev = d
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 0},
		{359.5, 359.5},
		{360, 0},
		{720, 0},
		{-1, 359},
		{-360, 0},
		{-725, 355},
		{400, 40},
		{-1e-15, 0},
	}
	for _, tt := range tests {
		got := Normalize(tt.in)
		if !almost(got, tt.want, 1e-9) {
			t.Errorf("Normalize(%f) = %f, want %f", tt.in, got, tt.want)
		}
		if got < 0 || got >= 360 {
			t.Errorf("Normalize(%f) = %f out of [0,360)", tt.in, got)
		}
	}
}

func TestCircularDistance(t *testing.T) {
	tests := []struct {
		a, b, want float64
	}{
		{0, 10, 10},
		{0, 170, 170},
		{0, 190, 170},
		{0, 350, 10},
		{358, 2, 4},
		{90, 270, 180},
		{45, 45, 0},
		{-10, 10, 20},
		{730, 0, 10},
	}
	for _, tt := range tests {
		if got := CircularDistance(tt.a, tt.b); !almost(got, tt.want, 1e-9) {
			t.Errorf("CircularDistance(%f, %f) = %f, want %f", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestCircularDistance_SymmetricAndBounded(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 10000; i++ {
		x := rng.Float64()*1440 - 720
		y := rng.Float64()*1440 - 720
		d1 := CircularDistance(x, y)
		d2 := CircularDistance(y, x)
		if d1 != d2 {
			t.Fatalf("not symmetric for (%f, %f): %f vs %f", x, y, d1, d2)
		}
		if d1 < 0 || d1 > 180 {
			t.Fatalf("CircularDistance(%f, %f) = %f out of [0,180]", x, y, d1)
		}
	}
}

func TestSignedDifference(t *testing.T) {
	tests := []struct {
		current, target, want float64
	}{
		{10, 0, 10},
		{0, 10, -10},
		{358, 2, -4},
		{2, 358, 4},
		{180, 0, 180},
		{0, 180, 180},
		{90, 270, 180},
		{270, 90, 180},
	}
	for _, tt := range tests {
		if got := SignedDifference(tt.current, tt.target); !almost(got, tt.want, 1e-9) {
			t.Errorf("SignedDifference(%f, %f) = %f, want %f", tt.current, tt.target, got, tt.want)
		}
	}
}

func TestSignedDifference_RoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(99))
	for i := 0; i < 10000; i++ {
		current := rng.Float64() * 360
		target := rng.Float64() * 360
		diff := SignedDifference(current, target)
		if diff <= -180 || diff > 180 {
			t.Fatalf("SignedDifference(%f, %f) = %f out of (-180,180]", current, target, diff)
		}
		back := Normalize(target + diff)
		if CircularDistance(back, current) > 1e-9 {
			t.Fatalf("round trip (%f, %f): got %f", current, target, back)
		}
	}
}

func TestCompassPoint(t *testing.T) {
	tests := []struct {
		bearing  float64
		expected string
	}{
		{0.0, "N"},
		{45.0, "NE"},
		{90.0, "E"},
		{135.0, "SE"},
		{180.0, "S"},
		{225.0, "SW"},
		{270.0, "W"},
		{315.0, "NW"},
		{360.0, "N"},
		{22.0, "N"},
		{23.0, "NE"},
		{337.6, "N"},
		{-90, "W"},
	}
	for _, tt := range tests {
		if got := CompassPoint(tt.bearing); got != tt.expected {
			t.Errorf("CompassPoint(%f) = %q, want %q", tt.bearing, got, tt.expected)
		}
	}
}

func TestValidateCoordinates(t *testing.T) {
	tests := []struct {
		lat, lon float64
		valid    bool
	}{
		{0, 0, true},
		{90, 180, true},
		{-90, -180, true},
		{91, 0, false},
		{0, 181, false},
		{-91, 0, false},
		{0, -181, false},
	}
	for _, tt := range tests {
		if got := ValidateCoordinates(tt.lat, tt.lon); got != tt.valid {
			t.Errorf("ValidateCoordinates(%f, %f) = %v, want %v", tt.lat, tt.lon, got, tt.valid)
		}
		if got := (Coordinate{tt.lat, tt.lon}).Valid(); got != tt.valid {
			t.Errorf("Coordinate{%f, %f}.Valid() = %v, want %v", tt.lat, tt.lon, got, tt.valid)
		}
	}
}

func TestSolve(t *testing.T) {
	from := Coordinate{Lat: 0, Lon: 0}
	to := Coordinate{Lat: 0, Lon: 1}

	s := Solve(from, to)
	assert.InDelta(t, 90.0, s.Bearing, 1e-9)
	assert.InDelta(t, EarthRadiusMeters*math.Pi/180, s.Distance, 1e-6)
	if s.Compass != "E" {
		t.Errorf("compass = %q, want E", s.Compass)
	}
}
