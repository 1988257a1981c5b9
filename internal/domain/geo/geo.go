// Package geo holds the spherical-earth math used for antenna aiming:
// initial great-circle bearing, haversine distance and the angle helpers
// every bearing comparison goes through.
package geo

import "math"

// EarthRadiusMeters is the mean radius of Earth used for Haversine distance.
// Displayed and stored distances depend on this exact value.
const EarthRadiusMeters = 6_371_000.0

const (
	degToRad = math.Pi / 180
	radToDeg = 180 / math.Pi
)

// Coordinate is a WGS84 position in degrees.
type Coordinate struct {
	Lat float64 `json:"latitude"`
	Lon float64 `json:"longitude"`
}

// Valid checks that latitude is in [-90,90] and longitude in [-180,180].
func (c Coordinate) Valid() bool {
	return ValidateCoordinates(c.Lat, c.Lon)
}

// ValidateCoordinates checks that latitude is in [-90,90] and longitude in [-180,180].
func ValidateCoordinates(lat, lon float64) bool {
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

// Normalize reduces an angle in degrees to [0,360).
func Normalize(deg float64) float64 {
	r := math.Mod(math.Mod(deg, 360)+360, 360)
	// 360 - tiny rounds to 360 in float64
	if r >= 360 {
		return 0
	}
	return r
}

// InitialBearing returns the initial great-circle bearing from one point to
// another, in degrees clockwise from north, within [0,360).
// Identical points yield 0.
func InitialBearing(from, to Coordinate) float64 {
	phi1 := from.Lat * degToRad
	phi2 := to.Lat * degToRad
	dLon := (to.Lon - from.Lon) * degToRad

	y := math.Sin(dLon) * math.Cos(phi2)
	x := math.Cos(phi1)*math.Sin(phi2) - math.Sin(phi1)*math.Cos(phi2)*math.Cos(dLon)

	return Normalize(math.Atan2(y, x) * radToDeg)
}

// DistanceMeters returns the haversine great-circle distance between two
// coordinates in meters.
func DistanceMeters(from, to Coordinate) float64 {
	return Haversine(from.Lat, from.Lon, to.Lat, to.Lon)
}

// Haversine returns the great-circle distance in meters between two points
// specified by latitude and longitude in degrees.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	lat1r := lat1 * degToRad
	lat2r := lat2 * degToRad
	dLat := (lat2 - lat1) * degToRad
	dLon := (lon2 - lon1) * degToRad

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1r)*math.Cos(lat2r)*math.Sin(dLon/2)*math.Sin(dLon/2)
	// Clamp to valid range (numerical noise near antipodes can push a above 1)
	a = math.Min(math.Max(a, 0), 1)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusMeters * c
}

// CircularDistance returns the shortest angular separation between two
// bearings in degrees, within [0,180]. It is symmetric in its arguments.
func CircularDistance(a, b float64) float64 {
	d := math.Abs(Normalize(a) - Normalize(b))
	if d > 180 {
		d = 360 - d
	}
	return d
}

// SignedDifference returns current minus target folded into (-180,180].
// A positive value means current is clockwise past target.
func SignedDifference(current, target float64) float64 {
	d := Normalize(current) - Normalize(target)
	if d > 180 {
		d -= 360
	}
	if d <= -180 {
		d += 360
	}
	return d
}

var compassPoints = [...]string{"N", "NE", "E", "SE", "S", "SW", "W", "NW"}

// CompassPoint converts a bearing to an 8-point compass label.
func CompassPoint(bearing float64) string {
	index := int((Normalize(bearing)+22.5)/45.0) % len(compassPoints)
	return compassPoints[index]
}

// Solution is the pointing answer from one coordinate to another.
type Solution struct {
	Bearing  float64 `json:"bearing"`
	Distance float64 `json:"distance_meters"`
	Compass  string  `json:"compass_point"`
}

// Solve computes bearing, great-circle distance and compass label from one
// coordinate to another.
func Solve(from, to Coordinate) Solution {
	b := InitialBearing(from, to)
	return Solution{
		Bearing:  b,
		Distance: DistanceMeters(from, to),
		Compass:  CompassPoint(b),
	}
}
