package geo

import (
	"errors"
	"fmt"
	"math"
)

// EarthRadius is the mean spherical Earth radius in meters.
const EarthRadius = 6_371_000.0

// fresnelConstant is the first zone coefficient for distance in km and frequency in GHz.
const fresnelConstant = 17.31

// ErrDomain reports an argument outside the domain of a formula.
var ErrDomain = errors.New("value outside formula domain")

// Haversine returns the great-circle distance between two points in meters.
func Haversine(p1, p2 Point) float64 {
	a, b := p1.LatLng(), p2.LatLng()

	dLat := (b.Lat - a.Lat).Radians()
	dLon := (b.Lng - a.Lng).Radians()

	sinLat := math.Sin(dLat / 2)
	sinLon := math.Sin(dLon / 2)
	h := sinLat*sinLat + math.Cos(a.Lat.Radians())*math.Cos(b.Lat.Radians())*sinLon*sinLon

	// rounding can leave h marginally above 1 for antipodal points
	h = math.Min(h, 1)

	return EarthRadius * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// FresnelRadius returns the first Fresnel zone radius in meters at the middle
// of a link of distanceM meters operating at freqGHz.
func FresnelRadius(distanceM, freqGHz float64) (float64, error) {
	if freqGHz <= 0 || math.IsNaN(freqGHz) {
		return 0, fmt.Errorf("%w: frequency %g GHz", ErrDomain, freqGHz)
	}
	if distanceM < 0 || math.IsNaN(distanceM) {
		return 0, fmt.Errorf("%w: distance %g m", ErrDomain, distanceM)
	}

	return fresnelConstant * math.Sqrt((distanceM/1000)/(4*freqGHz)), nil
}

// LegacyFresnelRadius is the frequency-independent sqrt(d/4π) envelope.
//
// Deprecated: it ignores the link frequency, use FresnelRadius.
func LegacyFresnelRadius(distanceM float64) float64 {
	if distanceM <= 0 {
		return 0
	}

	return math.Sqrt(distanceM / (4 * math.Pi))
}

// Interpolate returns the point at fraction t of the straight line p1→p2 in degree space.
func Interpolate(p1, p2 Point, t float64) Point {
	// weighted form keeps both ends exact
	return Point{
		Lat: (1-t)*p1.Lat + t*p2.Lat,
		Lon: (1-t)*p1.Lon + t*p2.Lon,
	}
}
