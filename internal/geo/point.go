package geo

import (
	"fmt"
	"math"

	"github.com/golang/geo/s2"
)

// Point is a geographic position in decimal degrees.
type Point struct {
	Lat float64 `json:"lat" yaml:"lat"`
	Lon float64 `json:"lon" yaml:"lon"`
}

// DMS is an angle expressed as degrees, minutes, seconds and a hemisphere letter (N/S/E/W).
type DMS struct {
	Hemisphere byte    `json:"hemisphere" yaml:"hemisphere"`
	Degrees    int     `json:"degrees" yaml:"degrees"`
	Minutes    int     `json:"minutes" yaml:"minutes"`
	Seconds    float64 `json:"seconds" yaml:"seconds"`
}

// LatLng converts the point to an s2.LatLng.
func (p Point) LatLng() s2.LatLng {
	return s2.LatLngFromDegrees(p.Lat, p.Lon)
}

// Valid reports whether the latitude is within ±90° and the longitude within ±180°.
func (p Point) Valid() bool {
	return p.LatLng().IsValid()
}

// Equal reports whether both coordinates match exactly.
func (p Point) Equal(o Point) bool {
	return p.Lat == o.Lat && p.Lon == o.Lon
}

func (p Point) String() string {
	lat, lon := p.ToDMS()
	return fmt.Sprintf("%.6f, %.6f (%s %s)", p.Lat, p.Lon, lat, lon)
}

// ToDMS splits both coordinates into degrees, minutes and seconds.
func (p Point) ToDMS() (lat, lon DMS) {
	lat = toDMS(p.Lat, 'N', 'S')
	lon = toDMS(p.Lon, 'E', 'W')
	return lat, lon
}

// PointFromDMS builds a point from two DMS values.
// The latitude must carry N or S, the longitude E or W.
func PointFromDMS(lat, lon DMS) (Point, error) {
	la, err := lat.Decimal()
	if err != nil {
		return Point{}, err
	}
	if lat.Hemisphere != 'N' && lat.Hemisphere != 'S' {
		return Point{}, fmt.Errorf("%w: latitude hemisphere %q", ErrDomain, lat.Hemisphere)
	}

	lo, err := lon.Decimal()
	if err != nil {
		return Point{}, err
	}
	if lon.Hemisphere != 'E' && lon.Hemisphere != 'W' {
		return Point{}, fmt.Errorf("%w: longitude hemisphere %q", ErrDomain, lon.Hemisphere)
	}

	return Point{Lat: la, Lon: lo}, nil
}

// Decimal converts the value back to signed decimal degrees.
func (d DMS) Decimal() (float64, error) {
	if d.Degrees < 0 || d.Minutes < 0 || d.Minutes >= 60 || d.Seconds < 0 || d.Seconds >= 60 {
		return 0, fmt.Errorf("%w: malformed angle %s", ErrDomain, d)
	}

	v := float64(d.Degrees) + float64(d.Minutes)/60 + d.Seconds/3600
	switch d.Hemisphere {
	case 'S', 'W':
		v = -v
	case 'N', 'E':
	default:
		return 0, fmt.Errorf("%w: unknown hemisphere %q", ErrDomain, d.Hemisphere)
	}

	return v, nil
}

// String prints seconds to 1/100, carrying into minutes and degrees.
func (d DMS) String() string {
	deg, minutes := d.Degrees, d.Minutes
	sec := math.Round(d.Seconds*100) / 100
	if sec >= 60 {
		sec -= 60
		minutes++
	}
	if minutes >= 60 {
		minutes -= 60
		deg++
	}
	return fmt.Sprintf("%d°%02d'%05.2f\"%c", deg, minutes, sec, d.Hemisphere)
}

func toDMS(v float64, pos, neg byte) DMS {
	h := pos
	if v < 0 {
		h = neg
	}

	abs := math.Abs(v)
	deg := math.Floor(abs)
	minutes := math.Floor((abs - deg) * 60)
	seconds := ((abs-deg)*60 - minutes) * 60

	// float noise can push seconds to 60.0
	if seconds >= 59.9999999 {
		seconds = 0
		minutes++
	}
	if minutes >= 60 {
		minutes -= 60
		deg++
	}

	return DMS{Hemisphere: h, Degrees: int(deg), Minutes: int(minutes), Seconds: seconds}
}
