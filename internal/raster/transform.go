package raster

import (
	"fmt"

	"github.com/woozymasta/hgtlink/internal/geo"
)

// GeoTransform is a GDAL-style affine transform:
//
//	lon = C + col*A + row*B
//	lat = F + col*D + row*E
type GeoTransform struct {
	A, B, C float64
	D, E, F float64
}

// NorthUp builds the usual transform for a grid whose top-left pixel corner
// is at (left, top) with square-ish pixels of the given size in degrees.
func NorthUp(left, top, pixelWidth, pixelHeight float64) GeoTransform {
	return GeoTransform{A: pixelWidth, C: left, E: -pixelHeight, F: top}
}

// Apply maps a pixel position to coordinates.
func (t GeoTransform) Apply(col, row float64) geo.Point {
	lon, lat := t.applyRaw(col, row)
	return geo.Point{Lat: lat, Lon: lon}
}

func (t GeoTransform) applyRaw(x, y float64) (float64, float64) {
	return t.C + x*t.A + y*t.B, t.F + x*t.D + y*t.E
}

func (t GeoTransform) invert() (GeoTransform, error) {
	det := t.A*t.E - t.B*t.D
	if det == 0 {
		return GeoTransform{}, fmt.Errorf("%w: singular transform %+v", ErrInvalidRaster, t)
	}

	inv := GeoTransform{
		A: t.E / det,
		B: -t.B / det,
		D: -t.D / det,
		E: t.A / det,
	}
	inv.C = -(inv.A*t.C + inv.B*t.F)
	inv.F = -(inv.D*t.C + inv.E*t.F)

	return inv, nil
}
