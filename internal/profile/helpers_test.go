package profile

import (
	"testing"

	"github.com/woozymasta/hgtlink/internal/geo"
	"github.com/woozymasta/hgtlink/internal/raster"
)

var tileBounds = raster.Bounds{Left: 18, Right: 19, Bottom: 40, Top: 41}

// newRaster builds an n×n tile over tileBounds.
func newRaster(t *testing.T, n int, f func(col, row int) float64) *raster.GeoRaster {
	t.Helper()

	g := make([][]float64, n)
	for r := range g {
		g[r] = make([]float64, n)
		for c := range g[r] {
			g[r][c] = f(c, r)
		}
	}

	rs, err := raster.New(g, tileBounds)
	if err != nil {
		t.Fatalf("raster.New: %v", err)
	}
	return rs
}

func flat(h float64) func(int, int) float64 {
	return func(int, int) float64 { return h }
}

func mustSelect(t *testing.T, r *raster.GeoRaster, pts ...geo.Point) Selection {
	t.Helper()

	s, err := Select(r, pts...)
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	return s
}
