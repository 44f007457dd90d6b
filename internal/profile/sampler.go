package profile

import (
	"github.com/woozymasta/hgtlink/internal/geo"
	"github.com/woozymasta/hgtlink/internal/raster"
)

// Sample is one point of a terrain profile. Fields past Elevation are
// filled by ApplyCurvature and Analyze.
type Sample struct {
	Point     geo.Point `json:"point"`
	Col       int       `json:"col"`
	Row       int       `json:"row"`
	Distance  float64   `json:"distance_m"`
	Elevation float64   `json:"elevation_m"`

	// Corrected equals Elevation until curvature is applied.
	CurvatureOffset float64 `json:"curvature_offset_m"`
	Corrected       float64 `json:"corrected_elevation_m"`

	LineOfSight   float64 `json:"line_of_sight_m"`
	FresnelRadius float64 `json:"fresnel_radius_m"`
	Upper         float64 `json:"fresnel_upper_m"`
	Lower         float64 `json:"fresnel_lower_m"`
	Margin        float64 `json:"margin_m"`
	Obstructed    bool    `json:"obstructed"`
	LOSBlocked    bool    `json:"los_blocked"`
	AboveUpper    bool    `json:"above_upper"`
}

// SampleLine walks the straight degree-space line p1→p2 over r with one
// sample per pixel step along the dominant axis. Distances are spread
// uniformly over the great-circle length. Equal points yield a single sample.
func SampleLine(r *raster.GeoRaster, p1, p2 geo.Point) ([]Sample, error) {
	if err := r.CheckPoint(p1); err != nil {
		return nil, err
	}
	if err := r.CheckPoint(p2); err != nil {
		return nil, err
	}

	c1, r1 := r.GeoToPixel(p1)
	if p1.Equal(p2) {
		return []Sample{newSample(r, p1, c1, r1, 0)}, nil
	}

	c2, r2 := r.GeoToPixel(p2)
	n := max(absInt(c2-c1), absInt(r2-r1)) + 1
	// distinct points inside one pixel still need both ends
	n = max(n, 2)

	total := geo.Haversine(p1, p2)
	last := float64(n - 1)

	samples := make([]Sample, n)
	for i := range samples {
		t := float64(i) / last
		p := geo.Interpolate(p1, p2, t)
		col, row := r.GeoToPixel(p)
		samples[i] = newSample(r, p, col, row, total*t)
	}

	return samples, nil
}

// TotalDistance returns the distance of the last sample.
func TotalDistance(samples []Sample) float64 {
	if len(samples) == 0 {
		return 0
	}
	return samples[len(samples)-1].Distance
}

func newSample(r *raster.GeoRaster, p geo.Point, col, row int, dist float64) Sample {
	e := r.At(col, row)
	return Sample{
		Point:     p,
		Col:       col,
		Row:       row,
		Distance:  dist,
		Elevation: e,
		Corrected: e,
	}
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
