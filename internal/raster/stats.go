package raster

import "math"

// Stats summarises a raster the way a DEM inspection report does.
type Stats struct {
	Min         float64 `json:"min" yaml:"min"`
	Max         float64 `json:"max" yaml:"max"`
	Mean        float64 `json:"mean" yaml:"mean"`
	ResolutionX float64 `json:"resolution_x" yaml:"resolution_x"` // degrees per pixel
	ResolutionY float64 `json:"resolution_y" yaml:"resolution_y"` // degrees per pixel
	Width       int     `json:"width" yaml:"width"`
	Height      int     `json:"height" yaml:"height"`
}

// Stats scans the whole grid.
func (r *GeoRaster) Stats() Stats {
	s := Stats{
		Min:         math.Inf(1),
		Max:         math.Inf(-1),
		ResolutionX: (r.Bounds.Right - r.Bounds.Left) / float64(r.Width),
		ResolutionY: (r.Bounds.Top - r.Bounds.Bottom) / float64(r.Height),
		Width:       r.Width,
		Height:      r.Height,
	}

	var sum float64
	for _, row := range r.grid {
		for _, v := range row {
			s.Min = math.Min(s.Min, v)
			s.Max = math.Max(s.Max, v)
			sum += v
		}
	}
	s.Mean = sum / float64(r.Width*r.Height)

	return s
}
