package profile

import (
	"github.com/woozymasta/hgtlink/internal/geo"
	"github.com/woozymasta/hgtlink/internal/raster"

	"github.com/rs/zerolog/log"
)

// Options tunes Compute.
type Options struct {
	Curvature bool
}

// Result is the full profile of a link, ready for rendering.
type Result struct {
	From    geo.Point      `json:"from" yaml:"from"`
	To      geo.Point      `json:"to" yaml:"to"`
	Link    LinkParameters `json:"link" yaml:"link"`
	Samples []Sample       `json:"samples" yaml:"-"`

	TotalDistanceKm   float64 `json:"total_distance_km" yaml:"total_distance_km"`
	FresnelRadius     float64 `json:"fresnel_radius_m" yaml:"fresnel_radius_m"`
	MaxCurvature      float64 `json:"max_curvature_m" yaml:"max_curvature_m"`
	MaxCurvatureIndex int     `json:"max_curvature_index" yaml:"max_curvature_index"`
	WorstMargin       float64 `json:"worst_margin_m" yaml:"worst_margin_m"`
	WorstIndex        int     `json:"worst_index" yaml:"worst_index"`
	Obstructed        int     `json:"obstructed_samples" yaml:"obstructed_samples"`
	LOSBlocked        int     `json:"los_blocked_samples" yaml:"los_blocked_samples"`
	AboveUpper        int     `json:"above_upper_samples" yaml:"above_upper_samples"`
	CurvatureApplied  bool    `json:"curvature_applied" yaml:"curvature_applied"`
	Clear             bool    `json:"clear" yaml:"clear"`

	// Degenerate is set when both points coincide; no clearance is computed then.
	Degenerate bool `json:"degenerate" yaml:"degenerate"`
}

// Compute runs sampling, optional curvature correction and clearance
// analysis for the two selected points.
func Compute(r *raster.GeoRaster, sel Selection, link LinkParameters, opts Options) (*Result, error) {
	p1, p2, err := sel.Pair()
	if err != nil {
		return nil, err
	}
	if err := link.Validate(); err != nil {
		return nil, err
	}

	samples, err := SampleLine(r, p1, p2)
	if err != nil {
		return nil, err
	}

	total := TotalDistance(samples)
	res := &Result{
		From:            p1,
		To:              p2,
		Link:            link,
		Samples:         samples,
		TotalDistanceKm: total / 1000,
	}

	if len(samples) == 1 {
		res.Degenerate = true
		res.Clear = true
		log.Debug().Str("point", p1.String()).Msg("Degenerate profile, both points coincide")
		return res, nil
	}

	if opts.Curvature {
		c := ApplyCurvature(samples, total)
		res.Samples = c.Samples
		res.MaxCurvature = c.Max
		res.MaxCurvatureIndex = c.MaxIndex
		res.CurvatureApplied = true
	}

	cl, err := Analyze(res.Samples, link)
	if err != nil {
		return nil, err
	}

	res.Samples = cl.Samples
	res.FresnelRadius = cl.FresnelRadius
	res.WorstMargin = cl.WorstMargin
	res.WorstIndex = cl.WorstIndex
	res.Obstructed = cl.Obstructed
	res.LOSBlocked = cl.LOSBlocked
	res.AboveUpper = cl.AboveUpper
	res.Clear = cl.Clear()

	log.Debug().
		Float64("distance_km", res.TotalDistanceKm).
		Int("samples", len(res.Samples)).
		Float64("fresnel_m", res.FresnelRadius).
		Bool("clear", res.Clear).
		Msg("Profile computed")

	return res, nil
}

// Path returns the sample positions in order.
func (r *Result) Path() []geo.Point {
	pts := make([]geo.Point, len(r.Samples))
	for i, s := range r.Samples {
		pts[i] = s.Point
	}
	return pts
}

// GeoJSON exports the path as a LineString plus both endpoints and the worst sample.
func (r *Result) GeoJSON() geo.GeoJSONFeatureCollection {
	fc := geo.NewFeatureCollection(4)

	fc.Features = append(fc.Features,
		geo.LineFeature(r.Path(), map[string]any{
			"name":        "path",
			"distance_km": r.TotalDistanceKm,
			"fresnel_m":   r.FresnelRadius,
			"clear":       r.Clear,
		}),
		geo.PointFeature(r.From, map[string]any{
			"name":      "station1",
			"height_m":  r.Link.Height1,
			"elevation": r.Samples[0].Elevation,
		}),
		geo.PointFeature(r.To, map[string]any{
			"name":      "station2",
			"height_m":  r.Link.Height2,
			"elevation": r.Samples[len(r.Samples)-1].Elevation,
		}),
	)

	if !r.Degenerate {
		w := r.Samples[r.WorstIndex]
		fc.Features = append(fc.Features, geo.PointFeature(w.Point, map[string]any{
			"name":       "worst",
			"margin_m":   r.WorstMargin,
			"distance_m": w.Distance,
			"obstructed": w.Obstructed,
		}))
	}

	return fc
}
