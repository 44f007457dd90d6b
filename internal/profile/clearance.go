package profile

import (
	"fmt"
	"math"

	"github.com/woozymasta/hgtlink/internal/geo"
)

// Clearance is a profile annotated with the line of sight and the first Fresnel zone.
type Clearance struct {
	Samples       []Sample
	FresnelRadius float64 // meters, at mid-path
	WorstMargin   float64 // meters, negative when terrain enters the zone
	WorstIndex    int
	Obstructed    int // samples intruding into the zone
	LOSBlocked    int // samples above the line of sight
	AboveUpper    int // samples reaching over the upper envelope
}

// Clear reports whether no sample intrudes into the first Fresnel zone.
func (c Clearance) Clear() bool {
	return c.Obstructed == 0
}

// Analyze draws the line between both antenna tops and a sine-shaped
// envelope of one Fresnel radius around it, then compares the terrain
// (curvature-corrected when applied) with both envelopes. Clear is decided
// by the lower envelope; terrain over the upper one is counted separately.
// The envelope is a visual approximation of the zone, not an exact
// ellipsoid section. The end samples carry the stations and are never
// counted as obstructions. The input slice is not modified.
func Analyze(samples []Sample, link LinkParameters) (Clearance, error) {
	if err := link.Validate(); err != nil {
		return Clearance{}, err
	}

	n := len(samples)
	if n < 2 {
		return Clearance{}, fmt.Errorf("%w: profile has %d samples", ErrInvalidParameter, n)
	}

	total := TotalDistance(samples)
	if total <= 0 || math.IsNaN(total) {
		return Clearance{}, fmt.Errorf("%w: path distance %g m", ErrInvalidParameter, total)
	}

	radius, err := geo.FresnelRadius(total, link.FrequencyGHz)
	if err != nil {
		return Clearance{}, fmt.Errorf("%w: %w", ErrInvalidParameter, err)
	}

	out := append([]Sample(nil), samples...)
	res := Clearance{
		Samples:       out,
		FresnelRadius: radius,
		WorstMargin:   math.Inf(1),
	}

	start := out[0].Elevation + link.Height1
	end := out[n-1].Elevation + link.Height2
	last := float64(n - 1)

	for i := range out {
		t := float64(i) / last
		s := &out[i]
		station := i == 0 || i == n-1

		s.LineOfSight = start + (end-start)*t
		if station {
			// sin(π) is not exactly zero
			s.FresnelRadius = 0
		} else {
			s.FresnelRadius = radius * math.Sin(math.Pi*t)
		}
		s.Upper = s.LineOfSight + s.FresnelRadius
		s.Lower = s.LineOfSight - s.FresnelRadius
		s.Margin = s.Lower - s.Corrected

		if !station {
			s.Obstructed = s.Corrected > s.Lower
			s.LOSBlocked = s.Corrected > s.LineOfSight
			s.AboveUpper = s.Corrected > s.Upper
		}
		if s.Obstructed {
			res.Obstructed++
		}
		if s.LOSBlocked {
			res.LOSBlocked++
		}
		if s.AboveUpper {
			res.AboveUpper++
		}

		if n > 2 && station {
			continue
		}
		if s.Margin < res.WorstMargin {
			res.WorstMargin = s.Margin
			res.WorstIndex = i
		}
	}

	return res, nil
}
