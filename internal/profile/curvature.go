package profile

import "github.com/woozymasta/hgtlink/internal/geo"

// Curvature is a profile with the Earth bulge added to every sample.
type Curvature struct {
	Samples  []Sample
	Max      float64 // meters, D²/8R for an odd sample count
	MaxIndex int
}

// ApplyCurvature adds the height of the Earth's surface above the chord
// joining both ends: zero at the ends, total²/(8R) at the middle.
// The input slice is not modified.
func ApplyCurvature(samples []Sample, total float64) Curvature {
	out := append([]Sample(nil), samples...)
	res := Curvature{Samples: out}

	n := len(out)
	if n < 2 || total <= 0 {
		return res
	}

	const r2 = 2 * geo.EarthRadius
	step := total / float64(n-1)
	peak := total * total / (4 * r2)

	for i := range out {
		x := -total/2 + float64(i)*step
		off := peak - x*x/r2

		out[i].CurvatureOffset = off
		out[i].Corrected = out[i].Elevation + off

		if off > res.Max {
			res.Max = off
			res.MaxIndex = i
		}
	}

	return res
}
