package profile

import (
	"errors"
	"math"
	"testing"

	"github.com/woozymasta/hgtlink/internal/geo"
)

func TestAnalyzeFlatTerrain(t *testing.T) {
	const total = 10_000.0
	in := evenSamples(11, total, 100)
	link := LinkParameters{Height1: 30, Height2: 30, FrequencyGHz: 2.4}

	c, err := Analyze(in, link)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	want, _ := geo.FresnelRadius(total, 2.4)
	if math.Abs(c.FresnelRadius-want) > 1e-12 {
		t.Errorf("FresnelRadius = %v, want %v", c.FresnelRadius, want)
	}

	for i, s := range c.Samples {
		if math.Abs(s.LineOfSight-130) > 1e-9 {
			t.Errorf("los[%d] = %v, want 130", i, s.LineOfSight)
		}
	}

	mid := c.Samples[5]
	if math.Abs(mid.Upper-(130+want)) > 1e-9 || math.Abs(mid.Lower-(130-want)) > 1e-9 {
		t.Errorf("mid envelope = %v..%v", mid.Lower, mid.Upper)
	}
	if math.Abs(c.Samples[0].Upper-130) > 1e-9 || math.Abs(c.Samples[10].Lower-130) > 1e-9 {
		t.Errorf("envelope not closed at ends: %v, %v", c.Samples[0].Upper, c.Samples[10].Lower)
	}

	if !c.Clear() || c.LOSBlocked != 0 {
		t.Errorf("flat terrain with 30 m masts not clear: %+v", c)
	}
	if c.WorstIndex != 5 || math.Abs(c.WorstMargin-(30-want)) > 1e-9 {
		t.Errorf("worst = %v at %d", c.WorstMargin, c.WorstIndex)
	}
}

func TestAnalyzeDetectsRidge(t *testing.T) {
	in := evenSamples(11, 10_000, 100)
	in[4].Elevation, in[4].Corrected = 125, 125

	c, err := Analyze(in, LinkParameters{Height1: 30, Height2: 30, FrequencyGHz: 2.4})
	if err != nil {
		t.Fatal(err)
	}

	if c.Clear() || !c.Samples[4].Obstructed {
		t.Fatalf("ridge not reported: obstructed=%d", c.Obstructed)
	}
	if c.Samples[4].LOSBlocked {
		t.Errorf("ridge below line of sight flagged as blocking it")
	}
	if c.WorstIndex != 4 || c.WorstMargin >= 0 {
		t.Errorf("worst = %v at %d", c.WorstMargin, c.WorstIndex)
	}
}

func TestAnalyzeSlopedLineOfSight(t *testing.T) {
	in := evenSamples(5, 4000, 0)
	in[4].Elevation, in[4].Corrected = 40, 40

	c, err := Analyze(in, LinkParameters{Height1: 10, Height2: 10, FrequencyGHz: 5})
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(c.Samples[2].LineOfSight-30) > 1e-9 {
		t.Errorf("los[2] = %v, want 30", c.Samples[2].LineOfSight)
	}
}

func TestAnalyzeUsesCorrectedTerrain(t *testing.T) {
	const total = 60_000.0
	in := evenSamples(61, total, 0)
	link := LinkParameters{Height1: 20, Height2: 20, FrequencyGHz: 5}

	plain, err := Analyze(in, link)
	if err != nil {
		t.Fatal(err)
	}
	bent, err := Analyze(ApplyCurvature(in, total).Samples, link)
	if err != nil {
		t.Fatal(err)
	}

	if !(bent.WorstMargin < plain.WorstMargin) {
		t.Fatalf("curvature did not reduce margin: %v vs %v", bent.WorstMargin, plain.WorstMargin)
	}
}

func TestAnalyzeRejects(t *testing.T) {
	good := LinkParameters{FrequencyGHz: 2.4}

	if _, err := Analyze(evenSamples(3, 0, 0), good); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("zero distance err = %v", err)
	}
	if _, err := Analyze([]Sample{{}}, good); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("single sample err = %v", err)
	}
	if _, err := Analyze(evenSamples(3, 100, 0), LinkParameters{}); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("zero frequency err = %v", err)
	}
	if _, err := Analyze(evenSamples(3, 100, 0), LinkParameters{Height1: 41, FrequencyGHz: 2.4}); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("tall mast err = %v", err)
	}
}

// hilltops puts two 100 m stations over a 0 m valley.
func hilltops(n int, total float64) []Sample {
	in := evenSamples(n, total, 0)
	in[0].Elevation, in[0].Corrected = 100, 100
	in[n-1].Elevation, in[n-1].Corrected = 100, 100
	return in
}

func TestAnalyzeZeroHeightStationsClear(t *testing.T) {
	for _, n := range []int{2, 3, 101, 1201, 3601} {
		c, err := Analyze(hilltops(n, 140_000), DefaultLink())
		if err != nil {
			t.Fatalf("n=%d: Analyze: %v", n, err)
		}
		if !c.Clear() || c.LOSBlocked != 0 || c.AboveUpper != 0 {
			t.Errorf("n=%d: clear=%v obstructed=%d los=%d", n, c.Clear(), c.Obstructed, c.LOSBlocked)
		}

		for _, i := range []int{0, n - 1} {
			s := c.Samples[i]
			if s.FresnelRadius != 0 || s.Lower != s.LineOfSight || s.Upper != s.LineOfSight {
				t.Errorf("n=%d: envelope at station %d = %v..%v, los %v", n, i, s.Lower, s.Upper, s.LineOfSight)
			}
			if s.Obstructed || s.LOSBlocked || s.AboveUpper {
				t.Errorf("n=%d: station sample %d flagged: %+v", n, i, s)
			}
		}
	}
}

func TestAnalyzeStationsIgnoreCurvatureNoise(t *testing.T) {
	const total = 140_000.0
	in := hilltops(1201, total)
	// valley deep enough to stay clear of the bulge
	for i := 1; i < len(in)-1; i++ {
		in[i].Elevation, in[i].Corrected = -1000, -1000
	}

	c, err := Analyze(ApplyCurvature(in, total).Samples, DefaultLink())
	if err != nil {
		t.Fatal(err)
	}
	if !c.Clear() {
		t.Errorf("obstructed = %d, want clear", c.Obstructed)
	}
}

func TestAnalyzeAboveUpperEnvelope(t *testing.T) {
	in := evenSamples(11, 10_000, 100)
	in[4].Elevation, in[4].Corrected = 125, 125
	in[6].Elevation, in[6].Corrected = 200, 200

	c, err := Analyze(in, LinkParameters{Height1: 30, Height2: 30, FrequencyGHz: 2.4})
	if err != nil {
		t.Fatal(err)
	}

	if c.AboveUpper != 1 || !c.Samples[6].AboveUpper {
		t.Fatalf("above upper = %d, sample 6 %v", c.AboveUpper, c.Samples[6].AboveUpper)
	}
	if c.Samples[4].AboveUpper {
		t.Errorf("sample inside the zone counted over the upper envelope")
	}
	if c.Obstructed != 2 || c.LOSBlocked != 1 {
		t.Errorf("obstructed = %d, los blocked = %d, want 2 and 1", c.Obstructed, c.LOSBlocked)
	}
}
