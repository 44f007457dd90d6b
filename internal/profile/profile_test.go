package profile

import (
	"errors"
	"math"
	"testing"

	"github.com/woozymasta/hgtlink/internal/geo"
)

func TestComputeAcrossTile(t *testing.T) {
	r := newRaster(t, 3601, flat(300))
	sel := mustSelect(t, r, geo.Point{Lat: 40.5, Lon: 18.0}, geo.Point{Lat: 40.5, Lon: 19.0})
	link := LinkParameters{Height1: 20, Height2: 20, FrequencyGHz: 2.4}

	res, err := Compute(r, sel, link, Options{Curvature: true})
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}

	if len(res.Samples) != 3601 {
		t.Fatalf("samples = %d, want 3601", len(res.Samples))
	}
	if math.Abs(res.TotalDistanceKm-84.6) > 0.2 {
		t.Errorf("distance = %v km", res.TotalDistanceKm)
	}

	d := res.TotalDistanceKm * 1000
	if want := d * d / (8 * geo.EarthRadius); math.Abs(res.MaxCurvature-want) > 1e-6 || res.MaxCurvatureIndex != 1800 {
		t.Errorf("max curvature = %v at %d, want %v at 1800", res.MaxCurvature, res.MaxCurvatureIndex, want)
	}

	// ~140 m bulge over 85 km swamps 20 m masts
	if res.Clear || res.Obstructed == 0 || res.LOSBlocked == 0 {
		t.Errorf("curved path reported clear: %+v", res.Obstructed)
	}

	fc := res.GeoJSON()
	if len(fc.Features) != 4 || fc.Features[0].Geometry.Type != "LineString" {
		t.Errorf("GeoJSON = %+v", fc.Features)
	}
}

func TestComputeWithoutCurvature(t *testing.T) {
	r := newRaster(t, 101, flat(300))
	sel := mustSelect(t, r, geo.Point{Lat: 40.5, Lon: 18.2}, geo.Point{Lat: 40.5, Lon: 18.4})

	res, err := Compute(r, sel, LinkParameters{Height1: 20, Height2: 20, FrequencyGHz: 5}, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if res.CurvatureApplied || res.MaxCurvature != 0 {
		t.Errorf("curvature applied: %+v", res)
	}
	if !res.Clear {
		t.Errorf("flat short path not clear, worst margin %v", res.WorstMargin)
	}
}

func TestComputeDefaultLinkBetweenHilltops(t *testing.T) {
	const n = 1201
	r := newRaster(t, n, func(col, row int) float64 {
		if (col == 0 && row == n-1) || (col == n-1 && row == 0) {
			return 100
		}
		return 0
	})
	sel := mustSelect(t, r, geo.Point{Lat: 40, Lon: 18}, geo.Point{Lat: 41, Lon: 19})

	res, err := Compute(r, sel, DefaultLink(), Options{})
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if len(res.Samples) != n || res.Samples[0].Elevation != 100 || res.Samples[n-1].Elevation != 100 {
		t.Fatalf("stations not on the hilltops: %d samples", len(res.Samples))
	}
	if res.TotalDistanceKm < 130 || res.TotalDistanceKm > 150 {
		t.Errorf("distance = %v km", res.TotalDistanceKm)
	}
	if !res.Clear || res.Obstructed != 0 || res.LOSBlocked != 0 || res.AboveUpper != 0 {
		t.Errorf("clear=%v obstructed=%d los=%d above=%d", res.Clear, res.Obstructed, res.LOSBlocked, res.AboveUpper)
	}
}

func TestComputeDegenerate(t *testing.T) {
	r := newRaster(t, 10, flat(42))
	p := geo.Point{Lat: 40.5, Lon: 18.5}
	sel := mustSelect(t, r, p, p)

	res, err := Compute(r, sel, DefaultLink(), Options{Curvature: true})
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if !res.Degenerate || len(res.Samples) != 1 || res.Samples[0].Elevation != 42 || res.TotalDistanceKm != 0 {
		t.Fatalf("degenerate result = %+v", res)
	}
	if fc := res.GeoJSON(); len(fc.Features) != 3 {
		t.Errorf("degenerate GeoJSON features = %d, want 3", len(fc.Features))
	}
}

func TestComputeValidation(t *testing.T) {
	r := newRaster(t, 10, flat(0))
	one := mustSelect(t, r, geo.Point{Lat: 40.5, Lon: 18.5})
	two := mustSelect(t, r, geo.Point{Lat: 40.5, Lon: 18.5}, geo.Point{Lat: 40.6, Lon: 18.6})

	if _, err := Compute(r, one, DefaultLink(), Options{}); !errors.Is(err, ErrInsufficientPoints) {
		t.Errorf("one point err = %v", err)
	}
	if _, err := Compute(r, two, LinkParameters{Height1: 45, FrequencyGHz: 2.4}, Options{}); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("height 45 err = %v", err)
	}
}
