package profile

import (
	"github.com/woozymasta/hgtlink/internal/geo"
	"github.com/woozymasta/hgtlink/internal/raster"
)

// Selection is an immutable ordered list of at most two points.
// The zero value is an empty selection.
type Selection struct {
	points []geo.Point
}

// Select builds a selection by adding each point in turn.
func Select(r *raster.GeoRaster, points ...geo.Point) (Selection, error) {
	var s Selection
	for _, p := range points {
		next, err := s.Add(p, r)
		if err != nil {
			return s, err
		}
		s = next
	}
	return s, nil
}

// Add returns a selection with p appended. On error the receiver is returned unchanged.
func (s Selection) Add(p geo.Point, r *raster.GeoRaster) (Selection, error) {
	if len(s.points) >= 2 {
		return s, ErrSelectionFull
	}
	if err := r.CheckPoint(p); err != nil {
		return s, err
	}

	next := make([]geo.Point, 0, 2)
	next = append(next, s.points...)
	next = append(next, p)

	return Selection{points: next}, nil
}

// Clear returns an empty selection.
func (s Selection) Clear() Selection {
	return Selection{}
}

// Len returns the number of selected points.
func (s Selection) Len() int {
	return len(s.points)
}

// Points returns a copy of the selected points.
func (s Selection) Points() []geo.Point {
	return append([]geo.Point(nil), s.points...)
}

// Pair returns both points once the selection is complete.
func (s Selection) Pair() (geo.Point, geo.Point, error) {
	if len(s.points) != 2 {
		return geo.Point{}, geo.Point{}, ErrInsufficientPoints
	}
	return s.points[0], s.points[1], nil
}
