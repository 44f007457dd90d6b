// Package raster holds a single-band elevation grid with its geographic placement.
package raster

import (
	"errors"
	"fmt"
	"math"

	"github.com/woozymasta/hgtlink/internal/geo"
)

var (
	// ErrInvalidRaster is returned for empty, ragged or badly placed grids.
	ErrInvalidRaster = errors.New("invalid raster")

	// ErrPointOutOfBounds is returned for points outside the raster bounds.
	ErrPointOutOfBounds = errors.New("point out of raster bounds")
)

// Bounds is an axis-aligned geographic box in decimal degrees.
type Bounds struct {
	Left   float64 `json:"left" yaml:"left"`
	Right  float64 `json:"right" yaml:"right"`
	Bottom float64 `json:"bottom" yaml:"bottom"`
	Top    float64 `json:"top" yaml:"top"`
}

// Valid reports whether left < right and bottom < top.
func (b Bounds) Valid() bool {
	return b.Left < b.Right && b.Bottom < b.Top
}

// Contains reports whether p lies inside the box, edges included.
func (b Bounds) Contains(p geo.Point) bool {
	return p.Lon >= b.Left && p.Lon <= b.Right && p.Lat >= b.Bottom && p.Lat <= b.Top
}

// GeoRaster is an immutable elevation grid. Row 0 is the northernmost row.
type GeoRaster struct {
	transform *GeoTransform
	inverse   *GeoTransform
	grid      [][]float64
	Bounds    Bounds
	Width     int
	Height    int
}

// New places grid into bounds. The grid is copied.
func New(grid [][]float64, bounds Bounds) (*GeoRaster, error) {
	w, h, err := checkGrid(grid)
	if err != nil {
		return nil, err
	}
	if !bounds.Valid() {
		return nil, fmt.Errorf("%w: degenerate bounds %+v", ErrInvalidRaster, bounds)
	}

	return &GeoRaster{
		grid:   copyGrid(grid),
		Bounds: bounds,
		Width:  w,
		Height: h,
	}, nil
}

// NewWithTransform places grid with an affine transform; Bounds is derived from the corners.
func NewWithTransform(grid [][]float64, t GeoTransform) (*GeoRaster, error) {
	w, h, err := checkGrid(grid)
	if err != nil {
		return nil, err
	}
	inv, err := t.invert()
	if err != nil {
		return nil, err
	}

	r := &GeoRaster{
		grid:      copyGrid(grid),
		transform: &t,
		inverse:   &inv,
		Width:     w,
		Height:    h,
	}
	r.Bounds = r.cornerBounds()

	if !r.Bounds.Valid() {
		return nil, fmt.Errorf("%w: degenerate bounds %+v", ErrInvalidRaster, r.Bounds)
	}

	return r, nil
}

// Transform returns the affine transform, if the raster was built with one.
func (r *GeoRaster) Transform() (GeoTransform, bool) {
	if r.transform == nil {
		return GeoTransform{}, false
	}
	return *r.transform, true
}

// PixelToGeo maps a (possibly fractional) pixel position to coordinates.
func (r *GeoRaster) PixelToGeo(col, row float64) geo.Point {
	if r.transform != nil {
		return r.transform.Apply(col, row)
	}

	b := r.Bounds
	return geo.Point{
		Lon: b.Left + (col/float64(r.Width))*(b.Right-b.Left),
		Lat: b.Top - (row/float64(r.Height))*(b.Top-b.Bottom),
	}
}

// GeoToPixel maps a point to integer pixel indices, truncating toward zero.
// A point exactly on the right or bottom edge maps to the last column or row.
// Truncation can put points that sit on a pixel border one pixel off.
func (r *GeoRaster) GeoToPixel(p geo.Point) (col, row int) {
	var fc, fr float64

	if r.inverse != nil {
		fc, fr = r.inverse.applyRaw(p.Lon, p.Lat)
	} else {
		b := r.Bounds
		fc = (p.Lon - b.Left) / (b.Right - b.Left) * float64(r.Width)
		fr = (b.Top - p.Lat) / (b.Top - b.Bottom) * float64(r.Height)
	}

	col = clampEdge(int(fc), r.Width)
	row = clampEdge(int(fr), r.Height)
	return col, row
}

// At returns the sample at (col, row). Indices outside the grid panic.
func (r *GeoRaster) At(col, row int) float64 {
	if col < 0 || col >= r.Width || row < 0 || row >= r.Height {
		panic(fmt.Sprintf("raster: pixel (%d, %d) outside %dx%d grid", col, row, r.Width, r.Height))
	}
	return r.grid[row][col]
}

// ElevationAt looks up the sample under a point after checking bounds.
func (r *GeoRaster) ElevationAt(p geo.Point) (float64, error) {
	if err := r.CheckPoint(p); err != nil {
		return 0, err
	}
	col, row := r.GeoToPixel(p)
	return r.At(col, row), nil
}

// Grid returns a copy of the samples, row 0 first.
func (r *GeoRaster) Grid() [][]float64 {
	return copyGrid(r.grid)
}

// Contains reports whether p lies within the raster bounds.
func (r *GeoRaster) Contains(p geo.Point) bool {
	return r.Bounds.Contains(p)
}

// CheckPoint returns ErrPointOutOfBounds for points outside the raster.
func (r *GeoRaster) CheckPoint(p geo.Point) error {
	if math.IsNaN(p.Lat) || math.IsNaN(p.Lon) || !r.Contains(p) {
		return fmt.Errorf("%w: lat %.6f lon %.6f not in [%.6f..%.6f]x[%.6f..%.6f]",
			ErrPointOutOfBounds, p.Lat, p.Lon,
			r.Bounds.Bottom, r.Bounds.Top, r.Bounds.Left, r.Bounds.Right)
	}
	return nil
}

// Corners holds the four corner coordinates of a raster.
type Corners struct {
	TopLeft     geo.Point `json:"top_left" yaml:"top_left"`
	TopRight    geo.Point `json:"top_right" yaml:"top_right"`
	BottomLeft  geo.Point `json:"bottom_left" yaml:"bottom_left"`
	BottomRight geo.Point `json:"bottom_right" yaml:"bottom_right"`
}

// Corners returns the corner coordinates. With a transform they are computed
// from the outer pixel edges, which can differ from Bounds by half a pixel.
func (r *GeoRaster) Corners() Corners {
	if r.transform != nil {
		w, h := float64(r.Width), float64(r.Height)
		return Corners{
			TopLeft:     r.transform.Apply(0, 0),
			TopRight:    r.transform.Apply(w, 0),
			BottomLeft:  r.transform.Apply(0, h),
			BottomRight: r.transform.Apply(w, h),
		}
	}

	b := r.Bounds
	return Corners{
		TopLeft:     geo.Point{Lat: b.Top, Lon: b.Left},
		TopRight:    geo.Point{Lat: b.Top, Lon: b.Right},
		BottomLeft:  geo.Point{Lat: b.Bottom, Lon: b.Left},
		BottomRight: geo.Point{Lat: b.Bottom, Lon: b.Right},
	}
}

func (r *GeoRaster) cornerBounds() Bounds {
	c := r.Corners()
	pts := []geo.Point{c.TopLeft, c.TopRight, c.BottomLeft, c.BottomRight}

	b := Bounds{Left: math.Inf(1), Right: math.Inf(-1), Bottom: math.Inf(1), Top: math.Inf(-1)}
	for _, p := range pts {
		b.Left = math.Min(b.Left, p.Lon)
		b.Right = math.Max(b.Right, p.Lon)
		b.Bottom = math.Min(b.Bottom, p.Lat)
		b.Top = math.Max(b.Top, p.Lat)
	}
	return b
}

func checkGrid(grid [][]float64) (w, h int, err error) {
	h = len(grid)
	if h == 0 {
		return 0, 0, fmt.Errorf("%w: no rows", ErrInvalidRaster)
	}

	w = len(grid[0])
	if w == 0 {
		return 0, 0, fmt.Errorf("%w: no columns", ErrInvalidRaster)
	}

	for i, row := range grid {
		if len(row) != w {
			return 0, 0, fmt.Errorf("%w: row %d has %d samples, want %d", ErrInvalidRaster, i, len(row), w)
		}
	}

	return w, h, nil
}

func copyGrid(grid [][]float64) [][]float64 {
	out := make([][]float64, len(grid))
	for i, row := range grid {
		out[i] = append([]float64(nil), row...)
	}
	return out
}

func clampEdge(i, n int) int {
	if i >= n {
		return n - 1
	}
	if i < 0 {
		return 0
	}
	return i
}
