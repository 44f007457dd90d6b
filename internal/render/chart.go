// Package render draws link profiles into images.
package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/woozymasta/hgtlink/internal/profile"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/fixed"
)

// Palette used by Chart.
var (
	ColorBackground = color.RGBA{0xfa, 0xfa, 0xf7, 0xff}
	ColorAxis       = color.RGBA{0x44, 0x44, 0x44, 0xff}
	ColorGrid       = color.RGBA{0xdd, 0xdd, 0xdd, 0xff}
	ColorTerrain    = color.RGBA{0x8b, 0x9a, 0x5b, 0xff}
	ColorRaw        = color.RGBA{0x5a, 0x4a, 0x2a, 0xff}
	ColorLOS        = color.RGBA{0x1f, 0x4e, 0xb4, 0xff}
	ColorFresnel    = color.RGBA{0xe0, 0x8a, 0x1e, 0xff}
	ColorObstructed = color.RGBA{0xd0, 0x20, 0x20, 0xff}
)

const (
	padLeft   = 64
	padRight  = 16
	padTop    = 28
	padBottom = 36

	// drawn at this scale and reduced for smoother lines
	supersample = 2
)

// Chart draws terrain, line of sight and the Fresnel envelope of res.
func Chart(res *profile.Result, width, height int) (*image.RGBA, error) {
	if width < padLeft+padRight+16 || height < padTop+padBottom+16 {
		return nil, fmt.Errorf("chart size %dx%d too small", width, height)
	}
	if len(res.Samples) == 0 {
		return nil, fmt.Errorf("profile has no samples")
	}

	big := image.NewRGBA(image.Rect(0, 0, width*supersample, height*supersample))
	draw.Draw(big, big.Bounds(), image.NewUniform(ColorBackground), image.Point{}, draw.Src)

	p := newPlot(res, width*supersample, height*supersample)
	p.grid(big)
	p.terrain(big)
	if !res.Degenerate {
		p.envelope(big)
	}
	p.axes(big)

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	xdraw.BiLinear.Scale(img, img.Bounds(), big, big.Bounds(), draw.Src, nil)

	// text is drawn after scaling to stay crisp
	labels(img, res)

	return img, nil
}

type plot struct {
	res        *profile.Result
	rect       image.Rectangle
	yMin, yMax float64
	scale      int
}

func newPlot(res *profile.Result, w, h int) *plot {
	s := supersample
	p := &plot{
		res:   res,
		rect:  image.Rect(padLeft*s, padTop*s, w-padRight*s, h-padBottom*s),
		yMin:  math.Inf(1),
		yMax:  math.Inf(-1),
		scale: s,
	}

	for _, smp := range res.Samples {
		lo := math.Min(smp.Elevation, smp.Corrected)
		hi := math.Max(smp.Elevation, smp.Corrected)
		if !res.Degenerate {
			lo = math.Min(lo, smp.Lower)
			hi = math.Max(hi, math.Max(smp.Upper, smp.LineOfSight))
		}
		p.yMin = math.Min(p.yMin, lo)
		p.yMax = math.Max(p.yMax, hi)
	}

	span := p.yMax - p.yMin
	if span < 10 {
		span = 10
	}
	p.yMin -= span * 0.05
	p.yMax += span * 0.08

	return p
}

// index maps a pixel column to the nearest sample.
func (p *plot) index(x int) int {
	n := len(p.res.Samples)
	if n == 1 {
		return 0
	}
	f := float64(x-p.rect.Min.X) / float64(p.rect.Dx()-1)
	return int(math.Round(f * float64(n-1)))
}

func (p *plot) y(v float64) int {
	f := (v - p.yMin) / (p.yMax - p.yMin)
	return p.rect.Max.Y - int(math.Round(f*float64(p.rect.Dy())))
}

func (p *plot) grid(img *image.RGBA) {
	for i := 1; i < 5; i++ {
		y := p.rect.Min.Y + p.rect.Dy()*i/5
		hline(img, p.rect.Min.X, p.rect.Max.X, y, ColorGrid)
		x := p.rect.Min.X + p.rect.Dx()*i/5
		vline(img, x, p.rect.Min.Y, p.rect.Max.Y, ColorGrid)
	}
}

func (p *plot) terrain(img *image.RGBA) {
	prevRaw := -1
	for x := p.rect.Min.X; x < p.rect.Max.X; x++ {
		s := p.res.Samples[p.index(x)]

		c := ColorTerrain
		if s.Obstructed {
			c = ColorObstructed
		}
		vline(img, x, p.y(s.Corrected), p.rect.Max.Y, c)

		if p.res.CurvatureApplied {
			y := p.y(s.Elevation)
			if prevRaw >= 0 {
				line(img, x-1, prevRaw, x, y, ColorRaw, p.scale)
			}
			prevRaw = y
		}
	}
}

func (p *plot) envelope(img *image.RGBA) {
	series := []struct {
		get func(profile.Sample) float64
		c   color.RGBA
	}{
		{func(s profile.Sample) float64 { return s.LineOfSight }, ColorLOS},
		{func(s profile.Sample) float64 { return s.Upper }, ColorFresnel},
		{func(s profile.Sample) float64 { return s.Lower }, ColorFresnel},
	}

	for _, sr := range series {
		prev := -1
		for x := p.rect.Min.X; x < p.rect.Max.X; x++ {
			y := p.y(sr.get(p.res.Samples[p.index(x)]))
			if prev >= 0 {
				line(img, x-1, prev, x, y, sr.c, p.scale)
			}
			prev = y
		}
	}
}

func (p *plot) axes(img *image.RGBA) {
	for t := 0; t < p.scale; t++ {
		hline(img, p.rect.Min.X, p.rect.Max.X, p.rect.Max.Y+t, ColorAxis)
		vline(img, p.rect.Min.X-t, p.rect.Min.Y, p.rect.Max.Y, ColorAxis)
	}
}

func labels(img *image.RGBA, res *profile.Result) {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	p := newPlot(res, w*supersample, h*supersample)

	title := fmt.Sprintf("%.2f km  fresnel %.1f m  %.1f GHz", res.TotalDistanceKm, res.FresnelRadius, res.Link.FrequencyGHz)
	if res.CurvatureApplied {
		title += fmt.Sprintf("  curvature %.1f m", res.MaxCurvature)
	}
	status := "CLEAR"
	c := ColorLOS
	if !res.Clear {
		status = fmt.Sprintf("OBSTRUCTED (%d)", res.Obstructed)
		c = ColorObstructed
	}

	text(img, padLeft, 18, title, ColorAxis)
	text(img, w-padRight-len(status)*7, 18, status, c)

	text(img, 4, padTop+10, fmt.Sprintf("%.0f m", p.yMax), ColorAxis)
	text(img, 4, h-padBottom, fmt.Sprintf("%.0f m", p.yMin), ColorAxis)
	text(img, padLeft, h-padBottom+20, "0 km", ColorAxis)

	end := fmt.Sprintf("%.2f km", res.TotalDistanceKm)
	text(img, w-padRight-len(end)*7, h-padBottom+20, end, ColorAxis)
}

func text(img *image.RGBA, x, y int, s string, c color.Color) {
	d := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}

func hline(img *image.RGBA, x0, x1, y int, c color.RGBA) {
	for x := x0; x < x1; x++ {
		img.SetRGBA(x, y, c)
	}
}

func vline(img *image.RGBA, x, y0, y1 int, c color.RGBA) {
	if y0 > y1 {
		y0, y1 = y1, y0
	}
	for y := y0; y < y1; y++ {
		img.SetRGBA(x, y, c)
	}
}

// line draws a Bresenham segment, thickened vertically to width px.
func line(img *image.RGBA, x0, y0, x1, y1 int, c color.RGBA, width int) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}

	e := dx + dy
	for {
		for t := 0; t < width; t++ {
			img.SetRGBA(x0, y0+t, c)
		}
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
