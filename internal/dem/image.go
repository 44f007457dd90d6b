package dem

import (
	"fmt"
	"image"
	"image/color"
	_ "image/png"
	"io"

	"github.com/woozymasta/hgtlink/internal/raster"

	_ "golang.org/x/image/tiff"
)

// DecodeImage reads a single-band grayscale PNG or TIFF. 16-bit samples are
// taken as signed meters, 8-bit samples as-is. The file carries no placement,
// so bounds must be supplied.
func DecodeImage(r io.Reader, bounds raster.Bounds) (*raster.GeoRaster, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnsupportedFormat, err)
	}

	b := img.Bounds()
	grid := make([][]float64, b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		line := make([]float64, b.Dx())
		for x := b.Min.X; x < b.Max.X; x++ {
			line[x-b.Min.X] = sampleValue(img, x, y)
		}
		grid[y-b.Min.Y] = line
	}

	rs, err := raster.New(grid, bounds)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", format, err)
	}

	return rs, nil
}

func sampleValue(img image.Image, x, y int) float64 {
	switch im := img.(type) {
	case *image.Gray16:
		return float64(int16(im.Gray16At(x, y).Y))
	case *image.Gray:
		return float64(im.GrayAt(x, y).Y)
	default:
		g := color.Gray16Model.Convert(img.At(x, y)).(color.Gray16)
		return float64(int16(g.Y))
	}
}
