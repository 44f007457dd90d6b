package render

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"

	"github.com/chai2010/webp"
)

// ErrUnknownFormat is returned by Encode for formats other than webp and png.
var ErrUnknownFormat = errors.New("unknown image format")

// ContentType returns the MIME type for a supported format.
func ContentType(format string) string {
	switch format {
	case "webp":
		return "image/webp"
	case "png":
		return "image/png"
	}
	return ""
}

// Encode writes img as webp (lossless) or png.
func Encode(w io.Writer, img image.Image, format string) error {
	switch format {
	case "webp":
		return webp.Encode(w, img, &webp.Options{Lossless: true})
	case "png":
		return png.Encode(w, img)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}
