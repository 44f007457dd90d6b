package dem

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/woozymasta/hgtlink/internal/raster"

	"github.com/rs/zerolog/log"
)

// Open loads a DEM file chosen by extension: .hgt and .hgt.gz carry their
// own placement, .tif/.tiff/.png need bounds.
func Open(path string, bounds *raster.Bounds) (*raster.GeoRaster, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	name := strings.ToLower(filepath.Base(path))
	var reader io.Reader = f

	if strings.HasSuffix(name, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("gzip %s: %w", path, err)
		}
		defer func() { _ = gz.Close() }()

		reader = gz
		name = strings.TrimSuffix(name, ".gz")
	}

	var r *raster.GeoRaster
	switch filepath.Ext(name) {
	case ".hgt":
		sw, err := ParseHGTName(name)
		if err != nil {
			return nil, err
		}
		r, err = DecodeHGT(reader, sw)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}

	case ".tif", ".tiff", ".png":
		if bounds == nil {
			return nil, fmt.Errorf("%w: %s needs explicit bounds", ErrUnsupportedFormat, path)
		}
		r, err = DecodeImage(reader, *bounds)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}

	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}

	// explicit bounds override the placement derived from an hgt name
	if bounds != nil {
		if _, ok := r.Transform(); ok {
			r, err = raster.New(r.Grid(), *bounds)
			if err != nil {
				return nil, err
			}
		}
	}

	log.Debug().
		Str("path", path).
		Int("width", r.Width).
		Int("height", r.Height).
		Msg("Elevation tile loaded")

	return r, nil
}
