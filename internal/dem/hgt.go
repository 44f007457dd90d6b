// Package dem decodes elevation tiles (SRTM .hgt and grayscale images) into rasters.
package dem

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/woozymasta/hgtlink/internal/geo"
	"github.com/woozymasta/hgtlink/internal/raster"

	"github.com/rs/zerolog/log"
)

// SRTM grid sizes.
const (
	SRTM1 = 3601 // one arc-second
	SRTM3 = 1201 // three arc-second
)

// Void marks a missing sample in .hgt data.
const Void = -32768

var (
	// ErrUnsupportedFormat is returned for files that are not a known DEM format.
	ErrUnsupportedFormat = errors.New("unsupported elevation format")

	// ErrBadTileName is returned when a .hgt name carries no south-west corner.
	ErrBadTileName = errors.New("bad hgt tile name")
)

var hgtNameRegex = regexp.MustCompile(`(?i)^([NS])(\d{1,2})([EW])(\d{1,3})`)

// ParseHGTName extracts the south-west corner from names like N40E018.hgt.
func ParseHGTName(name string) (geo.Point, error) {
	m := hgtNameRegex.FindStringSubmatch(filepath.Base(name))
	if m == nil {
		return geo.Point{}, fmt.Errorf("%w: %q", ErrBadTileName, name)
	}

	lat, _ := strconv.Atoi(m[2])
	lon, _ := strconv.Atoi(m[4])
	if strings.EqualFold(m[1], "S") {
		lat = -lat
	}
	if strings.EqualFold(m[3], "W") {
		lon = -lon
	}

	if lat < -90 || lat >= 90 || lon < -180 || lon >= 180 {
		return geo.Point{}, fmt.Errorf("%w: %q out of range", ErrBadTileName, name)
	}

	return geo.Point{Lat: float64(lat), Lon: float64(lon)}, nil
}

// HGTName formats the tile name covering the given south-west corner.
func HGTName(lat, lon int) string {
	ns, ew := 'N', 'E'
	if lat < 0 {
		ns, lat = 'S', -lat
	}
	if lon < 0 {
		ew, lon = 'W', -lon
	}
	return fmt.Sprintf("%c%02d%c%03d", ns, lat, ew, lon)
}

// DecodeHGT reads a whole .hgt stream: a square grid of big-endian int16
// samples whose side is inferred from the byte count. The tile covers one
// degree from its south-west corner; samples are centred on whole
// arc-seconds, so the returned bounds extend half a pixel past each degree line.
func DecodeHGT(r io.Reader, sw geo.Point) (*raster.GeoRaster, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	side, err := HGTSide(len(data))
	if err != nil {
		return nil, err
	}

	grid := make([][]float64, side)
	voids := 0
	for row := 0; row < side; row++ {
		line := make([]float64, side)
		off := row * side * 2
		for col := 0; col < side; col++ {
			v := int16(binary.BigEndian.Uint16(data[off+col*2:]))
			if v == Void {
				voids++
				v = 0
			}
			line[col] = float64(v)
		}
		grid[row] = line
	}

	if voids > 0 {
		log.Warn().
			Int("voids", voids).
			Str("tile", HGTName(int(sw.Lat), int(sw.Lon))).
			Msg("Tile contains void samples, replaced with 0")
	}

	px := 1.0 / float64(side-1)
	t := raster.NorthUp(sw.Lon-px/2, sw.Lat+1+px/2, px, px)

	return raster.NewWithTransform(grid, t)
}

// HGTSide infers the grid side from an .hgt byte count.
func HGTSide(size int) (int, error) {
	if size == 0 {
		return 0, fmt.Errorf("%w: empty hgt data", raster.ErrInvalidRaster)
	}
	if size%2 != 0 {
		return 0, fmt.Errorf("%w: odd hgt size %d", ErrUnsupportedFormat, size)
	}

	side := int(math.Sqrt(float64(size / 2)))
	if side*side*2 != size || side < 2 {
		return 0, fmt.Errorf("%w: %d bytes is not a square int16 grid", ErrUnsupportedFormat, size)
	}
	if side != SRTM1 && side != SRTM3 {
		log.Debug().Int("side", side).Msg("Non-standard hgt grid size")
	}

	return side, nil
}
