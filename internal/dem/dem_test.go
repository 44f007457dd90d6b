package dem

import (
	"bytes"
	"compress/gzip"
	"encoding/binary"
	"errors"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/woozymasta/hgtlink/internal/geo"
	"github.com/woozymasta/hgtlink/internal/raster"
)

func hgtBytes(side int, f func(col, row int) int16) []byte {
	buf := make([]byte, side*side*2)
	for row := 0; row < side; row++ {
		for col := 0; col < side; col++ {
			binary.BigEndian.PutUint16(buf[(row*side+col)*2:], uint16(f(col, row)))
		}
	}
	return buf
}

func TestParseHGTName(t *testing.T) {
	cases := []struct {
		name string
		want geo.Point
	}{
		{"N40E018.hgt", geo.Point{Lat: 40, Lon: 18}},
		{"/data/s12w077.hgt.gz", geo.Point{Lat: -12, Lon: -77}},
		{"N00E000.hgt", geo.Point{}},
	}
	for _, c := range cases {
		got, err := ParseHGTName(c.name)
		if err != nil {
			t.Fatalf("ParseHGTName(%q): %v", c.name, err)
		}
		if got != c.want {
			t.Errorf("ParseHGTName(%q) = %v, want %v", c.name, got, c.want)
		}
	}

	for _, bad := range []string{"tile.hgt", "X40E018.hgt", "N95E018.hgt"} {
		if _, err := ParseHGTName(bad); !errors.Is(err, ErrBadTileName) {
			t.Errorf("ParseHGTName(%q) err = %v, want ErrBadTileName", bad, err)
		}
	}
}

func TestHGTName(t *testing.T) {
	if got := HGTName(40, 18); got != "N40E018" {
		t.Errorf("HGTName(40,18) = %q", got)
	}
	if got := HGTName(-12, -77); got != "S12W077" {
		t.Errorf("HGTName(-12,-77) = %q", got)
	}
}

func TestDecodeHGT(t *testing.T) {
	const side = 5
	data := hgtBytes(side, func(col, row int) int16 {
		if col == 4 && row == 4 {
			return Void
		}
		return int16(100*row - col)
	})

	r, err := DecodeHGT(bytes.NewReader(data), geo.Point{Lat: 40, Lon: 18})
	if err != nil {
		t.Fatalf("DecodeHGT: %v", err)
	}
	if r.Width != side || r.Height != side {
		t.Fatalf("size = %dx%d", r.Width, r.Height)
	}
	if got := r.At(3, 2); got != 197 {
		t.Errorf("At(3,2) = %v, want 197", got)
	}
	if got := r.At(1, 0); got != -1 {
		t.Errorf("At(1,0) = %v, want -1", got)
	}
	if got := r.At(4, 4); got != 0 {
		t.Errorf("void sample = %v, want 0", got)
	}

	// north-west sample sits on the degree corner
	v, err := r.ElevationAt(geo.Point{Lat: 41, Lon: 18})
	if err != nil || v != 0 {
		t.Errorf("ElevationAt(NW) = %v, %v", v, err)
	}
	// south-east sample too
	col, row := r.GeoToPixel(geo.Point{Lat: 40, Lon: 19})
	if col != 4 || row != 4 {
		t.Errorf("GeoToPixel(SE) = (%d,%d), want (4,4)", col, row)
	}

	px := 1.0 / (side - 1)
	if math.Abs(r.Bounds.Left-(18-px/2)) > 1e-12 || math.Abs(r.Bounds.Top-(41+px/2)) > 1e-12 {
		t.Errorf("Bounds = %+v", r.Bounds)
	}
}

func TestDecodeHGTRejectsBadSize(t *testing.T) {
	if _, err := DecodeHGT(bytes.NewReader(nil), geo.Point{}); !errors.Is(err, raster.ErrInvalidRaster) {
		t.Errorf("empty err = %v, want ErrInvalidRaster", err)
	}
	if _, err := DecodeHGT(bytes.NewReader(make([]byte, 14)), geo.Point{}); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("non-square err = %v, want ErrUnsupportedFormat", err)
	}
}

func TestDecodeImageGray16(t *testing.T) {
	img := image.NewGray16(image.Rect(0, 0, 3, 2))
	img.SetGray16(2, 1, color.Gray16{Y: 1234})
	img.SetGray16(0, 0, color.Gray16{Y: uint16(0xFFFF)}) // -1 as int16

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}

	b := raster.Bounds{Left: 0, Right: 3, Bottom: 0, Top: 2}
	r, err := DecodeImage(&buf, b)
	if err != nil {
		t.Fatalf("DecodeImage: %v", err)
	}
	if r.Width != 3 || r.Height != 2 {
		t.Fatalf("size = %dx%d", r.Width, r.Height)
	}
	if got := r.At(2, 1); got != 1234 {
		t.Errorf("At(2,1) = %v, want 1234", got)
	}
	if got := r.At(0, 0); got != -1 {
		t.Errorf("At(0,0) = %v, want -1", got)
	}
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	data := hgtBytes(3, func(col, row int) int16 { return int16(col + row) })

	plain := filepath.Join(dir, "N40E018.hgt")
	if err := os.WriteFile(plain, data, 0644); err != nil {
		t.Fatal(err)
	}

	var gz bytes.Buffer
	zw := gzip.NewWriter(&gz)
	_, _ = zw.Write(data)
	_ = zw.Close()
	packed := filepath.Join(dir, "N40E019.hgt.gz")
	if err := os.WriteFile(packed, gz.Bytes(), 0644); err != nil {
		t.Fatal(err)
	}

	for _, path := range []string{plain, packed} {
		r, err := Open(path, nil)
		if err != nil {
			t.Fatalf("Open(%s): %v", path, err)
		}
		if r.At(2, 2) != 4 {
			t.Errorf("%s: At(2,2) = %v, want 4", path, r.At(2, 2))
		}
	}

	r, err := Open(packed, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !r.Contains(geo.Point{Lat: 40.5, Lon: 19.5}) {
		t.Errorf("gz tile bounds %+v miss its own centre", r.Bounds)
	}

	override := &raster.Bounds{Left: 18, Right: 19, Bottom: 40, Top: 41}
	r, err = Open(plain, override)
	if err != nil {
		t.Fatal(err)
	}
	if r.Bounds != *override {
		t.Errorf("Bounds = %+v, want override %+v", r.Bounds, *override)
	}

	other := filepath.Join(dir, "tile.xyz")
	_ = os.WriteFile(other, data, 0644)
	if _, err := Open(other, nil); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Open(xyz) err = %v, want ErrUnsupportedFormat", err)
	}

	tif := filepath.Join(dir, "tile.tif")
	_ = os.WriteFile(tif, data, 0644)
	if _, err := Open(tif, nil); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Open(tif) without bounds err = %v, want ErrUnsupportedFormat", err)
	}
}
