package loader

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/woozymasta/hgtlink/internal/dem"
	"github.com/woozymasta/hgtlink/internal/geo"

	"github.com/rs/zerolog/log"
)

// IndexFile is the footprint collection written next to the tiles.
const IndexFile = "tiles.geojson"

// WriteIndex scans dir for .hgt and .hgt.gz files and saves their
// one-degree footprints as a GeoJSON polygon collection.
func WriteIndex(dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, err
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		n := strings.ToLower(e.Name())
		if e.IsDir() || !(strings.HasSuffix(n, ".hgt") || strings.HasSuffix(n, ".hgt.gz")) {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	fc := geo.NewFeatureCollection(len(names))
	for _, name := range names {
		sw, err := dem.ParseHGTName(name)
		if err != nil {
			log.Warn().Err(err).Str("file", name).Msg("Skipping file with unparsable name")
			continue
		}

		ring := []geo.Point{
			sw,
			{Lat: sw.Lat, Lon: sw.Lon + 1},
			{Lat: sw.Lat + 1, Lon: sw.Lon + 1},
			{Lat: sw.Lat + 1, Lon: sw.Lon},
		}
		fc.Features = append(fc.Features, geo.PolygonFeature(ring, map[string]any{
			"name": dem.HGTName(int(sw.Lat), int(sw.Lon)),
			"file": name,
		}))
	}

	return len(fc.Features), saveGeoJSON(filepath.Join(dir, IndexFile), fc)
}

// saveGeoJSON marshals the feature collection and writes it to disk.
func saveGeoJSON(path string, fc geo.GeoJSONFeatureCollection) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	// We care about write errors on close
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			log.Error().Err(closeErr).Str("path", path).Msg("Failed to close file")
		}
	}()

	return json.NewEncoder(f).Encode(fc)
}
