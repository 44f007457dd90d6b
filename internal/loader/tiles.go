// Package loader downloads SRTM .hgt tiles covering an area.
package loader

import (
	"bytes"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"math"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/woozymasta/hgtlink/internal/config"
	"github.com/woozymasta/hgtlink/internal/dem"

	"github.com/rs/zerolog/log"
)

// TileCoordinate is the south-west corner of a one-degree tile.
type TileCoordinate struct {
	Lat, Lon int
}

// Name returns the SRTM name, e.g. N40E018.
func (t TileCoordinate) Name() string {
	return dem.HGTName(t.Lat, t.Lon)
}

// Area is a lat/lon box in decimal degrees.
type Area struct {
	South, North float64
	West, East   float64
}

// Tiles lists every tile touching the area. An inverted box has no tiles.
func (a Area) Tiles() []TileCoordinate {
	if a.South > a.North || a.West > a.East {
		return nil
	}

	south, north := int(math.Floor(a.South)), int(math.Floor(a.North))
	west, east := int(math.Floor(a.West)), int(math.Floor(a.East))

	// an edge exactly on a degree line does not pull in the next tile
	if a.North == float64(north) && north > south {
		north--
	}
	if a.East == float64(east) && east > west {
		east--
	}

	tiles := make([]TileCoordinate, 0, (north-south+1)*(east-west+1))
	for lat := south; lat <= north; lat++ {
		for lon := west; lon <= east; lon++ {
			tiles = append(tiles, TileCoordinate{Lat: lat, Lon: lon})
		}
	}
	return tiles
}

type job struct {
	URL   string
	Path  string
	Coord TileCoordinate
}

type result struct {
	Err   error
	Coord TileCoordinate
	Valid bool
}

// Summary counts the outcome of a run.
type Summary struct {
	Saved   []TileCoordinate
	Missing int
	Failed  int
}

// ProcessTiles downloads the tiles of area into dir using concurrency workers.
// Tiles already on disk are kept unless force is set. Tiles the source does
// not have (404, usually open sea) are counted as missing.
func ProcessTiles(ctx context.Context, client *http.Client, src config.Source, dir string, area Area, force bool) (Summary, error) {
	if src.URL == "" {
		return Summary{}, fmt.Errorf("no tile source url configured")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return Summary{}, err
	}

	tiles := area.Tiles()
	concurrency := max(1, min(src.Concurrency, len(tiles)))

	log.Info().
		Int("tiles", len(tiles)).
		Int("workers", concurrency).
		Str("dir", dir).
		Msg("Starting tile download")

	jobs := make(chan job, len(tiles))
	results := make(chan result, len(tiles))

	go func() {
		for _, t := range tiles {
			jobs <- job{Coord: t, URL: buildURL(src.URL, t), Path: tilePath(dir, t, src.Gzip)}
		}
		close(jobs)
	}()

	var wg sync.WaitGroup
	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				if ctx.Err() != nil {
					results <- result{Coord: j.Coord, Err: ctx.Err()}
					continue
				}
				ok, err := download(ctx, client, j, src.Gzip, force)
				if err != nil {
					log.Warn().
						Err(err).
						Str("tile", j.Coord.Name()).
						Str("url", j.URL).
						Msg("Failed to download tile")
				}
				results <- result{Coord: j.Coord, Valid: ok, Err: err}
			}
		}()
	}
	wg.Wait()
	close(results)

	var sum Summary
	for res := range results {
		switch {
		case res.Err != nil:
			sum.Failed++
		case res.Valid:
			sum.Saved = append(sum.Saved, res.Coord)
		default:
			sum.Missing++
		}
	}

	return sum, ctx.Err()
}

func download(ctx context.Context, client *http.Client, j job, gz, force bool) (bool, error) {
	if !force {
		if info, err := os.Stat(j.Path); err == nil && info.Size() > 0 {
			log.Debug().Str("tile", j.Coord.Name()).Msg("Tile exists, skipping")
			return true, nil
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, j.URL, nil)
	if err != nil {
		return false, err
	}

	resp, err := client.Do(req)
	if err != nil {
		return false, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		log.Trace().Str("url", j.URL).Msg("Tile not found (404)")
		return false, nil
	}
	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("status code %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return false, err
	}
	if err := checkPayload(body, gz); err != nil {
		return false, err
	}

	// write next to the target and rename so a partial file is never picked up
	tmp := j.Path + ".part"
	if err := os.WriteFile(tmp, body, 0644); err != nil {
		return false, err
	}
	if err := os.Rename(tmp, j.Path); err != nil {
		return false, err
	}

	log.Info().Str("tile", j.Coord.Name()).Int("bytes", len(body)).Msg("Tile saved")
	return true, nil
}

// checkPayload verifies the body is a square int16 grid.
func checkPayload(body []byte, gz bool) error {
	size := len(body)
	if gz {
		zr, err := gzip.NewReader(bytes.NewReader(body))
		if err != nil {
			return err
		}
		n, err := io.Copy(io.Discard, zr)
		if err != nil {
			return err
		}
		size = int(n)
	}

	_, err := dem.HGTSide(size)
	return err
}

func buildURL(tpl string, c TileCoordinate) string {
	name := c.Name()
	s := strings.ReplaceAll(tpl, "{name}", name)
	s = strings.ReplaceAll(s, "{lat_dir}", name[:3])
	return s
}

func tilePath(dir string, c TileCoordinate, gz bool) string {
	name := c.Name() + ".hgt"
	if gz {
		name += ".gz"
	}
	return filepath.Join(dir, name)
}
