package server

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/woozymasta/hgtlink/assets"
	"github.com/woozymasta/hgtlink/internal/config"
	"github.com/woozymasta/hgtlink/internal/dem"
	"github.com/woozymasta/hgtlink/internal/geo"
	"github.com/woozymasta/hgtlink/internal/raster"
)

// TileInfo describes a loaded tile for the API.
type TileInfo struct {
	Name    string         `json:"name"`
	Aliases []string       `json:"aliases,omitempty"`
	Bounds  raster.Bounds  `json:"bounds"`
	Corners raster.Corners `json:"corners"`
	Stats   raster.Stats   `json:"stats"`
}

type tile struct {
	raster *raster.GeoRaster
	info   TileInfo
}

// ServerContext holds dependencies for request handlers.
// Tiles are read-only after construction, so handlers share them freely.
type ServerContext struct {
	Config       *config.Config
	TileResolver map[string]string
	IndexHTML    []byte
	Favicon      []byte

	tiles map[string]*tile
	order []string
}

// NewServerContext loads every configured tile and prepares the web page.
// Tiles that fail to load are skipped with a warning. Without configured
// tiles, every .hgt and .hgt.gz file in the tiles directory is used.
func NewServerContext(cfg *config.Config) (*ServerContext, error) {
	bundle, err := assets.Build()
	if err != nil {
		return nil, fmt.Errorf("build assets: %w", err)
	}

	tiles := cfg.Tiles
	if len(tiles) == 0 {
		tiles = discoverTiles(cfg.TilesDir)
		log.Info().
			Str("dir", cfg.TilesDir).
			Int("found", len(tiles)).
			Msg("No tiles configured, using tiles directory")
	}

	s := &ServerContext{
		Config:       cfg,
		TileResolver: make(map[string]string),
		IndexHTML:    bundle.Index,
		Favicon:      bundle.Favicon,
		tiles:        make(map[string]*tile),
	}

	for _, t := range tiles {
		r, err := dem.Open(t.Path, t.Bounds)
		if err != nil {
			log.Warn().
				Err(err).
				Str("tile", t.Name).
				Str("path", t.Path).
				Msg("Skipping tile: failed to load")
			continue
		}

		s.addTile(t.Name, t.Aliases, r)

		log.Debug().
			Str("tile", t.Name).
			Int("width", r.Width).
			Int("height", r.Height).
			Msg("Tile loaded and added to context")
	}

	if len(s.order) == 0 {
		log.Warn().Msg("No tiles loaded, profile requests will fail")
	}

	log.Info().
		Int("tiles", len(s.order)).
		Msg("Server context initialized successfully")

	return s, nil
}

func (s *ServerContext) addTile(name string, aliases []string, r *raster.GeoRaster) {
	s.tiles[name] = &tile{
		raster: r,
		info: TileInfo{
			Name:    name,
			Aliases: aliases,
			Bounds:  r.Bounds,
			Corners: r.Corners(),
			Stats:   r.Stats(),
		},
	}

	s.TileResolver[name] = name
	for _, alias := range aliases {
		s.TileResolver[alias] = name
	}

	s.order = append(s.order, name)
	sort.Strings(s.order)
}

// Tiles lists loaded tiles sorted by name.
func (s *ServerContext) Tiles() []TileInfo {
	out := make([]TileInfo, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.tiles[name].info)
	}
	return out
}

// findTile resolves a tile by name or alias; with an empty name it picks
// the first tile containing both points.
func (s *ServerContext) findTile(name string, p1, p2 geo.Point) (*raster.GeoRaster, error) {
	if name != "" {
		target, ok := s.TileResolver[name]
		if !ok {
			return nil, fmt.Errorf("%w: %q", errUnknownTile, name)
		}
		return s.tiles[target].raster, nil
	}

	for _, n := range s.order {
		r := s.tiles[n].raster
		if r.Contains(p1) && r.Contains(p2) {
			return r, nil
		}
	}

	return nil, fmt.Errorf("%w: no tile covers both points", errUnknownTile)
}

func discoverTiles(dir string) []config.Tile {
	entries, err := os.ReadDir(dir)
	if err != nil {
		log.Warn().Err(err).Str("dir", dir).Msg("Cannot read tiles directory")
		return nil
	}

	var tiles []config.Tile
	for _, e := range entries {
		lower := strings.ToLower(e.Name())
		if e.IsDir() || !(strings.HasSuffix(lower, ".hgt") || strings.HasSuffix(lower, ".hgt.gz")) {
			continue
		}

		name := e.Name()[:strings.Index(lower, ".hgt")]
		tiles = append(tiles, config.Tile{
			Name: strings.ToUpper(name),
			Path: filepath.Join(dir, e.Name()),
		})
	}
	return tiles
}
