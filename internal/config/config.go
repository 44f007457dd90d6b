// Package config handles configuration loading and shared data structures.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/woozymasta/hgtlink/internal/profile"
	"github.com/woozymasta/hgtlink/internal/raster"

	"gopkg.in/yaml.v3"
)

// Config represents the root configuration file structure.
type Config struct {
	Source    Source                 `yaml:"source,omitempty"`
	TilesDir  string                 `yaml:"tiles_dir,omitempty"`
	Tiles     []Tile                 `yaml:"tiles"`
	Link      profile.LinkParameters `yaml:"link,omitempty"`
	Chart     Chart                  `yaml:"chart,omitempty"`
	Curvature bool                   `yaml:"curvature,omitempty"`
}

// Tile is a single elevation file exposed by name.
type Tile struct {
	// required for image rasters, overrides the placement of .hgt files
	Bounds *raster.Bounds `yaml:"bounds,omitempty" json:"bounds,omitempty"`

	Name    string   `yaml:"name" json:"name"`
	Path    string   `yaml:"path" json:"-"`
	Aliases []string `yaml:"aliases,omitempty" json:"-"`
}

// Chart sets the rendered profile image size.
type Chart struct {
	Width  int `yaml:"width,omitempty"`
	Height int `yaml:"height,omitempty"`
}

// Source describes where the loader fetches .hgt tiles from.
type Source struct {
	// URL template with {name} (e.g. N40E018) and {lat_dir} (e.g. N40) placeholders
	URL         string `yaml:"url,omitempty"`
	Concurrency int    `yaml:"concurrency,omitempty"`
	Gzip        bool   `yaml:"gzip,omitempty"`
}

// Load reads and parses the YAML configuration file from the specified path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	if err := cfg.normalize(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return &cfg, nil
}

// normalize fills defaults and resolves tile paths against TilesDir.
func (c *Config) normalize() error {
	if c.TilesDir == "" {
		c.TilesDir = "tiles"
	}

	if c.Link == (profile.LinkParameters{}) {
		c.Link = profile.DefaultLink()
	} else if c.Link.FrequencyGHz == 0 {
		c.Link.FrequencyGHz = profile.DefaultFrequencyGHz
	}
	if err := c.Link.Validate(); err != nil {
		return fmt.Errorf("link: %w", err)
	}

	if c.Chart.Width <= 0 {
		c.Chart.Width = 1200
	}
	if c.Chart.Height <= 0 {
		c.Chart.Height = 480
	}
	if c.Source.Concurrency <= 0 {
		c.Source.Concurrency = 8
	}

	seen := make(map[string]bool, len(c.Tiles))
	for i := range c.Tiles {
		t := &c.Tiles[i]
		if t.Name == "" {
			return fmt.Errorf("tile #%d has no name", i)
		}
		if seen[t.Name] {
			return fmt.Errorf("duplicate tile name %q", t.Name)
		}
		seen[t.Name] = true

		if t.Path == "" {
			t.Path = t.Name + ".hgt"
		}
		if !filepath.IsAbs(t.Path) {
			t.Path = filepath.Join(c.TilesDir, t.Path)
		}
		if t.Bounds != nil && !t.Bounds.Valid() {
			return fmt.Errorf("tile %q: invalid bounds %+v", t.Name, *t.Bounds)
		}
	}

	return nil
}
