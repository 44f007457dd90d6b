package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/woozymasta/hgtlink/internal/profile"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
tiles:
  - name: N40E018
  - name: valley
    path: /srv/dem/valley.tif
    aliases: [v]
    bounds: {left: 18, right: 18.5, bottom: 40, top: 40.5}
`))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Link != profile.DefaultLink() {
		t.Errorf("Link = %+v, want defaults", cfg.Link)
	}
	if cfg.Chart.Width != 1200 || cfg.Chart.Height != 480 || cfg.Source.Concurrency != 8 {
		t.Errorf("defaults not applied: %+v %+v", cfg.Chart, cfg.Source)
	}
	if got := cfg.Tiles[0].Path; got != filepath.Join("tiles", "N40E018.hgt") {
		t.Errorf("tile path = %q", got)
	}
	if got := cfg.Tiles[1].Path; got != "/srv/dem/valley.tif" {
		t.Errorf("absolute path rewritten to %q", got)
	}
	if cfg.Tiles[1].Bounds == nil || cfg.Tiles[1].Bounds.Right != 18.5 {
		t.Errorf("bounds = %+v", cfg.Tiles[1].Bounds)
	}
}

func TestLoadLink(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
tiles_dir: /data
link: {height1: 12, height2: 8}
tiles: [{name: a}]
`))
	if err != nil {
		t.Fatal(err)
	}
	want := profile.LinkParameters{Height1: 12, Height2: 8, FrequencyGHz: 2.4}
	if cfg.Link != want {
		t.Errorf("Link = %+v, want %+v", cfg.Link, want)
	}
	if cfg.Tiles[0].Path != "/data/a.hgt" {
		t.Errorf("path = %q", cfg.Tiles[0].Path)
	}
}

func TestLoadRejects(t *testing.T) {
	cases := map[string]string{
		"tall mast":   "link: {height1: 45}\ntiles: []",
		"no name":     "tiles: [{path: x.hgt}]",
		"duplicate":   "tiles: [{name: a}, {name: a}]",
		"flat bounds": "tiles: [{name: a, bounds: {left: 1, right: 1, bottom: 0, top: 1}}]",
	}

	for name, body := range cases {
		if _, err := Load(writeConfig(t, body)); err == nil {
			t.Errorf("%s: no error", name)
		}
	}

	_, err := Load(writeConfig(t, "link: {frequency: 12}\ntiles: []"))
	if !errors.Is(err, profile.ErrInvalidParameter) {
		t.Errorf("frequency 12 err = %v, want ErrInvalidParameter", err)
	}
}
