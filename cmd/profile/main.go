package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/woozymasta/hgtlink/internal/dem"
	"github.com/woozymasta/hgtlink/internal/geo"
	"github.com/woozymasta/hgtlink/internal/logger"
	"github.com/woozymasta/hgtlink/internal/profile"
	"github.com/woozymasta/hgtlink/internal/raster"
	"github.com/woozymasta/hgtlink/internal/render"

	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	Tile      string  `short:"t" long:"tile"      description:"Elevation file (.hgt, .hgt.gz, .tif, .png)" required:"true"`
	Bounds    string  `short:"b" long:"bounds"    description:"Raster bounds as left,bottom,right,top; required for images"`
	From      string  `short:"1" long:"from"      description:"First point as lat,lon (decimal or DMS)" required:"true"`
	To        string  `short:"2" long:"to"        description:"Second point as lat,lon (decimal or DMS)" required:"true"`
	Height1   float64 `long:"h1"                  description:"Antenna height at the first point, m" default:"0"`
	Height2   float64 `long:"h2"                  description:"Antenna height at the second point, m" default:"0"`
	Frequency float64 `short:"f" long:"frequency" description:"Link frequency, GHz" default:"2.4"`
	Curvature bool    `short:"k" long:"curvature" description:"Apply Earth curvature correction"`
	Format    string  `short:"o" long:"format"    description:"Output format" choice:"json" choice:"yaml" choice:"geojson" choice:"summary" default:"summary"`
	Samples   bool    `short:"s" long:"samples"   description:"Include per-sample data in json output"`
	Chart     string  `long:"chart"               description:"Also render the profile chart to this .webp or .png file"`
	Width     int     `long:"width"               description:"Chart width" default:"1200"`
	Height    int     `long:"height"              description:"Chart height" default:"480"`
}

func main() {
	var opts Options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	opts.Logger.Setup()

	var bounds *raster.Bounds
	if opts.Bounds != "" {
		b, err := parseBounds(opts.Bounds)
		if err != nil {
			log.Fatal().Err(err).Msg("Invalid --bounds")
		}
		bounds = &b
	}

	r, err := dem.Open(opts.Tile, bounds)
	if err != nil {
		log.Fatal().Err(err).Str("tile", opts.Tile).Msg("Failed to load elevation data")
	}

	p1, err := geo.ParsePoint(opts.From)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid --from")
	}
	p2, err := geo.ParsePoint(opts.To)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid --to")
	}

	sel, err := profile.Select(r, p1, p2)
	if err != nil {
		log.Fatal().Err(err).Msg("Point selection failed")
	}

	link := profile.DefaultLink()
	for _, step := range []func(profile.LinkParameters) (profile.LinkParameters, error){
		func(l profile.LinkParameters) (profile.LinkParameters, error) { return l.WithHeight1(opts.Height1) },
		func(l profile.LinkParameters) (profile.LinkParameters, error) { return l.WithHeight2(opts.Height2) },
		func(l profile.LinkParameters) (profile.LinkParameters, error) { return l.WithFrequency(opts.Frequency) },
	} {
		if link, err = step(link); err != nil {
			log.Fatal().Err(err).Msg("Invalid link parameters")
		}
	}

	res, err := profile.Compute(r, sel, link, profile.Options{Curvature: opts.Curvature})
	if err != nil {
		log.Fatal().Err(err).Msg("Profile computation failed")
	}

	if opts.Chart != "" {
		if err := writeChart(opts.Chart, res, opts.Width, opts.Height); err != nil {
			log.Fatal().Err(err).Str("file", opts.Chart).Msg("Failed to render chart")
		}
		log.Info().Str("file", opts.Chart).Msg("Chart written")
	}

	if err := printResult(res, opts.Format, opts.Samples); err != nil {
		log.Fatal().Err(err).Msg("Failed to print result")
	}
}

func parseBounds(s string) (raster.Bounds, error) {
	var b raster.Bounds
	if _, err := fmt.Sscanf(strings.ReplaceAll(s, " ", ""), "%g,%g,%g,%g", &b.Left, &b.Bottom, &b.Right, &b.Top); err != nil {
		return b, fmt.Errorf("want left,bottom,right,top: %w", err)
	}
	if !b.Valid() {
		return b, fmt.Errorf("%w: %+v", raster.ErrInvalidRaster, b)
	}
	return b, nil
}

func writeChart(path string, res *profile.Result, width, height int) error {
	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if render.ContentType(format) == "" {
		return fmt.Errorf("%w: %q", render.ErrUnknownFormat, format)
	}

	img, err := render.Chart(res, width, height)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := render.Encode(f, img, format); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func printResult(res *profile.Result, format string, samples bool) error {
	if format == "geojson" {
		return json.NewEncoder(os.Stdout).Encode(res.GeoJSON())
	}
	if !samples {
		res.Samples = nil
	}

	switch format {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	case "yaml":
		return yaml.NewEncoder(os.Stdout).Encode(res)
	}

	lat1, lon1 := res.From.ToDMS()
	lat2, lon2 := res.To.ToDMS()
	fmt.Printf("From:            %s %s\n", lat1, lon1)
	fmt.Printf("To:              %s %s\n", lat2, lon2)
	fmt.Printf("Distance:        %.3f km\n", res.TotalDistanceKm)
	if res.Degenerate {
		fmt.Println("Both points coincide, no clearance computed")
		return nil
	}
	fmt.Printf("Fresnel radius:  %.2f m at %.2f GHz\n", res.FresnelRadius, res.Link.FrequencyGHz)
	if res.CurvatureApplied {
		fmt.Printf("Max curvature:   %.2f m\n", res.MaxCurvature)
	}
	fmt.Printf("Worst margin:    %.2f m\n", res.WorstMargin)
	fmt.Printf("Fresnel clear:   %t (%d obstructed samples, %d blocking line of sight, %d over the upper envelope)\n",
		res.Clear, res.Obstructed, res.LOSBlocked, res.AboveUpper)
	return nil
}
