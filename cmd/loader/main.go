package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/woozymasta/hgtlink/internal/config"
	"github.com/woozymasta/hgtlink/internal/loader"
	"github.com/woozymasta/hgtlink/internal/logger"

	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog/log"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	ConfigFile  string        `short:"c" long:"config"      env:"CONFIG_FILE" description:"Path to configuration file" default:"config.yaml"`
	URL         string        `short:"u" long:"url"         env:"SOURCE_URL"  description:"Tile URL template, overrides source.url"`
	South       float64       `short:"s" long:"south"       description:"Southern latitude of the area"`
	North       float64       `short:"n" long:"north"       description:"Northern latitude of the area"`
	West        float64       `short:"w" long:"west"        description:"Western longitude of the area"`
	East        float64       `short:"e" long:"east"        description:"Eastern longitude of the area"`
	Concurrency int           `short:"p" long:"concurrency" env:"CONCURRENCY" description:"Concurrency, overrides source.concurrency"`
	Gzip        bool          `short:"z" long:"gzip"        description:"Source serves gzip compressed tiles"`
	Force       bool          `short:"f" long:"force"       description:"Force overwrite of existing files"`
	IndexOnly   bool          `short:"i" long:"index-only"  description:"Only rebuild the GeoJSON tile index"`
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

	cfg, err := config.Load(opts.ConfigFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	src := cfg.Source
	if opts.URL != "" {
		src.URL = opts.URL
	}
	if opts.Concurrency > 0 {
		src.Concurrency = opts.Concurrency
	}
	if opts.Gzip {
		src.Gzip = true
	}

	if err := os.MkdirAll(cfg.TilesDir, 0755); err != nil {
		log.Fatal().Err(err).Str("dir", cfg.TilesDir).Msg("Failed to create tiles directory")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if !opts.IndexOnly {
		area := loader.Area{South: opts.South, North: opts.North, West: opts.West, East: opts.East}
		if area.South > area.North || area.West > area.East {
			log.Fatal().
				Float64("south", area.South).
				Float64("north", area.North).
				Float64("west", area.West).
				Float64("east", area.East).
				Msg("Invalid area, set --south/--north/--west/--east")
		}

		log.Info().
			Str("url", src.URL).
			Int("tiles_queued", len(area.Tiles())).
			Int("concurrency", src.Concurrency).
			Bool("force", opts.Force).
			Msg("Starting loader")

		client := &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 100,
			},
			Timeout: 60 * time.Second,
		}

		sum, err := loader.ProcessTiles(ctx, client, src, cfg.TilesDir, area, opts.Force)
		if err != nil {
			log.Fatal().Err(err).Msg("Tile processing failed")
		}
		if sum.Failed > 0 {
			log.Warn().Int("failed", sum.Failed).Msg("Some tiles failed to download")
		}
	}

	n, err := loader.WriteIndex(cfg.TilesDir)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to write tile index")
	}

	log.Info().Int("indexed", n).Msg("Loader finished successfully")
}
