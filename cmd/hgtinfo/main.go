package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/woozymasta/hgtlink/internal/dem"
	"github.com/woozymasta/hgtlink/internal/logger"
	"github.com/woozymasta/hgtlink/internal/raster"

	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	Format string `short:"o" long:"format" description:"Output format" choice:"text" choice:"json" choice:"yaml" default:"text"`

	Args struct {
		Files []string `positional-arg-name:"FILE" required:"1"`
	} `positional-args:"yes"`
}

type report struct {
	File    string         `json:"file" yaml:"file"`
	Bounds  raster.Bounds  `json:"bounds" yaml:"bounds"`
	Corners raster.Corners `json:"corners" yaml:"corners"`
	Stats   raster.Stats   `json:"stats" yaml:"stats"`
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

	reports := make([]report, 0, len(opts.Args.Files))
	for _, path := range opts.Args.Files {
		r, err := dem.Open(path, nil)
		if err != nil {
			log.Error().Err(err).Str("file", path).Msg("Failed to open raster")
			continue
		}
		reports = append(reports, report{
			File:    path,
			Bounds:  r.Bounds,
			Corners: r.Corners(),
			Stats:   r.Stats(),
		})
	}

	var err error
	switch opts.Format {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		err = enc.Encode(reports)
	case "yaml":
		err = yaml.NewEncoder(os.Stdout).Encode(reports)
	default:
		for _, rep := range reports {
			printText(rep)
		}
	}
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to write report")
	}

	if len(reports) < len(opts.Args.Files) {
		os.Exit(1)
	}
}

func printText(rep report) {
	s := rep.Stats
	fmt.Printf("%s\n", rep.File)
	fmt.Printf("  Size:        %d x %d\n", s.Width, s.Height)
	fmt.Printf("  Resolution:  %.8f x %.8f deg\n", s.ResolutionX, s.ResolutionY)
	fmt.Printf("  Bounds:      left %.6f right %.6f bottom %.6f top %.6f\n",
		rep.Bounds.Left, rep.Bounds.Right, rep.Bounds.Bottom, rep.Bounds.Top)
	fmt.Printf("  Top left:     %s\n", rep.Corners.TopLeft)
	fmt.Printf("  Top right:    %s\n", rep.Corners.TopRight)
	fmt.Printf("  Bottom left:  %s\n", rep.Corners.BottomLeft)
	fmt.Printf("  Bottom right: %s\n", rep.Corners.BottomRight)
	fmt.Printf("  Elevation:   min %.0f m, max %.0f m, mean %.1f m\n", s.Min, s.Max, s.Mean)
}
