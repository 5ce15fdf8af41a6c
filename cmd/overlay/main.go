// overlay emits the radius overlay for a center point as GeoJSON or YAML,
// for inspecting the mask geometry without running the server.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/kosatka-dev/postmap/internal/geo"

	"github.com/jessevdk/go-flags"
	"gopkg.in/yaml.v3"
)

type Options struct {
	Output   string  `short:"o" long:"out" description:"Output file path. Writes to stdout if empty"`
	Format   string  `short:"f" long:"format" description:"Output format" choice:"json" choice:"yaml" default:"json"`
	Lat      float64 `long:"lat" description:"Center latitude in degrees" required:"true"`
	Lon      float64 `long:"lon" description:"Center longitude in degrees" required:"true"`
	Radius   float64 `short:"r" long:"radius" description:"Circle radius in meters" default:"1000"`
	Segments int     `short:"s" long:"segments" description:"Circle approximation segments" default:"64"`
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

	if opts.Radius <= 0 {
		fmt.Fprintln(os.Stderr, "Error: --radius must be > 0")
		os.Exit(1)
	}

	center := geo.Coordinates{Lon: opts.Lon, Lat: opts.Lat}
	fc := geo.OverlayFeatures(center, opts.Radius, opts.Segments)

	var outputData []byte
	var err error
	if opts.Format == "yaml" {
		outputData, err = yaml.Marshal(fc)
	} else {
		outputData, err = json.MarshalIndent(fc, "", "  ")
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error marshaling data: %v\n", err)
		os.Exit(1)
	}

	if opts.Output != "" {
		err = os.WriteFile(opts.Output, outputData, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error writing output file: %v\n", err)
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "Overlay for %.4f, %.4f written to %s (format: %s)\n", opts.Lat, opts.Lon, opts.Output, opts.Format)
	} else {
		fmt.Println(string(outputData))
	}
}
