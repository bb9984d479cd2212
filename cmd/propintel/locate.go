package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/cristianoliveira/propintel/cmd"
	"github.com/cristianoliveira/propintel/internal/app"
	"github.com/cristianoliveira/propintel/internal/format"
	"github.com/cristianoliveira/propintel/internal/staticmap"
	"github.com/spf13/cobra"
)

type locateClient interface {
	Locate(ctx context.Context, input app.LocateInput) format.LocationView
	Country() string
	Formatter() format.Formatter
}

type mapClient interface {
	MapBuilder() staticmap.Builder
}

// NewLocateCmd creates the locate command with explicit dependencies.
func NewLocateCmd(client locateClient) *cobra.Command {
	if client == nil {
		panic("NewLocateCmd: client dependency cannot be nil")
	}

	var country string
	locateCmd := &cobra.Command{
		Use:   "locate <address>",
		Short: "Resolve an address to coordinates and a map",
		Long: `Resolve an address through the geocoding service and print the location
with its static map reference. Lookups that find nothing and lookups that fail
both print "` + format.NoLocationMessage + `"; use --verbose for the cause.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			if country == "" {
				country = client.Country()
			}
			view := client.Locate(c.Context(), app.LocateInput{Query: strings.Join(args, " "), Country: country})
			return client.Formatter().FormatLocation(c.OutOrStdout(), view)
		},
	}
	locateCmd.Flags().StringVar(&country, "country", "", "ISO country code to restrict the lookup")
	return locateCmd
}

// NewMapCmd creates the map command with explicit dependencies.
func NewMapCmd(client mapClient) *cobra.Command {
	if client == nil {
		panic("NewMapCmd: client dependency cannot be nil")
	}

	var zoom int
	var size, latFlag, lonFlag string
	mapCmd := &cobra.Command{
		Use:   "map --lat <lat> --lon <lon>",
		Short: "Print the static map reference for coordinates",
		Example: `  propintel map --lat 51.5074 --lon -0.1278
  propintel map -- -33.8688 151.2093`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(c *cobra.Command, args []string) error {
			latArg, lonArg, err := coordinateArgs(args, latFlag, lonFlag)
			if err != nil {
				return err
			}
			lat, err := parseCoordinate(latArg, 90)
			if err != nil {
				return fmt.Errorf("invalid latitude: %w", err)
			}
			lon, err := parseCoordinate(lonArg, 180)
			if err != nil {
				return fmt.Errorf("invalid longitude: %w", err)
			}
			b := client.MapBuilder()
			if zoom > 0 {
				b.Zoom = zoom
			}
			if size != "" {
				b.Size = size
			}
			fmt.Fprintln(c.OutOrStdout(), b.Reference(lat, lon))
			return nil
		},
	}
	// Flags take the next token as their value even when it starts with '-'.
	mapCmd.Flags().StringVar(&latFlag, "lat", "", "Latitude in decimal degrees")
	mapCmd.Flags().StringVar(&lonFlag, "lon", "", "Longitude in decimal degrees")
	mapCmd.Flags().IntVar(&zoom, "zoom", 0, "Zoom level (default from config)")
	mapCmd.Flags().StringVar(&size, "size", "", "Image size WIDTHxHEIGHT (default from config)")
	return mapCmd
}

// coordinateArgs accepts either --lat/--lon or two positional arguments. Negative
// positionals must follow "--".
func coordinateArgs(args []string, lat, lon string) (string, string, error) {
	switch {
	case len(args) == 2 && lat == "" && lon == "":
		return args[0], args[1], nil
	case len(args) == 0 && lat != "" && lon != "":
		return lat, lon, nil
	case len(args) == 0:
		return "", "", errors.New("both --lat and --lon are required")
	}
	return "", "", errors.New("give coordinates as --lat/--lon or as two arguments after --")
}

func parseCoordinate(s string, limit float64) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	if !(v >= -limit && v <= limit) {
		return 0, fmt.Errorf("%v out of range", v)
	}
	return v, nil
}

var (
	locateCmd = NewLocateCmd(deps)
	mapCmd    = NewMapCmd(deps)
)

func init() {
	cmd.RootCmd.AddCommand(locateCmd)
	cmd.RootCmd.AddCommand(mapCmd)
}
