// Package staticmap builds references to pre-rendered map images.
package staticmap

import (
	"strconv"
	"strings"
)

const (
	DefaultBaseURL = "https://staticmap.openstreetmap.de/staticmap.php"
	DefaultZoom    = 16
	DefaultSize    = "800x400"
	DefaultMarker  = "red-pushpin"
)

// Builder holds the map parameters shared by every reference.
type Builder struct {
	BaseURL string
	Zoom    int
	Size    string
	Marker  string
}

// Default returns the builder used by Reference.
func Default() Builder {
	return Builder{BaseURL: DefaultBaseURL, Zoom: DefaultZoom, Size: DefaultSize, Marker: DefaultMarker}
}

// Reference returns the default map image URL centred on lat,lon with one marker.
func Reference(lat, lon float64) string {
	return Default().Reference(lat, lon)
}

// Reference returns the map image URL centred on lat,lon with one marker. It does no
// I/O and equal inputs always give equal output.
func (b Builder) Reference(lat, lon float64) string {
	center := formatCoord(lat) + "," + formatCoord(lon)

	var sb strings.Builder
	sb.WriteString(b.BaseURL)
	sb.WriteString("?center=")
	sb.WriteString(center)
	sb.WriteString("&zoom=")
	sb.WriteString(strconv.Itoa(b.Zoom))
	sb.WriteString("&size=")
	sb.WriteString(b.Size)
	sb.WriteString("&markers=")
	sb.WriteString(center)
	if b.Marker != "" {
		sb.WriteString(",")
		sb.WriteString(b.Marker)
	}
	return sb.String()
}

// formatCoord prints the shortest decimal that round-trips, so 51.5074 stays 51.5074.
func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
