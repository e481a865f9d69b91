// Package export writes reduced documents in the supported output formats.
package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/twpayne/go-polyline"

	"github.com/planbiir/gpxding/internal/gpx"
)

// Format is an output encoding
type Format string

const (
	GPX      Format = "gpx"
	GeoJSON  Format = "geojson"
	Polyline Format = "polyline"
)

// Formats lists every supported format
var Formats = []Format{GPX, GeoJSON, Polyline}

// ParseFormat resolves a format name, case-insensitively
func ParseFormat(name string) (Format, error) {
	for _, f := range Formats {
		if strings.EqualFold(name, string(f)) {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown output format %q (want gpx, geojson or polyline)", name)
}

// Extension returns the file extension used for the format
func (f Format) Extension() string {
	switch f {
	case GeoJSON:
		return ".geojson"
	case Polyline:
		return ".txt"
	default:
		return ".gpx"
	}
}

// Write encodes doc to w
func Write(w io.Writer, doc *gpx.GPX, format Format) error {
	switch format {
	case GPX:
		return doc.WriteToWriter(w)
	case GeoJSON:
		return writeGeoJSON(w, doc)
	case Polyline:
		return writePolyline(w, doc)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

// lineString converts a path to an orb line in lon/lat order
func lineString(points []gpx.Point) orb.LineString {
	ls := make(orb.LineString, len(points))
	for i, p := range points {
		ls[i] = orb.Point{float64(p.Lon), float64(p.Lat)}
	}
	return ls
}

func writeGeoJSON(w io.Writer, doc *gpx.GPX) error {
	fc := geojson.NewFeatureCollection()
	for _, path := range doc.Paths() {
		ls := lineString(path.Points)
		var geom orb.Geometry = ls
		if len(ls) == 1 {
			// a LineString needs two positions
			geom = ls[0]
		}
		f := geojson.NewFeature(geom)
		f.Properties["kind"] = path.Kind.String()
		f.Properties["index"] = path.Index
		if path.Name != "" {
			f.Properties["name"] = path.Name
		}
		f.Properties["points"] = len(path.Points)
		fc.Append(f)
	}

	data, err := fc.MarshalJSON()
	if err != nil {
		return fmt.Errorf("failed to encode GeoJSON: %w", err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return err
	}
	return nil
}

// writePolyline writes one encoded polyline (precision 1e5) per line
func writePolyline(w io.Writer, doc *gpx.GPX) error {
	for _, path := range doc.Paths() {
		coords := make([][]float64, len(path.Points))
		for i, p := range path.Points {
			coords[i] = []float64{float64(p.Lat), float64(p.Lon)}
		}
		line := append(polyline.EncodeCoords(coords), '\n')
		if _, err := w.Write(line); err != nil {
			return err
		}
	}
	return nil
}
