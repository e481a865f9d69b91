package gpx

import (
	"encoding/xml"
	"fmt"
	"io"
	"math"
	"os"
)

const (
	defaultNamespace = "http://www.topografix.com/GPX/1/1"
	xsiNamespace     = "http://www.w3.org/2001/XMLSchema-instance"
	schemaLocation   = "http://www.topografix.com/GPX/1/1 http://www.topografix.com/GPX/1/1/gpx.xsd"
)

// Creator is written into documents that do not name one
var Creator = "gpxding"

// Parse reads and parses a GPX file, preserving extensions and namespaces
func Parse(filename string) (*GPX, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return ParseReader(file)
}

// ParseReader parses GPX from an io.Reader
func ParseReader(r io.Reader) (*GPX, error) {
	decoder := xml.NewDecoder(r)

	var gpxData GPX
	if err := decoder.Decode(&gpxData); err != nil {
		return nil, fmt.Errorf("failed to parse GPX: %w", err)
	}

	// Set default namespaces if missing
	if gpxData.XMLNS == "" {
		gpxData.XMLNS = defaultNamespace
	}
	if gpxData.Version == "" {
		gpxData.Version = "1.1"
	}
	if gpxData.Creator == "" {
		gpxData.Creator = Creator
	}
	gpxData.normalizeAttrs()
	if _, ok := gpxData.Attr("xsi:schemaLocation"); !ok {
		gpxData.SetAttr("xmlns:xsi", xsiNamespace)
		gpxData.SetAttr("xsi:schemaLocation", schemaLocation)
	}

	gpxData.index()

	return &gpxData, nil
}

// normalizeAttrs rewrites the root attributes captured by the decoder back
// into their prefixed form. The decoder resolves prefixes to namespace URLs,
// which the encoder cannot turn back into the original prefixes.
func (g *GPX) normalizeAttrs() {
	prefixes := map[string]string{}
	for _, a := range g.Attrs {
		if a.Name.Space == "xmlns" {
			prefixes[a.Value] = a.Name.Local
		}
	}

	attrs := make([]xml.Attr, 0, len(g.Attrs))
	for _, a := range g.Attrs {
		switch {
		case a.Name.Space == "":
		case a.Name.Space == "xmlns":
			a.Name.Local = "xmlns:" + a.Name.Local
		case prefixes[a.Name.Space] != "":
			a.Name.Local = prefixes[a.Name.Space] + ":" + a.Name.Local
		default:
			// undeclared prefix, keep it as written
			a.Name.Local = a.Name.Space + ":" + a.Name.Local
		}
		a.Name.Space = ""
		attrs = append(attrs, a)
	}
	g.Attrs = attrs
}

// Attr returns the value of a root attribute such as "xmlns:gpxtpx".
func (g *GPX) Attr(name string) (string, bool) {
	for _, a := range g.Attrs {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

// SetAttr sets or adds a root attribute.
func (g *GPX) SetAttr(name, value string) {
	for i := range g.Attrs {
		if g.Attrs[i].Name.Local == name {
			g.Attrs[i].Value = value
			return
		}
	}
	g.Attrs = append(g.Attrs, xml.Attr{Name: xml.Name{Local: name}, Value: value})
}

// index records each point's position within its track or route
func (g *GPX) index() {
	for trackIdx := range g.Tracks {
		for segIdx := range g.Tracks[trackIdx].Segments {
			points := g.Tracks[trackIdx].Segments[segIdx].Points
			for ptIdx := range points {
				points[ptIdx].SegIdx = segIdx
				points[ptIdx].PtIdx = ptIdx
			}
		}
	}
	for routeIdx := range g.Routes {
		points := g.Routes[routeIdx].Points
		for ptIdx := range points {
			points[ptIdx].SegIdx = 0
			points[ptIdx].PtIdx = ptIdx
		}
	}
}

// WriteToWriter writes GPX data to an io.Writer
func (g *GPX) WriteToWriter(w io.Writer) error {
	// Write XML header
	if _, err := w.Write([]byte(xml.Header)); err != nil {
		return err
	}

	encoder := xml.NewEncoder(w)
	encoder.Indent("", "  ")

	if err := encoder.Encode(g); err != nil {
		return fmt.Errorf("failed to encode GPX: %w", err)
	}

	return nil
}

// Round rounds every coordinate to the given number of decimal places
func (g *GPX) Round(digits int) {
	scale := math.Pow10(digits)
	round := func(points []Point) {
		for i := range points {
			points[i].Lat = Degrees(math.Round(float64(points[i].Lat)*scale) / scale)
			points[i].Lon = Degrees(math.Round(float64(points[i].Lon)*scale) / scale)
		}
	}

	round(g.Waypoints)
	for _, route := range g.Routes {
		round(route.Points)
	}
	for _, track := range g.Tracks {
		for _, segment := range track.Segments {
			round(segment.Points)
		}
	}
}

// Minimal strips the document down to a bare <gpx> root holding only
// positions and elevations. Some apps and devices reject such files, but
// they are the smallest possible output. With the namespace declarations
// gone, no prefixed extension may remain anywhere in the document.
func (g *GPX) Minimal() {
	g.Version = ""
	g.Creator = ""
	g.XMLNS = ""
	g.Attrs = nil
	g.Metadata = nil
	g.Extensions = nil

	bare := func(points []Point) {
		for i := range points {
			points[i].Time = nil
			points[i].Name = ""
			points[i].Extensions = nil
		}
	}

	bare(g.Waypoints)
	for i := range g.Routes {
		route := &g.Routes[i]
		route.Name = ""
		route.Description = ""
		route.Extensions = nil
		bare(route.Points)
	}
	for i := range g.Tracks {
		track := &g.Tracks[i]
		track.Name = ""
		track.Description = ""
		track.Type = ""
		track.Extensions = nil
		for j := range track.Segments {
			track.Segments[j].Extensions = nil
			bare(track.Segments[j].Points)
		}
	}
}
