package gpx

import (
	"encoding/xml"
	"strconv"
	"time"
)

// RawXML preserves nested extension blocks without re-parsing them.
// The inner XML bytes are stored verbatim so extensions written by other
// tools (Garmin, Strava, etc.) survive a round trip.
type RawXML []byte

func (r RawXML) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	if len(r) == 0 {
		return nil
	}

	type inner struct {
		Content string `xml:",innerxml"`
	}

	return e.EncodeElement(inner{Content: string(r)}, start)
}

func (r *RawXML) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	type inner struct {
		Content string `xml:",innerxml"`
	}

	var data inner
	if err := d.DecodeElement(&data, &start); err != nil {
		return err
	}

	if len(data.Content) == 0 {
		*r = nil
		return nil
	}

	*r = append((*r)[:0], data.Content...)
	return nil
}

// Degrees is a latitude or longitude. It is written as a plain decimal,
// never in exponent form, since GPX declares coordinates as xsd:decimal.
type Degrees float64

func (d Degrees) MarshalXMLAttr(name xml.Name) (xml.Attr, error) {
	return xml.Attr{Name: name, Value: strconv.FormatFloat(float64(d), 'f', -1, 64)}, nil
}

// Point is a trkpt, rtept or wpt
type Point struct {
	Lat       Degrees    `xml:"lat,attr"`
	Lon       Degrees    `xml:"lon,attr"`
	Elevation *float64   `xml:"ele,omitempty"`
	Time      *time.Time `xml:"time,omitempty"`
	Name      string     `xml:"name,omitempty"`

	// Extensions (Garmin, Strava, etc.) - preserve as raw XML
	Extensions RawXML `xml:"extensions,omitempty"`

	// Position within the owning track or route
	SegIdx, PtIdx int `xml:"-"`
}

// Track represents a GPX track with segments
type Track struct {
	Name        string         `xml:"name,omitempty"`
	Description string         `xml:"desc,omitempty"`
	Type        string         `xml:"type,omitempty"`
	Extensions  RawXML         `xml:"extensions,omitempty"`
	Segments    []TrackSegment `xml:"trkseg"`
}

// TrackSegment represents a track segment
type TrackSegment struct {
	Points     []Point `xml:"trkpt"`
	Extensions RawXML  `xml:"extensions,omitempty"`
}

// Route is an ordered list of route points
type Route struct {
	Name        string  `xml:"name,omitempty"`
	Description string  `xml:"desc,omitempty"`
	Extensions  RawXML  `xml:"extensions,omitempty"`
	Points      []Point `xml:"rtept"`
}

// GPX represents the full GPX file structure
type GPX struct {
	XMLName xml.Name `xml:"gpx"`
	Version string   `xml:"version,attr,omitempty"`
	Creator string   `xml:"creator,attr,omitempty"`

	// Default namespace. Prefixed declarations (xsi, gpxtpx, gpxx, ...)
	// and prefixed attributes are kept in Attrs.
	XMLNS string     `xml:"xmlns,attr,omitempty"`
	Attrs []xml.Attr `xml:",any,attr"`

	Metadata   *Metadata `xml:"metadata,omitempty"`
	Waypoints  []Point   `xml:"wpt"`
	Routes     []Route   `xml:"rte"`
	Tracks     []Track   `xml:"trk"`
	Extensions RawXML    `xml:"extensions,omitempty"`
}

// Metadata represents GPX metadata
type Metadata struct {
	Name        string     `xml:"name,omitempty"`
	Description string     `xml:"desc,omitempty"`
	Author      RawXML     `xml:"author,omitempty"`
	Time        *time.Time `xml:"time,omitempty"`
	Extensions  RawXML     `xml:"extensions,omitempty"`
}
