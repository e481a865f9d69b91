package gpx

import (
	"time"

	"github.com/golang/geo/s2"
)

// EarthRadiusKm is the mean earth radius used for track lengths
const EarthRadiusKm = 6371.0088

// Stats returns basic statistics about the track data
func (g *GPX) Stats() (pointCount int, trackCount int, segmentCount int, duration time.Duration, distance float64) {
	points := g.FlattenPoints()
	pointCount = len(points)
	trackCount = len(g.Tracks)

	for _, track := range g.Tracks {
		segmentCount += len(track.Segments)
	}

	if len(points) >= 2 {
		first, last := points[0].Time, points[len(points)-1].Time
		if first != nil && last != nil {
			duration = last.Sub(*first)
		}
		distance = Length(points)
	}

	return
}

// Length returns the great-circle length of a point sequence in km
func Length(points []Point) float64 {
	var total float64
	for i := 1; i < len(points); i++ {
		total += Distance(points[i-1], points[i])
	}
	return total
}

// Distance returns the great-circle distance between two points in km
func Distance(p1, p2 Point) float64 {
	a := s2.LatLngFromDegrees(float64(p1.Lat), float64(p1.Lon))
	b := s2.LatLngFromDegrees(float64(p2.Lat), float64(p2.Lon))
	return a.Distance(b).Radians() * EarthRadiusKm
}
