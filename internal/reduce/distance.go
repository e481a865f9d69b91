package reduce

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// EarthMeanRadius is the arithmetic mean radius of the earth in meters.
const EarthMeanRadius = 6371008.8

// metersPerDegree is the length of one degree of latitude on the mean sphere.
const metersPerDegree = EarthMeanRadius * 2 * math.Pi / 360

// MetersToDegrees converts a distance threshold to degree-units of latitude.
func MetersToDegrees(meters float64) float64 {
	return meters / metersPerDegree
}

// DegreesToMeters is the inverse of MetersToDegrees.
func DegreesToMeters(degrees float64) float64 {
	return degrees * metersPerDegree
}

// project maps a point onto a flat frame where x is longitude scaled by
// the given factor and y is latitude.
func project(p Point, lonScale float64) orb.Point {
	return orb.Point{p.Lon * lonScale, p.Lat}
}

func lonScaleAt(lat float64) float64 {
	return math.Cos(lat * math.Pi / 180)
}

// PlanarDistance returns the equirectangular distance between a and b in
// degree-units. The longitude scale is taken from a only.
func PlanarDistance(a, b Point) float64 {
	s := lonScaleAt(a.Lat)
	return planar.Distance(project(a, s), project(b, s))
}

// PerpendicularDistance returns the distance from p to the infinite line
// through a and b, projected with p's longitude scale. A zero-length
// baseline falls back to the distance between p and a.
func PerpendicularDistance(p, a, b Point) float64 {
	s := lonScaleAt(p.Lat)
	pp, pa, pb := project(p, s), project(a, s), project(b, s)

	dy := pb[1] - pa[1]
	dx := pb[0] - pa[0]
	d := math.Sqrt(dx*dx + dy*dy)
	if d == 0 {
		return planar.Distance(pp, pa)
	}

	return math.Abs(pp[1]*dx-pp[0]*dy+pb[1]*pa[0]-pb[0]*pa[1]) / d
}
