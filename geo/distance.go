package geo

import (
	"math"

	"github.com/paulmach/orb"
)

const earthRadiusKM = 6371.0

// HaversineKM returns the great-circle distance between two points in km.
func HaversineKM(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := (lat2 - lat1) * math.Pi / 180.0
	dLon := (lon2 - lon1) * math.Pi / 180.0
	rLat1 := lat1 * math.Pi / 180.0
	rLat2 := lat2 * math.Pi / 180.0
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rLat1)*math.Cos(rLat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKM * c
}

// DistanceM returns the great-circle distance between two points in meters.
func DistanceM(a, b orb.Point) float64 {
	return HaversineKM(a.Lat(), a.Lon(), b.Lat(), b.Lon()) * 1000
}

// PointToSegmentM returns the distance in meters from p to the segment ab.
// The projection is computed in a local planar frame scaled by latitude,
// which is accurate enough at the distances the alert loop cares about.
func PointToSegmentM(p, a, b orb.Point) float64 {
	latScale := math.Cos(p.Lat() * math.Pi / 180.0)
	ax := (a.Lon() - p.Lon()) * latScale
	ay := a.Lat() - p.Lat()
	bx := (b.Lon() - p.Lon()) * latScale
	by := b.Lat() - p.Lat()
	dx := bx - ax
	dy := by - ay
	t := 0.0
	if l2 := dx*dx + dy*dy; l2 > 0 {
		t = -(ax*dx + ay*dy) / l2
		t = math.Max(0, math.Min(1, t))
	}
	cx := ax + t*dx
	cy := ay + t*dy
	// degrees back to meters
	const mPerDeg = earthRadiusKM * 1000 * math.Pi / 180.0
	return math.Sqrt(cx*cx+cy*cy) * mPerDeg
}

// DistanceToLineM returns the minimum distance in meters from p to a
// polyline. An empty or single-point line falls back to point distance.
func DistanceToLineM(p orb.Point, line orb.LineString) float64 {
	switch len(line) {
	case 0:
		return math.Inf(1)
	case 1:
		return DistanceM(p, line[0])
	}
	min := math.Inf(1)
	for i := 0; i+1 < len(line); i++ {
		if d := PointToSegmentM(p, line[i], line[i+1]); d < min {
			min = d
		}
	}
	return min
}
