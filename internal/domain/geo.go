package domain

import "slices"

// Coordinate is a WGS84 point.
type Coordinate struct {
	Latitude  float64
	Longitude float64
}

// MedianCoordinate returns the per-axis median of points: the median latitude
// and, independently, the median longitude. For an even count the two middle
// values are averaged. ok is false when points is empty.
func MedianCoordinate(points []Coordinate) (Coordinate, bool) {
	if len(points) == 0 {
		return Coordinate{}, false
	}
	lats := make([]float64, len(points))
	lngs := make([]float64, len(points))
	for i, p := range points {
		lats[i] = p.Latitude
		lngs[i] = p.Longitude
	}
	return Coordinate{Latitude: median(lats), Longitude: median(lngs)}, true
}

func median(v []float64) float64 {
	slices.Sort(v)
	mid := len(v) / 2
	if len(v)%2 == 1 {
		return v[mid]
	}
	return (v[mid-1] + v[mid]) / 2
}
