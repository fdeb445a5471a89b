// Package plot maps window samples into drawing-area coordinates for a
// renderer. Everything here is a pure function over a snapshot; the
// same inputs always produce the same points, which is what makes
// hover hit-testing agree with what was drawn.
package plot

import "math"

// rangeEpsilon: a value range this small is treated as 1 so constant
// series still map without dividing by zero.
const rangeEpsilon = 1e-6

// Area is the target drawing rectangle in pixel space, origin top-left.
type Area struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// Point is a mapped position inside an Area.
type Point struct {
	X float64
	Y float64
}

// Map positions the sample at index within a window of count samples.
// X grows with index across the full width; Y is inverted so larger
// values sit closer to the top of the area. rng is max-min for the
// window and is clamped to 1 when degenerate.
func Map(index, count int, value, min, rng float64, area Area) Point {
	if math.Abs(rng) < rangeEpsilon {
		rng = 1
	}
	span := float64(count - 1)
	if span < 1 {
		span = 1
	}
	return Point{
		X: area.X + float64(index)/span*area.Width,
		Y: area.Y + area.Height - (value-min)/rng*area.Height,
	}
}

// MapSeries maps an entire snapshot into the area, deriving min and
// range from the snapshot itself. Returns nil for an empty snapshot.
func MapSeries(values []float64, area Area) []Point {
	if len(values) == 0 {
		return nil
	}

	min, max := values[0], values[0]
	for _, v := range values[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}

	points := make([]Point, len(values))
	for i, v := range values {
		points[i] = Map(i, len(values), v, min, max-min, area)
	}
	return points
}

// Nearest returns the index of the mapped point closest to (x, y),
// for pointer-hover hit-testing. Returns false when points is empty.
func Nearest(points []Point, x, y float64) (int, bool) {
	if len(points) == 0 {
		return 0, false
	}

	best := 0
	bestDist := math.Inf(1)
	for i, p := range points {
		dx := p.X - x
		dy := p.Y - y
		d := dx*dx + dy*dy
		if d < bestDist {
			best = i
			bestDist = d
		}
	}
	return best, true
}
