package detection

import "math"

// SimplifyEpsilonRatio scales the contour perimeter into the Douglas-Peucker
// tolerance used by ExtractWaypoints.
const SimplifyEpsilonRatio = 0.005

// SimplifyClosed approximates a closed contour with fewer vertices using
// Douglas-Peucker with tolerance epsilon.
//
// The first point is the anchor. The contour is split at the point farthest
// from the anchor and both halves are simplified as open polylines, keeping
// a vertex only when it lies more than epsilon from the chord being
// replaced. If no point is farther than epsilon from the anchor, the anchor
// alone is returned.
//
// The input is not modified. Contours with two or fewer points are returned
// as a copy.
func SimplifyClosed(c []Point, epsilon float64) []Point {
	if len(c) <= 2 {
		return append([]Point(nil), c...)
	}

	split, far := 0, 0.0
	for i := 1; i < len(c); i++ {
		if d := dist(c[0], c[i]); d > far {
			split, far = i, d
		}
	}
	if far <= epsilon {
		return []Point{c[0]}
	}

	// First half runs anchor..split, second half split..anchor (wrapping).
	first := simplifyOpen(c[:split+1], epsilon)
	tail := make([]Point, 0, len(c)-split+1)
	tail = append(tail, c[split:]...)
	tail = append(tail, c[0])
	second := simplifyOpen(tail, epsilon)

	out := make([]Point, 0, len(first)+len(second))
	out = append(out, first...)
	// Drop the shared split point and the repeated anchor.
	out = append(out, second[1:len(second)-1]...)
	return out
}

// simplifyOpen is the classic Douglas-Peucker reduction of an open
// polyline. Both endpoints are always kept.
func simplifyOpen(pts []Point, epsilon float64) []Point {
	if len(pts) <= 2 {
		return append([]Point(nil), pts...)
	}

	keep := make([]bool, len(pts))
	keep[0], keep[len(pts)-1] = true, true

	type span struct{ lo, hi int }
	stack := []span{{0, len(pts) - 1}}
	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if s.hi-s.lo < 2 {
			continue
		}

		idx, maxDist := -1, 0.0
		for i := s.lo + 1; i < s.hi; i++ {
			if d := lineDistance(pts[i], pts[s.lo], pts[s.hi]); d > maxDist {
				idx, maxDist = i, d
			}
		}
		if idx < 0 || maxDist <= epsilon {
			continue
		}
		keep[idx] = true
		stack = append(stack, span{s.lo, idx}, span{idx, s.hi})
	}

	out := make([]Point, 0, len(pts))
	for i, k := range keep {
		if k {
			out = append(out, pts[i])
		}
	}
	return out
}

// lineDistance is the perpendicular distance from p to the line through a
// and b, or the plain distance to a when a and b coincide.
func lineDistance(p, a, b Point) float64 {
	dx, dy := float64(b.X-a.X), float64(b.Y-a.Y)
	norm := math.Hypot(dx, dy)
	if norm == 0 {
		return dist(p, a)
	}
	cross := dx*float64(p.Y-a.Y) - dy*float64(p.X-a.X)
	return math.Abs(cross) / norm
}
