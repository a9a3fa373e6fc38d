package detection

import "github.com/ironsheep/dots-mcp/internal/morphology"

// MinDist is the minimum Euclidean spacing in pixels between consecutive
// waypoints.
const MinDist = 40

// Waypoint is one numbered dot of the connect-the-dots path.
type Waypoint struct {
	X     int `json:"x"`
	Y     int `json:"y"`
	Order int `json:"order"` // 1-based, consecutive in path order
}

// SampleWaypoints walks pts once, keeping the first vertex and then every
// vertex at least minDist from the last kept one. Vertices that are too
// close are dropped, not merged. Kept vertices are numbered from 1.
func SampleWaypoints(pts []Point, minDist float64) []Waypoint {
	if len(pts) == 0 {
		return []Waypoint{}
	}

	dots := make([]Waypoint, 0, len(pts))
	last := pts[0]
	dots = append(dots, Waypoint{X: last.X, Y: last.Y, Order: 1})
	for _, p := range pts[1:] {
		if dist(last, p) >= minDist {
			last = p
			dots = append(dots, Waypoint{X: p.X, Y: p.Y, Order: len(dots) + 1})
		}
	}
	return dots
}

// ExtractWaypoints runs contour tracing, simplification and sampling over a
// skeleton: the main external contour is simplified with a tolerance of
// SimplifyEpsilonRatio times its perimeter and then sampled at MinDist.
// A blank skeleton yields an empty, non-nil slice.
func ExtractWaypoints(skel *morphology.Mask) []Waypoint {
	outline := MainContour(FindExternalContours(skel))
	if len(outline) == 0 {
		return []Waypoint{}
	}
	eps := SimplifyEpsilonRatio * ArcLength(outline, true)
	return SampleWaypoints(SimplifyClosed(outline, eps), MinDist)
}
