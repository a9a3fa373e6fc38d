package detection

import (
	"math"

	"github.com/ironsheep/dots-mcp/internal/morphology"
)

// Point represents a 2D coordinate in pixel space.
type Point struct {
	X int `json:"x"` // Horizontal position (0 = leftmost)
	Y int `json:"y"` // Vertical position (0 = topmost)
}

// Bounds represents a rectangular bounding box in pixel coordinates.
//
// (X1, Y1) is the top-left corner and (X2, Y2) the bottom-right corner,
// both inclusive.
type Bounds struct {
	X1 int `json:"x1"` // Left edge (inclusive)
	Y1 int `json:"y1"` // Top edge (inclusive)
	X2 int `json:"x2"` // Right edge (inclusive)
	Y2 int `json:"y2"` // Bottom edge (inclusive)
}

// Chain-code directions around a pixel, counterclockwise on screen
// (y grows downward): 0=E 1=NE 2=N 3=NW 4=W 5=SW 6=S 7=SE.
var chainDirs = [8][2]int{
	{1, 0}, {1, -1}, {0, -1}, {-1, -1},
	{-1, 0}, {-1, 1}, {0, 1}, {1, 1},
}

// FindExternalContours returns the outer border of every external
// 8-connected foreground component of m, in raster order of each
// component's first pixel.
//
// A component is external when its outer border faces the background that
// is 4-connected to the image frame; components sitting inside another
// component's hole are skipped. Borders are traced with Suzuki-Abe border
// following and every border pixel is emitted, so a one-pixel-wide stroke
// is walked along both sides. A lone pixel yields a one-point contour.
//
// Returns nil for an empty mask.
func FindExternalContours(m *morphology.Mask) [][]Point {
	if m == nil || m.Empty() {
		return nil
	}

	// Work on a copy padded by one background pixel on every side so the
	// tracer never has to bounds-check and the frame is always background.
	w, h := m.Width+2, m.Height+2
	pix := make([]uint8, w*h)
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			if m.Pix[y*m.Width+x] != 0 {
				pix[(y+1)*w+x+1] = 1
			}
		}
	}

	outside := floodOutside(pix, w, h)
	seen := make([]bool, w*h)

	var contours [][]Point
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			i := y*w + x
			if pix[i] == 0 || seen[i] {
				continue
			}
			// First pixel of a new component in raster order.
			markComponent(pix, seen, w, i)
			if !outside[i-1] {
				continue
			}
			contours = append(contours, traceBorder(pix, w, x, y))
		}
	}
	return contours
}

// floodOutside marks background pixels 4-connected to the (padded) frame.
func floodOutside(pix []uint8, w, h int) []bool {
	outside := make([]bool, len(pix))
	stack := []int{0}
	outside[0] = true

	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		x, y := i%w, i/w

		neighbors := [4]int{-1, -1, -1, -1}
		if x > 0 {
			neighbors[0] = i - 1
		}
		if x < w-1 {
			neighbors[1] = i + 1
		}
		if y > 0 {
			neighbors[2] = i - w
		}
		if y < h-1 {
			neighbors[3] = i + w
		}
		for _, j := range neighbors {
			if j >= 0 && pix[j] == 0 && !outside[j] {
				outside[j] = true
				stack = append(stack, j)
			}
		}
	}
	return outside
}

// markComponent flags every pixel 8-connected to start.
func markComponent(pix []uint8, seen []bool, w, start int) {
	stack := []int{start}
	seen[start] = true
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, d := range chainDirs {
			j := i + d[1]*w + d[0]
			if pix[j] != 0 && !seen[j] {
				seen[j] = true
				stack = append(stack, j)
			}
		}
	}
}

// traceBorder follows the outer border starting at (sx, sy), whose left
// neighbor is background. Coordinates are in the padded frame; the returned
// points are shifted back to mask coordinates.
func traceBorder(pix []uint8, w, sx, sy int) []Point {
	at := func(x, y, dir int) bool {
		d := chainDirs[dir]
		return pix[(y+d[1])*w+x+d[0]] != 0
	}

	// Search clockwise from the west neighbor for the first foreground pixel.
	first := -1
	for k := 0; k < 8; k++ {
		dir := (4 - k + 8) % 8
		if at(sx, sy, dir) {
			first = dir
			break
		}
	}
	if first < 0 {
		return []Point{{X: sx - 1, Y: sy - 1}}
	}

	x1, y1 := sx+chainDirs[first][0], sy+chainDirs[first][1]
	prevX, prevY := x1, y1
	curX, curY := sx, sy

	var contour []Point
	for {
		// Direction from the current pixel back to the previous one, then
		// counterclockwise from just past it.
		back := dirTo(curX, curY, prevX, prevY)
		next := -1
		for k := 1; k <= 8; k++ {
			dir := (back + k) % 8
			if at(curX, curY, dir) {
				next = dir
				break
			}
		}

		contour = append(contour, Point{X: curX - 1, Y: curY - 1})

		nx, ny := curX+chainDirs[next][0], curY+chainDirs[next][1]
		if nx == sx && ny == sy && curX == x1 && curY == y1 {
			return contour
		}
		prevX, prevY = curX, curY
		curX, curY = nx, ny
	}
}

// dirTo returns the chain direction pointing from (x0,y0) to the adjacent
// pixel (x1,y1).
func dirTo(x0, y0, x1, y1 int) int {
	dx, dy := x1-x0, y1-y0
	for i, d := range chainDirs {
		if d[0] == dx && d[1] == dy {
			return i
		}
	}
	return 0
}

// ContourArea returns the absolute polygon area of the closed contour using
// the shoelace formula. Contours with fewer than three points have zero area.
func ContourArea(c []Point) float64 {
	if len(c) < 3 {
		return 0
	}
	var sum int64
	for i := range c {
		j := (i + 1) % len(c)
		sum += int64(c[i].X)*int64(c[j].Y) - int64(c[j].X)*int64(c[i].Y)
	}
	return math.Abs(float64(sum)) / 2
}

// ArcLength returns the Euclidean length of the polyline. When closed is
// true the segment from the last point back to the first is included.
func ArcLength(c []Point, closed bool) float64 {
	if len(c) < 2 {
		return 0
	}
	var length float64
	for i := 1; i < len(c); i++ {
		length += dist(c[i-1], c[i])
	}
	if closed {
		length += dist(c[len(c)-1], c[0])
	}
	return length
}

// MainContour picks the contour with the largest enclosed area. Ties go to
// the contour with more points, then to the earliest one in the slice.
// Returns nil when there are no contours.
func MainContour(contours [][]Point) []Point {
	var best []Point
	bestArea := -1.0
	for _, c := range contours {
		a := ContourArea(c)
		if a > bestArea || (a == bestArea && len(c) > len(best)) {
			best, bestArea = c, a
		}
	}
	return best
}

// ContourBounds returns the bounding box of c. The zero Bounds is returned
// for an empty contour.
func ContourBounds(c []Point) Bounds {
	if len(c) == 0 {
		return Bounds{}
	}
	b := Bounds{X1: c[0].X, Y1: c[0].Y, X2: c[0].X, Y2: c[0].Y}
	for _, p := range c[1:] {
		b.X1 = min(b.X1, p.X)
		b.Y1 = min(b.Y1, p.Y)
		b.X2 = max(b.X2, p.X)
		b.Y2 = max(b.Y2, p.Y)
	}
	return b
}

func dist(a, b Point) float64 {
	return math.Hypot(float64(a.X-b.X), float64(a.Y-b.Y))
}
