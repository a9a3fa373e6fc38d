package morphology

import (
	"math"
	"testing"
)

// backgroundComponents4 counts 4-connected background regions, treating the
// area outside the mask as one extra region joined to every border pixel.
func backgroundComponents4(m *Mask) int {
	seen := make([]bool, len(m.Pix))
	n := 0
	flood := func(start int) {
		stack := []int{start}
		seen[start] = true
		for len(stack) > 0 {
			i := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			x, y := i%m.Width, i/m.Width
			for _, d := range [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}} {
				nx, ny := x+d[0], y+d[1]
				if nx < 0 || ny < 0 || nx >= m.Width || ny >= m.Height {
					continue
				}
				j := ny*m.Width + nx
				if m.Pix[j] == 0 && !seen[j] {
					seen[j] = true
					stack = append(stack, j)
				}
			}
		}
	}
	for i := range m.Pix {
		if m.Pix[i] == 0 && !seen[i] {
			n++
			flood(i)
		}
	}
	return n
}

func ringMask(w, h, cx, cy int, inner, outer float64) *Mask {
	m := NewMask(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			d := math.Hypot(float64(x-cx), float64(y-cy))
			if d >= inner && d <= outer {
				m.Set(x, y, true)
			}
		}
	}
	return m
}

func TestThinGuoHall_Bar(t *testing.T) {
	m := NewMask(50, 20)
	fillRect(m, 5, 5, 45, 12) // 7 pixels tall, rows 5..11

	skel := ThinGuoHall(m)

	for x := 15; x <= 35; x++ {
		n := 0
		for y := 0; y < 20; y++ {
			if skel.At(x, y) {
				n++
			}
		}
		if n != 1 {
			t.Errorf("column %d: %d skeleton pixels, want exactly 1", x, n)
		}
		if !skel.At(x, 8) {
			t.Errorf("column %d: centerline should sit on row 8", x)
		}
	}
	if components(skel) != 1 {
		t.Errorf("skeleton split into %d components", components(skel))
	}
	if m.Count() != 40*7 {
		t.Error("ThinGuoHall modified its input")
	}
}

func TestThinGuoHall_RingKeepsLoop(t *testing.T) {
	m := ringMask(60, 60, 30, 30, 8, 16)
	if components(m) != 1 || backgroundComponents4(m) != 2 {
		t.Fatal("setup: ring should be one component with one hole")
	}

	skel := ThinGuoHall(m)

	if components(skel) != 1 {
		t.Errorf("skeleton has %d components, want 1", components(skel))
	}
	if backgroundComponents4(skel) != 2 {
		t.Errorf("skeleton background has %d regions, want 2 (loop preserved)", backgroundComponents4(skel))
	}
	if skel.Count() >= m.Count()/3 {
		t.Errorf("skeleton too thick: %d of %d pixels remain", skel.Count(), m.Count())
	}
	for i := range skel.Pix {
		if skel.Pix[i] != 0 && m.Pix[i] == 0 {
			t.Fatal("skeleton contains pixels outside the input")
		}
	}
}

func TestThinGuoHall_Degenerate(t *testing.T) {
	tests := []struct {
		name string
		m    *Mask
	}{
		{"empty", NewMask(10, 10)},
		{"tiny", maskFromRows("##", "##")},
		{"single pixel", maskFromRows("...", ".#.", "...")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			skel := ThinGuoHall(tt.m)
			if skel.Width != tt.m.Width || skel.Height != tt.m.Height {
				t.Errorf("dimensions changed: %dx%d", skel.Width, skel.Height)
			}
			if skel.Count() > tt.m.Count() {
				t.Error("thinning added pixels")
			}
			if !tt.m.Empty() && skel.Empty() {
				t.Error("thinning erased a non-empty mask")
			}
		})
	}
}

func TestSkeletonErosion_Bar(t *testing.T) {
	m := NewMask(50, 20)
	fillRect(m, 5, 5, 45, 12)

	skel := SkeletonErosion(m)

	for x := 10; x <= 40; x++ {
		if !skel.At(x, 8) {
			t.Errorf("centerline pixel (%d,8) missing", x)
		}
	}
	for i := range skel.Pix {
		if skel.Pix[i] != 0 && m.Pix[i] == 0 {
			t.Fatal("skeleton contains pixels outside the input")
		}
	}
	if skel.Count() >= m.Count()/2 {
		t.Errorf("skeleton too thick: %d of %d pixels remain", skel.Count(), m.Count())
	}
}

func TestSkeletonErosion_FullMaskTerminates(t *testing.T) {
	m := NewMask(12, 9)
	fillRect(m, 0, 0, 12, 9)

	skel := SkeletonErosion(m)
	if skel.Empty() {
		t.Error("skeleton of a full mask should not be empty")
	}
}

func TestSkeletonize_Strategies(t *testing.T) {
	m := ringMask(60, 60, 30, 30, 8, 16)

	for _, s := range []Strategy{GuoHall, ErosionSubtraction} {
		t.Run(s.String(), func(t *testing.T) {
			skel := Skeletonize(m, s)
			if skel.Empty() {
				t.Fatal("skeleton is empty")
			}
			if skel.Count() >= m.Count() {
				t.Error("skeleton is not thinner than its input")
			}
			// Deterministic
			if !sameMask(Skeletonize(m, s), skel) {
				t.Error("repeated runs differ")
			}
		})
	}
}
