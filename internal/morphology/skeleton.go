package morphology

import (
	"fmt"
	"strings"
)

// Strategy selects the skeletonization algorithm.
type Strategy int

const (
	// GuoHall is iterative Guo-Hall thinning. It yields a true 1-pixel
	// centerline and is the default.
	GuoHall Strategy = iota

	// ErosionSubtraction is the morphological skeleton: the union of
	// boundaries peeled off by repeated erosion. Slower and possibly thicker
	// than thinning; kept for parity with environments without thinning.
	ErosionSubtraction
)

// String returns the configuration name of the strategy.
func (s Strategy) String() string {
	switch s {
	case GuoHall:
		return "guohall"
	case ErosionSubtraction:
		return "erosion"
	default:
		return fmt.Sprintf("Strategy(%d)", int(s))
	}
}

// ParseStrategy parses a configuration name. The empty string selects GuoHall.
func ParseStrategy(s string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "guohall", "guo-hall", "thinning":
		return GuoHall, nil
	case "erosion", "erosion-subtraction", "morphological":
		return ErosionSubtraction, nil
	default:
		return GuoHall, fmt.Errorf("unknown skeleton strategy %q (want guohall or erosion)", s)
	}
}

// Skeletonize reduces every foreground region of m to its centerline.
// The input is not modified and the output keeps its polarity.
func Skeletonize(m *Mask, s Strategy) *Mask {
	if s == ErosionSubtraction {
		return SkeletonErosion(m)
	}
	return ThinGuoHall(m)
}

// Neighbor bit layout used by the lookup tables (P1 is the center pixel):
//
//	P9 P2 P3      bit7 bit0 bit1
//	P8 P1 P4  ->  bit6  --  bit2
//	P7 P6 P5      bit5 bit4 bit3
var neighborOffsets = [8][2]int{
	{0, -1},  // P2
	{1, -1},  // P3
	{1, 0},   // P4
	{1, 1},   // P5
	{0, 1},   // P6
	{-1, 1},  // P7
	{-1, 0},  // P8
	{-1, -1}, // P9
}

// guoHallLUT[iter][pattern] reports whether a foreground pixel with the given
// 8-neighborhood is deleted in that subiteration.
var guoHallLUT = buildGuoHallLUT()

func buildGuoHallLUT() [2][256]bool {
	var lut [2][256]bool
	b := func(code, bit int) int { return (code >> bit) & 1 }
	not := func(v int) int { return v ^ 1 }

	for code := 0; code < 256; code++ {
		p2, p3, p4, p5 := b(code, 0), b(code, 1), b(code, 2), b(code, 3)
		p6, p7, p8, p9 := b(code, 4), b(code, 5), b(code, 6), b(code, 7)

		c := (not(p2) & (p3 | p4)) + (not(p4) & (p5 | p6)) +
			(not(p6) & (p7 | p8)) + (not(p8) & (p9 | p2))
		n1 := (p9 | p2) + (p3 | p4) + (p5 | p6) + (p7 | p8)
		n2 := (p2 | p3) + (p4 | p5) + (p6 | p7) + (p8 | p9)
		n := n1
		if n2 < n {
			n = n2
		}

		for iter := 0; iter < 2; iter++ {
			var m int
			if iter == 0 {
				m = (p6 | p7 | not(p9)) & p8
			} else {
				m = (p2 | p3 | not(p5)) & p4
			}
			lut[iter][code] = c == 1 && n >= 2 && n <= 3 && m == 0
		}
	}
	return lut
}

// ThinGuoHall thins m with the two-subiteration Guo-Hall algorithm.
//
// Each subiteration computes deletions against a snapshot and applies them
// together; passes repeat until a full pass deletes nothing. Pixels on the
// outermost row and column are never examined and therefore never deleted.
func ThinGuoHall(m *Mask) *Mask {
	img := m.Clone()
	w, h := img.Width, img.Height
	if w < 3 || h < 3 {
		return img
	}

	var deletions []int
	for {
		changed := false
		for iter := 0; iter < 2; iter++ {
			deletions = deletions[:0]
			for y := 1; y < h-1; y++ {
				for x := 1; x < w-1; x++ {
					i := y*w + x
					if img.Pix[i] == 0 {
						continue
					}
					code := 0
					for bit, o := range neighborOffsets {
						if img.Pix[(y+o[1])*w+x+o[0]] != 0 {
							code |= 1 << bit
						}
					}
					if guoHallLUT[iter][code] {
						deletions = append(deletions, i)
					}
				}
			}
			for _, i := range deletions {
				img.Pix[i] = 0
			}
			if len(deletions) > 0 {
				changed = true
			}
		}
		if !changed {
			return img
		}
	}
}

// SkeletonErosion computes the morphological skeleton of m with a 3x3 cross:
//
//	open     = open(current)
//	skeleton |= current - open
//	current  = erode(current)
//
// until current is empty. Here pixels outside the mask count as background,
// so every round removes at least the outer boundary and the loop terminates
// even for a mask that is entirely foreground.
func SkeletonErosion(m *Mask) *Mask {
	cross := Cross(3)
	skel := NewMask(m.Width, m.Height)
	cur := m.Clone()

	for !cur.Empty() {
		opened := open(cur, cross, false)
		Union(skel, Subtract(cur, opened))
		cur = erode(cur, cross, 1, false)
	}
	return skel
}
