package morphology

import "image"

// Element is a binary structuring element with an anchor point.
type Element struct {
	Width  int
	Height int
	Anchor image.Point
	on     []bool
}

// Rect returns a full w×h rectangle element anchored at (w/2, h/2).
// For even sizes the anchor sits right/below the geometric center.
func Rect(w, h int) Element {
	on := make([]bool, w*h)
	for i := range on {
		on[i] = true
	}
	return Element{Width: w, Height: h, Anchor: image.Pt(w/2, h/2), on: on}
}

// Cross returns a size×size cross (plus-shaped) element anchored at its center.
func Cross(size int) Element {
	on := make([]bool, size*size)
	c := size / 2
	for i := 0; i < size; i++ {
		on[c*size+i] = true
		on[i*size+c] = true
	}
	return Element{Width: size, Height: size, Anchor: image.Pt(c, c), on: on}
}

// offsets lists the relative source offsets covered by the element.
func (e Element) offsets() []image.Point {
	pts := make([]image.Point, 0, len(e.on))
	for y := 0; y < e.Height; y++ {
		for x := 0; x < e.Width; x++ {
			if e.on[y*e.Width+x] {
				pts = append(pts, image.Pt(x-e.Anchor.X, y-e.Anchor.Y))
			}
		}
	}
	return pts
}

// Dilate grows the foreground: a pixel becomes foreground when any pixel
// under the element is foreground. Pixels outside the mask never contribute.
func Dilate(m *Mask, e Element, iterations int) *Mask {
	offs := e.offsets()
	cur := m
	for it := 0; it < iterations; it++ {
		dst := NewMask(cur.Width, cur.Height)
		for y := 0; y < cur.Height; y++ {
			for x := 0; x < cur.Width; x++ {
				for _, o := range offs {
					if cur.At(x+o.X, y+o.Y) {
						dst.Set(x, y, true)
						break
					}
				}
			}
		}
		cur = dst
	}
	if cur == m {
		return m.Clone()
	}
	return cur
}

// Erode shrinks the foreground: a pixel stays foreground only when every
// pixel under the element is foreground. Pixels outside the mask never
// cause erosion, so shapes touching the border are not eaten from outside.
func Erode(m *Mask, e Element, iterations int) *Mask {
	return erode(m, e, iterations, true)
}

func erode(m *Mask, e Element, iterations int, outsideIsInk bool) *Mask {
	offs := e.offsets()
	anchorOn := e.on[e.Anchor.Y*e.Width+e.Anchor.X]
	cur := m
	for it := 0; it < iterations; it++ {
		dst := NewMask(cur.Width, cur.Height)
		for y := 0; y < cur.Height; y++ {
			for x := 0; x < cur.Width; x++ {
				if anchorOn && cur.Pix[y*cur.Width+x] == 0 {
					continue
				}
				keep := true
				for _, o := range offs {
					sx, sy := x+o.X, y+o.Y
					if sx < 0 || sy < 0 || sx >= cur.Width || sy >= cur.Height {
						if !outsideIsInk {
							keep = false
							break
						}
						continue
					}
					if cur.Pix[sy*cur.Width+sx] == 0 {
						keep = false
						break
					}
				}
				if keep {
					dst.Set(x, y, true)
				}
			}
		}
		cur = dst
	}
	if cur == m {
		return m.Clone()
	}
	return cur
}

// open is erosion followed by dilation; it removes specks smaller than the
// element. With outsideIsInk false the border erodes like any other edge.
func open(m *Mask, e Element, outsideIsInk bool) *Mask {
	return Dilate(erode(m, e, 1, outsideIsInk), e, 1)
}

// Close is dilation followed by erosion; it bridges gaps and fills holes
// smaller than the element.
//
// Like the usual library convention, iterations applies to each half: with
// iterations=2 the mask is dilated twice and then eroded twice.
func Close(m *Mask, e Element, iterations int) *Mask {
	return Erode(Dilate(m, e, iterations), e, iterations)
}

// Subtract returns a AND NOT b.
func Subtract(a, b *Mask) *Mask {
	dst := NewMask(a.Width, a.Height)
	for i := range a.Pix {
		if a.Pix[i] != 0 && b.Pix[i] == 0 {
			dst.Pix[i] = 1
		}
	}
	return dst
}

// Union sets every pixel of dst that is foreground in src.
func Union(dst, src *Mask) {
	for i := range src.Pix {
		if src.Pix[i] != 0 {
			dst.Pix[i] = 1
		}
	}
}
