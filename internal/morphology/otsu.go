package morphology

import (
	"image"
	"math"
)

// Otsu selects a global threshold for g by maximizing between-class variance.
//
// # Algorithm
//
// For every candidate level t the histogram is split into the classes
// [0,t] and (t,255]. With class weights q1, q2 and class means mu1, mu2 the
// between-class variance is
//
//	sigma(t) = q1 * q2 * (mu1 - mu2)^2
//
// The first t reaching the maximum wins. Levels where either class is
// (numerically) empty are skipped, so a uniform image yields 0.
func Otsu(g *image.Gray) uint8 {
	b := g.Bounds()
	var hist [256]float64
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := g.Pix[g.PixOffset(b.Min.X, y):]
		for x := 0; x < b.Dx(); x++ {
			hist[row[x]]++
		}
	}

	total := float64(b.Dx() * b.Dy())
	if total == 0 {
		return 0
	}

	var mu float64
	for i, h := range hist {
		mu += float64(i) * h / total
	}

	const eps = 1.1920929e-07 // float32 machine epsilon
	var q1, mu1, maxSigma float64
	best := 0
	for i := 0; i < 256; i++ {
		p := hist[i] / total
		sum1 := mu1*q1 + float64(i)*p
		q1 += p
		if q1 > 0 {
			mu1 = sum1 / q1
		}
		q2 := 1.0 - q1

		if math.Min(q1, q2) < eps || math.Max(q1, q2) > 1.0-eps {
			continue
		}

		mu2 := (mu - q1*mu1) / q2
		sigma := q1 * q2 * (mu1 - mu2) * (mu1 - mu2)
		if sigma > maxSigma {
			maxSigma = sigma
			best = i
		}
	}
	return uint8(best)
}

// ThresholdInv marks pixels at or below t as foreground.
//
// Dark ink on light paper becomes foreground, which is the polarity the
// morphology and thinning stages expect.
func ThresholdInv(g *image.Gray, t uint8) *Mask {
	b := g.Bounds()
	m := NewMask(b.Dx(), b.Dy())
	for y := 0; y < m.Height; y++ {
		row := g.Pix[g.PixOffset(b.Min.X, b.Min.Y+y):]
		for x := 0; x < m.Width; x++ {
			if row[x] <= t {
				m.Set(x, y, true)
			}
		}
	}
	return m
}
