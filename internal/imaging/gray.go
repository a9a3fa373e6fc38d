package imaging

import (
	"image"
	"math"
)

// Luma converts an image to 8-bit grayscale.
//
// Grayscale conversion uses ITU-R BT.601 weights
// (0.299*R + 0.587*G + 0.114*B), rounded to the nearest integer.
// The result always has its origin at (0,0).
func Luma(img image.Image) *image.Gray {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	gray := image.NewGray(image.Rect(0, 0, width, height))

	if nrgba, ok := img.(*image.NRGBA); ok {
		for y := 0; y < height; y++ {
			row := nrgba.Pix[(y+bounds.Min.Y-nrgba.Rect.Min.Y)*nrgba.Stride:]
			for x := 0; x < width; x++ {
				i := (x + bounds.Min.X - nrgba.Rect.Min.X) * 4
				gray.Pix[y*gray.Stride+x] = lumaOf(row[i], row[i+1], row[i+2])
			}
		}
		return gray
	}

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, g, b, _ := img.At(x+bounds.Min.X, y+bounds.Min.Y).RGBA()
			gray.Pix[y*gray.Stride+x] = lumaOf(uint8(r>>8), uint8(g>>8), uint8(b>>8))
		}
	}
	return gray
}

func lumaOf(r, g, b uint8) uint8 {
	return uint8(math.Round(0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b)))
}

// GaussianBlur5 applies a 5x5 Gaussian blur to suppress speckle before thresholding.
//
// The kernel is the separable binomial [1 4 6 4 1]/16 in each direction,
// the fixed 5-tap kernel used when sigma is derived from the window size.
// Borders are handled by reflection without repeating the edge pixel
// (dcb|abcd|cba), so a uniform image stays exactly uniform.
func GaussianBlur5(src *image.Gray) *image.Gray {
	kernel := [5]float64{1, 4, 6, 4, 1}
	const kernelSum = 16.0

	bounds := src.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	// Horizontal pass
	tmp := make([]float64, width*height)
	for y := 0; y < height; y++ {
		row := src.Pix[src.PixOffset(bounds.Min.X, bounds.Min.Y+y):]
		for x := 0; x < width; x++ {
			var sum float64
			for k := -2; k <= 2; k++ {
				sum += float64(row[reflect101(x+k, width)]) * kernel[k+2]
			}
			tmp[y*width+x] = sum / kernelSum
		}
	}

	// Vertical pass
	dst := image.NewGray(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var sum float64
			for k := -2; k <= 2; k++ {
				sum += tmp[reflect101(y+k, height)*width+x] * kernel[k+2]
			}
			dst.Pix[y*dst.Stride+x] = uint8(math.Round(sum / kernelSum))
		}
	}
	return dst
}

// reflect101 maps an out-of-range index back into [0, n) by mirroring about
// the edge pixel. Used for boundary handling in convolution operations.
func reflect101(i, n int) int {
	if n == 1 {
		return 0
	}
	for i < 0 || i >= n {
		if i < 0 {
			i = -i
		}
		if i >= n {
			i = 2*n - 2 - i
		}
	}
	return i
}
