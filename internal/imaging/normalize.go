package imaging

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// Default canvas size, matching the drawing board of the web client.
const (
	DefaultCanvasWidth  = 800
	DefaultCanvasHeight = 600
)

// NormalizeOptions controls how a decoded image is fitted onto the working canvas.
type NormalizeOptions struct {
	// Width and Height are the target box. Zero values select the defaults.
	Width  int
	Height int

	// Pad centers the scaled image on a white Width×Height canvas. When false
	// the canvas is the scaled image itself and may be smaller than the box.
	Pad bool
}

// Canvas is the fixed-size color raster every later stage works on.
type Canvas struct {
	// Image holds the normalized pixels. Its bounds start at (0,0).
	Image *image.NRGBA

	// Content is the region of Image covered by the source picture. It equals
	// Image.Bounds() unless padding was applied.
	Content image.Rectangle
}

// Width returns the canvas width in pixels.
func (c *Canvas) Width() int { return c.Image.Bounds().Dx() }

// Height returns the canvas height in pixels.
func (c *Canvas) Height() int { return c.Image.Bounds().Dy() }

// FitSize computes the contain-fit size of a w×h image inside a boxW×boxH box.
//
// The scale is min(boxW/w, boxH/h); each side is truncated and never drops
// below one pixel, so the aspect ratio is kept within one pixel of rounding.
func FitSize(w, h, boxW, boxH int) (int, int) {
	scale := float64(boxW) / float64(w)
	if s := float64(boxH) / float64(h); s < scale {
		scale = s
	}
	newW := int(float64(w) * scale)
	newH := int(float64(h) * scale)
	if newW < 1 {
		newW = 1
	}
	if newH < 1 {
		newH = 1
	}
	return newW, newH
}

// Normalize scales img to fit the target box while preserving its aspect ratio.
//
// Downscaling uses the Box filter, which averages every source pixel that
// falls inside a destination pixel and so does not alias thin ink strokes.
// Upscaling uses bilinear interpolation.
//
// With opts.Pad the result is always exactly opts.Width×opts.Height with the
// picture centered at offset ((W-newW)/2, (H-newH)/2) on white.
func Normalize(img image.Image, opts NormalizeOptions) *Canvas {
	boxW, boxH := opts.Width, opts.Height
	if boxW <= 0 {
		boxW = DefaultCanvasWidth
	}
	if boxH <= 0 {
		boxH = DefaultCanvasHeight
	}

	b := img.Bounds()
	newW, newH := FitSize(b.Dx(), b.Dy(), boxW, boxH)

	filter := imaging.Box
	if newW > b.Dx() || newH > b.Dy() {
		filter = imaging.Linear
	}
	resized := imaging.Resize(img, newW, newH, filter)

	if !opts.Pad {
		return &Canvas{Image: resized, Content: resized.Bounds()}
	}

	offset := image.Pt((boxW-newW)/2, (boxH-newH)/2)
	canvas := imaging.New(boxW, boxH, color.White)
	canvas = imaging.Paste(canvas, resized, offset)

	return &Canvas{
		Image:   canvas,
		Content: image.Rectangle{Min: offset, Max: offset.Add(image.Pt(newW, newH))},
	}
}

// Downsample resizes img to exactly w×h with bilinear interpolation,
// ignoring aspect ratio. Used to shrink the canvas before color clustering.
func Downsample(img image.Image, w, h int) *image.NRGBA {
	return imaging.Resize(img, w, h, imaging.Linear)
}
