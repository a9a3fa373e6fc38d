package pipeline

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"runtime/debug"
	"time"

	"github.com/anthonynsimon/bild/effect"
	"github.com/gotranspile/gotrace"

	"github.com/ironsheep/dots-mcp/internal/detection"
	"github.com/ironsheep/dots-mcp/internal/imaging"
	"github.com/ironsheep/dots-mcp/internal/morphology"
	"github.com/ironsheep/dots-mcp/internal/palette"
)

// Closing parameters: a 5x5 square applied twice.
const (
	closeSize       = 5
	closeIterations = 2
)

// Stages holds the intermediate rasters of one run, in pipeline order.
type Stages struct {
	Canvas *imaging.Canvas

	// Gray is the luma of the canvas; Blurred is Gray after the 5x5 Gaussian.
	Gray    *image.Gray
	Blurred *image.Gray

	// Threshold is the Otsu level chosen on Blurred.
	Threshold uint8

	// Binary is the inverted threshold mask (ink = foreground), Closed the
	// same mask after closing, Skeleton its centerlines.
	Binary   *morphology.Mask
	Closed   *morphology.Mask
	Skeleton *morphology.Mask
}

// Process runs the whole pipeline on compressed image bytes.
//
// It never panics and never returns nil. Undecodable input yields
// DecodeErrorMessage. Any other failure, a stage error or a recovered panic,
// is reported in Result.Error as the message followed by a stack trace.
// Stage errors name their stage ("extract palette: ...").
func Process(data []byte, opts Options) (res *Result) {
	defer func() {
		if r := recover(); r != nil {
			opts.debugf("pipeline: recovered panic: %v", r)
			res = failureResult(r)
		}
	}()

	img, err := imaging.Decode(data)
	if err != nil {
		opts.debugf("pipeline: %v", err)
		return errorResult(DecodeErrorMessage)
	}

	res, err = ProcessImage(img, opts)
	if err != nil {
		if errors.Is(err, imaging.ErrDecode) {
			return errorResult(DecodeErrorMessage)
		}
		opts.debugf("pipeline: %v", err)
		return failureResult(err)
	}
	return res
}

// failureResult reports an unexpected failure: the message, then the
// goroutine trace where it was caught.
func failureResult(v interface{}) *Result {
	return errorResult(fmt.Sprintf("%v\n%s", v, debug.Stack()))
}

// ProcessImage runs every stage after decoding and assembles the result.
// Unlike Process it reports failures as errors.
func ProcessImage(img image.Image, opts Options) (*Result, error) {
	start := time.Now()
	dump := newDumper(opts)

	st := Analyze(img, opts)
	dots := detection.ExtractWaypoints(st.Skeleton)
	opts.debugf("pipeline: %dx%d canvas, threshold %d, %d ink px, %d skeleton px, %d dots",
		st.Canvas.Width(), st.Canvas.Height(), st.Threshold, st.Closed.Count(), st.Skeleton.Count(), len(dots))

	asset := renderAsset(st, opts.Asset)
	uri, err := imaging.EncodePNGDataURI(asset)
	if err != nil {
		return nil, fmt.Errorf("encode asset: %w", err)
	}

	colors, err := palette.Extract(st.Canvas.Image, opts.Palette)
	if err != nil {
		return nil, fmt.Errorf("extract palette: %w", err)
	}

	res := &Result{
		Image:   uri,
		Dots:    dots,
		Palette: colors,
		Width:   st.Canvas.Width(),
		Height:  st.Canvas.Height(),
	}

	if opts.TraceSVG {
		svg, err := TraceSVG(imaging.Luma(asset))
		if err != nil {
			return nil, fmt.Errorf("trace outline: %w", err)
		}
		res.SVG = svg
	}

	dump.save("canvas", st.Canvas.Image)
	dump.save("binary", st.Binary.Gray())
	dump.save("closed", st.Closed.Gray())
	dump.save("skeleton", st.Skeleton.Gray())
	dump.save("asset", asset)

	opts.debugf("pipeline: done in %s", time.Since(start))
	return res, nil
}

// Analyze normalizes img and runs the raster stages up to the skeleton.
func Analyze(img image.Image, opts Options) *Stages {
	canvas := imaging.Normalize(img, imaging.NormalizeOptions{
		Width:  opts.Width,
		Height: opts.Height,
		Pad:    opts.Pad,
	})

	gray := imaging.Luma(canvas.Image)
	blurred := imaging.GaussianBlur5(gray)
	t := morphology.Otsu(blurred)
	binary := morphology.ThresholdInv(blurred, t)
	closed := morphology.Close(binary, morphology.Rect(closeSize, closeSize), closeIterations)

	return &Stages{
		Canvas:    canvas,
		Gray:      gray,
		Blurred:   blurred,
		Threshold: t,
		Binary:    binary,
		Closed:    closed,
		Skeleton:  morphology.Skeletonize(closed, opts.Skeleton),
	}
}

// renderAsset draws the raster returned to the client.
func renderAsset(st *Stages, mode AssetMode) image.Image {
	if mode == AssetGrayscale {
		return st.Gray
	}
	// Thicken the raw threshold mask a little, then flip it to black ink on
	// white paper.
	thick := morphology.Dilate(st.Binary, morphology.Rect(2, 2), 1)
	return effect.Invert(thick.Gray())
}

// TraceSVG vectorizes the dark pixels of g into an SVG document.
func TraceSVG(g *image.Gray) (string, error) {
	bm := gotrace.BitmapFromGray(g, nil)

	paths, err := gotrace.Trace(bm, nil)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	sz := g.Bounds().Size()
	if err := gotrace.Render("svg", nil, &buf, paths, sz.X, sz.Y); err != nil {
		return "", err
	}
	return buf.String(), nil
}
