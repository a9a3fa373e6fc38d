// Package imaging provides the raster plumbing around dot extraction.
//
// It decodes compressed image bytes, fits them onto the fixed-size working
// canvas, converts to grayscale, smooths, and encodes results back to PNG
// data URIs. All operations work with standard Go image types and use a
// coordinate system where (0,0) is at the top-left corner, X increases
// rightward, and Y increases downward.
//
// # Canvas Normalization
//
// Every input is scaled with a contain fit into the target box (800x600 by
// default), preserving aspect ratio. Two layouts are supported:
//   - Unpadded: the canvas is the scaled picture itself, possibly smaller
//     than the box on one axis
//   - Padded: the scaled picture is centered on a white canvas of exactly
//     the box size
//
// # Diagnostics
//
// GridOverlay draws a labelled coordinate grid over a copy of any image so
// intermediate rasters can be inspected by eye.
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. All other functions are
// stateless and allocate their outputs, so they can be called concurrently.
//
// # Color Representation
//
// Colors are exchanged as 6-character lowercase hex strings "#rrggbb"
// (alpha excluded), formatted through go-colorful.
//
// # Error Handling
//
// Decoding failures wrap ErrDecode so callers can detect them with errors.Is.
package imaging
