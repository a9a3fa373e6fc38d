// Package pipeline assembles the connect-the-dots bundle from raw image
// bytes.
//
// Process is the single entry point for one image:
//
//  1. decode and fit onto the canvas (imaging)
//  2. luma, Gaussian blur, Otsu threshold, closing, skeleton (morphology)
//  3. main contour, simplification, waypoint sampling (detection)
//  4. color palette (palette)
//  5. visual asset, optional SVG outline, Result
//
// Process is synchronous and keeps no state between calls, so any number
// of calls may run in parallel. Pool bounds that parallelism for batches.
//
// # Configuration
//
// Options come from DefaultOptions or OptionsFromEnv and can be adjusted
// per call. See the Env* constants for the recognized variables.
//
// # Errors
//
// Failures never escape as panics or Go errors from Process; they become a
// Result whose only field is Error.
package pipeline
