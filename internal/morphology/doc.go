// Package morphology turns a grayscale canvas into stroke centerlines.
//
// The stages, in pipeline order:
//
//  1. Otsu: pick a global threshold from the intensity histogram
//  2. ThresholdInv: dark ink becomes foreground
//  3. Close: bridge small gaps (5x5 square, 2 iterations)
//  4. Skeletonize: thin strokes to 1-pixel centerlines
//
// Masks store foreground as 1 and background as 0. Every function allocates
// its result and leaves its inputs untouched, so masks can be shared freely
// between goroutines once built.
package morphology
