// Package detection turns a skeleton mask into the ordered dot path.
//
// # Stages
//
//  1. FindExternalContours: Suzuki-Abe border following over the outer
//     border of every external 8-connected component
//  2. MainContour: keep the contour with the largest shoelace area
//  3. SimplifyClosed: closed Douglas-Peucker with a tolerance proportional
//     to the contour perimeter
//  4. SampleWaypoints: one greedy forward pass that enforces MinDist
//     between consecutive dots
//
// ExtractWaypoints chains all four with the production constants.
//
// # Coordinate System
//
// All coordinates use the standard image convention:
//   - Origin (0, 0) at top-left corner
//   - X increases rightward
//   - Y increases downward
//
// Contours are emitted in chain-code order starting at the component's
// first pixel in raster order, so the same mask always produces the same
// path.
//
// # Limitations
//
// Only outer borders are traced. Holes and components nested inside holes
// are ignored, and disconnected strokes other than the largest are
// discarded. Callers that need every stroke should join them before
// skeletonization (morphology.Close does this for small gaps).
package detection
