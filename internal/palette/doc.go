// Package palette extracts a small set of representative colors from the
// normalized canvas.
//
// Three backends are available. Lloyd, the default, is a seeded
// multi-attempt Lloyd's k-means over 8-bit RGB with gonum doing the vector
// arithmetic; KMeans hands the same samples to github.com/muesli/kmeans;
// Dominant asks github.com/cenkalti/dominantcolor for the heaviest colors.
// Whatever the backend, Extract always returns exactly K "#rrggbb" strings.
package palette
