package palette

import (
	"fmt"
	"math"
	"math/rand"
	"strings"

	"gonum.org/v1/gonum/floats"
)

// Init selects how Lloyd's algorithm places its starting centres.
type Init int

const (
	// InitRandom draws each centre uniformly inside the bounding box of the data.
	InitRandom Init = iota

	// InitPlusPlus is k-means++ seeding: each new centre is a data point
	// picked with probability proportional to its squared distance from the
	// nearest centre chosen so far.
	InitPlusPlus
)

func (i Init) String() string {
	if i == InitPlusPlus {
		return "plusplus"
	}
	return "random"
}

// ParseInit parses an initialisation name. The empty string selects InitRandom.
func ParseInit(s string) (Init, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "random":
		return InitRandom, nil
	case "plusplus", "kmeans++", "pp":
		return InitPlusPlus, nil
	default:
		return InitRandom, fmt.Errorf("unknown k-means init %q (want random or plusplus)", s)
	}
}

// Result is the outcome of the best clustering attempt.
type Result struct {
	// Centers holds k centres, each with the dimension of the input points.
	Centers [][]float64

	// Labels maps every input point to the index of its centre.
	Labels []int

	// Compactness is the sum of squared distances from each point to its
	// centre. Lower is better.
	Compactness float64
}

// Cluster partitions points into k groups with Lloyd's algorithm.
//
// Each attempt alternates assignment and centre update for at most
// opts.MaxIter rounds, stopping early when no centre moves by more than
// opts.Epsilon. The attempt with the lowest compactness wins. All
// randomness comes from opts.Seed, so equal inputs give equal results.
//
// An empty cluster is re-seeded with the point lying farthest from its own
// centre. When there are fewer points than k, the surplus centres repeat
// existing points.
func Cluster(points [][]float64, k int, opts Options) Result {
	if len(points) == 0 || k <= 0 {
		return Result{}
	}
	attempts := max(opts.Attempts, 1)
	maxIter := max(opts.MaxIter, 1)
	eps2 := opts.Epsilon * opts.Epsilon

	rng := rand.New(rand.NewSource(opts.Seed))
	best := Result{Compactness: math.Inf(1)}

	for a := 0; a < attempts; a++ {
		var centers [][]float64
		if opts.Init == InitPlusPlus {
			centers = initPlusPlus(points, k, rng)
		} else {
			centers = initRandom(points, k, rng)
		}
		labels := make([]int, len(points))

		for iter := 0; iter < maxIter; iter++ {
			assign(points, centers, labels)
			next := updateCenters(points, labels, centers)

			shift := 0.0
			for i := range centers {
				shift = math.Max(shift, sqDist(centers[i], next[i]))
			}
			centers = next
			if shift <= eps2 {
				break
			}
		}

		compactness := assign(points, centers, labels)
		if compactness < best.Compactness {
			best = Result{Centers: centers, Labels: labels, Compactness: compactness}
		}
	}
	return best
}

// assign labels every point with its nearest centre (lowest index on ties)
// and returns the resulting compactness.
func assign(points, centers [][]float64, labels []int) float64 {
	total := 0.0
	for i, p := range points {
		bestK, bestD := 0, math.Inf(1)
		for k, c := range centers {
			if d := sqDist(p, c); d < bestD {
				bestK, bestD = k, d
			}
		}
		labels[i] = bestK
		total += bestD
	}
	return total
}

// updateCenters returns the mean of each cluster. Empty clusters take the
// point farthest from its current centre; a point is used at most once.
func updateCenters(points [][]float64, labels []int, old [][]float64) [][]float64 {
	dim := len(points[0])
	sums := make([][]float64, len(old))
	counts := make([]int, len(old))
	for k := range sums {
		sums[k] = make([]float64, dim)
	}
	for i, p := range points {
		floats.Add(sums[labels[i]], p)
		counts[labels[i]]++
	}

	var taken map[int]bool
	for k := range sums {
		if counts[k] > 0 {
			floats.Scale(1/float64(counts[k]), sums[k])
			continue
		}
		if taken == nil {
			taken = make(map[int]bool)
		}
		far, farD := -1, -1.0
		for i, p := range points {
			if taken[i] {
				continue
			}
			if d := sqDist(p, old[labels[i]]); d > farD {
				far, farD = i, d
			}
		}
		if far < 0 {
			copy(sums[k], old[k])
			continue
		}
		taken[far] = true
		copy(sums[k], points[far])
	}
	return sums
}

func initRandom(points [][]float64, k int, rng *rand.Rand) [][]float64 {
	dim := len(points[0])
	lo := make([]float64, dim)
	hi := make([]float64, dim)
	col := make([]float64, len(points))
	for d := 0; d < dim; d++ {
		for i, p := range points {
			col[i] = p[d]
		}
		lo[d], hi[d] = floats.Min(col), floats.Max(col)
	}

	centers := make([][]float64, k)
	for i := range centers {
		c := make([]float64, dim)
		for d := range c {
			c[d] = lo[d] + rng.Float64()*(hi[d]-lo[d])
		}
		centers[i] = c
	}
	return centers
}

func initPlusPlus(points [][]float64, k int, rng *rand.Rand) [][]float64 {
	centers := make([][]float64, 0, k)
	centers = append(centers, clone(points[rng.Intn(len(points))]))

	dists := make([]float64, len(points))
	for i, p := range points {
		dists[i] = sqDist(p, centers[0])
	}

	for len(centers) < k {
		total := floats.Sum(dists)
		idx := 0
		if total > 0 {
			target := rng.Float64() * total
			for acc := 0.0; idx < len(points)-1; idx++ {
				acc += dists[idx]
				if acc > target {
					break
				}
			}
		} else {
			idx = rng.Intn(len(points))
		}

		c := clone(points[idx])
		centers = append(centers, c)
		for i, p := range points {
			dists[i] = math.Min(dists[i], sqDist(p, c))
		}
	}
	return centers
}

func sqDist(a, b []float64) float64 {
	d := floats.Distance(a, b, 2)
	return d * d
}

func clone(p []float64) []float64 {
	return append([]float64(nil), p...)
}
