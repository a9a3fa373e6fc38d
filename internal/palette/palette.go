package palette

import (
	"errors"
	"fmt"
	"image"
	"sort"
	"strings"

	"github.com/cenkalti/dominantcolor"
	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"

	"github.com/ironsheep/dots-mcp/internal/imaging"
)

// SampleSize is the side of the square the canvas is resized to before
// clustering.
const SampleSize = 150

// Method selects the clustering backend.
type Method int

const (
	// Lloyd is seeded multi-attempt Lloyd's k-means. Deterministic for a
	// fixed Seed and the default.
	Lloyd Method = iota

	// KMeans delegates to github.com/muesli/kmeans. Not seedable.
	KMeans

	// Dominant uses github.com/cenkalti/dominantcolor. Not seedable.
	Dominant
)

// String returns the configuration name of the method.
func (m Method) String() string {
	switch m {
	case Lloyd:
		return "lloyd"
	case KMeans:
		return "kmeans"
	case Dominant:
		return "dominant"
	default:
		return fmt.Sprintf("Method(%d)", int(m))
	}
}

// ParseMethod parses a configuration name. The empty string selects Lloyd.
func ParseMethod(s string) (Method, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "lloyd":
		return Lloyd, nil
	case "kmeans", "muesli":
		return KMeans, nil
	case "dominant", "dominantcolor":
		return Dominant, nil
	default:
		return Lloyd, fmt.Errorf("unknown palette method %q (want lloyd, kmeans or dominant)", s)
	}
}

// Options configures Extract. The zero value is not useful; start from
// DefaultOptions.
type Options struct {
	Method Method

	// K is the number of colors returned.
	K int

	// Attempts, MaxIter, Epsilon, Init and Seed only apply to Lloyd.
	Attempts int
	MaxIter  int
	Epsilon  float64
	Init     Init
	Seed     int64
}

// DefaultOptions returns 5 colors from 10 attempts of at most 10 Lloyd
// iterations each, stopping early once no centre moves more than 1.0.
func DefaultOptions() Options {
	return Options{
		Method:   Lloyd,
		K:        5,
		Attempts: 10,
		MaxIter:  10,
		Epsilon:  1.0,
		Init:     InitRandom,
		Seed:     1,
	}
}

// Extract returns exactly opts.K colors as lowercase "#rrggbb" strings.
//
// The image is first resized to SampleSize×SampleSize. Entries come out in
// cluster order, with no uniqueness guarantee: a uniform image yields K
// copies of its color. Backends that find fewer than K clusters are padded
// by repeating the last color.
func Extract(img image.Image, opts Options) ([]string, error) {
	if img == nil || img.Bounds().Empty() {
		return nil, errors.New("palette: empty image")
	}
	if opts.K <= 0 {
		return nil, fmt.Errorf("palette: invalid color count %d", opts.K)
	}

	small := imaging.Downsample(img, SampleSize, SampleSize)

	var colors []string
	var err error
	switch opts.Method {
	case KMeans:
		colors, err = extractMuesli(small, opts.K)
	case Dominant:
		colors = extractDominant(small, opts.K)
	default:
		colors = extractLloyd(small, opts)
	}
	if err != nil {
		return nil, err
	}
	if len(colors) == 0 {
		// Both library backends can come back empty on degenerate input.
		colors = extractLloyd(small, opts)
	}
	return fit(colors, opts.K), nil
}

// fit pads colors to exactly k entries by repeating the last one, or
// truncates the surplus.
func fit(colors []string, k int) []string {
	if len(colors) >= k {
		return colors[:k]
	}
	last := colors[len(colors)-1]
	for len(colors) < k {
		colors = append(colors, last)
	}
	return colors
}

func extractLloyd(img *image.NRGBA, opts Options) []string {
	res := Cluster(pixels(img), opts.K, opts)
	out := make([]string, len(res.Centers))
	for i, c := range res.Centers {
		out[i] = imaging.HexColor(c[0], c[1], c[2])
	}
	return out
}

// extractMuesli clusters with github.com/muesli/kmeans and orders the
// centres by population, largest first.
func extractMuesli(img *image.NRGBA, k int) ([]string, error) {
	pts := pixels(img)
	dataset := make(clusters.Observations, len(pts))
	for i, p := range pts {
		dataset[i] = clusters.Coordinates{p[0], p[1], p[2]}
	}

	km := kmeans.New()
	cc, err := km.Partition(dataset, k)
	if err != nil {
		return nil, fmt.Errorf("kmeans partition: %w", err)
	}

	sort.SliceStable(cc, func(i, j int) bool {
		return len(cc[i].Observations) > len(cc[j].Observations)
	})

	out := make([]string, 0, len(cc))
	for _, c := range cc {
		if len(c.Center) < 3 {
			continue
		}
		out = append(out, imaging.HexColor(c.Center[0], c.Center[1], c.Center[2]))
	}
	return out, nil
}

// extractDominant returns up to k colors ordered by weight.
func extractDominant(img *image.NRGBA, k int) []string {
	found := dominantcolor.FindWeight(img, k)
	out := make([]string, 0, len(found))
	for _, c := range found {
		out = append(out, imaging.HexFromColor(c.RGBA))
	}
	return out
}

// pixels flattens img into 8-bit RGB float triples in raster order.
func pixels(img *image.NRGBA) [][]float64 {
	b := img.Bounds()
	pts := make([][]float64, 0, b.Dx()*b.Dy())
	for y := 0; y < b.Dy(); y++ {
		row := img.Pix[img.PixOffset(b.Min.X, b.Min.Y+y):]
		for x := 0; x < b.Dx(); x++ {
			p := row[x*4 : x*4+3]
			pts = append(pts, []float64{float64(p[0]), float64(p[1]), float64(p[2])})
		}
	}
	return pts
}
