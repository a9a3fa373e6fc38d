package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"os"
	"sync"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"  // Register BMP format decoder
	_ "golang.org/x/image/tiff" // Register TIFF format decoder
	_ "golang.org/x/image/webp" // Register WebP format decoder
)

// ErrDecode reports that a byte buffer is not a recognizable raster image.
var ErrDecode = errors.New("failed to decode image bytes")

// Decode turns compressed image bytes into a fully opaque raster.
//
// Any format registered with the image package is accepted: PNG, JPEG and GIF
// from the standard library plus BMP, TIFF and WebP from golang.org/x/image.
// Transparent pixels are composited onto white, since transparent paper in a
// line drawing is still paper.
//
// # Errors
//
// The returned error wraps ErrDecode when the bytes cannot be decoded or
// describe an image with zero width or height.
func Decode(data []byte) (*image.NRGBA, error) {
	src, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	b := src.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, fmt.Errorf("%w: empty image %dx%d", ErrDecode, b.Dx(), b.Dy())
	}

	paper := imaging.New(b.Dx(), b.Dy(), color.White)
	return imaging.Overlay(paper, src, image.Pt(0, 0), 1.0), nil
}

// ImageCache provides thread-safe caching of image files to avoid redundant disk reads.
//
// The cache stores the raw file bytes keyed by path. The dot extraction
// pipeline consumes raw bytes, so caching them (rather than a decoded image)
// lets repeated tool calls with different options skip the disk entirely.
//
// ImageCache is safe for concurrent use by multiple goroutines.
//
// # Memory Management
//
// Cached files remain in memory until explicitly removed via Evict() or Clear().
type ImageCache struct {
	mu     sync.RWMutex
	images map[string][]byte
}

// NewImageCache creates and initializes a new empty image cache.
func NewImageCache() *ImageCache {
	return &ImageCache{
		images: make(map[string][]byte),
	}
}

// LoadBytes returns the raw contents of an image file, reading it from disk
// on first use. The returned slice must not be modified.
func (c *ImageCache) LoadBytes(path string) ([]byte, error) {
	c.mu.RLock()
	if data, ok := c.images[path]; ok {
		c.mu.RUnlock()
		return data, nil
	}
	c.mu.RUnlock()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}

	c.mu.Lock()
	c.images[path] = data
	c.mu.Unlock()

	return data, nil
}

// Load retrieves and decodes an image file.
//
// The file bytes are cached; decoding happens on every call so callers get
// their own raster and may mutate it.
func (c *ImageCache) Load(path string) (*image.NRGBA, error) {
	data, err := c.LoadBytes(path)
	if err != nil {
		return nil, err
	}
	return Decode(data)
}

// Clear removes all files from the cache and returns how many were held.
func (c *ImageCache) Clear() int {
	c.mu.Lock()
	n := len(c.images)
	c.images = make(map[string][]byte)
	c.mu.Unlock()
	return n
}

// Evict removes a specific file from the cache by its path and reports
// whether it was cached. The next load reads the file from disk again.
func (c *ImageCache) Evict(path string) bool {
	c.mu.Lock()
	_, ok := c.images[path]
	delete(c.images, path)
	c.mu.Unlock()
	return ok
}

// ImageInfo contains metadata about an image file.
type ImageInfo struct {
	// Width is the image width in pixels.
	Width int `json:"width"`

	// Height is the image height in pixels.
	Height int `json:"height"`

	// Format is the format name reported by the registered decoder,
	// for example "png", "jpeg", "webp".
	Format string `json:"format"`

	// FileSizeBytes is the size of the image file in bytes.
	FileSizeBytes int64 `json:"file_size_bytes"`
}

// LoadImageInfo reads an image header and returns its metadata.
//
// Only the header is decoded, so this is cheap even for large photographs.
// Unlike extension-based detection, the format comes from the file contents.
func LoadImageInfo(cache *ImageCache, path string) (*ImageInfo, error) {
	data, err := cache.LoadBytes(path)
	if err != nil {
		return nil, err
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	return &ImageInfo{
		Width:         cfg.Width,
		Height:        cfg.Height,
		Format:        format,
		FileSizeBytes: int64(len(data)),
	}, nil
}

// DimensionsResult contains the width and height of an image.
type DimensionsResult struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// GetDimensions returns the dimensions of an image without additional metadata.
func GetDimensions(cache *ImageCache, path string) (*DimensionsResult, error) {
	info, err := LoadImageInfo(cache, path)
	if err != nil {
		return nil, err
	}
	return &DimensionsResult{
		Width:  info.Width,
		Height: info.Height,
	}, nil
}
