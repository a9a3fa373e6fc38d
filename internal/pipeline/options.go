package pipeline

import (
	"fmt"
	"log"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/ironsheep/dots-mcp/internal/imaging"
	"github.com/ironsheep/dots-mcp/internal/morphology"
	"github.com/ironsheep/dots-mcp/internal/palette"
)

// Environment variables read by OptionsFromEnv.
const (
	EnvLogLevel    = "DOTS_MCP_LOG_LEVEL"
	EnvWidth       = "DOTS_MCP_WIDTH"
	EnvHeight      = "DOTS_MCP_HEIGHT"
	EnvPad         = "DOTS_MCP_PAD"
	EnvAsset       = "DOTS_MCP_ASSET"
	EnvSkeleton    = "DOTS_MCP_SKELETON"
	EnvPalette     = "DOTS_MCP_PALETTE"
	EnvPaletteInit = "DOTS_MCP_PALETTE_INIT"
	EnvSeed        = "DOTS_MCP_SEED"
	EnvWorkers     = "DOTS_MCP_WORKERS"
	EnvDebugDir    = "DOTS_MCP_DEBUG_DIR"
)

// AssetMode selects the raster returned in Result.Image.
type AssetMode int

const (
	// AssetBinary is the thresholded ink mask, slightly thickened, drawn
	// black on white.
	AssetBinary AssetMode = iota

	// AssetGrayscale is the plain grayscale canvas.
	AssetGrayscale
)

func (a AssetMode) String() string {
	if a == AssetGrayscale {
		return "grayscale"
	}
	return "binary"
}

// ParseAssetMode parses a configuration name. The empty string selects AssetBinary.
func ParseAssetMode(s string) (AssetMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "binary", "lineart":
		return AssetBinary, nil
	case "grayscale", "greyscale", "gray", "grey":
		return AssetGrayscale, nil
	default:
		return AssetBinary, fmt.Errorf("unknown asset mode %q (want binary or grayscale)", s)
	}
}

// Options configures one pipeline run.
type Options struct {
	// Width and Height are the canvas box (default 800×600).
	Width  int
	Height int

	// Pad letterboxes the scaled picture onto a white Width×Height canvas.
	Pad bool

	Asset    AssetMode
	Skeleton morphology.Strategy
	Palette  palette.Options

	// TraceSVG adds a vector outline of the asset mask to the result.
	TraceSVG bool

	// DebugDir, when set, receives PNG dumps of the intermediate rasters.
	DebugDir string

	// Workers bounds Pool concurrency. Zero or less means runtime.NumCPU().
	Workers int

	// Logger receives stage timings and counts. Nil disables logging.
	Logger *log.Logger
}

// DefaultOptions returns the production configuration.
func DefaultOptions() Options {
	return Options{
		Width:    imaging.DefaultCanvasWidth,
		Height:   imaging.DefaultCanvasHeight,
		Pad:      true,
		Asset:    AssetBinary,
		Skeleton: morphology.GuoHall,
		Palette:  palette.DefaultOptions(),
		Workers:  runtime.NumCPU(),
	}
}

// OptionsFromEnv starts from DefaultOptions and applies the DOTS_MCP_*
// environment variables. Invalid values are reported through logger (when
// non-nil) and the default is kept. The returned Options log through logger
// only when DOTS_MCP_LOG_LEVEL is "debug".
func OptionsFromEnv(logger *log.Logger) Options {
	return optionsFromLookup(os.LookupEnv, logger)
}

func optionsFromLookup(lookup func(string) (string, bool), logger *log.Logger) Options {
	opts := DefaultOptions()
	warn := func(name, value string, err error) {
		if logger != nil {
			logger.Printf("ignoring %s=%q: %v", name, value, err)
		}
	}

	if v, ok := lookup(EnvLogLevel); ok && strings.EqualFold(strings.TrimSpace(v), "debug") {
		opts.Logger = logger
	}

	positive := func(name string, dst *int) {
		v, ok := lookup(name)
		if !ok {
			return
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err == nil && n <= 0 {
			err = fmt.Errorf("must be positive")
		}
		if err != nil {
			warn(name, v, err)
			return
		}
		*dst = n
	}
	positive(EnvWidth, &opts.Width)
	positive(EnvHeight, &opts.Height)
	positive(EnvWorkers, &opts.Workers)

	if v, ok := lookup(EnvPad); ok {
		if b, err := strconv.ParseBool(strings.TrimSpace(v)); err != nil {
			warn(EnvPad, v, err)
		} else {
			opts.Pad = b
		}
	}
	if v, ok := lookup(EnvAsset); ok {
		if a, err := ParseAssetMode(v); err != nil {
			warn(EnvAsset, v, err)
		} else {
			opts.Asset = a
		}
	}
	if v, ok := lookup(EnvSkeleton); ok {
		if s, err := morphology.ParseStrategy(v); err != nil {
			warn(EnvSkeleton, v, err)
		} else {
			opts.Skeleton = s
		}
	}
	if v, ok := lookup(EnvPalette); ok {
		if m, err := palette.ParseMethod(v); err != nil {
			warn(EnvPalette, v, err)
		} else {
			opts.Palette.Method = m
		}
	}
	if v, ok := lookup(EnvPaletteInit); ok {
		if in, err := palette.ParseInit(v); err != nil {
			warn(EnvPaletteInit, v, err)
		} else {
			opts.Palette.Init = in
		}
	}
	if v, ok := lookup(EnvSeed); ok {
		if n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64); err != nil {
			warn(EnvSeed, v, err)
		} else {
			opts.Palette.Seed = n
		}
	}
	if v, ok := lookup(EnvDebugDir); ok {
		opts.DebugDir = strings.TrimSpace(v)
	}
	return opts
}

func (o Options) debugf(format string, args ...interface{}) {
	if o.Logger != nil {
		o.Logger.Printf(format, args...)
	}
}
