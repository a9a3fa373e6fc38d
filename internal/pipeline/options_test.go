package pipeline

import (
	"bytes"
	"log"
	"strings"
	"testing"

	"github.com/ironsheep/dots-mcp/internal/morphology"
	"github.com/ironsheep/dots-mcp/internal/palette"
)

func lookupFrom(env map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}
}

func TestDefaultOptions(t *testing.T) {
	o := DefaultOptions()
	if o.Width != 800 || o.Height != 600 || !o.Pad {
		t.Errorf("canvas defaults: got %dx%d pad=%v", o.Width, o.Height, o.Pad)
	}
	if o.Asset != AssetBinary || o.Skeleton != morphology.GuoHall || o.Palette.Method != palette.Lloyd {
		t.Errorf("mode defaults: asset=%v skeleton=%v palette=%v", o.Asset, o.Skeleton, o.Palette.Method)
	}
	if o.Logger != nil || o.DebugDir != "" || o.TraceSVG {
		t.Error("logging, dumps and SVG should be off by default")
	}
}

func TestOptionsFromEnv(t *testing.T) {
	var logs bytes.Buffer
	logger := log.New(&logs, "", 0)

	o := optionsFromLookup(lookupFrom(map[string]string{
		EnvLogLevel:    "DEBUG",
		EnvWidth:       "1024",
		EnvHeight:      "768",
		EnvPad:         "false",
		EnvAsset:       "grayscale",
		EnvSkeleton:    "erosion",
		EnvPalette:     "kmeans",
		EnvPaletteInit: "plusplus",
		EnvSeed:        "99",
		EnvWorkers:     "3",
		EnvDebugDir:    " /tmp/dots ",
	}), logger)

	if o.Width != 1024 || o.Height != 768 || o.Pad {
		t.Errorf("canvas: got %dx%d pad=%v", o.Width, o.Height, o.Pad)
	}
	if o.Asset != AssetGrayscale || o.Skeleton != morphology.ErosionSubtraction {
		t.Errorf("modes: asset=%v skeleton=%v", o.Asset, o.Skeleton)
	}
	if o.Palette.Method != palette.KMeans || o.Palette.Seed != 99 || o.Palette.Init != palette.InitPlusPlus {
		t.Errorf("palette: method=%v seed=%d init=%v", o.Palette.Method, o.Palette.Seed, o.Palette.Init)
	}
	if o.Workers != 3 || o.DebugDir != "/tmp/dots" {
		t.Errorf("workers=%d debugDir=%q", o.Workers, o.DebugDir)
	}
	if o.Logger != logger {
		t.Error("debug level should enable the logger")
	}
	if logs.Len() != 0 {
		t.Errorf("valid settings should not warn: %s", logs.String())
	}
}

func TestOptionsFromEnv_InvalidKeepsDefaults(t *testing.T) {
	var logs bytes.Buffer
	logger := log.New(&logs, "", 0)

	tests := []struct {
		name  string
		key   string
		value string
		check func(Options) bool
	}{
		{"width not a number", EnvWidth, "wide", func(o Options) bool { return o.Width == 800 }},
		{"negative height", EnvHeight, "-5", func(o Options) bool { return o.Height == 600 }},
		{"pad not a bool", EnvPad, "sometimes", func(o Options) bool { return o.Pad }},
		{"unknown asset", EnvAsset, "sepia", func(o Options) bool { return o.Asset == AssetBinary }},
		{"unknown skeleton", EnvSkeleton, "medial-axis", func(o Options) bool { return o.Skeleton == morphology.GuoHall }},
		{"unknown palette", EnvPalette, "octree", func(o Options) bool { return o.Palette.Method == palette.Lloyd }},
		{"unknown palette init", EnvPaletteInit, "forgy", func(o Options) bool { return o.Palette.Init == palette.InitRandom }},
		{"bad seed", EnvSeed, "1.5", func(o Options) bool { return o.Palette.Seed == 1 }},
		{"zero workers", EnvWorkers, "0", func(o Options) bool { return o.Workers > 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logs.Reset()
			o := optionsFromLookup(lookupFrom(map[string]string{tt.key: tt.value}), logger)
			if !tt.check(o) {
				t.Errorf("%s=%q changed the default", tt.key, tt.value)
			}
			if !strings.Contains(logs.String(), tt.key) {
				t.Errorf("expected a warning naming %s, got %q", tt.key, logs.String())
			}
			if o.Logger != nil {
				t.Error("logger should stay off without the debug level")
			}
		})
	}
}

func TestParseAssetMode(t *testing.T) {
	tests := []struct {
		in      string
		want    AssetMode
		wantErr bool
	}{
		{"", AssetBinary, false},
		{"binary", AssetBinary, false},
		{"Grayscale", AssetGrayscale, false},
		{"grey", AssetGrayscale, false},
		{"color", AssetBinary, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseAssetMode(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error: got %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}
