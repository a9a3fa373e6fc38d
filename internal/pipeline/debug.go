package pipeline

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/anthonynsimon/bild/imgio"
)

var dumpSeq atomic.Int64

// dumper writes intermediate rasters to Options.DebugDir. A zero dumper
// (no directory configured) does nothing.
type dumper struct {
	dir    string
	prefix string
	opts   Options
}

func newDumper(opts Options) *dumper {
	if opts.DebugDir == "" {
		return &dumper{}
	}
	if err := os.MkdirAll(opts.DebugDir, 0o755); err != nil {
		if opts.Logger != nil {
			opts.Logger.Printf("debug dumps disabled: %v", err)
		}
		return &dumper{}
	}
	prefix := fmt.Sprintf("debug_%s_%03d", time.Now().Format("20060102_150405"), dumpSeq.Add(1)%1000)
	return &dumper{dir: opts.DebugDir, prefix: prefix, opts: opts}
}

// save writes img as <prefix>_<stage>.png. Failures are logged, not returned:
// a full disk must not fail the pipeline.
func (d *dumper) save(stage string, img image.Image) {
	if d.dir == "" {
		return
	}
	path := filepath.Join(d.dir, d.prefix+"_"+stage+".png")
	if err := imgio.Save(path, img, imgio.PNGEncoder()); err != nil {
		if d.opts.Logger != nil {
			d.opts.Logger.Printf("debug dump %s: %v", path, err)
		}
		return
	}
	d.opts.debugf("pipeline: wrote %s", path)
}
