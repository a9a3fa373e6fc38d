package pipeline

import (
	"encoding/json"

	"github.com/ironsheep/dots-mcp/internal/detection"
)

// DecodeErrorMessage is the Result.Error text for input that is not an image.
const DecodeErrorMessage = "Failed to decode image bytes"

// Result is the record handed to the client, either a full asset bundle or
// an error. It is never partially filled: when Error is set every other
// field is zero and only "error" is serialized.
type Result struct {
	// Image is the visual asset as a "data:image/png;base64,..." URI.
	Image string `json:"image"`

	// Dots is the numbered path, possibly empty but never null in JSON.
	Dots []detection.Waypoint `json:"dots"`

	// Palette holds exactly five "#rrggbb" colors.
	Palette []string `json:"palette"`

	// Width and Height are the canvas dimensions the dots refer to.
	Width  int `json:"width"`
	Height int `json:"height"`

	// SVG is a vector outline of the asset, present only when requested.
	SVG string `json:"svg,omitempty"`

	Error string `json:"error,omitempty"`
}

// Failed reports whether r is an error record.
func (r *Result) Failed() bool { return r.Error != "" }

// MarshalJSON emits {"error": ...} alone for failed results.
func (r Result) MarshalJSON() ([]byte, error) {
	if r.Error != "" {
		return json.Marshal(struct {
			Error string `json:"error"`
		}{r.Error})
	}
	type plain Result
	p := plain(r)
	if p.Dots == nil {
		p.Dots = []detection.Waypoint{}
	}
	return json.Marshal(p)
}

func errorResult(msg string) *Result {
	return &Result{Error: msg}
}
