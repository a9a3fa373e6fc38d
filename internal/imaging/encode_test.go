package imaging

import (
	"bytes"
	"image/color"
	"image/png"
	"strings"
	"testing"
)

func TestEncodePNGDataURI(t *testing.T) {
	img := createPatternImage(64, 48)

	uri, err := EncodePNGDataURI(img)
	if err != nil {
		t.Fatalf("EncodePNGDataURI failed: %v", err)
	}
	if !strings.HasPrefix(uri, "data:image/png;base64,") {
		t.Fatalf("unexpected prefix: %.30s", uri)
	}

	data, err := DecodeDataURI(uri)
	if err != nil {
		t.Fatalf("DecodeDataURI failed: %v", err)
	}
	decoded, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("payload is not a PNG: %v", err)
	}
	if decoded.Bounds().Dx() != 64 || decoded.Bounds().Dy() != 48 {
		t.Errorf("decoded dimensions: got %dx%d, want 64x48", decoded.Bounds().Dx(), decoded.Bounds().Dy())
	}
	r, g, b, _ := decoded.At(1, 1).RGBA()
	if r>>8 != 255 || g != 0 || b != 0 {
		t.Errorf("pixel (1,1): got (%d,%d,%d), want red", r>>8, g>>8, b>>8)
	}
}

func TestDecodeDataURI_BareBase64(t *testing.T) {
	b64, err := EncodePNGBase64(createInMemoryImage(3, 3, color.White))
	if err != nil {
		t.Fatalf("EncodePNGBase64 failed: %v", err)
	}

	data, err := DecodeDataURI(b64)
	if err != nil {
		t.Fatalf("DecodeDataURI failed: %v", err)
	}
	if _, err := png.Decode(bytes.NewReader(data)); err != nil {
		t.Errorf("payload is not a PNG: %v", err)
	}
}

func TestDecodeDataURI_Malformed(t *testing.T) {
	tests := []string{
		"data:image/png;base64",
		"data:image/png;base64,@@@",
		"%%%",
	}

	for _, uri := range tests {
		if _, err := DecodeDataURI(uri); err == nil {
			t.Errorf("DecodeDataURI(%q) should fail", uri)
		}
	}
}
