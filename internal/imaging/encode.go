package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"
	"strings"
)

// PNGDataURIPrefix introduces every image payload handed to clients.
const PNGDataURIPrefix = "data:image/png;base64,"

// EncodePNGBase64 encodes img losslessly as PNG and returns it base64 encoded.
func EncodePNGBase64(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("failed to encode image: %w", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// EncodePNGDataURI encodes img as a "data:image/png;base64,..." URI, the form
// a browser canvas can load directly.
func EncodePNGDataURI(img image.Image) (string, error) {
	b64, err := EncodePNGBase64(img)
	if err != nil {
		return "", err
	}
	return PNGDataURIPrefix + b64, nil
}

// DecodeDataURI reverses EncodePNGDataURI. A bare base64 string without the
// "data:" header is accepted too.
func DecodeDataURI(uri string) ([]byte, error) {
	payload := uri
	if strings.HasPrefix(uri, "data:") {
		_, after, ok := strings.Cut(uri, ",")
		if !ok {
			return nil, fmt.Errorf("malformed data URI: missing ','")
		}
		payload = after
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to decode base64 payload: %w", err)
	}
	return data, nil
}
