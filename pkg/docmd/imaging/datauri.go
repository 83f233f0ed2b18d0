package imaging

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// IsDataURI reports whether src is an inline data URI.
func IsDataURI(src string) bool {
	return strings.HasPrefix(strings.TrimSpace(src), "data:")
}

// ParseDataURI parses a base64 data URI and returns the MIME type and decoded data.
func ParseDataURI(dataURI string) (string, []byte, error) {
	dataURI = strings.TrimSpace(dataURI)
	if dataURI == "" {
		return "", nil, fmt.Errorf("empty data URI")
	}

	// data:[<mediatype>][;base64],<data>
	if !strings.HasPrefix(dataURI, "data:") {
		return "", nil, fmt.Errorf("invalid data URI format")
	}
	metadata, payload, ok := strings.Cut(dataURI[len("data:"):], ",")
	if !ok {
		return "", nil, fmt.Errorf("invalid data URI format")
	}
	if payload == "" {
		return "", nil, fmt.Errorf("no image data")
	}
	if !strings.HasSuffix(metadata, ";base64") {
		return "", nil, fmt.Errorf("missing base64 marker")
	}

	mimeType := strings.ToLower(strings.TrimSuffix(metadata, ";base64"))
	if ExtensionForMIME(mimeType) == "" {
		return "", nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, mimeType)
	}

	// Whitespace inside long payloads is common in hand-written HTML.
	payload = strings.Join(strings.Fields(payload), "")
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("invalid base64 data: %w", err)
	}
	return mimeType, data, nil
}
