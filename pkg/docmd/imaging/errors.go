// Package imaging resolves <img> sources to embeddable bytes: the hex
// side-table, data URIs, the extension policy, size sniffing and the
// fallback placeholder.
package imaging

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedFormat is returned for image extensions that cannot be embedded.
	ErrUnsupportedFormat = errors.New("unsupported image format")

	// ErrNotFound is returned by a Source that has no bytes for a source path.
	ErrNotFound = errors.New("image not found")
)

// UnsupportedFormatError names the offending source and extension.
type UnsupportedFormatError struct {
	Src string
	Ext string
}

func (e *UnsupportedFormatError) Error() string {
	if e.Ext == "" {
		return fmt.Sprintf("%s: %q has no extension", ErrUnsupportedFormat, e.Src)
	}
	return fmt.Sprintf("%s %q for %q", ErrUnsupportedFormat, e.Ext, e.Src)
}

// Unwrap makes errors.Is(err, ErrUnsupportedFormat) hold.
func (e *UnsupportedFormatError) Unwrap() error {
	return ErrUnsupportedFormat
}
