package imaging

import (
	"path"
	"strings"
)

var contentTypes = map[string]string{
	"bmp":  "image/bmp",
	"gif":  "image/gif",
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"svg":  "image/svg+xml",
}

// ExtensionOf returns the lower-cased extension of src without the dot,
// ignoring any query string or fragment. Only bmp, gif, jpg, jpeg, png and
// svg are accepted.
func ExtensionOf(src string) (string, error) {
	p := src
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(p), "."))
	if _, ok := contentTypes[ext]; !ok {
		return "", &UnsupportedFormatError{Src: src, Ext: ext}
	}
	return ext, nil
}

// ContentType returns the MIME type for an extension or "".
func ContentType(ext string) string {
	return contentTypes[strings.ToLower(strings.TrimPrefix(ext, "."))]
}

// ExtensionForMIME returns the preferred extension for a MIME type or "".
func ExtensionForMIME(mimeType string) string {
	switch strings.ToLower(mimeType) {
	case "image/png":
		return "png"
	case "image/jpeg", "image/jpg":
		return "jpg"
	case "image/bmp":
		return "bmp"
	case "image/gif":
		return "gif"
	case "image/svg+xml":
		return "svg"
	}
	return ""
}
