package imaging

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/tidwall/gjson"
)

// Source resolves an <img src> to raw image bytes.
type Source interface {
	Lookup(src string) ([]byte, error)
}

// Table is the hex side-table: source path to hex-encoded image bytes.
// Keys usually carry an "images/" prefix.
type Table map[string]string

// ParseTable reads a side-table from JSON. Both an object
// {"images/a.png": "89504e47..."} and a list [{"src": ..., "hex": ...}] are accepted.
func ParseTable(data []byte) (Table, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("invalid image table: malformed JSON")
	}
	res := gjson.ParseBytes(data)
	t := Table{}
	switch {
	case res.IsObject():
		res.ForEach(func(key, value gjson.Result) bool {
			t[key.String()] = value.String()
			return true
		})
	case res.IsArray():
		res.ForEach(func(_, value gjson.Result) bool {
			if src := value.Get("src").String(); src != "" {
				t[src] = value.Get("hex").String()
			}
			return true
		})
	default:
		return nil, fmt.Errorf("invalid image table: expected object or array, got %s", res.Type)
	}
	return t, nil
}

// candidates lists the keys tried for src, in order.
func candidates(src string) []string {
	clean := strings.TrimPrefix(src, "./")
	keys := []string{src}
	if clean != src {
		keys = append(keys, clean)
	}
	keys = append(keys, "images/"+clean)
	if base := path.Base(clean); base != clean {
		keys = append(keys, "images/"+base)
	}
	return keys
}

// Lookup finds src as given, under "images/", then by its base name under
// "images/", and decodes the hex payload.
func (t Table) Lookup(src string) ([]byte, error) {
	for _, key := range candidates(src) {
		h, ok := t[key]
		if !ok {
			continue
		}
		return DecodeHex(h)
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, src)
}

// DecodeHex decodes a hex payload. An odd-length string is padded with a
// leading zero.
func DecodeHex(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("%w: empty payload", ErrNotFound)
	}
	if len(s)%2 != 0 {
		s = "0" + s
	}
	data, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid hex image data: %w", err)
	}
	return data, nil
}

// Dir resolves sources as files below a root directory.
type Dir string

// Lookup reads src relative to the directory. Paths escaping the root are
// not found.
func (d Dir) Lookup(src string) ([]byte, error) {
	if strings.Contains(src, "://") {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, src)
	}
	rel := filepath.Clean(filepath.FromSlash(strings.TrimPrefix(src, "/")))
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, src)
	}
	data, err := os.ReadFile(filepath.Join(string(d), rel))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, src)
	}
	return data, err
}

// Chain tries each source in turn and returns the first hit.
type Chain []Source

// Lookup implements Source.
func (c Chain) Lookup(src string) ([]byte, error) {
	var lastErr error = fmt.Errorf("%w: %s", ErrNotFound, src)
	for _, s := range c {
		if s == nil {
			continue
		}
		data, err := s.Lookup(src)
		if err == nil {
			return data, nil
		}
		lastErr = err
	}
	return nil, lastErr
}
