package imaging

import (
	"bytes"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/image/bmp"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestParseTable(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Table
		wantErr bool
	}{
		{
			name:  "object",
			input: `{"images/a.png": "abcd", "images/b.gif": "00"}`,
			want:  Table{"images/a.png": "abcd", "images/b.gif": "00"},
		},
		{
			name:  "list",
			input: `[{"src": "images/a.png", "hex": "abcd"}, {"hex": "ff"}]`,
			want:  Table{"images/a.png": "abcd"},
		},
		{name: "scalar", input: `"x"`, wantErr: true},
		{name: "malformed", input: `{"a":`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTable([]byte(tt.input))
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseTable() error = %v, wantErr %v", err, tt.wantErr)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ParseTable() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTableLookup(t *testing.T) {
	table := Table{
		"images/logo.png": "0102",
		"images/odd.png":  "102", // odd length gets a leading zero
		"direct.png":      "ff",
		"images/bad.png":  "zz",
	}
	tests := []struct {
		src     string
		want    []byte
		wantErr error
	}{
		{src: "logo.png", want: []byte{1, 2}},
		{src: "./logo.png", want: []byte{1, 2}},
		{src: "assets/deep/logo.png", want: []byte{1, 2}},
		{src: "odd.png", want: []byte{1, 2}},
		{src: "direct.png", want: []byte{0xff}},
		{src: "missing.png", wantErr: ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			got, err := table.Lookup(tt.src)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Lookup() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Lookup() error = %v", err)
			}
			if !bytes.Equal(got, tt.want) {
				t.Errorf("Lookup() = %x, want %x", got, tt.want)
			}
		})
	}

	if _, err := table.Lookup("bad.png"); err == nil || errors.Is(err, ErrNotFound) {
		t.Errorf("invalid hex should be a decode error, got %v", err)
	}
}

func TestDirAndChain(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "pic.png"), []byte("png"), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := Dir(dir).Lookup("pic.png")
	if err != nil || string(got) != "png" {
		t.Fatalf("Dir.Lookup() = %q, %v", got, err)
	}
	if _, err := Dir(dir).Lookup("../etc/passwd"); !errors.Is(err, ErrNotFound) {
		t.Errorf("escaping path error = %v, want ErrNotFound", err)
	}
	if _, err := Dir(dir).Lookup("http://example.com/a.png"); !errors.Is(err, ErrNotFound) {
		t.Errorf("remote source error = %v, want ErrNotFound", err)
	}

	chain := Chain{Table{"images/other.png": "01"}, nil, Dir(dir)}
	if got, err := chain.Lookup("pic.png"); err != nil || string(got) != "png" {
		t.Errorf("Chain.Lookup(pic.png) = %q, %v", got, err)
	}
	if got, err := chain.Lookup("other.png"); err != nil || !bytes.Equal(got, []byte{1}) {
		t.Errorf("Chain.Lookup(other.png) = %x, %v", got, err)
	}
	if _, err := chain.Lookup("none.png"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Chain.Lookup(none.png) error = %v", err)
	}
}

func TestExtensionOf(t *testing.T) {
	tests := []struct {
		src     string
		want    string
		wantErr bool
	}{
		{src: "a.png", want: "png"},
		{src: "dir/Photo.JPG", want: "jpg"},
		{src: "x.jpeg?size=2#top", want: "jpeg"},
		{src: "http://h/img.svg", want: "svg"},
		{src: "anim.gif", want: "gif"},
		{src: "old.bmp", want: "bmp"},
		{src: "vector.tiff", wantErr: true},
		{src: "noext", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			got, err := ExtensionOf(tt.src)
			if tt.wantErr {
				var ufe *UnsupportedFormatError
				if !errors.As(err, &ufe) || !errors.Is(err, ErrUnsupportedFormat) {
					t.Fatalf("ExtensionOf() error = %v, want UnsupportedFormatError", err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("ExtensionOf() = %q, %v, want %q", got, err, tt.want)
			}
		})
	}
}

func TestParseDataURI(t *testing.T) {
	payload := encodePNG(t, 2, 2)
	uri := "data:image/png;base64," + base64.StdEncoding.EncodeToString(payload)

	mime, data, err := ParseDataURI(uri)
	if err != nil {
		t.Fatalf("ParseDataURI() error = %v", err)
	}
	if mime != "image/png" || !bytes.Equal(data, payload) {
		t.Errorf("ParseDataURI() = %s, %d bytes", mime, len(data))
	}
	if !IsDataURI(uri) || IsDataURI("a.png") {
		t.Error("IsDataURI() mismatch")
	}

	for _, bad := range []string{
		"",
		"image/png;base64,AAAA",
		"data:image/png;base64",
		"data:image/png;base64,",
		"data:image/png,AAAA",
		"data:text/plain;base64,AAAA",
		"data:image/png;base64,***",
	} {
		if _, _, err := ParseDataURI(bad); err == nil {
			t.Errorf("ParseDataURI(%q) expected error", bad)
		}
	}
}

func TestDimensions(t *testing.T) {
	var gifBuf, bmpBuf bytes.Buffer
	img := image.NewPaletted(image.Rect(0, 0, 7, 3), []color.Color{color.Black, color.White})
	if err := gif.Encode(&gifBuf, img, nil); err != nil {
		t.Fatal(err)
	}
	if err := bmp.Encode(&bmpBuf, image.NewRGBA(image.Rect(0, 0, 5, 9))); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		ext     string
		data    []byte
		want    Size
		wantErr bool
	}{
		{name: "png", ext: "png", data: encodePNG(t, 40, 20), want: Size{40, 20}},
		{name: "gif", ext: "gif", data: gifBuf.Bytes(), want: Size{7, 3}},
		{name: "bmp", ext: "bmp", data: bmpBuf.Bytes(), want: Size{5, 9}},
		{name: "svg size", ext: "svg", data: []byte(`<svg xmlns="http://www.w3.org/2000/svg" width="120" height="1in"/>`), want: Size{120, 96}},
		{name: "svg viewBox", ext: "svg", data: []byte(`<svg viewBox="0 0 300 150"></svg>`), want: Size{300, 150}},
		{name: "svg width and viewBox", ext: "svg", data: []byte(`<svg width="100px" viewBox="0,0,300,150"></svg>`), want: Size{100, 50}},
		{name: "svg without size", ext: "svg", data: []byte(`<svg></svg>`), wantErr: true},
		{name: "not svg", ext: "svg", data: []byte(`<html/>`), wantErr: true},
		{name: "garbage", ext: "png", data: []byte("nope"), wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Dimensions(tt.ext, tt.data)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Dimensions() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("Dimensions() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestFit(t *testing.T) {
	natural := Size{200, 100}
	tests := []struct {
		name          string
		width, height int
		want          Size
	}{
		{"natural", 0, 0, Size{200, 100}},
		{"both", 10, 10, Size{10, 10}},
		{"width keeps ratio", 100, 0, Size{100, 50}},
		{"height keeps ratio", 0, 25, Size{50, 25}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Fit(natural, tt.width, tt.height); got != tt.want {
				t.Errorf("Fit() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestPlaceholder(t *testing.T) {
	first := Placeholder()
	if &first[0] != &Placeholder()[0] {
		t.Error("placeholder should be built once and shared")
	}
	size, err := Dimensions("png", first)
	if err != nil {
		t.Fatalf("placeholder is not a valid PNG: %v", err)
	}
	if size != (Size{PlaceholderSize, PlaceholderSize}) {
		t.Errorf("placeholder size = %+v", size)
	}
	if hex.EncodeToString(first[:8]) != "89504e470d0a1a0a" {
		t.Error("placeholder is missing the PNG signature")
	}
}
