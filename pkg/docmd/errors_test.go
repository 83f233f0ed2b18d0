package docmd

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/benjaminschreck/go-docmd/pkg/docmd/imaging"
)

func TestErrorTypes(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantMsg string
	}{
		{
			name:    "ConversionError with source",
			err:     &ConversionError{Direction: DirectionDocxToMarkdown, Source: "a.docx", Cause: errors.New("not a zip")},
			wantMsg: "docx2md conversion of 'a.docx' failed: not a zip",
		},
		{
			name:    "ConversionError without source",
			err:     &ConversionError{Direction: DirectionMarkdownToDocx, Cause: errors.New("boom")},
			wantMsg: "md2docx conversion failed: boom",
		},
		{
			name:    "DocumentError",
			err:     &DocumentError{Operation: "save", Path: "output.docx", Cause: errors.New("permission denied")},
			wantMsg: "document error during save of 'output.docx': permission denied",
		},
		{
			name:    "DocumentError without path",
			err:     &DocumentError{Operation: "parse"},
			wantMsg: "document error during parse",
		},
		{
			name:    "single ValidationError",
			err:     &ValidationError{Issues: []ValidationIssue{{Field: "log_level", Message: "invalid"}}},
			wantMsg: "validation error: log_level - invalid",
		},
		{
			name:    "ContextError",
			err:     WithContext(errors.New("failed"), "convert", map[string]interface{}{"input": "a.md"}),
			wantMsg: "convert [input=a.md]: failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.wantMsg {
				t.Errorf("Error() = %q, want %q", got, tt.wantMsg)
			}
		})
	}
}

func TestNewConversionErrorNil(t *testing.T) {
	if err := NewConversionError(DirectionHTMLToDocx, "x.html", nil); err != nil {
		t.Errorf("NewConversionError(nil) = %v, want nil", err)
	}
	if err := WithContext(nil, "op", nil); err != nil {
		t.Errorf("WithContext(nil) = %v, want nil", err)
	}
}

func TestErrorUnwrapping(t *testing.T) {
	unsupported := &imaging.UnsupportedFormatError{Src: "scan.tiff", Ext: "tiff"}
	err := WithContext(
		NewConversionError(DirectionMarkdownToDocx, "a.md", fmt.Errorf("<img>: %w", unsupported)),
		"convert", map[string]interface{}{"input": "a.md"})

	if !IsConversionError(err) {
		t.Error("IsConversionError() = false through ContextError")
	}
	if !IsUnsupportedImage(err) {
		t.Error("IsUnsupportedImage() = false through the wrapping chain")
	}
	var target *imaging.UnsupportedFormatError
	if !errors.As(err, &target) || target.Ext != "tiff" {
		t.Errorf("errors.As() = %v", target)
	}
	if IsDocumentError(err) {
		t.Error("IsDocumentError() = true for a conversion error")
	}
}

func TestMultiError(t *testing.T) {
	m := NewMultiError()
	if m.Err() != nil {
		t.Errorf("empty Err() = %v, want nil", m.Err())
	}
	if m.Error() != "no errors" {
		t.Errorf("empty Error() = %q", m.Error())
	}

	first := NewDocumentError("read", "a.md", errors.New("missing"))
	m.Add(first)
	m.Add(nil)
	if m.Err() != first {
		t.Errorf("single Err() = %v, want the error itself", m.Err())
	}

	m.Add(NewConversionError(DirectionHTMLToDocx, "b.html", imaging.ErrUnsupportedFormat))
	if m.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", m.Len())
	}
	err := m.Err()
	if !strings.HasPrefix(err.Error(), "2 errors occurred:") {
		t.Errorf("Error() = %q", err.Error())
	}
	if !IsDocumentError(err) || !IsConversionError(err) || !IsUnsupportedImage(err) {
		t.Error("errors.As/Is do not reach the collected errors")
	}

	errs := m.Errors()
	errs[0] = nil
	if m.Errors()[0] == nil {
		t.Error("Errors() exposes the internal slice")
	}
}

func TestRecoverError(t *testing.T) {
	cause := errors.New("bad state")
	tests := []struct {
		value interface{}
		want  string
	}{
		{cause, "panic recovered: bad state"},
		{"oops", "panic recovered: oops"},
		{42, "panic recovered: 42"},
	}
	for _, tt := range tests {
		if got := RecoverError(tt.value).Error(); got != tt.want {
			t.Errorf("RecoverError(%v) = %q, want %q", tt.value, got, tt.want)
		}
	}
	if !errors.Is(RecoverError(cause), cause) {
		t.Error("RecoverError does not wrap an error value")
	}
}
