package docmd

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestDirectionOf(t *testing.T) {
	tests := []struct {
		path    string
		want    Direction
		wantErr bool
	}{
		{path: "notes.md", want: DirectionMarkdownToDocx},
		{path: "NOTES.Markdown", want: DirectionMarkdownToDocx},
		{path: "page.html", want: DirectionHTMLToDocx},
		{path: "page.htm", want: DirectionHTMLToDocx},
		{path: "report.docx", want: DirectionDocxToMarkdown},
		{path: "sheet.xlsx", wantErr: true},
		{path: "README", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := DirectionOf(tt.path)
			if (err != nil) != tt.wantErr {
				t.Fatalf("DirectionOf() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("DirectionOf() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		input     string
		direction Direction
		want      string
	}{
		{"docs/a.md", DirectionMarkdownToDocx, "docs/a.docx"},
		{"a.html", DirectionHTMLToDocx, "a.docx"},
		{"out/report.docx", DirectionDocxToMarkdown, "out/report.md"},
	}
	for _, tt := range tests {
		if got := OutputPath(tt.input, tt.direction); got != tt.want {
			t.Errorf("OutputPath(%q, %q) = %q, want %q", tt.input, tt.direction, got, tt.want)
		}
	}
}

func TestConvertBatch(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.md"), "# A\n\nFirst **file**.\n")
	writeFile(t, filepath.Join(dir, "b.html"), "<p>Second <em>file</em>.</p>")
	writeFile(t, filepath.Join(dir, "c.md"), "![scan](scan.tiff)\n")
	writeFile(t, filepath.Join(dir, "d.txt"), "plain")

	config := DefaultConfig()
	config.Concurrency = 2
	c := quietConverter(t, config)

	jobs := []Job{
		{Input: filepath.Join(dir, "a.md")},
		{Input: filepath.Join(dir, "b.html"), Output: filepath.Join(dir, "second.docx")},
		{Input: filepath.Join(dir, "c.md")},
		{Input: filepath.Join(dir, "d.txt")},
	}
	results, err := c.ConvertBatch(context.Background(), jobs)
	if len(results) != len(jobs) {
		t.Fatalf("got %d results, want %d", len(results), len(jobs))
	}

	var multi *MultiError
	if !errors.As(err, &multi) || multi.Len() != 2 {
		t.Fatalf("ConvertBatch() error = %v, want two collected errors", err)
	}
	if results[0].Err != nil || results[1].Err != nil {
		t.Fatalf("unexpected errors: %v, %v", results[0].Err, results[1].Err)
	}
	if !IsUnsupportedImage(results[2].Err) {
		t.Errorf("results[2].Err = %v, want unsupported image", results[2].Err)
	}
	if results[3].Err == nil {
		t.Error("results[3].Err = nil, want direction error")
	}
	if results[0].Job.Output != filepath.Join(dir, "a.docx") {
		t.Errorf("derived output = %q", results[0].Job.Output)
	}
	if results[0].Job.Direction != DirectionMarkdownToDocx {
		t.Errorf("inferred direction = %q", results[0].Job.Direction)
	}

	// Convert the results back and check the text survived.
	back, err := c.ConvertBatch(context.Background(), []Job{
		{Input: filepath.Join(dir, "a.docx")},
		{Input: filepath.Join(dir, "second.docx")},
	})
	if err != nil {
		t.Fatalf("ConvertBatch() back error = %v", err)
	}
	want := []string{"# A\n\nFirst **file**.\n", "Second *file*.\n"}
	for i, res := range back {
		data, err := os.ReadFile(res.Job.Output)
		if err != nil {
			t.Fatalf("output %d not written: %v", i, err)
		}
		if string(data) != want[i] {
			t.Errorf("output %d = %q, want %q", i, data, want[i])
		}
	}
}

func TestConvertBatchWritesImages(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	out := filepath.Join(dir, "out")
	for _, d := range []string{src, out} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			t.Fatal(err)
		}
	}
	writeFile(t, filepath.Join(src, "doc.md"), "![missing](missing.png)\n")

	c := quietConverter(t, nil)
	if _, err := c.ConvertBatch(context.Background(), []Job{
		{Input: filepath.Join(src, "doc.md"), Output: filepath.Join(out, "doc.docx")},
	}); err != nil {
		t.Fatal(err)
	}
	if _, err := c.ConvertBatch(context.Background(), []Job{
		{Input: filepath.Join(out, "doc.docx")},
	}); err != nil {
		t.Fatal(err)
	}

	md, err := os.ReadFile(filepath.Join(out, "doc.md"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(md), "](../images/image1.png)") {
		t.Errorf("markdown = %q, want a link into ../images/", md)
	}
	if _, err := os.Stat(filepath.Join(dir, "images", "image1.png")); err != nil {
		t.Errorf("image not written next to the output: %v", err)
	}
}

func TestConvertBatchCanceled(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.md"), "text")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := quietConverter(t, nil)
	results, err := c.ConvertBatch(ctx, []Job{{Input: filepath.Join(dir, "a.md")}})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("ConvertBatch() error = %v, want context.Canceled", err)
	}
	if len(results) != 1 || !errors.Is(results[0].Err, context.Canceled) {
		t.Errorf("results = %+v", results)
	}
	if _, statErr := os.Stat(filepath.Join(dir, "a.docx")); statErr == nil {
		t.Error("canceled job wrote its output")
	}
}

func TestConvertBatchEmpty(t *testing.T) {
	results, err := quietConverter(t, nil).ConvertBatch(context.Background(), nil)
	if err != nil || len(results) != 0 {
		t.Errorf("ConvertBatch(nil) = %v, %v", results, err)
	}
}
