package docmd

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/benjaminschreck/go-docmd/pkg/docmd/imaging"
)

// Job is one file conversion of a batch.
type Job struct {
	// Input is the path of the source document.
	Input string
	// Output is the path written. Empty derives it from Input.
	Output string
	// Direction is inferred from the extension of Input when empty.
	Direction Direction
	// Images resolves images of Markdown and HTML input. Nil reads them
	// relative to the directory of Input.
	Images imaging.Source
	// ImagesDir receives the images of a .docx input. Empty resolves the
	// image link prefix against the directory of Output.
	ImagesDir string
}

// JobResult is the outcome of one job.
type JobResult struct {
	Job      Job
	Err      error
	Duration time.Duration
}

// DirectionOf infers the conversion direction from a file extension.
func DirectionOf(path string) (Direction, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return DirectionMarkdownToDocx, nil
	case ".html", ".htm", ".xhtml":
		return DirectionHTMLToDocx, nil
	case ".docx", ".docm":
		return DirectionDocxToMarkdown, nil
	}
	return "", fmt.Errorf("cannot infer conversion for '%s'", path)
}

// OutputPath derives the output path of a conversion from its input.
func OutputPath(input string, direction Direction) string {
	base := strings.TrimSuffix(input, filepath.Ext(input))
	if direction == DirectionDocxToMarkdown {
		return base + ".md"
	}
	return base + ".docx"
}

// ConvertBatch runs jobs on a bounded pool of workers, one document per
// worker at a time. Results keep the order of jobs. The returned error
// collects every failed job; jobs not started before ctx is done fail
// with the context error.
func (c *Converter) ConvertBatch(ctx context.Context, jobs []Job) ([]JobResult, error) {
	workers := c.config.Concurrency
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(jobs) {
		workers = len(jobs)
	}

	results := make([]JobResult, len(jobs))
	queue := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range queue {
				results[i] = c.runJob(ctx, jobs[i])
			}
		}()
	}

	for i := range jobs {
		select {
		case queue <- i:
		case <-ctx.Done():
			results[i] = JobResult{Job: jobs[i], Err: ctx.Err()}
		}
	}
	close(queue)
	wg.Wait()

	errs := NewMultiError()
	for _, res := range results {
		errs.Add(res.Err)
	}
	c.logger.Info("batch finished: %d jobs, %d failed", len(jobs), errs.Len())
	return results, errs.Err()
}

func (c *Converter) runJob(ctx context.Context, job Job) (res JobResult) {
	start := time.Now()
	res.Job = job
	defer func() {
		if r := recover(); r != nil {
			res.Err = NewConversionError(job.Direction, job.Input, RecoverError(r))
		}
		res.Duration = time.Since(start)
	}()

	if err := ctx.Err(); err != nil {
		res.Err = err
		return res
	}
	if job.Direction == "" {
		dir, err := DirectionOf(job.Input)
		if err != nil {
			res.Err = NewConversionError(dir, job.Input, err)
			return res
		}
		job.Direction = dir
	}
	if job.Output == "" {
		job.Output = OutputPath(job.Input, job.Direction)
	}
	res.Job = job

	log := c.logger.WithFields(Fields{"input": job.Input, "direction": string(job.Direction)})
	log.Debug("converting to %s", job.Output)
	res.Err = c.convertFile(job)
	if res.Err != nil {
		log.Warn("conversion failed: %v", res.Err)
	}
	return res
}

func (c *Converter) convertFile(job Job) error {
	switch job.Direction {
	case DirectionMarkdownToDocx, DirectionHTMLToDocx:
		src, err := os.ReadFile(job.Input)
		if err != nil {
			return NewConversionError(job.Direction, job.Input, err)
		}
		images := job.Images
		if images == nil {
			images = imaging.Dir(filepath.Dir(job.Input))
		}
		var buf bytes.Buffer
		if job.Direction == DirectionMarkdownToDocx {
			err = c.MarkdownToDocx(src, images, &buf)
		} else {
			err = c.HTMLToDocx(string(src), images, &buf)
		}
		if err != nil {
			return WithContext(err, "convert", map[string]interface{}{"input": job.Input})
		}
		if err := os.WriteFile(job.Output, buf.Bytes(), 0o644); err != nil {
			return NewDocumentError("write", job.Output, err)
		}
		return nil

	case DirectionDocxToMarkdown:
		res, err := c.DocxFileToMarkdown(job.Input)
		if err != nil {
			return err
		}
		if err := os.WriteFile(job.Output, []byte(res.Markdown), 0o644); err != nil {
			return NewDocumentError("write", job.Output, err)
		}
		dir := job.ImagesDir
		if dir == "" {
			dir = filepath.Join(filepath.Dir(job.Output), filepath.FromSlash(c.config.ImageLinkPrefix))
		}
		return res.WriteImages(dir)
	}
	return NewConversionError(job.Direction, job.Input, fmt.Errorf("unknown direction %q", job.Direction))
}

// ConvertBatch runs jobs using the default converter.
func ConvertBatch(ctx context.Context, jobs []Job) ([]JobResult, error) {
	return DefaultConverter.ConvertBatch(ctx, jobs)
}
