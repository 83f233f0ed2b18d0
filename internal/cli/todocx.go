package cli

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/benjaminschreck/go-docmd/pkg/docmd"
	"github.com/benjaminschreck/go-docmd/pkg/docmd/imaging"
)

var (
	toDocxOutput string
	toDocxImages string
)

var md2docxCmd = &cobra.Command{
	Use:   "md2docx <file.md>",
	Short: "Convert Markdown to DOCX",
	Long: `Convert a Markdown file to a Word document.

Images are read relative to the Markdown file. With --images, sources are
first looked up in a JSON table of hex encoded image data, either an object
{"images/a.png": "89504e47..."} or a list [{"src": ..., "hex": ...}].
Images that cannot be found are replaced by a placeholder.

Examples:
  docmd md2docx notes.md
  docmd md2docx notes.md -o notes.docx --images images.json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runToDocx(cmd, args[0], docmd.DirectionMarkdownToDocx)
	},
}

var html2docxCmd = &cobra.Command{
	Use:   "html2docx <file.html>",
	Short: "Convert HTML to DOCX",
	Long: `Convert an HTML document or fragment to a Word document.

Examples:
  docmd html2docx page.html
  docmd html2docx page.html -o page.docx --images images.json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runToDocx(cmd, args[0], docmd.DirectionHTMLToDocx)
	},
}

func init() {
	for _, cmd := range []*cobra.Command{md2docxCmd, html2docxCmd} {
		cmd.Flags().StringVarP(&toDocxOutput, "output", "o", "", "output file (default: input with .docx)")
		cmd.Flags().StringVar(&toDocxImages, "images", "", "JSON table of hex encoded images")
		rootCmd.AddCommand(cmd)
	}
}

func runToDocx(cmd *cobra.Command, input string, direction docmd.Direction) error {
	src, err := os.ReadFile(input)
	if err != nil {
		return fmt.Errorf("cannot read input: %w", err)
	}
	images, err := imageSource(input, toDocxImages)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if direction == docmd.DirectionMarkdownToDocx {
		err = converter.MarkdownToDocx(src, images, &buf)
	} else {
		err = converter.HTMLToDocx(string(src), images, &buf)
	}
	if err != nil {
		return err
	}

	output := toDocxOutput
	if output == "" {
		output = docmd.OutputPath(input, direction)
	}
	if err := os.WriteFile(output, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("cannot write output: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s\n", input, output)
	return nil
}

// imageSource looks images up in the optional JSON table, then next to the
// input file.
func imageSource(input, tablePath string) (imaging.Source, error) {
	dir := imaging.Dir(filepath.Dir(input))
	if tablePath == "" {
		return dir, nil
	}
	data, err := os.ReadFile(tablePath)
	if err != nil {
		return nil, fmt.Errorf("cannot read image table: %w", err)
	}
	table, err := imaging.ParseTable(data)
	if err != nil {
		return nil, err
	}
	logger.Debug("loaded %d images from %s", len(table), tablePath)
	return imaging.Chain{table, dir}, nil
}
