package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var (
	docx2mdOutput    string
	docx2mdImagesDir string
)

var docx2mdCmd = &cobra.Command{
	Use:   "docx2md <file.docx>",
	Short: "Convert DOCX to Markdown",
	Long: `Convert a Word document to Markdown.

Embedded pictures are linked with the configured image link prefix
(default ../images/) and written to --images-dir. Without --images-dir the
prefix is resolved against the directory of the output file; when writing
to stdout, images are only written with --images-dir.

Examples:
  docmd docx2md report.docx
  docmd docx2md report.docx -o docs/report.md
  docmd docx2md report.docx -o report.md --images-dir ./images`,
	Args: cobra.ExactArgs(1),
	RunE: runDocx2md,
}

func init() {
	docx2mdCmd.Flags().StringVarP(&docx2mdOutput, "output", "o", "", "output file (default: stdout)")
	docx2mdCmd.Flags().StringVar(&docx2mdImagesDir, "images-dir", "", "directory for extracted images")

	rootCmd.AddCommand(docx2mdCmd)
}

func runDocx2md(cmd *cobra.Command, args []string) error {
	input := args[0]
	res, err := converter.DocxFileToMarkdown(input)
	if err != nil {
		return err
	}

	dir := docx2mdImagesDir
	if docx2mdOutput == "" {
		fmt.Fprint(cmd.OutOrStdout(), res.Markdown)
	} else {
		if err := os.WriteFile(docx2mdOutput, []byte(res.Markdown), 0o644); err != nil {
			return fmt.Errorf("cannot write output: %w", err)
		}
		if dir == "" {
			dir = filepath.Join(filepath.Dir(docx2mdOutput), filepath.FromSlash(config.ImageLinkPrefix))
		}
	}

	if dir == "" {
		if len(res.Images) > 0 {
			logger.Warn("%d images not written, use --images-dir", len(res.Images))
		}
		return nil
	}
	if err := res.WriteImages(dir); err != nil {
		return err
	}
	logger.Debug("wrote %d images to %s", len(res.Images), dir)
	return nil
}
