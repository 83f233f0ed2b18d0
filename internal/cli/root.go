// Package cli implements the docmd command line.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/benjaminschreck/go-docmd/pkg/docmd"
)

var (
	version = "dev"

	configPath string
	logLevel   string

	// config and converter are set up before every command runs.
	config    *docmd.Config
	converter *docmd.Converter
	logger    *docmd.Logger
)

var rootCmd = &cobra.Command{
	Use:   "docmd",
	Short: "Convert between Markdown, HTML and DOCX",
	Long: `docmd converts Markdown and HTML into Word documents and Word documents
back into Markdown.

Configuration is read from the file given with --config, then from the
environment:
  DOCMD_LOG_LEVEL               debug, info, warn, error or off
  DOCMD_ACRONYM_POSITION        footnote or endnote
  DOCMD_EXCLUDE_LINK_ANCHOR     drop links to #fragments
  DOCMD_TABLE_CAPTION_POSITION  above or below
  DOCMD_IMAGE_LINK_PREFIX       path in front of image links in Markdown
  DOCMD_STYLES_TEMPLATE         styles.xml or .docx with custom styles
  DOCMD_CONCURRENCY             batch workers`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML configuration file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error, off)")
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func setup(cmd *cobra.Command, _ []string) error {
	c, err := docmd.LoadConfig(configPath)
	if err != nil {
		return err
	}
	if logLevel != "" {
		c.LogLevel = logLevel
		if err := c.Validate(); err != nil {
			return err
		}
	}
	config = c
	logger = docmd.NewLogger(cmd.ErrOrStderr(), docmd.ParseLogLevel(c.LogLevel))
	docmd.SetLogger(logger)
	converter = docmd.New(docmd.WithConfig(c), docmd.WithLogger(logger))
	return nil
}
