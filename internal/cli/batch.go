package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/benjaminschreck/go-docmd/pkg/docmd"
)

var (
	batchOutDir string
	batchJobs   int
)

var batchCmd = &cobra.Command{
	Use:   "batch <file>...",
	Short: "Convert many files in parallel",
	Long: `Convert several files at once. The direction of every file follows its
extension: .md and .html become .docx, .docx becomes .md.

Examples:
  docmd batch docs/*.md
  docmd batch a.docx b.docx --out-dir converted -j 4`,
	Args: cobra.MinimumNArgs(1),
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().StringVar(&batchOutDir, "out-dir", "", "directory for outputs (default: next to each input)")
	batchCmd.Flags().IntVarP(&batchJobs, "jobs", "j", 0, "parallel conversions (default: configured concurrency)")

	rootCmd.AddCommand(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	c := converter
	if batchJobs > 0 {
		cfg := *config
		cfg.Concurrency = batchJobs
		c = docmd.New(docmd.WithConfig(&cfg), docmd.WithLogger(logger))
	}
	if batchOutDir != "" {
		if err := os.MkdirAll(batchOutDir, 0o755); err != nil {
			return fmt.Errorf("cannot create output directory: %w", err)
		}
	}

	jobs := make([]docmd.Job, 0, len(args))
	for _, input := range args {
		job := docmd.Job{Input: input}
		if batchOutDir != "" {
			if dir, err := docmd.DirectionOf(input); err == nil {
				job.Output = filepath.Join(batchOutDir, filepath.Base(docmd.OutputPath(input, dir)))
			}
		}
		jobs = append(jobs, job)
	}

	results, err := c.ConvertBatch(cmd.Context(), jobs)
	printResults(cmd, results)
	return err
}

func printResults(cmd *cobra.Command, results []docmd.JobResult) {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	for _, res := range results {
		if res.Err != nil {
			fmt.Fprintf(w, "FAIL\t%s\t%v\n", res.Job.Input, res.Err)
			continue
		}
		fmt.Fprintf(w, "ok\t%s\t%s\t%s\n", res.Job.Input, res.Job.Output, res.Duration.Round(time.Millisecond))
	}
	w.Flush()
}
