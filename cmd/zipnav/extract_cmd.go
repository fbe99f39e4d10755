// cmd/zipnav/extract_cmd.go

package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/vbauerster/mpb/v8"

	"github.com/creativeyann17/go-zipnav/pkg/extract"
	"github.com/creativeyann17/go-zipnav/pkg/nav"
)

func init() {
	rootCmd.AddCommand(extractCmd())
}

func extractCmd() *cobra.Command {
	var zipPath, outputDir, base, subdir, onError string
	var batchSize, maxRetries int
	var seed int64
	var extensions, exclude []string
	var reset, resume, all, validateCRC, quiet bool

	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Extract archive members in resumable batches",
		Long: "Extract walks a shuffled, filtered subset of the archive in fixed-size batches.\n" +
			"Progress is persisted inside the extraction directory, so an interrupted run\n" +
			"can be continued with --resume. Without --all, one batch is extracted per call.",
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := nav.Open(zipPath)
			if err != nil {
				return err
			}
			defer n.Close()

			if base != "" {
				if _, err := n.Cd(base); err != nil {
					return err
				}
			}

			ex := extract.New(n)

			if resume {
				if err := ex.Resume(outputDir, subdir); err != nil {
					return err
				}
			} else {
				opts := extract.DefaultOptions()
				opts.OutputDir = outputDir
				opts.BatchSize = batchSize
				opts.Subdir = subdir
				opts.Reset = reset
				opts.Seed = seed
				opts.Extensions = extensions
				opts.Exclude = exclude
				opts.OnError = onError
				opts.MaxRetries = maxRetries
				opts.ValidateCRC = validateCRC

				if err := ex.Initialize(opts); err != nil {
					return err
				}
			}

			// Logging helper
			log := func(format string, args ...interface{}) {
				if !quiet {
					fmt.Printf(format+"\n", args...)
				}
			}

			st := ex.Status()
			log("Extracting from %s (base %s)", st.ZipPath, st.BaseAtInit)
			log("  Files:      %d total, %d remaining", st.TotalFiles, st.Remaining)
			log("  Batch size: %d", st.BatchSize)
			log("  Seed:       %d", st.Seed)
			log("  Output:     %s", st.ExtractDir)
			log("")

			var progressCb extract.ProgressCallback
			var progress *mpb.Progress

			if !quiet {
				progressCb, progress = extract.ProgressBarCallback()
				progressCb(extract.ProgressEvent{Type: extract.EventStart, Total: st.Remaining})
				ex.SetProgress(progressCb)
			}

			var extracted int
			var runErr error
			for ex.HasNext() {
				paths, err := ex.Next()
				if err != nil {
					runErr = err
					break
				}
				extracted += len(paths)
				if !all {
					break
				}
			}

			if progress != nil && all && runErr == nil {
				progress.Wait()
			}

			if runErr != nil && !errors.Is(runErr, extract.ErrExhausted) {
				return runErr
			}

			st = ex.Status()
			fmt.Println()
			fmt.Println("Summary:")
			fmt.Printf("  Extracted this run: %d\n", extracted)
			fmt.Printf("  Progress:           %d / %d\n", st.Extracted, st.TotalFiles)
			if st.FailedCount > 0 {
				fmt.Printf("  Failed:             %d (recent: %v)\n", st.FailedCount, st.FailedTail)
			}
			if st.Remaining > 0 {
				fmt.Printf("  Remaining:          %d (run again with --resume)\n", st.Remaining)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&zipPath, "zip", "z", "", "ZIP archive to open (required)")
	cmd.Flags().StringVarP(&outputDir, "output", "o", ".", "Output directory")
	cmd.Flags().StringVarP(&base, "base", "b", "", "Base directory inside the archive")
	cmd.Flags().StringVar(&subdir, "subdir", extract.DefaultSubdir, "Extraction subdirectory name")
	cmd.Flags().IntVar(&batchSize, "batch-size", extract.DefaultBatchSize, "Files per batch")
	cmd.Flags().Int64Var(&seed, "seed", 0, "Shuffle seed (0 = random)")
	cmd.Flags().StringSliceVar(&extensions, "ext", nil, "Only extract these extensions (e.g. csv,json)")
	cmd.Flags().StringSliceVar(&exclude, "exclude", nil, "Exclude patterns (gitignore syntax)")
	cmd.Flags().StringVar(&onError, "on-error", extract.OnErrorSkip, `Failure policy: "skip" or "abort"`)
	cmd.Flags().IntVar(&maxRetries, "max-retries", extract.DefaultMaxRetries, "Extra attempts per file")
	cmd.Flags().BoolVar(&validateCRC, "validate-crc", false, "Verify decompressed data against the recorded CRC")
	cmd.Flags().BoolVar(&reset, "reset", false, "Discard saved state and start over")
	cmd.Flags().BoolVar(&resume, "resume", false, "Continue from the saved state")
	cmd.Flags().BoolVar(&all, "all", false, "Extract every remaining batch, not just one")
	cmd.Flags().BoolVar(&quiet, "quiet", false, "Minimal output")

	_ = cmd.MarkFlagRequired("zip")

	return cmd
}
