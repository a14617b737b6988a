// Subcommand (`phredkit pair`) for synchronized paired-end FASTQ reading.

package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"phredkit/internal/fastq"
)

// PairCommand creates the `pair` subcommand, which reads two FASTQ
// streams in lockstep and writes the synchronized mates back out,
// optionally checking base-ID agreement between them.
func PairCommand() *cobra.Command {
	var (
		r1File, r2File   string
		o1File, o2File   string
		checkSync        bool
		onMismatchChoice string
	)

	cmd := &cobra.Command{
		Use:   "pair",
		Short: "Read two FASTQ streams in lockstep and write synchronized mates",
		Long: `Read two already-synchronized FASTQ files record-by-record, pairing the
N-th record of each stream. With --check-sync, each pair's base IDs
(after stripping the standard /1, /2, .1, .2 mate suffixes) must agree;
--on-mismatch controls what happens when they don't.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if r1File == "" || r2File == "" || o1File == "" || o2File == "" {
				return fmt.Errorf("-1, -2, --o1, and --o2 are all required")
			}

			policy, err := parseMismatchPolicy(onMismatchChoice)
			if err != nil {
				return err
			}

			p1, err := fastq.ParseFile(r1File, fastq.DefaultOptions())
			if err != nil {
				return fmt.Errorf("opening %s: %w", r1File, err)
			}
			defer p1.Close()
			p2, err := fastq.ParseFile(r2File, fastq.DefaultOptions())
			if err != nil {
				return fmt.Errorf("opening %s: %w", r2File, err)
			}
			defer p2.Close()

			opts := fastq.DefaultPairedReaderOptions()
			opts.CheckPairSync = checkSync
			opts.OnMismatch = policy
			opts.OnWarning = func(w fastq.Warning) {
				fmt.Fprintln(cmd.ErrOrStderr(), yellow("warning: "+w.Message))
			}
			pr := fastq.NewPairedReader(p1, p2, opts)

			w1, err := fastq.NewFileWriter(o1File, fastq.DefaultWriterOptions(), nil)
			if err != nil {
				return fmt.Errorf("opening %s: %w", o1File, err)
			}
			defer w1.Close()
			w2, err := fastq.NewFileWriter(o2File, fastq.DefaultWriterOptions(), nil)
			if err != nil {
				return fmt.Errorf("opening %s: %w", o2File, err)
			}
			defer w2.Close()

			var n int
			for {
				pair, err := pr.Next()
				if err == io.EOF {
					break
				}
				if err != nil {
					return err
				}
				if err := w1.Write(pair.R1); err != nil {
					return err
				}
				if err := w2.Write(pair.R2); err != nil {
					return err
				}
				n++
			}

			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d synchronized pairs\n", n)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&r1File, "r1", "1", "", "First-mate FASTQ file (required)")
	flags.StringVarP(&r2File, "r2", "2", "", "Second-mate FASTQ file (required)")
	flags.StringVar(&o1File, "o1", "", "First-mate output FASTQ file (required)")
	flags.StringVar(&o2File, "o2", "", "Second-mate output FASTQ file (required)")
	flags.BoolVar(&checkSync, "check-sync", true, "Verify base-ID agreement between mates")
	flags.StringVar(&onMismatchChoice, "on-mismatch", "throw", "Mismatch policy (throw, warn, skip)")
	_ = cmd.MarkFlagRequired("r1")
	_ = cmd.MarkFlagRequired("r2")
	_ = cmd.MarkFlagRequired("o1")
	_ = cmd.MarkFlagRequired("o2")

	return cmd
}

func parseMismatchPolicy(s string) (fastq.MismatchPolicy, error) {
	switch s {
	case "throw":
		return fastq.MismatchThrow, nil
	case "warn":
		return fastq.MismatchWarn, nil
	case "skip":
		return fastq.MismatchSkip, nil
	default:
		return 0, fmt.Errorf("invalid --on-mismatch %q (want throw, warn, or skip)", s)
	}
}
