// Subcommand (`phredkit repair`) for re-synchronizing shuffled paired-end
// FASTQ streams.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"phredkit/internal/fastq"
)

// RepairCommand creates the `repair` subcommand, which buffers unmatched
// mates from two (possibly shuffled) FASTQ streams until their partner
// arrives, bounded by --max-buffer.
func RepairCommand() *cobra.Command {
	var (
		r1File, r2File string
		o1File, o2File string
		maxBuffer      int
		unpairedChoice string
		compress       bool
	)

	cmd := &cobra.Command{
		Use:   "repair",
		Short: "Re-synchronize two shuffled paired-end FASTQ streams",
		Long: `Read two FASTQ files whose mates may have been shuffled out of lockstep
order, buffering each unmatched record by its base ID until its partner
arrives from the other stream (or until --max-buffer is exceeded).
Records still unmatched at EOF are disposed of per --unpaired.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if r1File == "" || r2File == "" || o1File == "" || o2File == "" {
				return fmt.Errorf("-1, -2, --o1, and --o2 are all required")
			}

			policy, err := parseUnpairedPolicy(unpairedChoice)
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

			opts := fastq.DefaultRepairOptions()
			if maxBuffer > 0 {
				opts.MaxBufferSize = maxBuffer
			}
			opts.UnpairedPolicy = policy
			opts.CompressBuffer = compress
			opts.OnWarning = func(w fastq.Warning) {
				fmt.Fprintln(cmd.ErrOrStderr(), yellow("warning: "+w.Message))
			}

			engine, err := fastq.NewRepairEngine(opts)
			if err != nil {
				return fmt.Errorf("building repair engine: %w", err)
			}

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

			var paired, orphaned int
			// Stream each pair straight to disk as soon as the engine finds
			// it, so only the unmatched-record buffers (bounded by
			// --max-buffer) are held in memory, not the whole output.
			err = engine.RepairDualStreamFunc(p1, p2, func(p *fastq.Pair) error {
				if p.R1 != nil && p.R2 != nil {
					paired++
					if err := w1.Write(p.R1); err != nil {
						return err
					}
					return w2.Write(p.R2)
				}
				orphaned++
				if p.R1 != nil {
					if err := w1.Write(p.R1); err != nil {
						return err
					}
				}
				if p.R2 != nil {
					if err := w2.Write(p.R2); err != nil {
						return err
					}
				}
				return nil
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "repaired %d pairs, %d orphaned records\n", paired, orphaned)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&r1File, "r1", "1", "", "First-mate FASTQ file (required)")
	flags.StringVarP(&r2File, "r2", "2", "", "Second-mate FASTQ file (required)")
	flags.StringVar(&o1File, "o1", "", "First-mate output FASTQ file (required)")
	flags.StringVar(&o2File, "o2", "", "Second-mate output FASTQ file (required)")
	flags.IntVar(&maxBuffer, "max-buffer", 0, "Maximum total buffered unmatched records (0 uses the engine default)")
	flags.StringVar(&unpairedChoice, "unpaired", "warn", "Unpaired record disposal policy (warn, skip, error)")
	flags.BoolVar(&compress, "compress", false, "zstd-compress buffered records to reduce memory use")
	_ = cmd.MarkFlagRequired("r1")
	_ = cmd.MarkFlagRequired("r2")
	_ = cmd.MarkFlagRequired("o1")
	_ = cmd.MarkFlagRequired("o2")

	return cmd
}

func parseUnpairedPolicy(s string) (fastq.UnpairedPolicy, error) {
	switch s {
	case "warn":
		return fastq.UnpairedWarn, nil
	case "skip":
		return fastq.UnpairedSkip, nil
	case "error":
		return fastq.UnpairedError, nil
	default:
		return 0, fmt.Errorf("invalid --unpaired %q (want warn, skip, or error)", s)
	}
}
