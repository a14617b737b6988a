// Subcommand (`phredkit bin`) for applying a quality-binning strategy
// while streaming a FASTQ file through unchanged otherwise.

package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"phredkit/internal/fastq"
	"phredkit/internal/quality"
)

// BinCommand creates the `bin` subcommand, which collapses each record's
// quality string into a small number of representative bands using one of
// the platform-calibrated presets (or explicit boundaries).
func BinCommand() *cobra.Command {
	var (
		inFile     string
		outFile    string
		bins       int
		platform   string
		boundaries []int
	)

	cmd := &cobra.Command{
		Use:   "bin",
		Short: "Bin a FASTQ file's quality scores into a small number of bands",
		Long: `Stream a FASTQ file through a quality-binning strategy, collapsing each
base's quality score to the representative value of the band it falls
into. --platform selects a calibrated preset (illumina, pacbio, nanopore);
--boundaries overrides it with explicit ascending thresholds.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if inFile == "" || outFile == "" {
				return fmt.Errorf("--in and --out are required")
			}

			binCount := quality.BinCount(bins)
			strat, err := resolveBinningStrategy(binCount, platform, boundaries)
			if err != nil {
				return err
			}

			p, err := fastq.ParseFile(inFile, fastq.DefaultOptions())
			if err != nil {
				return fmt.Errorf("opening %s: %w", inFile, err)
			}
			defer p.Close()

			w, err := fastq.NewFileWriter(outFile, fastq.DefaultWriterOptions(), func(warn fastq.Warning) {
				fmt.Fprintln(cmd.ErrOrStderr(), yellow("warning: "+warn.Message))
			})
			if err != nil {
				return fmt.Errorf("opening %s: %w", outFile, err)
			}
			defer w.Close()

			for {
				rec, err := p.Next()
				if err == io.EOF {
					break
				}
				if err != nil {
					return err
				}
				binned, err := strat.Bin(rec.Quality)
				if err != nil {
					return fmt.Errorf("binning record %s: %w", rec.ID, err)
				}
				rec.Quality = binned
				if err := w.Write(rec); err != nil {
					return fmt.Errorf("writing record %s: %w", rec.ID, err)
				}
			}

			fmt.Fprintf(cmd.OutOrStdout(), "binned %d records\n", w.Written())
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&inFile, "in", "i", "", "Input FASTQ file (required)")
	flags.StringVarP(&outFile, "out", "o", "", "Output FASTQ file (required)")
	flags.IntVar(&bins, "bins", 3, "Number of bins (2, 3, or 5)")
	flags.StringVar(&platform, "platform", "illumina", "Platform preset (illumina, pacbio, nanopore, custom)")
	flags.IntSliceVar(&boundaries, "boundaries", nil, "Explicit ascending score boundaries (used when --platform custom)")
	_ = cmd.MarkFlagRequired("in")
	_ = cmd.MarkFlagRequired("out")

	return cmd
}

func resolveBinningStrategy(bins quality.BinCount, platform string, boundaries []int) (*quality.BinningStrategy, error) {
	if platform == "custom" {
		if len(boundaries) == 0 {
			return nil, fmt.Errorf("--boundaries is required when --platform custom")
		}
		return quality.NewBinningStrategy(bins, boundaries, quality.Phred33)
	}
	switch platform {
	case "illumina":
		return quality.IlluminaPreset(bins)
	case "pacbio":
		return quality.PacBioPreset(bins)
	case "nanopore":
		return quality.NanoporePreset(bins)
	default:
		return nil, fmt.Errorf("unknown platform preset %q (want illumina, pacbio, nanopore, or custom)", platform)
	}
}
