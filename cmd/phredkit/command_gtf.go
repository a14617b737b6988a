// Subcommand group (`phredkit gtf`) wrapping the GTF query builder.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"phredkit/internal/gtf"
)

// GTFCommand creates the `gtf` command group, currently home to `query`.
func GTFCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gtf",
		Short: "Query GTF genome annotation files",
	}
	cmd.AddCommand(gtfQueryCommand())
	return cmd
}

func gtfQueryCommand() *cobra.Command {
	var (
		inFile   string
		chr      string
		feature  string
		geneType string
		region   string
		count    bool
		first    bool
	)

	cmd := &cobra.Command{
		Use:   "query",
		Short: "Filter a GTF file by chromosome, feature type, gene type, or region",
		Long: `Parse a GTF file and apply a lazy filter chain: --chr restricts to a
chromosome, --feature to a feature type (gene, exon, CDS, ...), --gene-type
to a normalized gene biotype (requires cross-database normalization),
and --region to a "chr:start-end" overlap. With neither --count nor
--first, every matching feature is printed one per line.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if inFile == "" {
				return fmt.Errorf("--in is required")
			}

			p, err := gtf.ParseFile(inFile, gtf.Options{Normalize: geneType != ""})
			if err != nil {
				return fmt.Errorf("opening %s: %w", inFile, err)
			}
			defer p.Close()

			q := gtf.NewQuery(p)
			if chr != "" {
				q = q.Chromosome(chr)
			}
			if feature != "" {
				q = q.FeatureType(feature)
			}
			if geneType != "" {
				q = q.GeneType(geneType)
			}
			if region != "" {
				q = q.Region(region)
			}

			switch {
			case count:
				n, err := q.Count()
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%d\n", n)
			case first:
				f, err := q.First()
				if err != nil {
					return err
				}
				if f == nil {
					fmt.Fprintln(cmd.OutOrStdout(), "no matching feature")
					return nil
				}
				printFeature(cmd, f)
			default:
				features, err := q.Collect()
				if err != nil {
					return err
				}
				for _, f := range features {
					printFeature(cmd, f)
				}
			}
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&inFile, "in", "i", "", "Input GTF file (required)")
	flags.StringVar(&chr, "chr", "", "Restrict to this chromosome/seqname")
	flags.StringVar(&feature, "feature", "", "Restrict to this feature type (gene, exon, CDS, ...)")
	flags.StringVar(&geneType, "gene-type", "", "Restrict to this normalized gene type")
	flags.StringVar(&region, "region", "", "Restrict to features overlapping chr:start-end")
	flags.BoolVar(&count, "count", false, "Print only the number of matching features")
	flags.BoolVar(&first, "first", false, "Print only the first matching feature")
	_ = cmd.MarkFlagRequired("in")

	return cmd
}

func printFeature(cmd *cobra.Command, f *gtf.Feature) {
	line := fmt.Sprintf("%s\t%s\t%s\t%d\t%d\t%s\t%s",
		f.Seqname, f.Source, f.FeatureTag, f.Start, f.End, f.Strand, cyan(fmt.Sprintf("len=%d", f.Length())))
	fmt.Fprintln(cmd.OutOrStdout(), line)
}
