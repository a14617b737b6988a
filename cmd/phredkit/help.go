package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// helpFunc provides specialized, colorized help text for each subcommand,
// falling back to a summary of the whole toolkit for the root command.
func helpFunc(cmd *cobra.Command, args []string) {
	switch cmd.Name() {
	case "inspect":
		fmt.Printf(`
%s

%s
  Parse a FASTQ file with automatic strategy and encoding detection, then
  print a summary of what was found: record count, strategy used, detected
  encodings, and validation warnings/errors.

%s
  %s
  %s

%s
  %s

`,
			bold(getColorizedLogo()+" inspect - Summarize a FASTQ file's strategy, encoding, and validation findings"),
			bold(yellow("Description:")),
			bold(yellow("Flags:")),
			cyan("-i, --in")+" <string>         : Input FASTQ file (required)",
			cyan("-l, --validation")+" <string> : Validation level: none, quick, full (default, 'quick')",
			bold(yellow("Examples:")),
			cyan("phredkit inspect -i reads.fq.gz --validation full"),
		)
		return
	case "convert":
		fmt.Printf(`
%s

%s
  Parse a FASTQ file and re-write it with its quality string converted to
  a different encoding.

%s
  %s
  %s
  %s
  %s

%s
  %s

`,
			bold(getColorizedLogo()+" convert - Convert a FASTQ file's quality encoding"),
			bold(yellow("Description:")),
			bold(yellow("Flags:")),
			cyan("-i, --in")+" <string>   : Input FASTQ file (required)",
			cyan("-o, --out")+" <string>  : Output FASTQ file (required)",
			cyan("--to")+" <string>       : Target encoding: phred33, phred64, solexa64 (default, 'phred33')",
			cyan("--wrap")+" <int>        : Wrap sequence/quality lines at this width (default, 0 = unwrapped)",
			bold(yellow("Examples:")),
			cyan("phredkit convert -i old.fq -o new.fq --to phred33"),
		)
		return
	case "bin":
		fmt.Printf(`
%s

%s
  Stream a FASTQ file through a quality-binning strategy, collapsing each
  base quality score to the representative value of its band.

%s
  %s
  %s
  %s
  %s
  %s

%s
  %s

`,
			bold(getColorizedLogo()+" bin - Bin a FASTQ file's quality scores"),
			bold(yellow("Description:")),
			bold(yellow("Flags:")),
			cyan("-i, --in")+" <string>       : Input FASTQ file (required)",
			cyan("-o, --out")+" <string>      : Output FASTQ file (required)",
			cyan("--bins")+" <int>            : Number of bins: 2, 3, or 5 (default, 3)",
			cyan("--platform")+" <string>     : Preset: illumina, pacbio, nanopore, custom (default, 'illumina')",
			cyan("--boundaries")+" <ints>     : Explicit ascending boundaries (used with --platform custom)",
			bold(yellow("Examples:")),
			cyan("phredkit bin -i reads.fq -o binned.fq --platform nanopore --bins 5"),
		)
		return
	case "pair":
		fmt.Printf(`
%s

%s
  Read two already-synchronized FASTQ streams in lockstep and write the
  matched mates back out, optionally verifying base-ID agreement.

%s
  %s
  %s
  %s
  %s
  %s
  %s

%s
  %s

`,
			bold(getColorizedLogo()+" pair - Read synchronized paired-end FASTQ streams"),
			bold(yellow("Description:")),
			bold(yellow("Flags:")),
			cyan("-1")+" <string>              : First-mate FASTQ file (required)",
			cyan("-2")+" <string>              : Second-mate FASTQ file (required)",
			cyan("--o1")+" <string>            : First-mate output file (required)",
			cyan("--o2")+" <string>            : Second-mate output file (required)",
			cyan("--check-sync")+" <bool>      : Verify base-ID agreement (default, true)",
			cyan("--on-mismatch")+" <string>   : Mismatch policy: throw, warn, skip (default, 'throw')",
			bold(yellow("Examples:")),
			cyan("phredkit pair -1 r1.fq -2 r2.fq --o1 out1.fq --o2 out2.fq --on-mismatch warn"),
		)
		return
	case "repair":
		fmt.Printf(`
%s

%s
  Re-synchronize two FASTQ streams whose mates have been shuffled out of
  lockstep order, by buffering each unmatched record until its partner
  arrives from the other stream.

%s
  %s
  %s
  %s
  %s
  %s

%s
  %s

`,
			bold(getColorizedLogo()+" repair - Re-synchronize shuffled paired-end FASTQ streams"),
			bold(yellow("Description:")),
			bold(yellow("Flags:")),
			cyan("-1, -2")+" <string>          : Input FASTQ files (required)",
			cyan("--o1, --o2")+" <string>      : Output FASTQ files (required)",
			cyan("--max-buffer")+" <int>       : Maximum buffered unmatched records (default, engine default)",
			cyan("--unpaired")+" <string>      : Disposal policy: warn, skip, error (default, 'warn')",
			cyan("--compress")+"               : zstd-compress buffered records",
			bold(yellow("Examples:")),
			cyan("phredkit repair -1 r1.fq -2 r2.fq --o1 out1.fq --o2 out2.fq --compress"),
		)
		return
	case "query":
		fmt.Printf(`
%s

%s
  Filter a GTF annotation file by chromosome, feature type, gene type, or
  genomic region, and either print, count, or return the first match.

%s
  %s
  %s
  %s
  %s
  %s
  %s

%s
  %s

`,
			bold(getColorizedLogo()+" gtf query - Filter a GTF file"),
			bold(yellow("Description:")),
			bold(yellow("Flags:")),
			cyan("-i, --in")+" <string>       : Input GTF file (required)",
			cyan("--chr")+" <string>          : Restrict to this chromosome",
			cyan("--feature")+" <string>      : Restrict to this feature type",
			cyan("--gene-type")+" <string>    : Restrict to this normalized gene type",
			cyan("--region")+" <string>       : Restrict to chr:start-end overlap",
			cyan("--count / --first")+"       : Terminal operation instead of printing every match",
			bold(yellow("Examples:")),
			cyan("phredkit gtf query -i anno.gtf --chr chr1 --feature gene --gene-type protein_coding"),
		)
		return
	}

	fmt.Printf(`
%s

%s
  %s
  %s
  %s
  %s
  %s
  %s

%s
  %s
  %s

%s
  %s
  %s
  %s

%s
  %s

`,
		bold(getColorizedLogo()+" v."+VERSION+" - Inspect, convert, bin, pair, repair FASTQ streams and query GTF annotation"),
		bold(yellow("Subcommands:")),
		cyan("inspect")+" : Parse a FASTQ file and report strategy, encoding, and validation findings",
		cyan("convert")+" : Convert a FASTQ file's quality encoding",
		cyan("bin")+"     : Bin quality scores into a small number of bands",
		cyan("pair")+"    : Read two synchronized FASTQ streams in lockstep",
		cyan("repair")+"  : Re-synchronize two shuffled FASTQ streams",
		cyan("gtf query")+" : Filter a GTF annotation file",
		bold(yellow("Flags:")),
		cyan("-h, --help")+"    : Show help message",
		cyan("-v, --version")+" : Show version information",
		bold(yellow("Usage examples:")),
		cyan("phredkit inspect -i reads.fq.gz --validation full"),
		cyan("phredkit convert -i old.fq -o new.fq --to phred33"),
		cyan("phredkit gtf query -i anno.gtf --region chr1:1000-2000"),
		bold(yellow("More information:")),
		cyan("https://github.com/phredkit/phredkit"),
	)
}
