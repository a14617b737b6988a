package fastq

import (
	"strings"

	"github.com/shenwei356/bio/seq"
	"github.com/shenwei356/util/byteutil"

	"phredkit/internal/quality"
)

var nLetters = []byte("Nn")

// ValidationLevel selects a validator tier.
type ValidationLevel int

const (
	ValidationNone ValidationLevel = iota
	ValidationQuick
	ValidationFull
)

// adapterSequences is the fixed small table of common Illumina adapter
// fragments the full validator scans for.
var adapterSequences = map[string]string{
	"AGATCGGAAGAGC":                     "Illumina Universal Adapter",
	"AGATCGGAAGAGCACACGTCTGAACTCCAGTCA": "TruSeq Adapter",
	"CTGTCTCTTATACACATCT":               "Nextera Adapter",
}

// gapLetters are accepted alongside seq.DNAredundant's IUPAC alphabet:
// alignment gap/pad characters that show up in some FASTQ-adjacent
// pipelines but aren't part of the redundant-base alphabet itself.
var gapLetters = map[byte]bool{'-': true, '.': true}

// isValidBase reports whether b is a recognized nucleotide character,
// deferring to the same IUPAC-redundant alphabet table
// github.com/shenwei356/bio/seq uses to validate FASTA/FASTQ sequences
// (seq.DNAredundant), plus the two gap/pad characters it doesn't cover.
func isValidBase(b byte) bool {
	return seq.DNAredundant.IsValidLetter(b) || gapLetters[b]
}

// Validate runs the requested validation tier against rec.
func Validate(rec *Record, level ValidationLevel) ValidationResult {
	switch level {
	case ValidationNone:
		return ValidationResult{Valid: true, Record: rec}
	case ValidationQuick:
		return validateQuick(rec)
	default:
		return validateFull(rec)
	}
}

func validateQuick(rec *Record) ValidationResult {
	var errs []error
	if rec.ID == "" {
		errs = append(errs, &SequenceError{Op: "quick validation", RecordID: rec.ID, Sample: "", LineNumber: rec.LineNumber})
	}
	if rec.Sequence == "" {
		errs = append(errs, &SequenceError{Op: "quick validation", RecordID: rec.ID, LineNumber: rec.LineNumber})
	}
	if rec.Quality == "" {
		errs = append(errs, &QualityError{Op: "quick validation", RecordID: rec.ID, LineNumber: rec.LineNumber})
	}
	if !LengthsMatch(rec.Sequence, rec.Quality) {
		errs = append(errs, &QualityError{Op: "quick validation", RecordID: rec.ID, LineNumber: rec.LineNumber, Suggestion: "sequence/quality length mismatch"})
	}
	switch rec.Encoding {
	case quality.Phred33, quality.Phred64, quality.Solexa64:
	default:
		errs = append(errs, &ValidationError{Op: "quick validation", Reason: "unrecognized encoding"})
	}

	if len(errs) > 0 {
		return ValidationResult{Valid: false, Errors: errs, Record: rec}
	}
	return ValidationResult{Valid: true, Record: rec}
}

func validateFull(rec *Record) ValidationResult {
	result := validateQuick(rec)
	if !result.Valid {
		return result
	}

	var warnings []Warning

	// Encoding-range check on every quality character.
	for i := 0; i < len(rec.Quality); i++ {
		if _, err := quality.CharToScore(rec.Quality[i], rec.Encoding); err != nil {
			result.Valid = false
			result.Errors = append(result.Errors, &QualityError{
				Op: "full validation", RecordID: rec.ID, LineNumber: rec.LineNumber,
				Sample: rec.Quality, Suggestion: "quality character out of range for declared encoding; try a different qualityEncoding",
			})
			break
		}
	}

	if strings.ContainsAny(rec.ID, " \t") {
		warnings = append(warnings, Warning{Message: "id contains whitespace", Severity: SeverityMedium})
	}

	if strings.ContainsAny(rec.ID, "`$&;|<>(){}") {
		warnings = append(warnings, Warning{Message: "id contains shell metacharacters", Severity: SeverityMedium})
	}

	if run := longestHomopolymerRun(rec.Sequence); run >= 10 {
		warnings = append(warnings, Warning{Message: "sequence contains a homopolymer run of length >= 10", Severity: SeverityLow})
	}

	for frag, name := range adapterSequences {
		if strings.Contains(strings.ToUpper(rec.Sequence), frag) {
			warnings = append(warnings, Warning{Message: "sequence contains adapter fragment: " + name, Severity: SeverityMedium})
		}
	}

	if len(rec.Sequence) > 0 {
		nCount := byteutil.CountBytes([]byte(rec.Sequence), nLetters)
		pct := float64(nCount) / float64(len(rec.Sequence)) * 100
		switch {
		case pct > 25:
			warnings = append(warnings, Warning{Message: "high N content (>25%)", Severity: SeverityHigh})
		case pct > 10:
			warnings = append(warnings, Warning{Message: "high N content (>10%)", Severity: SeverityMedium})
		}
	}

	if bad, ok := firstInvalidBase(rec.Sequence); ok {
		warnings = append(warnings, Warning{Message: "sequence contains non-IUPAC character: " + string(bad), Severity: SeverityMedium})
	}

	if isUniformQuality(rec.Quality) && len(rec.Quality) > 1 {
		warnings = append(warnings, Warning{Message: "suspiciously uniform quality string", Severity: SeverityLow})
	}

	info := detectPlatform(rec)
	result.PlatformInfo = &info
	result.Warnings = warnings
	return result
}

func longestHomopolymerRun(sequence string) int {
	if len(sequence) == 0 {
		return 0
	}
	best, cur := 1, 1
	for i := 1; i < len(sequence); i++ {
		if sequence[i] == sequence[i-1] {
			cur++
			if cur > best {
				best = cur
			}
		} else {
			cur = 1
		}
	}
	return best
}

func firstInvalidBase(sequence string) (byte, bool) {
	for i := 0; i < len(sequence); i++ {
		if !isValidBase(sequence[i]) {
			return sequence[i], true
		}
	}
	return 0, false
}

func isUniformQuality(qual string) bool {
	if len(qual) == 0 {
		return false
	}
	for i := 1; i < len(qual); i++ {
		if qual[i] != qual[0] {
			return false
		}
	}
	return true
}

// detectPlatform dispatches header-pattern matching and then raises
// confidence given quality/length evidence characteristic of each
// platform: NovaSeq-style uniform high quality, PacBio CCS read length,
// and Nanopore ultra-long reads.
func detectPlatform(rec *Record) PlatformInfo {
	info := ExtractPlatformInfo("@" + rec.ID)
	switch info.Platform {
	case PlatformIllumina:
		min, max := quality.MinMax(rec.Quality)
		if max-min <= 5 && min >= 70 {
			info.Confidence = 0.95
			info.Characteristics["novaseq_uniform"] = "true"
		}
	case PlatformPacBio:
		if rec.Length() > 1000 {
			info.Confidence = 0.92
			info.Characteristics["ccs_length"] = "true"
		}
	case PlatformNanopore:
		if rec.Length() > 10000 {
			info.Confidence = 0.92
			info.Characteristics["ultra_long"] = "true"
		}
	}
	return info
}
