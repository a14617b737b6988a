package fastq

import (
	"io"
	"regexp"
)

// MismatchPolicy selects how PairedReader reacts to a base-ID mismatch
// between synchronized streams when checkPairSync is enabled.
type MismatchPolicy int

const (
	MismatchThrow MismatchPolicy = iota
	MismatchWarn
	MismatchSkip
)

// defaultBaseIDRe strips a trailing "/1", "/2", ".1", ".2", "_1", "_2",
// "/R1", "/R2" and similarly-separated R1/R2 suffixes, anchored at the end
// of the ID, matching Illumina's mate-pair naming convention.
var defaultBaseIDRe = regexp.MustCompile(`([/._])([12]|[Rr][12])$`)

// DefaultBaseIDExtractor strips the standard mate-pair suffix from id.
func DefaultBaseIDExtractor(id string) string {
	loc := defaultBaseIDRe.FindStringIndex(id)
	if loc == nil {
		return id
	}
	return id[:loc[0]]
}

// BaseIDExtractor maps a record ID to the shared base ID two mates of a
// pair should agree on.
type BaseIDExtractor func(id string) string

// Pair is one synchronized pair of mates pulled from two parsers at the
// same ordinal position.
type Pair struct {
	R1          *Record
	R2          *Record
	TotalLength int
}

// PairedReaderOptions configures a PairedReader.
type PairedReaderOptions struct {
	CheckPairSync   bool
	BaseIDExtractor BaseIDExtractor
	OnMismatch      MismatchPolicy
	OnWarning       func(Warning)
}

// DefaultPairedReaderOptions returns sync-checking enabled with the
// default suffix-stripping extractor and a throw policy on mismatch.
func DefaultPairedReaderOptions() PairedReaderOptions {
	return PairedReaderOptions{
		CheckPairSync:   true,
		BaseIDExtractor: DefaultBaseIDExtractor,
		OnMismatch:      MismatchThrow,
	}
}

// PairedReader iterates two independent FASTQ streams in lockstep,
// yielding the N-th record of both streams as one Pair per call to Next.
type PairedReader struct {
	r1, r2 *Parser
	opts   PairedReaderOptions
}

// NewPairedReader composes two already-constructed parsers into a
// synchronized reader.
func NewPairedReader(r1, r2 *Parser, opts PairedReaderOptions) *PairedReader {
	if opts.BaseIDExtractor == nil {
		opts.BaseIDExtractor = DefaultBaseIDExtractor
	}
	return &PairedReader{r1: r1, r2: r2, opts: opts}
}

// Next fetches the next record from each stream and yields them as one
// Pair. Returns io.EOF when both streams are exhausted together, and
// *PairSyncError when one stream ends before the other.
func (pr *PairedReader) Next() (*Pair, error) {
	rec1, err1 := pr.r1.Next()
	rec2, err2 := pr.r2.Next()

	eof1 := err1 == io.EOF
	eof2 := err2 == io.EOF

	if eof1 && eof2 {
		return nil, io.EOF
	}
	if eof1 != eof2 {
		return nil, &PairSyncError{Reason: "length mismatch: one stream ended before the other"}
	}
	if err1 != nil {
		return nil, err1
	}
	if err2 != nil {
		return nil, err2
	}

	if pr.opts.CheckPairSync {
		base1 := pr.opts.BaseIDExtractor(rec1.ID)
		base2 := pr.opts.BaseIDExtractor(rec2.ID)
		if base1 != base2 {
			switch pr.opts.OnMismatch {
			case MismatchThrow:
				return nil, &PairSyncError{Reason: "base id mismatch", R1ID: rec1.ID, R2ID: rec2.ID}
			case MismatchWarn:
				if pr.opts.OnWarning != nil {
					pr.opts.OnWarning(Warning{Message: "paired base id mismatch: " + rec1.ID + " / " + rec2.ID, Severity: SeverityHigh})
				}
			case MismatchSkip:
				// fall through silently
			}
		}
	}

	return &Pair{R1: rec1, R2: rec2, TotalLength: rec1.Length() + rec2.Length()}, nil
}
