package fastq

import (
	"bufio"
	"bytes"
	"fmt"
	"io"

	"github.com/shenwei356/xopen"
	"phredkit/internal/quality"
)

// EncodingMode selects how a Parser resolves each record's quality
// encoding.
type EncodingMode int

const (
	// EncodingAuto samples ASCII evidence per record instead of trusting a
	// fixed encoding.
	EncodingAuto EncodingMode = iota
	EncodingFixed
)

// ParsingStrategy selects which of the two record-reconstruction engines
// (fast path or state machine) a Parser uses.
type ParsingStrategy int

const (
	StrategyAuto ParsingStrategy = iota
	StrategyFast
	StrategyStateMachine
)

func (s ParsingStrategy) String() string {
	switch s {
	case StrategyFast:
		return "fast"
	case StrategyStateMachine:
		return "state-machine"
	default:
		return "auto"
	}
}

// complexitySampleLines bounds how many lines the facade reads ahead to run
// the complexity detector when parsingStrategy is auto.
const complexitySampleLines = 100

// Options configures a Parser. Use DefaultOptions and override individual
// fields rather than constructing Options directly.
type Options struct {
	SkipValidation      bool
	MaxLineLength       int
	TrackLineNumbers    bool
	EncodingMode        EncodingMode
	FixedEncoding       quality.Encoding
	ParseQualityScores  bool
	ValidationLevel     ValidationLevel
	ParsingStrategy     ParsingStrategy
	ConfidenceThreshold float64
	DebugStrategy       bool

	OnError   func(error)
	OnWarning func(Warning)
}

// DefaultOptions returns the facade's documented defaults.
func DefaultOptions() Options {
	return Options{
		MaxLineLength:       1_000_000,
		TrackLineNumbers:    true,
		EncodingMode:        EncodingAuto,
		FixedEncoding:       quality.Phred33,
		ValidationLevel:     ValidationQuick,
		ParsingStrategy:     StrategyAuto,
		ConfidenceThreshold: 0.8,
	}
}

// Validate rejects option combinations the facade cannot safely act on.
func (o Options) Validate() error {
	if o.MaxLineLength < 1000 {
		return &ValidationError{Op: "option validation", Reason: "maxLineLength must be at least 1000"}
	}
	if o.ParseQualityScores && o.MaxLineLength > 50_000_000 {
		return &ValidationError{Op: "option validation", Reason: "parseQualityScores with maxLineLength above 50,000,000 risks unbounded per-record memory"}
	}
	return nil
}

// exceedsMemoryAdvisory reports whether the combination, while legal,
// deserves an OnWarning callback about memory pressure.
func (o Options) exceedsMemoryAdvisory() bool {
	return !o.SkipValidation && o.MaxLineLength > 10_000_000
}

// Metrics reports what strategy decisions a Parser has made so far.
type Metrics struct {
	FastPathCount      int
	StateMachineCount  int
	AutoDetectCount    int
	TotalRecords       int
	LastStrategy       ParsingStrategy
	LastDetectedFormat Format
	LastConfidence     float64
}

// Parser is the facade composing the line source, the two
// record-reconstruction engines, the complexity detector, and the
// encoding detector (quality package) behind one lazy record iterator.
type Parser struct {
	opts    Options
	closer  io.Closer
	metrics Metrics

	fast   *fastPathParser
	state  *stateMachineParser
	active ParsingStrategy

	// sniffedFormat/sniffedConfidence hold the complexity verdict from
	// sniffing, surfaced via Metrics() as LastDetectedFormat/LastConfidence.
	// Left at the zero value when parsingStrategy was explicit.
	sniffedFormat     Format
	sniffedConfidence float64
}

// ParseString builds a Parser over an in-memory FASTQ string.
func ParseString(s string, opts Options) (*Parser, error) {
	return newParser(bytes.NewReader([]byte(s)), opts)
}

// ParseFile builds a Parser over a file path, transparently decompressing
// gzip/bzip2/xz/zstd input via xopen.
func ParseFile(path string, opts Options) (*Parser, error) {
	f, err := xopen.Ropen(path)
	if err != nil {
		return nil, &ParseError{Op: "open file", Sample: path, Suggestion: err.Error()}
	}
	p, err := newParser(f, opts)
	if err != nil {
		f.Close()
		return nil, err
	}
	p.closer = f
	return p, nil
}

// Parse builds a Parser directly over an io.Reader byte stream.
func Parse(r io.Reader, opts Options) (*Parser, error) {
	return newParser(r, opts)
}

func newParser(r io.Reader, opts Options) (*Parser, error) {
	if opts.MaxLineLength == 0 {
		opts.MaxLineLength = DefaultOptions().MaxLineLength
	}
	if opts.ConfidenceThreshold == 0 {
		opts.ConfidenceThreshold = DefaultOptions().ConfidenceThreshold
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if opts.exceedsMemoryAdvisory() && opts.OnWarning != nil {
		opts.OnWarning(Warning{Message: "maxLineLength above 10,000,000 with validation enabled may use significant memory", Severity: SeverityMedium})
	}

	strategy := opts.ParsingStrategy
	// sniffed holds the bytes consumed while sampling ahead for the
	// complexity detector; they are spliced back in front of r so the
	// real parse sees every byte exactly once.
	var sniffed []byte
	var sniffedFormat Format
	var sniffedConfidence float64
	if strategy == StrategyAuto {
		detected, format, confidence, consumed, err := sniffStrategy(r, opts.ConfidenceThreshold)
		if err != nil {
			return nil, err
		}
		strategy = detected
		sniffed = consumed
		sniffedFormat = format
		sniffedConfidence = confidence
		if opts.DebugStrategy && opts.OnWarning != nil {
			opts.OnWarning(Warning{
				Message:  fmt.Sprintf("auto-selected %s strategy (format=%s, confidence=%.2f)", strategy, format, confidence),
				Severity: SeverityLow,
			})
		}
	}

	var full io.Reader = r
	if sniffed != nil {
		full = io.MultiReader(bytes.NewReader(sniffed), r)
	}
	ls := NewLineSource(full, opts.MaxLineLength)

	detect := buildDetector(opts)

	p := &Parser{opts: opts, active: strategy, sniffedFormat: sniffedFormat, sniffedConfidence: sniffedConfidence}
	switch strategy {
	case StrategyFast:
		p.fast = newFastPathParser(ls, opts.FixedEncoding, detect)
	default:
		p.state = newStateMachineParser(ls, opts.FixedEncoding, detect)
	}
	return p, nil
}

// sniffStrategy reads up to complexitySampleLines non-empty lines from r
// through a bufio.Reader, returning the verdict plus the raw bytes
// consumed so the caller can replay them ahead of the rest of r. A
// "simple" verdict whose confidence falls below threshold still falls
// back to the state machine, since the fast path has zero tolerance for a
// misclassified record.
func sniffStrategy(r io.Reader, threshold float64) (strategy ParsingStrategy, format Format, confidence float64, consumed []byte, err error) {
	br := bufio.NewReader(r)
	var buf bytes.Buffer
	var lines []string

	for len(lines) < complexitySampleLines {
		raw, rerr := br.ReadString('\n')
		buf.WriteString(raw)
		line := trimLineEnding(raw)
		if line != "" {
			lines = append(lines, line)
		}
		if rerr != nil {
			break
		}
	}

	res := DetectComplexity(lines, complexitySampleLines)
	strategy = StrategyFast
	if res.Format == FormatComplex || res.Confidence < threshold {
		strategy = StrategyStateMachine
	}
	return strategy, res.Format, res.Confidence, buf.Bytes(), nil
}

func trimLineEnding(s string) string {
	s = trimSuffixByte(s, '\n')
	s = trimSuffixByte(s, '\r')
	return s
}

func trimSuffixByte(s string, b byte) string {
	if len(s) > 0 && s[len(s)-1] == b {
		return s[:len(s)-1]
	}
	return s
}

// buildDetector wires the facade's encoding mode into the closure the
// underlying parsers expect: nil for a fixed encoding, or a per-record
// detector backed by quality.DetectWithConfidence otherwise.
func buildDetector(opts Options) func(seq, qual string) (quality.Encoding, error) {
	if opts.EncodingMode == EncodingFixed {
		return nil
	}
	return func(_ string, qual string) (quality.Encoding, error) {
		res, err := quality.DetectWithConfidence(qual)
		if err != nil {
			return 0, err
		}
		return res.Encoding, nil
	}
}

// Next returns the next record, io.EOF at a clean end, or a typed parse
// error. Warnings surfaced while building the record are delivered through
// OnWarning rather than returned, keeping the iterator's signature uniform
// across strategies. When a record fails validation at the configured
// ValidationLevel, the error is always sent to OnError; whether Next then
// drops the record and moves on or terminates the sequence is governed by
// opts.SkipValidation.
func (p *Parser) Next() (*Record, error) {
	for {
		rec, err := p.nextCandidate()
		if err != nil {
			return nil, err
		}

		if p.opts.ValidationLevel != ValidationNone {
			result := Validate(rec, p.opts.ValidationLevel)
			for _, w := range result.Warnings {
				if p.opts.OnWarning != nil {
					p.opts.OnWarning(w)
				}
			}
			if !result.Valid {
				var verr error
				if len(result.Errors) > 0 {
					verr = result.Errors[0]
				} else {
					verr = &ValidationError{Op: "record validation", RecordID: rec.ID, Reason: "record failed validation"}
				}
				if p.opts.OnError != nil {
					p.opts.OnError(verr)
				}
				if p.opts.SkipValidation {
					continue
				}
				return nil, verr
			}
		}

		p.recordMetrics()
		return rec, nil
	}
}

// nextCandidate pulls one record from the active strategy, attaches
// line-number tracking and precomputed scores/stats, and surfaces parse
// warnings/errors — everything Next needs before running the validator.
func (p *Parser) nextCandidate() (*Record, error) {
	var (
		rec      *Record
		warnings []Warning
		err      error
	)

	switch p.active {
	case StrategyFast:
		rec, err = p.fast.next()
	default:
		rec, warnings, err = p.state.next()
	}

	if err != nil {
		if err != io.EOF && p.opts.OnError != nil {
			p.opts.OnError(err)
		}
		return nil, err
	}

	for _, w := range warnings {
		if p.opts.OnWarning != nil {
			p.opts.OnWarning(w)
		}
	}

	if !p.opts.TrackLineNumbers {
		rec.LineNumber = 0
	}

	if p.opts.ParseQualityScores {
		scores, serr := quality.QualityToScores(rec.Quality, rec.Encoding)
		if serr != nil {
			if p.opts.OnError != nil {
				p.opts.OnError(serr)
			}
			return nil, serr
		}
		rec.Scores = scores
		var below int
		stats := quality.ComputeStats(scores, &below)
		rec.Stats = &stats
	}

	return rec, nil
}

func (p *Parser) recordMetrics() {
	p.metrics.TotalRecords++
	p.metrics.LastStrategy = p.active
	switch p.active {
	case StrategyFast:
		p.metrics.FastPathCount++
	default:
		p.metrics.StateMachineCount++
	}
	if p.opts.ParsingStrategy == StrategyAuto {
		p.metrics.AutoDetectCount++
		p.metrics.LastDetectedFormat = p.sniffedFormat
		p.metrics.LastConfidence = p.sniffedConfidence
	}
}

// Metrics reports cumulative strategy-selection counters for this Parser.
func (p *Parser) Metrics() Metrics {
	return p.metrics
}

// ResetMetrics zeroes the Parser's cumulative counters without affecting
// its position in the stream.
func (p *Parser) ResetMetrics() {
	p.metrics = Metrics{}
}

// Close releases the underlying file handle, if any. Safe to call on a
// Parser built from a string or a bare io.Reader.
func (p *Parser) Close() error {
	if p.closer != nil {
		return p.closer.Close()
	}
	return nil
}
