package fastq

import (
	"io"
	"strings"

	"phredkit/internal/quality"
)

type smState int

const (
	waitingHeader smState = iota
	readingSequence
	readingQuality
)

func (s smState) String() string {
	switch s {
	case waitingHeader:
		return "WAITING_HEADER"
	case readingSequence:
		return "READING_SEQUENCE"
	case readingQuality:
		return "READING_QUALITY"
	default:
		return "UNKNOWN"
	}
}

// maxIDWarningLength is the id length above which the state machine emits
// a non-fatal warning.
const maxIDWarningLength = 50

// stateMachineParser implements the length-driven multi-line state
// machine. Record boundaries are detected by length match, not by "@"/"+"
// markers, because both can legally appear inside quality strings.
type stateMachineParser struct {
	ls       *LineSource
	encoding quality.Encoding
	detect   func(seq, qual string) (quality.Encoding, error)

	state       smState
	startLine   int
	header      string
	id          string
	description string
	seqLines    []string
	seqLen      int
	qualBuf     strings.Builder
}

func newStateMachineParser(ls *LineSource, encoding quality.Encoding, detect func(seq, qual string) (quality.Encoding, error)) *stateMachineParser {
	return &stateMachineParser{ls: ls, encoding: encoding, detect: detect, state: waitingHeader}
}

func (p *stateMachineParser) reset() {
	p.state = waitingHeader
	p.header = ""
	p.id = ""
	p.description = ""
	p.seqLines = p.seqLines[:0]
	p.seqLen = 0
	p.qualBuf.Reset()
}

// next drives the state machine forward, pulling as many lines as needed
// to emit one record. warnings accumulated while building that record are
// returned alongside it.
func (p *stateMachineParser) next() (*Record, []Warning, error) {
	var warnings []Warning

	for {
		line, lineNum, ok, err := p.ls.Next()
		if err != nil {
			return nil, warnings, err
		}
		if !ok {
			if p.state != waitingHeader {
				return nil, warnings, &IncompleteRecordError{StartLine: p.startLine, State: p.state.String()}
			}
			return nil, warnings, io.EOF
		}

		switch p.state {
		case waitingHeader:
			if strings.TrimSpace(line) == "" {
				continue
			}
			if !IsValidHeader(line) {
				return nil, warnings, &ParseError{Op: "header", LineNumber: lineNum, Sample: line, Suggestion: "expected a '@'-prefixed header line"}
			}
			p.header = line
			p.startLine = lineNum
			p.id = ExtractID(line)
			p.description = ExtractDescription(line)
			if len(p.id) > maxIDWarningLength {
				warnings = append(warnings, Warning{Message: "record id exceeds 50 characters", Severity: SeverityLow})
			}
			p.state = readingSequence

		case readingSequence:
			if len(line) > 0 && line[0] == '+' {
				if !IsValidSeparator(line, p.id) {
					return nil, warnings, &ParseError{Op: "separator", LineNumber: lineNum, RecordID: p.id, Sample: line, Suggestion: "separator must start with '+' and, if it repeats an id, match the header"}
				}
				total := 0
				for _, s := range p.seqLines {
					total += len(s)
				}
				p.seqLen = total
				p.state = readingQuality
				continue
			}
			p.seqLines = append(p.seqLines, strings.TrimSpace(line))

		case readingQuality:
			p.qualBuf.WriteString(strings.TrimSpace(line))
			if p.qualBuf.Len() < p.seqLen {
				continue
			}

			full := p.qualBuf.String()
			qual := full[:p.seqLen] // truncate surplus of the final quality line
			seq := strings.Join(p.seqLines, "")

			if !LengthsMatch(seq, qual) {
				return nil, warnings, &QualityError{
					Op: "length check", LineNumber: lineNum, RecordID: p.id, Sample: qual,
					Suggestion: "accumulated quality could not satisfy the sequence length",
				}
			}

			enc := p.encoding
			if p.detect != nil {
				var derr error
				enc, derr = p.detect(seq, qual)
				if derr != nil {
					return nil, warnings, &QualityError{Op: "encoding detection", LineNumber: lineNum, RecordID: p.id, Sample: qual}
				}
			}

			rec := &Record{
				ID:          p.id,
				Description: p.description,
				Sequence:    seq,
				Quality:     qual,
				Encoding:    enc,
				LineNumber:  p.startLine,
			}
			p.reset()
			return rec, warnings, nil
		}
	}
}
