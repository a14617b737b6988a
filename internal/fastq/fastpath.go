package fastq

import (
	"fmt"
	"io"
	"strings"

	"phredkit/internal/quality"
)

// fastPathParser implements the strict four-line FASTQ parser: a
// single pass keyed on line-index mod 4, with no lookahead and no
// tolerance for wrapped sequence/quality lines.
type fastPathParser struct {
	ls       *LineSource
	encoding quality.Encoding
	detect   func(seq, qual string) (quality.Encoding, error)
}

func newFastPathParser(ls *LineSource, encoding quality.Encoding, detect func(seq, qual string) (quality.Encoding, error)) *fastPathParser {
	return &fastPathParser{ls: ls, encoding: encoding, detect: detect}
}

// next reads the next 4-line record, returning (nil, io.EOF) at a clean
// end of input and *ParseError when a trailing partial record is found.
func (p *fastPathParser) next() (*Record, error) {
	header, ln, ok, err := p.ls.Next()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, io.EOF
	}
	if !IsValidHeader(header) {
		return nil, &ParseError{Op: "header", LineNumber: ln, Sample: header, Suggestion: "header must start with '@' followed by a non-whitespace id"}
	}
	id := ExtractID(header)
	description := ExtractDescription(header)

	seqLine, _, ok, err := p.ls.Next()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &ParseError{Op: "sequence", LineNumber: ln, RecordID: id, Suggestion: "unexpected EOF, a 4-line record requires a sequence line"}
	}
	seqLine = strings.TrimSpace(seqLine)

	sepLine, sepLn, ok, err := p.ls.Next()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &ParseError{Op: "separator", LineNumber: ln, RecordID: id, Suggestion: "unexpected EOF, a 4-line record requires a separator line"}
	}
	if !IsValidSeparator(sepLine, id) {
		return nil, &ParseError{Op: "separator", LineNumber: sepLn, RecordID: id, Sample: sepLine, Suggestion: "separator must start with '+' and, if it repeats an id, match the header"}
	}

	qualLine, qualLn, ok, err := p.ls.Next()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &ParseError{Op: "quality", LineNumber: ln, RecordID: id, Suggestion: "unexpected EOF, a 4-line record requires a quality line"}
	}
	qualLine = strings.TrimSpace(qualLine)
	if !LengthsMatch(seqLine, qualLine) {
		return nil, &QualityError{
			Op: "length check", LineNumber: qualLn, RecordID: id,
			Sample:     qualLine,
			Suggestion: fmt.Sprintf("sequence length %d does not match quality length %d", len(seqLine), len(qualLine)),
		}
	}

	enc := p.encoding
	if p.detect != nil {
		enc, err = p.detect(seqLine, qualLine)
		if err != nil {
			return nil, &QualityError{Op: "encoding detection", LineNumber: qualLn, RecordID: id, Sample: qualLine}
		}
	}

	return &Record{
		ID:          id,
		Description: description,
		Sequence:    seqLine,
		Quality:     qualLine,
		Encoding:    enc,
		LineNumber:  ln,
	}, nil
}
