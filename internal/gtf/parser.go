package gtf

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/shenwei356/xopen"
)

// Parser is a pull-based iterator over GTF features, mirroring the fastq
// package's LineSource: one Scan-backed pass, comments and blank lines
// skipped, a typed error on the first malformed line.
type Parser struct {
	scanner    *bufio.Scanner
	lineNumber int
	closer     io.Closer
	normalize  bool
}

// Options configures a Parser.
type Options struct {
	// Normalize runs cross-database normalization on every feature as it
	// is parsed, populating Feature.Normalized.
	Normalize bool
}

// ParseString builds a Parser over an in-memory GTF string.
func ParseString(s string, opts Options) *Parser {
	return newParser(strings.NewReader(s), opts)
}

// Parse builds a Parser directly over an io.Reader byte stream.
func Parse(r io.Reader, opts Options) *Parser {
	return newParser(r, opts)
}

// ParseFile builds a Parser over a file path, transparently decompressing
// via xopen, matching the fastq package's file-opening convention.
func ParseFile(path string, opts Options) (*Parser, error) {
	f, err := xopen.Ropen(path)
	if err != nil {
		return nil, &ParseError{Reason: "failed to open file: " + err.Error(), Sample: path}
	}
	p := newParser(f, opts)
	p.closer = f
	return p, nil
}

func newParser(r io.Reader, opts Options) *Parser {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 10*1024*1024)
	return &Parser{scanner: scanner, lineNumber: -1, normalize: opts.Normalize}
}

// Next returns the next feature, io.EOF at a clean end, or a *ParseError.
// Blank lines and lines beginning with "#" or "//" are skipped.
func (p *Parser) Next() (*Feature, error) {
	for {
		if !p.scanner.Scan() {
			if err := p.scanner.Err(); err != nil {
				return nil, err
			}
			return nil, io.EOF
		}
		p.lineNumber++
		line := p.scanner.Text()
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") || strings.HasPrefix(trimmed, "//") {
			continue
		}

		feature, err := parseLine(line, p.lineNumber)
		if err != nil {
			return nil, err
		}
		if p.normalize {
			feature.Normalized = Normalize(feature)
		}
		return feature, nil
	}
}

// Close releases the underlying file handle, if any.
func (p *Parser) Close() error {
	if p.closer != nil {
		return p.closer.Close()
	}
	return nil
}

func parseLine(line string, lineNumber int) (*Feature, error) {
	fields := strings.Split(line, "\t")
	if len(fields) != 9 {
		return nil, &ParseError{LineNumber: lineNumber, Reason: "expected exactly 9 tab-separated fields, got " + strconv.Itoa(len(fields)), Sample: line}
	}

	start, err := strconv.ParseInt(fields[3], 10, 64)
	if err != nil {
		return nil, &ParseError{LineNumber: lineNumber, Reason: "start is not a valid integer", Sample: fields[3]}
	}
	end, err := strconv.ParseInt(fields[4], 10, 64)
	if err != nil {
		return nil, &ParseError{LineNumber: lineNumber, Reason: "end is not a valid integer", Sample: fields[4]}
	}
	if start < 1 || start > end || end > maxCoordinate {
		return nil, &ParseError{LineNumber: lineNumber, Reason: "coordinates must satisfy 1 <= start <= end <= 2,500,000,000", Sample: fields[3] + "-" + fields[4]}
	}

	var score *float64
	if fields[5] != "." {
		v, err := strconv.ParseFloat(fields[5], 64)
		if err != nil {
			return nil, &ParseError{LineNumber: lineNumber, Reason: "score is neither a float nor '.'", Sample: fields[5]}
		}
		score = &v
	}

	strand, err := parseStrand(fields[6])
	if err != nil {
		return nil, &ParseError{LineNumber: lineNumber, Reason: err.Error(), Sample: fields[6]}
	}

	frame, err := parseFrame(fields[7])
	if err != nil {
		return nil, &ParseError{LineNumber: lineNumber, Reason: err.Error(), Sample: fields[7]}
	}

	attrs, err := parseAttributes(fields[8])
	if err != nil {
		return nil, &ParseError{LineNumber: lineNumber, Reason: err.Error(), Sample: fields[8]}
	}

	return &Feature{
		Seqname:    fields[0],
		Source:     fields[1],
		FeatureTag: fields[2],
		Start:      start,
		End:        end,
		Score:      score,
		Strand:     strand,
		Frame:      frame,
		Attributes: attrs,
		LineNumber: lineNumber,
	}, nil
}

func parseStrand(s string) (Strand, error) {
	switch s {
	case "+":
		return StrandPlus, nil
	case "-":
		return StrandMinus, nil
	case ".":
		return StrandUnknown, nil
	default:
		return StrandUnknown, &ParseError{Reason: "strand must be one of '+', '-', '.'"}
	}
}

func parseFrame(s string) (Frame, error) {
	switch s {
	case ".":
		return FrameNone, nil
	case "0":
		return Frame0, nil
	case "1":
		return Frame1, nil
	case "2":
		return Frame2, nil
	default:
		return FrameNone, &ParseError{Reason: "frame must be one of '0', '1', '2', '.'"}
	}
}

// parseAttributes splits a GTF attribute string on ";"-separated entries
// of the form `key "value"` or `key value`, collapsing repeated keys into
// an ordered list.
func parseAttributes(s string) (map[string]AttributeValue, error) {
	attrs := make(map[string]AttributeValue)
	entries := strings.Split(s, ";")

	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		key, value, err := splitAttributeEntry(entry)
		if err != nil {
			return nil, err
		}
		appendAttribute(attrs, key, value)
	}
	return attrs, nil
}

func splitAttributeEntry(entry string) (key, value string, err error) {
	i := strings.IndexAny(entry, " \t")
	if i < 0 {
		return "", "", &ParseError{Reason: "malformed attribute entry, expected 'key value'"}
	}
	key = entry[:i]
	value = strings.TrimSpace(entry[i+1:])
	value = strings.Trim(value, `"`)
	if key == "" {
		return "", "", &ParseError{Reason: "malformed attribute entry, empty key"}
	}
	return key, value, nil
}

func appendAttribute(attrs map[string]AttributeValue, key, value string) {
	existing, ok := attrs[key]
	if !ok {
		attrs[key] = AttributeValue{single: value}
		return
	}
	if existing.isList {
		existing.list = append(existing.list, value)
		attrs[key] = existing
		return
	}
	attrs[key] = AttributeValue{list: []string{existing.single, value}, isList: true}
}
