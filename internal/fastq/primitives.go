package fastq

import "regexp"

// IsValidHeader reports whether line is a well-formed FASTQ header: "@"
// followed by at least one non-whitespace character.
func IsValidHeader(line string) bool {
	if len(line) < 2 || line[0] != '@' {
		return false
	}
	return !isSpace(line[1])
}

// IsValidSeparator reports whether line is a well-formed FASTQ separator:
// "+" optionally followed by a repeated ID, which, if present, must equal
// expectedID.
func IsValidSeparator(line string, expectedID string) bool {
	if len(line) == 0 || line[0] != '+' {
		return false
	}
	if len(line) == 1 {
		return true
	}
	return line[1:] == expectedID
}

// LengthsMatch reports whether a sequence and quality string have equal
// length.
func LengthsMatch(seq, qual string) bool {
	return len(seq) == len(qual)
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\v' || b == '\f' || b == '\r'
}

// ExtractID returns the leading non-whitespace run of a header line after
// its "@" or "+" marker.
func ExtractID(header string) string {
	if len(header) == 0 {
		return ""
	}
	body := header[1:]
	for i := 0; i < len(body); i++ {
		if isSpace(body[i]) {
			return body[:i]
		}
	}
	return body
}

// ExtractDescription returns the remainder of a header line after its
// first whitespace run, or "" when there is none.
func ExtractDescription(header string) string {
	if len(header) == 0 {
		return ""
	}
	body := header[1:]
	for i := 0; i < len(body); i++ {
		if isSpace(body[i]) {
			j := i
			for j < len(body) && isSpace(body[j]) {
				j++
			}
			return body[j:]
		}
	}
	return ""
}

var (
	illuminaHeaderRe = regexp.MustCompile(`^[^:]+:\d+:[^:]+:\d+:\d+:\d+:\d+`)
	pacbioHeaderRe   = regexp.MustCompile(`^[\w-]+/\d+/(ccs|\d+_\d+)`)
	nanoporeHeaderRe = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}`)
)

// ExtractPlatformInfo dispatches a header's ID against known platform ID
// patterns: Illumina's "instrument:run:flowcell:lane:tile:x:y", PacBio's
// "movie/zmw/start_end" (or "/ccs"), and Nanopore's UUID-style read names.
func ExtractPlatformInfo(header string) PlatformInfo {
	id := ExtractID(header)
	switch {
	case illuminaHeaderRe.MatchString(id):
		return PlatformInfo{Platform: PlatformIllumina, Confidence: 0.9, Characteristics: map[string]string{"pattern": "instrument:run:flowcell:lane:tile:x:y"}}
	case pacbioHeaderRe.MatchString(id):
		return PlatformInfo{Platform: PlatformPacBio, Confidence: 0.85, Characteristics: map[string]string{"pattern": "movie/zmw/range"}}
	case nanoporeHeaderRe.MatchString(id):
		return PlatformInfo{Platform: PlatformNanopore, Confidence: 0.8, Characteristics: map[string]string{"pattern": "uuid read name"}}
	default:
		return PlatformInfo{Platform: PlatformUnknown, Confidence: 0, Characteristics: map[string]string{}}
	}
}
