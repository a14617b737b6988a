package fastq

import (
	"testing"

	"phredkit/internal/quality"
)

func TestValidateNoneAlwaysValid(t *testing.T) {
	rec := &Record{}
	res := Validate(rec, ValidationNone)
	if !res.Valid {
		t.Fatal("ValidationNone should always report valid")
	}
}

func TestValidateQuickCatchesLengthMismatch(t *testing.T) {
	rec := &Record{ID: "r1", Sequence: "ACGT", Quality: "!!!", Encoding: quality.Phred33}
	res := Validate(rec, ValidationQuick)
	if res.Valid {
		t.Fatal("expected invalid result for length mismatch")
	}
}

func TestValidateQuickAcceptsWellFormedRecord(t *testing.T) {
	rec := &Record{ID: "r1", Sequence: "ACGT", Quality: "IIII", Encoding: quality.Phred33}
	res := Validate(rec, ValidationQuick)
	if !res.Valid {
		t.Fatalf("expected valid record, got errors: %v", res.Errors)
	}
}

func TestValidateFullDetectsHomopolymer(t *testing.T) {
	rec := &Record{ID: "r1", Sequence: "ACGTAAAAAAAAAAGG", Quality: "IIIIIIIIIIIIIIII", Encoding: quality.Phred33}
	res := Validate(rec, ValidationFull)
	found := false
	for _, w := range res.Warnings {
		if w.Severity == SeverityLow && w.Message == "sequence contains a homopolymer run of length >= 10" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected homopolymer warning, got %+v", res.Warnings)
	}
}

func TestValidateFullDetectsAdapter(t *testing.T) {
	seq := "ACGTAGATCGGAAGAGCACGT"
	qual := make([]byte, len(seq))
	for i := range qual {
		qual[i] = 'I'
	}
	rec := &Record{ID: "r1", Sequence: seq, Quality: string(qual), Encoding: quality.Phred33}

	res := Validate(rec, ValidationFull)
	found := false
	for _, w := range res.Warnings {
		if w.Severity == SeverityMedium && w.Message == "sequence contains adapter fragment: Illumina Universal Adapter" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected adapter warning, got %+v", res.Warnings)
	}
}

func TestValidateFullDetectsHighNContent(t *testing.T) {
	seq := "NNNNNNNNNNACGT"
	qual := make([]byte, len(seq))
	for i := range qual {
		qual[i] = 'I'
	}
	rec := &Record{ID: "r1", Sequence: seq, Quality: string(qual), Encoding: quality.Phred33}

	res := Validate(rec, ValidationFull)
	found := false
	for _, w := range res.Warnings {
		if w.Severity == SeverityHigh {
			found = true
		}
	}
	if !found {
		t.Errorf("expected high N-content warning, got %+v", res.Warnings)
	}
}

func TestValidateFullDetectsOutOfRangeQuality(t *testing.T) {
	rec := &Record{ID: "r1", Sequence: "ACGT", Quality: "!!! ", Encoding: quality.Phred64}
	res := Validate(rec, ValidationFull)
	if res.Valid {
		t.Fatal("expected invalid result: ! is below Phred+64's ASCII floor")
	}
}

func TestValidateFullDetectsUniformQuality(t *testing.T) {
	rec := &Record{ID: "r1", Sequence: "ACGT", Quality: "IIII", Encoding: quality.Phred33}
	res := Validate(rec, ValidationFull)
	found := false
	for _, w := range res.Warnings {
		if w.Message == "suspiciously uniform quality string" {
			found = true
		}
	}
	if !found {
		t.Error("expected uniform-quality warning")
	}
}

func TestValidateFullPlatformDetection(t *testing.T) {
	rec := &Record{ID: "INST1:1:FLOWCELL:1:1:100:200", Sequence: "ACGT", Quality: "IIII", Encoding: quality.Phred33}
	res := Validate(rec, ValidationFull)
	if res.PlatformInfo == nil || res.PlatformInfo.Platform != PlatformIllumina {
		t.Fatalf("expected Illumina platform detection, got %+v", res.PlatformInfo)
	}
}

func TestLongestHomopolymerRun(t *testing.T) {
	cases := []struct {
		seq  string
		want int
	}{
		{"", 0},
		{"A", 1},
		{"AAAA", 4},
		{"ACGTACGT", 1},
		{"AACCCGT", 3},
	}
	for _, c := range cases {
		if got := longestHomopolymerRun(c.seq); got != c.want {
			t.Errorf("longestHomopolymerRun(%q) = %d, want %d", c.seq, got, c.want)
		}
	}
}

func TestIsUniformQuality(t *testing.T) {
	if !isUniformQuality("IIII") {
		t.Error("IIII should be uniform")
	}
	if isUniformQuality("IIIJ") {
		t.Error("IIIJ should not be uniform")
	}
	if isUniformQuality("") {
		t.Error("empty quality should not be reported uniform")
	}
}
