package fastq

import (
	"bytes"
	"strings"
	"testing"

	"phredkit/internal/quality"
)

func TestWriterSimpleRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf, DefaultWriterOptions(), nil)
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}
	rec := &Record{ID: "r1", Sequence: "ACGT", Quality: "IIII", Encoding: quality.Phred33}
	if err := w.Write(rec); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	want := "@r1\nACGT\n+\nIIII\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}

func TestWriterWrappedOutput(t *testing.T) {
	var buf bytes.Buffer
	opts := DefaultWriterOptions()
	opts.Strategy = WriteWrapped
	opts.LineLength = 4
	w, err := NewWriter(&buf, opts, nil)
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}
	rec := &Record{ID: "r1", Sequence: "ACGTACGT", Quality: "IIIIIIII", Encoding: quality.Phred33}
	if err := w.Write(rec); err != nil {
		t.Fatalf("Write: %v", err)
	}
	w.Close()

	want := "@r1\nACGT\nACGT\n+\nIIII\nIIII\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}

func TestWriterWrappedRequiresLineLength(t *testing.T) {
	var buf bytes.Buffer
	opts := DefaultWriterOptions()
	opts.Strategy = WriteWrapped
	if _, err := NewWriter(&buf, opts, nil); err == nil {
		t.Fatal("expected rejection of wrapped strategy without lineLength")
	}
}

func TestWriterValidationRequiresValidateOutput(t *testing.T) {
	var buf bytes.Buffer
	opts := DefaultWriterOptions()
	opts.ValidationLevel = ValidationQuick
	if _, err := NewWriter(&buf, opts, nil); err == nil {
		t.Fatal("expected rejection of a non-none validationLevel without validateOutput")
	}
}

func TestWriterReencodesQuality(t *testing.T) {
	var buf bytes.Buffer
	opts := DefaultWriterOptions()
	opts.Reencode = true
	opts.TargetEncoding = quality.Phred64
	w, err := NewWriter(&buf, opts, nil)
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}
	rec := &Record{ID: "r1", Sequence: "ACGT", Quality: "!!!!", Encoding: quality.Phred33}
	if err := w.Write(rec); err != nil {
		t.Fatalf("Write: %v", err)
	}
	w.Close()

	if !strings.Contains(buf.String(), "@r1\nACGT\n+\n") {
		t.Fatalf("unexpected output: %q", buf.String())
	}
	// '!' (score 0 in Phred+33) is Phred+64's floor score 0, encoded as '@'.
	if !strings.HasSuffix(strings.TrimRight(buf.String(), "\n"), "@@@@") {
		t.Errorf("expected re-encoded quality, got %q", buf.String())
	}
}

func TestWriterValidateOutputCatchesBadRecord(t *testing.T) {
	var buf bytes.Buffer
	opts := DefaultWriterOptions()
	opts.ValidationLevel = ValidationQuick
	opts.ValidateOutput = true
	w, err := NewWriter(&buf, opts, nil)
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}
	// Mismatched sequence/quality lengths fail quick validation on
	// round-trip even though Write itself does not reject it.
	rec := &Record{ID: "r1", Sequence: "ACGT", Quality: "III", Encoding: quality.Phred33}
	if err := w.Write(rec); err == nil {
		t.Fatal("expected round-trip validation failure")
	}
}

func TestWriterParseRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf, DefaultWriterOptions(), nil)
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}
	rec := &Record{ID: "r1", Description: "lane 3", Sequence: "ACGTACGT", Quality: "IIIIJJJJ", Encoding: quality.Phred33}
	if err := w.Write(rec); err != nil {
		t.Fatalf("Write: %v", err)
	}
	w.Close()

	opts := DefaultOptions()
	opts.EncodingMode = EncodingFixed
	opts.FixedEncoding = quality.Phred33
	p, err := ParseString(buf.String(), opts)
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}
	back, err := p.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if back.ID != rec.ID || back.Description != rec.Description ||
		back.Sequence != rec.Sequence || back.Quality != rec.Quality ||
		back.Encoding != rec.Encoding {
		t.Errorf("round trip changed the record: wrote %+v, read %+v", rec, back)
	}
}

func TestWriterCountsWritten(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf, DefaultWriterOptions(), nil)
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}
	for i := 0; i < 3; i++ {
		rec := &Record{ID: "r", Sequence: "A", Quality: "I", Encoding: quality.Phred33}
		if err := w.Write(rec); err != nil {
			t.Fatalf("Write: %v", err)
		}
	}
	if w.Written() != 3 {
		t.Errorf("Written() = %d, want 3", w.Written())
	}
}
