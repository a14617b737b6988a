package fastq

import (
	"io"
	"testing"
)

func mustParseString(t *testing.T, s string) *Parser {
	t.Helper()
	p, err := ParseString(s, DefaultOptions())
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}
	return p
}

func TestDefaultBaseIDExtractor(t *testing.T) {
	cases := []struct{ id, want string }{
		{"read1/1", "read1"},
		{"read1/2", "read1"},
		{"read1.1", "read1"},
		{"read1_2", "read1"},
		{"read1/R1", "read1"},
		{"read1/R2", "read1"},
		{"read1", "read1"},
	}
	for _, c := range cases {
		if got := DefaultBaseIDExtractor(c.id); got != c.want {
			t.Errorf("DefaultBaseIDExtractor(%q) = %q, want %q", c.id, got, c.want)
		}
	}
}

func TestPairedReaderYieldsSynchronizedPairs(t *testing.T) {
	r1 := mustParseString(t, "@read1/1\nACGT\n+\nIIII\n@read2/1\nTTTT\n+\nJJJJ\n")
	r2 := mustParseString(t, "@read1/2\nGGGG\n+\nKKKK\n@read2/2\nCCCC\n+\nLLLL\n")
	pr := NewPairedReader(r1, r2, DefaultPairedReaderOptions())

	pair, err := pr.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if pair.R1.ID != "read1/1" || pair.R2.ID != "read1/2" || pair.TotalLength != 8 {
		t.Errorf("got %+v", pair)
	}

	pair2, err := pr.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if pair2.R1.ID != "read2/1" || pair2.R2.ID != "read2/2" {
		t.Errorf("got %+v", pair2)
	}

	if _, err := pr.Next(); err != io.EOF {
		t.Fatalf("expected io.EOF, got %v", err)
	}
}

func TestPairedReaderDetectsLengthMismatch(t *testing.T) {
	r1 := mustParseString(t, "@read1/1\nACGT\n+\nIIII\n@read2/1\nTTTT\n+\nJJJJ\n")
	r2 := mustParseString(t, "@read1/2\nGGGG\n+\nKKKK\n")
	pr := NewPairedReader(r1, r2, DefaultPairedReaderOptions())

	if _, err := pr.Next(); err != nil {
		t.Fatalf("unexpected error on first pair: %v", err)
	}
	if _, err := pr.Next(); err == nil {
		t.Fatal("expected PairSyncError for stream-length mismatch")
	}
}

func TestPairedReaderThrowsOnBaseIDMismatch(t *testing.T) {
	r1 := mustParseString(t, "@read1/1\nACGT\n+\nIIII\n")
	r2 := mustParseString(t, "@read2/2\nGGGG\n+\nKKKK\n")
	pr := NewPairedReader(r1, r2, DefaultPairedReaderOptions())

	if _, err := pr.Next(); err == nil {
		t.Fatal("expected PairSyncError for base id mismatch")
	}
}

func TestPairedReaderWarnsOnBaseIDMismatch(t *testing.T) {
	var warnings []Warning
	r1 := mustParseString(t, "@read1/1\nACGT\n+\nIIII\n")
	r2 := mustParseString(t, "@read2/2\nGGGG\n+\nKKKK\n")
	opts := DefaultPairedReaderOptions()
	opts.OnMismatch = MismatchWarn
	opts.OnWarning = func(w Warning) { warnings = append(warnings, w) }
	pr := NewPairedReader(r1, r2, opts)

	pair, err := pr.Next()
	if err != nil {
		t.Fatalf("unexpected error under warn policy: %v", err)
	}
	if pair == nil || len(warnings) != 1 {
		t.Fatalf("expected a yielded pair and one warning, got pair=%v warnings=%v", pair, warnings)
	}
}

func TestPairedReaderSkipPolicySilent(t *testing.T) {
	r1 := mustParseString(t, "@read1/1\nACGT\n+\nIIII\n")
	r2 := mustParseString(t, "@read2/2\nGGGG\n+\nKKKK\n")
	opts := DefaultPairedReaderOptions()
	opts.OnMismatch = MismatchSkip
	pr := NewPairedReader(r1, r2, opts)

	pair, err := pr.Next()
	if err != nil {
		t.Fatalf("unexpected error under skip policy: %v", err)
	}
	if pair == nil {
		t.Fatal("expected a yielded pair under skip policy")
	}
}
