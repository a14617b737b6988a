package fastq

import (
	"io"
	"strings"
	"testing"

	"phredkit/internal/quality"
)

func TestParserFastPathScenario(t *testing.T) {
	opts := DefaultOptions()
	p, err := ParseString("@r1\nACGT\n+\n!!!!", opts)
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}

	rec, err := p.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if rec.ID != "r1" || rec.Sequence != "ACGT" || rec.Quality != "!!!!" {
		t.Errorf("got %+v", rec)
	}

	if _, err := p.Next(); err != io.EOF {
		t.Fatalf("expected io.EOF, got %v", err)
	}

	m := p.Metrics()
	if m.FastPathCount != 1 || m.TotalRecords != 1 {
		t.Errorf("Metrics = %+v, want FastPathCount=1 TotalRecords=1", m)
	}
}

func TestParserAutoSelectsStateMachineForComplexInput(t *testing.T) {
	// Wrapped sequence lines force the complexity detector to classify
	// the sample as "complex".
	input := "@r1\nACGT\nACGT\n+\nIIIIIIII\n@r2\nTTTT\nTTTT\n+\nJJJJJJJJ\n"
	p, err := ParseString(input, DefaultOptions())
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}

	var ids []string
	for {
		rec, err := p.Next()
		if err != nil {
			break
		}
		ids = append(ids, rec.ID)
	}
	if len(ids) != 2 || ids[0] != "r1" || ids[1] != "r2" {
		t.Fatalf("got %v, want [r1 r2]", ids)
	}

	m := p.Metrics()
	if m.StateMachineCount != 2 {
		t.Errorf("StateMachineCount = %d, want 2", m.StateMachineCount)
	}
}

func TestParserExplicitStrategyOverridesAutoDetection(t *testing.T) {
	opts := DefaultOptions()
	opts.ParsingStrategy = StrategyStateMachine
	p, err := ParseString("@r1\nACGT\n+\nIIII\n", opts)
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}
	rec, err := p.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if rec.ID != "r1" {
		t.Errorf("ID = %q, want r1", rec.ID)
	}
	if p.Metrics().StateMachineCount != 1 {
		t.Errorf("expected explicit strategy to be honored")
	}
}

func TestParserRejectsInvalidOptions(t *testing.T) {
	opts := DefaultOptions()
	opts.MaxLineLength = 10
	if _, err := ParseString("@r1\nACGT\n+\nIIII\n", opts); err == nil {
		t.Fatal("expected rejection of maxLineLength below 1000")
	}

	opts2 := DefaultOptions()
	opts2.ParseQualityScores = true
	opts2.MaxLineLength = 60_000_000
	if _, err := ParseString("@r1\nACGT\n+\nIIII\n", opts2); err == nil {
		t.Fatal("expected rejection of parseQualityScores with oversized maxLineLength")
	}
}

func TestParserParsesQualityScores(t *testing.T) {
	opts := DefaultOptions()
	opts.ParseQualityScores = true
	opts.EncodingMode = EncodingFixed
	opts.FixedEncoding = quality.Phred33
	p, err := ParseString("@r1\nACGT\n+\nIIII\n", opts)
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}
	rec, err := p.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if rec.Scores == nil || rec.Stats == nil {
		t.Fatal("expected Scores and Stats to be populated")
	}
	if rec.Stats.Count != 4 {
		t.Errorf("Stats.Count = %d, want 4", rec.Stats.Count)
	}
}

func TestParserOnErrorCallback(t *testing.T) {
	var gotErr error
	opts := DefaultOptions()
	opts.OnError = func(err error) { gotErr = err }
	p, err := ParseString("@r1\nACGT\n+\n!!!\n", opts) // length mismatch
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}
	if _, err := p.Next(); err == nil {
		t.Fatal("expected parse error")
	}
	if gotErr == nil {
		t.Error("expected OnError to be invoked")
	}
}

func TestParserSkipValidationDropsBadRecordAndContinues(t *testing.T) {
	// The middle record "bad" has an empty sequence and an empty quality
	// line, which quick validation rejects; with SkipValidation it must be
	// reported through OnError and dropped while "good" and "good2" survive.
	input := "@good\nACGT\n+\nIIII\n@bad\n\n+\n\n@good2\nTTTT\n+\nJJJJ\n"
	opts := DefaultOptions()
	opts.SkipValidation = true
	opts.ParsingStrategy = StrategyStateMachine
	var errs []error
	opts.OnError = func(err error) { errs = append(errs, err) }

	p, err := ParseString(input, opts)
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}

	var ids []string
	for {
		rec, err := p.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		ids = append(ids, rec.ID)
	}
	if len(ids) != 2 || ids[0] != "good" || ids[1] != "good2" {
		t.Fatalf("got %v, want [good good2] with the empty-sequence record dropped", ids)
	}
	if len(errs) == 0 {
		t.Error("expected OnError to fire for the dropped record")
	}
}

func TestParserNoSkipValidationTerminatesOnBadRecord(t *testing.T) {
	input := "@good\nACGT\n+\nIIII\n@bad\n\n+\n\n@good2\nTTTT\n+\nJJJJ\n"
	opts := DefaultOptions()
	opts.ParsingStrategy = StrategyStateMachine

	p, err := ParseString(input, opts)
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}

	rec, err := p.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if rec.ID != "good" {
		t.Fatalf("ID = %q, want good", rec.ID)
	}

	if _, err := p.Next(); err == nil {
		t.Fatal("expected validation to terminate the sequence on the bad record")
	}
}

func TestParserFromReader(t *testing.T) {
	p, err := Parse(strings.NewReader("@r1\nACGT\n+\nIIII\n"), DefaultOptions())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	rec, err := p.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if rec.ID != "r1" {
		t.Errorf("ID = %q, want r1", rec.ID)
	}
}

func TestParserResetMetrics(t *testing.T) {
	p, err := ParseString("@r1\nACGT\n+\nIIII\n", DefaultOptions())
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}
	if _, err := p.Next(); err != nil {
		t.Fatalf("Next: %v", err)
	}
	p.ResetMetrics()
	if p.Metrics().TotalRecords != 0 {
		t.Error("expected metrics to be reset")
	}
}
