package quality

import "testing"

func TestDetectWithConfidence(t *testing.T) {
	tests := []struct {
		name       string
		s          string
		wantEnc    Encoding
		minConf    float64
	}{
		{"sanger style", "!!!IIIII", Phred33, 0.95},
		{"phred64 style", "hhhhhhhh", Phred64, 0.85},
		{"solexa style", ";;;;;;hh", Solexa64, 0.75},
		{"novaseq uniform", "FFFKK", Phred33, 0.9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := DetectWithConfidence(tt.s)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if res.Encoding != tt.wantEnc {
				t.Errorf("Encoding = %v, want %v", res.Encoding, tt.wantEnc)
			}
			if res.Confidence < tt.minConf {
				t.Errorf("Confidence = %v, want >= %v", res.Confidence, tt.minConf)
			}
		})
	}
}

func TestDetectUnknownEncoding(t *testing.T) {
	_, err := DetectWithConfidence(string([]byte{200}))
	if err == nil {
		t.Fatal("expected UnknownEncodingError")
	}
	if _, ok := err.(*UnknownEncodingError); !ok {
		t.Fatalf("expected *UnknownEncodingError, got %T", err)
	}
}

type sliceProvider struct {
	quals []string
	i     int
}

func (p *sliceProvider) Next() (string, bool) {
	if p.i >= len(p.quals) {
		return "", false
	}
	q := p.quals[p.i]
	p.i++
	return q, true
}

func TestDetectStatisticalConclusive(t *testing.T) {
	p := &sliceProvider{quals: []string{"!!!!", "IIII", "####"}}
	res, err := DetectStatistical(p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Encoding != Phred33 {
		t.Errorf("Encoding = %v, want Phred33", res.Encoding)
	}
	if res.Confidence != 1.0 {
		t.Errorf("Confidence = %v, want 1.0", res.Confidence)
	}
}

func TestDetectStatisticalEmptyStream(t *testing.T) {
	p := &sliceProvider{}
	res, err := DetectStatistical(p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Encoding != Phred33 {
		t.Errorf("Encoding = %v, want Phred33 default", res.Encoding)
	}
}

func TestDetectStatisticalSampleCap(t *testing.T) {
	quals := make([]string, maxSampledRecords+500)
	for i := range quals {
		quals[i] = "hhhh"
	}
	p := &sliceProvider{quals: quals}
	res, err := DetectStatistical(p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Encoding != Phred64 {
		t.Errorf("Encoding = %v, want Phred64", res.Encoding)
	}
	if p.i != maxSampledRecords {
		t.Errorf("consumed %d records, want exactly %d (sampling cap)", p.i, maxSampledRecords)
	}
}
