package quality

import "fmt"

// UnknownEncodingError is returned when a quality sample contains ASCII
// bytes no known encoding can represent.
type UnknownEncodingError struct {
	Max byte
}

func (e *UnknownEncodingError) Error() string {
	return fmt.Sprintf("quality: ASCII byte %d exceeds every known encoding's range", e.Max)
}

// DetectionResult is the outcome of detecting a quality encoding from
// sampled ASCII evidence.
type DetectionResult struct {
	Encoding   Encoding
	Confidence float64
	Evidence   []string
}

// maxSampledRecords bounds how many records DetectStatistical will consume
// from a record stream before concluding.
const maxSampledRecords = 10000

// Detect infers the most likely quality encoding for a single quality
// string from its ASCII range, discarding confidence and evidence.
func Detect(s string) (Encoding, error) {
	res, err := DetectWithConfidence(s)
	if err != nil {
		return 0, err
	}
	return res.Encoding, nil
}

// DetectWithConfidence runs the ordered evidence rules against a single
// quality string's ASCII min/max.
func DetectWithConfidence(s string) (DetectionResult, error) {
	if len(s) == 0 {
		return DetectionResult{Encoding: Phred33, Confidence: 0.5, Evidence: []string{"empty sample, defaulting"}}, nil
	}
	min, max := MinMax(s)
	return detectFromRange(min, max)
}

func detectFromRange(min, max byte) (DetectionResult, error) {
	if max > 126 {
		return DetectionResult{}, &UnknownEncodingError{Max: max}
	}

	switch {
	case min < 59:
		return DetectionResult{
			Encoding:   Phred33,
			Confidence: 0.95,
			Evidence:   []string{fmt.Sprintf("min ASCII %d < 59 is exclusive to Phred+33", min)},
		}, nil
	case min >= 59 && min < 64:
		return DetectionResult{
			Encoding:   Solexa64,
			Confidence: 0.75,
			Evidence:   []string{fmt.Sprintf("min ASCII %d in [59,64) matches Solexa only", min)},
		}, nil
	// Checked ahead of the broader Phred+64 band below: this range is a
	// strict subset of the Phred+64 band, so the narrower condition must
	// win or the branch would be unreachable.
	case min >= 70 && max <= 93 && int(max-min) <= 5:
		return DetectionResult{
			Encoding:   Phred33,
			Confidence: 0.9,
			Evidence:   []string{fmt.Sprintf("uniform high-quality range [%d,%d] matches NovaSeq-style Phred+33", min, max)},
		}, nil
	case min >= 64 && max <= 104:
		return DetectionResult{
			Encoding:   Phred64,
			Confidence: 0.85,
			Evidence:   []string{fmt.Sprintf("range [%d,%d] within Phred+64's typical band, no chars < 64", min, max)},
		}, nil
	default:
		return DetectionResult{
			Encoding:   Phred33,
			Confidence: 0.55,
			Evidence:   []string{"no conclusive evidence, defaulting to modern Phred+33 prevalence"},
		}, nil
	}
}

// RecordQualityProvider is the minimal surface DetectStatistical needs from
// a lazy record stream: each call to Next returns the next quality string
// and whether one was available.
type RecordQualityProvider interface {
	Next() (quality string, ok bool)
}

// DetectStatistical aggregates ASCII evidence across up to maxSampledRecords
// records from a stream, tracking the fraction of characters below 64 and
// above 93. Conclusive evidence (any character below 59) yields confidence
// 1.0.
func DetectStatistical(records RecordQualityProvider) (DetectionResult, error) {
	var (
		globalMin byte = 255
		globalMax byte = 0
		total     int64
		below64   int64
		above93   int64
		sampled   int
		sawAny    bool
	)

	for sampled < maxSampledRecords {
		q, ok := records.Next()
		if !ok {
			break
		}
		sampled++
		if len(q) == 0 {
			continue
		}
		sawAny = true
		for i := 0; i < len(q); i++ {
			ch := q[i]
			total++
			if ch < globalMin {
				globalMin = ch
			}
			if ch > globalMax {
				globalMax = ch
			}
			if ch < 64 {
				below64++
			}
			if ch > 93 {
				above93++
			}
		}
	}

	if !sawAny {
		return DetectionResult{Encoding: Phred33, Confidence: 0.5, Evidence: []string{"empty stream, defaulting"}}, nil
	}

	if globalMin < 59 {
		fracBelow64 := float64(below64) / float64(total)
		return DetectionResult{
			Encoding:   Phred33,
			Confidence: 1.0,
			Evidence: []string{
				fmt.Sprintf("sampled %d records, min ASCII %d < 59 is conclusive for Phred+33", sampled, globalMin),
				fmt.Sprintf("fraction below 64: %.4f", fracBelow64),
			},
		}, nil
	}

	res, err := detectFromRange(globalMin, globalMax)
	if err != nil {
		return DetectionResult{}, err
	}
	res.Evidence = append(res.Evidence, fmt.Sprintf("sampled %d records, fraction above 93: %.4f",
		sampled, float64(above93)/float64(total)))
	return res, nil
}
