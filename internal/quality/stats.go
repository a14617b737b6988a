package quality

import (
	"fmt"
	"math"
	"sort"
)

// Stats is a summary of the numeric quality scores of a single read,
// computed in a single sorting pass.
type Stats struct {
	Count  int
	Mean   float64
	Min    int
	Max    int
	Median float64
	Q1     float64
	Q3     float64
	StdDev float64
	BelowN int // count of scores below the threshold used to compute it
}

// errorProbs caches 10^(-Q/10) for every Phred score likely to appear.
var errorProbs [256]float64

func init() {
	for q := range errorProbs {
		errorProbs[q] = math.Pow(10, float64(-q)/10)
	}
}

// ErrorProbability converts a Phred score into its base-call error
// probability p = 10^(-Q/10).
func ErrorProbability(score int) float64 {
	if score >= 0 && score < len(errorProbs) {
		return errorProbs[score]
	}
	return math.Pow(10, float64(-score)/10)
}

// InvalidProbabilityError is returned by ProbabilityToScore when p is
// outside (0,1].
type InvalidProbabilityError struct {
	P float64
}

func (e *InvalidProbabilityError) Error() string {
	return fmt.Sprintf("quality: probability %v must be in (0,1]", e.P)
}

// ProbabilityToScore computes Q = -10*log10(p), the inverse of
// ErrorProbability.
func ProbabilityToScore(p float64) (float64, error) {
	if p <= 0 || p > 1 {
		return 0, &InvalidProbabilityError{P: p}
	}
	return -10 * math.Log10(p), nil
}

// ComputeStats computes mean/min/max/median/Q1/Q3/stdDev for a slice of
// scores, tolerating empty input by returning a zero-initialized result.
// belowThreshold, when non-nil, also counts scores strictly below *belowThreshold.
func ComputeStats(scores []int, belowThreshold *int) Stats {
	if len(scores) == 0 {
		return Stats{}
	}

	sum := 0
	min, max := scores[0], scores[0]
	belowCount := 0
	for _, s := range scores {
		sum += s
		if s < min {
			min = s
		}
		if s > max {
			max = s
		}
		if belowThreshold != nil && s < *belowThreshold {
			belowCount++
		}
	}
	mean := float64(sum) / float64(len(scores))

	sorted := make([]int, len(scores))
	copy(sorted, scores)
	sort.Ints(sorted)

	median := percentile(sorted, 0.5)
	q1 := percentile(sorted, 0.25)
	q3 := percentile(sorted, 0.75)

	var variance float64
	for _, s := range scores {
		d := float64(s) - mean
		variance += d * d
	}
	variance /= float64(len(scores))

	return Stats{
		Count:  len(scores),
		Mean:   mean,
		Min:    min,
		Max:    max,
		Median: median,
		Q1:     q1,
		Q3:     q3,
		StdDev: math.Sqrt(variance),
		BelowN: belowCount,
	}
}

// percentile computes a linear-interpolated percentile over an
// already-sorted slice.
func percentile(sorted []int, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if len(sorted) == 1 {
		return float64(sorted[0])
	}
	idx := p * float64(len(sorted)-1)
	lo := int(math.Floor(idx))
	hi := int(math.Ceil(idx))
	if lo == hi {
		return float64(sorted[lo])
	}
	frac := idx - float64(lo)
	return float64(sorted[lo])*(1-frac) + float64(sorted[hi])*frac
}

// Window is one overlapping window reported by WindowedAnalysis.
type Window struct {
	Start int
	End   int // exclusive
	Mean  float64
	Min   int
	Max   int
}

// WindowedAnalysis slides a window of size w over scores, producing
// max(0, n-w+1) overlapping windows. w is clamped to [5, min(100, n)].
func WindowedAnalysis(scores []int, w int) []Window {
	n := len(scores)
	if n == 0 {
		return nil
	}

	upper := 100
	if n < upper {
		upper = n
	}
	if w < 5 {
		w = 5
	}
	if w > upper {
		w = upper
	}
	if w > n {
		return nil
	}

	count := n - w + 1
	if count <= 0 {
		return nil
	}

	windows := make([]Window, count)
	for start := 0; start < count; start++ {
		end := start + w
		sum := 0
		min, max := scores[start], scores[start]
		for _, s := range scores[start:end] {
			sum += s
			if s < min {
				min = s
			}
			if s > max {
				max = s
			}
		}
		windows[start] = Window{
			Start: start,
			End:   end,
			Mean:  float64(sum) / float64(w),
			Min:   min,
			Max:   max,
		}
	}
	return windows
}

// Trim is a suggested quality-trimming region.
type Trim struct {
	Start     int
	End       int // exclusive
	NewLength int
	MeanAfter float64
}

// SuggestTrim scans from each end of scores inward to the first score
// at or above threshold, reporting the retained region. It fails (ok=false)
// when the retained region would be shorter than minLength.
func SuggestTrim(scores []int, threshold, minLength int) (Trim, bool) {
	n := len(scores)
	start := 0
	for start < n && scores[start] < threshold {
		start++
	}
	end := n
	for end > start && scores[end-1] < threshold {
		end--
	}

	if end-start < minLength {
		return Trim{}, false
	}

	sum := 0
	for _, s := range scores[start:end] {
		sum += s
	}
	newLen := end - start
	return Trim{
		Start:     start,
		End:       end,
		NewLength: newLen,
		MeanAfter: float64(sum) / float64(newLen),
	}, true
}
