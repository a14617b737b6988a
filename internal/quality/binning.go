package quality

import "fmt"

// BinCount is the number of representative bins a BinningStrategy collapses
// scores into.
type BinCount int

const (
	Bins2 BinCount = 2
	Bins3 BinCount = 3
	Bins5 BinCount = 5
)

// InvalidBoundariesError is returned when a BinningStrategy's boundaries are
// empty, non-ascending, or outside the encoding's score range.
type InvalidBoundariesError struct {
	Reason string
}

func (e *InvalidBoundariesError) Error() string {
	return "quality: invalid bin boundaries: " + e.Reason
}

// BinningStrategy collapses quality scores into a small number of
// representative bins. Boundaries must be strictly ascending and each must
// lie within the encoding's score range; representatives align 1:1 with
// bins.
type BinningStrategy struct {
	Bins            BinCount
	Boundaries      []int
	Representatives []int
	Encoding        Encoding
}

// NewBinningStrategy computes representatives for a set of boundaries and
// validates the result.
//
// Given boundaries b[0..k-1] for k+1 bins:
//
//	rep[0]   = floor(b[0]/2)
//	rep[i]   = floor((b[i-1]+b[i])/2)   for 1 <= i < k
//	rep[k]   = b[k-1] + 10
func NewBinningStrategy(bins BinCount, boundaries []int, enc Encoding) (*BinningStrategy, error) {
	if len(boundaries) != int(bins)-1 {
		return nil, &InvalidBoundariesError{Reason: fmt.Sprintf("expected %d boundaries for %d bins, got %d", int(bins)-1, bins, len(boundaries))}
	}
	if err := validateBoundaries(boundaries, enc); err != nil {
		return nil, err
	}

	k := len(boundaries)
	reps := make([]int, k+1)
	reps[0] = boundaries[0] / 2
	for i := 1; i < k; i++ {
		reps[i] = (boundaries[i-1] + boundaries[i]) / 2
	}
	reps[k] = boundaries[k-1] + 10

	return &BinningStrategy{
		Bins:            bins,
		Boundaries:      boundaries,
		Representatives: reps,
		Encoding:        enc,
	}, nil
}

func validateBoundaries(boundaries []int, enc Encoding) error {
	if len(boundaries) == 0 {
		return &InvalidBoundariesError{Reason: "empty"}
	}
	min, max := enc.ScoreRange()
	for i, b := range boundaries {
		if b < min || b > max {
			return &InvalidBoundariesError{Reason: fmt.Sprintf("boundary %d (%d) outside encoding range [%d,%d]", i, b, min, max)}
		}
		if i > 0 && b <= boundaries[i-1] {
			return &InvalidBoundariesError{Reason: "boundaries must be strictly ascending"}
		}
	}
	return nil
}

// binIndex returns which bin a raw score falls into given ascending
// boundaries.
func binIndex(score int, boundaries []int) int {
	for i, b := range boundaries {
		if score < b {
			return i
		}
	}
	return len(boundaries)
}

// Bin replaces each quality character in s by its bin's representative
// character. Binning is idempotent: Bin(Bin(s, strat), strat) == Bin(s, strat).
func (strat *BinningStrategy) Bin(s string) (string, error) {
	if len(s) == 0 {
		return "", nil
	}
	buf := make([]byte, len(s))
	for i := 0; i < len(s); i++ {
		score, err := CharToScore(s[i], strat.Encoding)
		if err != nil {
			return "", err
		}
		idx := binIndex(score, strat.Boundaries)
		ch, err := ScoreToChar(strat.Representatives[idx], strat.Encoding)
		if err != nil {
			return "", err
		}
		buf[i] = ch
	}
	return string(buf), nil
}

// Distribution counts how many characters of s fall into each bin.
func (strat *BinningStrategy) Distribution(s string) ([]int, error) {
	counts := make([]int, len(strat.Representatives))
	for i := 0; i < len(s); i++ {
		score, err := CharToScore(s[i], strat.Encoding)
		if err != nil {
			return nil, err
		}
		counts[binIndex(score, strat.Boundaries)]++
	}
	return counts, nil
}

// CompressionRatio is the ratio of unique characters in the original
// quality string to unique characters in the binned string, with 1.0
// returned when the denominator is zero.
func CompressionRatio(original, binned string) float64 {
	origUnique := uniqueCount(original)
	binnedUnique := uniqueCount(binned)
	if binnedUnique == 0 {
		return 1.0
	}
	return float64(origUnique) / float64(binnedUnique)
}

func uniqueCount(s string) int {
	seen := make(map[byte]struct{})
	for i := 0; i < len(s); i++ {
		seen[s[i]] = struct{}{}
	}
	return len(seen)
}

// Platform presets. Boundaries/representatives are expressed in raw Phred
// scores and assume Phred+33 quality strings, the universal modern
// convention for platform-specific binning presets.

// IlluminaPreset returns Illumina's standard binning boundaries for the
// requested bin count (2, 3, or 5 bins).
func IlluminaPreset(bins BinCount) (*BinningStrategy, error) {
	switch bins {
	case Bins2:
		return NewBinningStrategy(Bins2, []int{20}, Phred33)
	case Bins3:
		return NewBinningStrategy(Bins3, []int{10, 25}, Phred33)
	case Bins5:
		return NewBinningStrategy(Bins5, []int{6, 15, 22, 30}, Phred33)
	default:
		return nil, &InvalidBoundariesError{Reason: fmt.Sprintf("unsupported bin count %d for Illumina preset", bins)}
	}
}

// PacBioPreset returns PacBio's binning boundaries, tuned for its
// generally higher and more uniform per-base quality distribution.
func PacBioPreset(bins BinCount) (*BinningStrategy, error) {
	switch bins {
	case Bins2:
		return NewBinningStrategy(Bins2, []int{30}, Phred33)
	case Bins3:
		return NewBinningStrategy(Bins3, []int{20, 40}, Phred33)
	case Bins5:
		return NewBinningStrategy(Bins5, []int{15, 25, 35, 45}, Phred33)
	default:
		return nil, &InvalidBoundariesError{Reason: fmt.Sprintf("unsupported bin count %d for PacBio preset", bins)}
	}
}

// NanoporePreset returns Nanopore's binning boundaries, tuned for its
// broader and generally lower per-base quality distribution.
func NanoporePreset(bins BinCount) (*BinningStrategy, error) {
	switch bins {
	case Bins2:
		return NewBinningStrategy(Bins2, []int{10}, Phred33)
	case Bins3:
		return NewBinningStrategy(Bins3, []int{7, 15}, Phred33)
	case Bins5:
		return NewBinningStrategy(Bins5, []int{4, 8, 12, 18}, Phred33)
	default:
		return nil, &InvalidBoundariesError{Reason: fmt.Sprintf("unsupported bin count %d for Nanopore preset", bins)}
	}
}
