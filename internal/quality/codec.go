package quality

import "fmt"

// InvalidCharacterError is returned by CharToScore when an ASCII byte falls
// outside an encoding's valid character range.
type InvalidCharacterError struct {
	Char     byte
	Encoding Encoding
}

func (e *InvalidCharacterError) Error() string {
	min, max := e.Encoding.ASCIIRange()
	return fmt.Sprintf("quality: character %q (ASCII %d) out of range [%d,%d] for %s",
		e.Char, e.Char, min, max, e.Encoding)
}

// OutOfRangeError is returned by ScoreToChar when a numeric score falls
// outside an encoding's valid score range.
type OutOfRangeError struct {
	Score    int
	Encoding Encoding
}

func (e *OutOfRangeError) Error() string {
	min, max := e.Encoding.ScoreRange()
	return fmt.Sprintf("quality: score %d out of range [%d,%d] for %s", e.Score, min, max, e.Encoding)
}

// CharToScore decodes a single ASCII quality character into its numeric
// score under enc, failing when the character lies outside the encoding's
// ASCII range.
func CharToScore(ch byte, enc Encoding) (int, error) {
	min, max := enc.ASCIIRange()
	if int(ch) < min || int(ch) > max {
		return 0, &InvalidCharacterError{Char: ch, Encoding: enc}
	}
	return int(ch) - enc.Offset(), nil
}

// ScoreToChar encodes a numeric score back into its ASCII quality
// character under enc, failing when the score lies outside the encoding's
// score range.
func ScoreToChar(score int, enc Encoding) (byte, error) {
	min, max := enc.ScoreRange()
	if score < min || score > max {
		return 0, &OutOfRangeError{Score: score, Encoding: enc}
	}
	return byte(score + enc.Offset()), nil
}

// QualityToScores decodes an entire quality string into per-base numeric
// scores. Empty input returns an empty, non-nil slice without error.
func QualityToScores(s string, enc Encoding) ([]int, error) {
	if len(s) == 0 {
		return []int{}, nil
	}
	scores := make([]int, len(s))
	for i := 0; i < len(s); i++ {
		score, err := CharToScore(s[i], enc)
		if err != nil {
			return nil, err
		}
		scores[i] = score
	}
	return scores, nil
}

// ScoresToQuality encodes per-base numeric scores back into an ASCII
// quality string.
func ScoresToQuality(scores []int, enc Encoding) (string, error) {
	if len(scores) == 0 {
		return "", nil
	}
	buf := make([]byte, len(scores))
	for i, score := range scores {
		ch, err := ScoreToChar(score, enc)
		if err != nil {
			return "", err
		}
		buf[i] = ch
	}
	return string(buf), nil
}

// MinMax computes the minimum and maximum ASCII byte values present in a
// quality string in a single scan, without allocating an intermediate score
// array. Used by the encoding detector.
func MinMax(s string) (min, max byte) {
	if len(s) == 0 {
		return 0, 0
	}
	min, max = s[0], s[0]
	for i := 1; i < len(s); i++ {
		if s[i] < min {
			min = s[i]
		}
		if s[i] > max {
			max = s[i]
		}
	}
	return min, max
}

// ConvertQuality re-encodes a quality string from one encoding to another.
//
// ConvertQuality(s, e, e) is always the identity. When from's range is a
// subset of to's, the conversion is exact offset arithmetic; otherwise
// scores outside to's range are clamped to to's nearest valid bound. This
// is documented lossy behavior — callers who need loss-free conversion
// should inspect MinMax beforehand against to's score range.
func ConvertQuality(s string, from, to Encoding) (string, error) {
	if from == to {
		return s, nil
	}
	if len(s) == 0 {
		return "", nil
	}

	toMin, toMax := to.ScoreRange()
	buf := make([]byte, len(s))

	// Solexa and Phred+64 share offset 64: when both the source and target
	// are offset-64 variants, a straight byte copy already carries the
	// right score, so only out-of-range clamping needs to run through
	// decode/encode.
	sameOffset := from.Offset() == to.Offset()

	for i := 0; i < len(s); i++ {
		var score int
		if sameOffset {
			score = int(s[i]) - from.Offset()
		} else {
			var err error
			score, err = CharToScore(s[i], from)
			if err != nil {
				return "", err
			}
		}

		if score < toMin {
			score = toMin
		} else if score > toMax {
			score = toMax
		}

		ch, err := ScoreToChar(score, to)
		if err != nil {
			return "", err
		}
		buf[i] = ch
	}
	return string(buf), nil
}
