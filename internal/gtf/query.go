package gtf

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/maruel/natural"
)

// region is a parsed "chr:start-end" genomic interval.
type region struct {
	seqname    string
	start, end int64
}

// Query is a lazy filter chain over a feature source. Filters compose by
// accumulating predicates; nothing runs until a terminal operation
// (Collect, Count, First) pulls from the underlying source.
type Query struct {
	next    func() (*Feature, error)
	filters []func(*Feature) bool
	err     error
}

// NewQuery wraps a Parser as a Query's feature source.
func NewQuery(p *Parser) *Query {
	return &Query{next: p.Next}
}

// NewQueryFromSlice wraps an already-collected feature slice as a Query's
// source, useful for re-querying a previously Collect-ed result.
func NewQueryFromSlice(features []*Feature) *Query {
	i := 0
	return &Query{next: func() (*Feature, error) {
		if i >= len(features) {
			return nil, errEOQ
		}
		f := features[i]
		i++
		return f, nil
	}}
}

// errEOQ is Query's internal end-of-source sentinel for slice-backed
// queries; parser-backed queries use io.EOF directly.
var errEOQ = errors.New("gtf: end of query source")

func isEOQ(err error) bool {
	return errors.Is(err, errEOQ) || errors.Is(err, io.EOF)
}

// Chromosome filters to features on the given seqname.
func (q *Query) Chromosome(name string) *Query {
	q.filters = append(q.filters, func(f *Feature) bool { return f.Seqname == name })
	return q
}

// FeatureType filters to features whose feature tag matches (e.g. "gene",
// "exon", "CDS").
func (q *Query) FeatureType(tag string) *Query {
	q.filters = append(q.filters, func(f *Feature) bool { return f.FeatureTag == tag })
	return q
}

// GeneType filters to features whose normalized gene type matches.
// Requires the source to have been parsed with Options.Normalize set.
func (q *Query) GeneType(geneType string) *Query {
	q.filters = append(q.filters, func(f *Feature) bool {
		return f.Normalized != nil && f.Normalized.GeneType == geneType
	})
	return q
}

// Region filters to features overlapping the "chr:start-end" interval
// expr. An invalid expr makes every subsequent terminal operation return
// the parse error.
func (q *Query) Region(expr string) *Query {
	r, err := parseRegion(expr)
	if err != nil {
		q.err = err
		return q
	}
	q.filters = append(q.filters, func(f *Feature) bool {
		return f.Seqname == r.seqname && f.Start <= r.end && f.End >= r.start
	})
	return q
}

func parseRegion(expr string) (region, error) {
	parts := strings.SplitN(expr, ":", 2)
	if len(parts) != 2 {
		return region{}, fmt.Errorf("gtf: region %q must be of the form chr:start-end", expr)
	}
	bounds := strings.SplitN(parts[1], "-", 2)
	if len(bounds) != 2 {
		return region{}, fmt.Errorf("gtf: region %q must be of the form chr:start-end", expr)
	}
	start, err := strconv.ParseInt(bounds[0], 10, 64)
	if err != nil {
		return region{}, fmt.Errorf("gtf: region %q has an invalid start", expr)
	}
	end, err := strconv.ParseInt(bounds[1], 10, 64)
	if err != nil {
		return region{}, fmt.Errorf("gtf: region %q has an invalid end", expr)
	}
	return region{seqname: parts[0], start: start, end: end}, nil
}

func (q *Query) matches(f *Feature) bool {
	for _, pred := range q.filters {
		if !pred(f) {
			return false
		}
	}
	return true
}

// Collect runs every filter to exhaustion and returns the matching
// features ordered by seqname (natural order, so "chr2" sorts before
// "chr10") and then by start coordinate.
func (q *Query) Collect() ([]*Feature, error) {
	if q.err != nil {
		return nil, q.err
	}
	var out []*Feature
	for {
		f, err := q.next()
		if err != nil {
			if isEOQ(err) {
				break
			}
			return nil, err
		}
		if q.matches(f) {
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Seqname != out[j].Seqname {
			return natural.Less(out[i].Seqname, out[j].Seqname)
		}
		return out[i].Start < out[j].Start
	})
	return out, nil
}

// Count runs every filter to exhaustion and returns the number of
// matching features without materializing them.
func (q *Query) Count() (int, error) {
	if q.err != nil {
		return 0, q.err
	}
	n := 0
	for {
		f, err := q.next()
		if err != nil {
			if isEOQ(err) {
				break
			}
			return 0, err
		}
		if q.matches(f) {
			n++
		}
	}
	return n, nil
}

// First returns the first matching feature in source order, or nil if
// none match. It stops pulling from the source as soon as a match is
// found.
func (q *Query) First() (*Feature, error) {
	if q.err != nil {
		return nil, q.err
	}
	for {
		f, err := q.next()
		if err != nil {
			if isEOQ(err) {
				return nil, nil
			}
			return nil, err
		}
		if q.matches(f) {
			return f, nil
		}
	}
}
