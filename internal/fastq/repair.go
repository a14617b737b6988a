package fastq

import (
	"io"
	"strings"

	"github.com/klauspost/compress/zstd"
	"phredkit/internal/quality"
)

// UnpairedPolicy selects how the repair engine disposes of records that
// never found a mate by the time their source stream is exhausted.
type UnpairedPolicy int

const (
	UnpairedWarn UnpairedPolicy = iota
	UnpairedSkip
	UnpairedError
)

// defaultMaxBufferSize is the pair-repair engine's default bound on total
// buffered (unmatched) records across both sides.
const defaultMaxBufferSize = 100_000

// bufferWarningFraction is the fraction of maxBufferSize at which a single
// warning fires.
const bufferWarningFraction = 0.8

// RepairOptions configures a RepairEngine.
type RepairOptions struct {
	MaxBufferSize   int
	UnpairedPolicy  UnpairedPolicy
	BaseIDExtractor BaseIDExtractor
	// CompressBuffer zstd-compresses each buffered (unmatched) record's
	// sequence+quality payload in place, trading CPU for memory on a
	// severely shuffled input with a long matching horizon.
	CompressBuffer bool
	OnWarning      func(Warning)
}

// DefaultRepairOptions returns the documented defaults: a 100,000-record
// buffer cap, warn-and-yield unpaired disposal, and no compression.
func DefaultRepairOptions() RepairOptions {
	return RepairOptions{
		MaxBufferSize:   defaultMaxBufferSize,
		UnpairedPolicy:  UnpairedWarn,
		BaseIDExtractor: DefaultBaseIDExtractor,
	}
}

// bufferedRecord holds one unmatched mate, optionally zstd-compressed.
type bufferedRecord struct {
	id          string
	description string
	lineNumber  int
	enc         quality.Encoding
	plain       *Record
	compressed  []byte
}

// RepairEngine matches mates across one or two streams whose relative
// order has been shuffled, buffering each unmatched record under its
// base ID until its mate arrives or the stream(s) exhaust.
type RepairEngine struct {
	opts     RepairOptions
	buf1     map[string]*bufferedRecord
	buf2     map[string]*bufferedRecord
	encoder  *zstd.Encoder
	decoder  *zstd.Decoder
	warned80 bool
}

// NewRepairEngine constructs a RepairEngine, lazily building a zstd
// encoder/decoder pair only when CompressBuffer is set.
func NewRepairEngine(opts RepairOptions) (*RepairEngine, error) {
	if opts.MaxBufferSize <= 0 {
		opts.MaxBufferSize = defaultMaxBufferSize
	}
	if opts.BaseIDExtractor == nil {
		opts.BaseIDExtractor = DefaultBaseIDExtractor
	}
	eng := &RepairEngine{
		opts: opts,
		buf1: make(map[string]*bufferedRecord),
		buf2: make(map[string]*bufferedRecord),
	}
	if opts.CompressBuffer {
		enc, err := zstd.NewWriter(nil)
		if err != nil {
			return nil, err
		}
		dec, err := zstd.NewReader(nil)
		if err != nil {
			return nil, err
		}
		eng.encoder = enc
		eng.decoder = dec
	}
	return eng, nil
}

func (e *RepairEngine) bufferedCount() int {
	return len(e.buf1) + len(e.buf2)
}

func (e *RepairEngine) pack(rec *Record) *bufferedRecord {
	br := &bufferedRecord{
		id: rec.ID, description: rec.Description,
		lineNumber: rec.LineNumber, enc: rec.Encoding,
	}
	if e.opts.CompressBuffer {
		payload := rec.Sequence + "\x00" + rec.Quality
		br.compressed = e.encoder.EncodeAll([]byte(payload), nil)
	} else {
		br.plain = rec
	}
	return br
}

func (e *RepairEngine) unpack(br *bufferedRecord) (*Record, error) {
	if br.plain != nil {
		return br.plain, nil
	}
	raw, err := e.decoder.DecodeAll(br.compressed, nil)
	if err != nil {
		return nil, err
	}
	parts := strings.SplitN(string(raw), "\x00", 2)
	return &Record{
		ID: br.id, Description: br.description,
		Sequence: parts[0], Quality: parts[1],
		Encoding: br.enc, LineNumber: br.lineNumber,
	}, nil
}

// insert stores rec in side's buffer under baseID, enforcing the bounded
// memory contract: a warning at 80% of the cap, a MemoryError past it.
func (e *RepairEngine) insert(side map[string]*bufferedRecord, baseID string, rec *Record) error {
	side[baseID] = e.pack(rec)

	n := e.bufferedCount()
	limit := e.opts.MaxBufferSize
	if n > limit {
		return &MemoryError{BufferSize: n, Limit: limit}
	}
	if !e.warned80 && float64(n) >= float64(limit)*bufferWarningFraction {
		e.warned80 = true
		if e.opts.OnWarning != nil {
			e.opts.OnWarning(Warning{Message: "pair-repair buffer at 80% of maxBufferSize", Severity: SeverityMedium})
		}
	}
	return nil
}

// RepairDualStream matches mates across two independent, possibly
// shuffled, streams. It returns every matched pair in "r1,r2,r1,r2,..."
// order as they are found, plus the leftover unpaired records disposed
// per opts.UnpairedPolicy. It collects the full result in memory; callers
// that need bounded memory end to end should use RepairDualStreamFunc
// instead, which this is built on top of.
func (e *RepairEngine) RepairDualStream(r1, r2 *Parser) ([]*Pair, error) {
	var pairs []*Pair
	err := e.RepairDualStreamFunc(r1, r2, func(p *Pair) error {
		pairs = append(pairs, p)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return pairs, nil
}

// RepairDualStreamFunc is the streaming form of RepairDualStream: yield is
// called once per matched or disposed-unpaired pair as soon as it is
// known, so a caller writing each pair straight to disk never holds more
// than opts.MaxBufferSize records in memory at once.
func (e *RepairEngine) RepairDualStreamFunc(r1, r2 *Parser, yield func(*Pair) error) error {
	// Alternate a single record from each side so lockstep inputs match
	// immediately without filling both buffers first.
	for {
		rec1, err1 := r1.Next()
		rec2, err2 := r2.Next()
		if err1 != nil && err1 != io.EOF {
			return err1
		}
		if err2 != nil && err2 != io.EOF {
			return err2
		}
		done1, done2 := err1 != nil, err2 != nil

		if !done1 {
			base := e.opts.BaseIDExtractor(rec1.ID)
			if mate, ok := e.buf2[base]; ok {
				delete(e.buf2, base)
				mateRec, uerr := e.unpack(mate)
				if uerr != nil {
					return uerr
				}
				if err := yield(&Pair{R1: rec1, R2: mateRec, TotalLength: rec1.Length() + mateRec.Length()}); err != nil {
					return err
				}
			} else if err := e.insert(e.buf1, base, rec1); err != nil {
				return err
			}
		}
		if !done2 {
			base := e.opts.BaseIDExtractor(rec2.ID)
			if mate, ok := e.buf1[base]; ok {
				delete(e.buf1, base)
				mateRec, uerr := e.unpack(mate)
				if uerr != nil {
					return uerr
				}
				if err := yield(&Pair{R1: mateRec, R2: rec2, TotalLength: mateRec.Length() + rec2.Length()}); err != nil {
					return err
				}
			} else if err := e.insert(e.buf2, base, rec2); err != nil {
				return err
			}
		}
		if done1 && done2 {
			break
		}
	}

	unpaired, err := e.disposeUnpaired()
	if err != nil {
		return err
	}
	for _, rec := range unpaired {
		if err := yield(&Pair{R1: rec, TotalLength: rec.Length()}); err != nil {
			return err
		}
	}
	return nil
}

// disposeUnpaired drains any leftover buffered records per the configured
// UnpairedPolicy once both sources are exhausted.
func (e *RepairEngine) disposeUnpaired() ([]*Record, error) {
	var leftover []*bufferedRecord
	for _, br := range e.buf1 {
		leftover = append(leftover, br)
	}
	for _, br := range e.buf2 {
		leftover = append(leftover, br)
	}
	e.buf1 = make(map[string]*bufferedRecord)
	e.buf2 = make(map[string]*bufferedRecord)

	if len(leftover) == 0 {
		return nil, nil
	}

	switch e.opts.UnpairedPolicy {
	case UnpairedError:
		return nil, &PairSyncError{Reason: "unpaired records remained after both streams exhausted"}
	case UnpairedSkip:
		return nil, nil
	default: // UnpairedWarn
		var out []*Record
		for _, br := range leftover {
			rec, err := e.unpack(br)
			if err != nil {
				return nil, err
			}
			if e.opts.OnWarning != nil {
				e.opts.OnWarning(Warning{Message: "unpaired record " + rec.ID + " yielded without a mate", Severity: SeverityMedium})
			}
			out = append(out, rec)
		}
		return out, nil
	}
}

// classifyMate guesses whether rec is R1 or R2 for single-stream repair:
// by suffix first, then by which side's buffer already holds its base ID,
// defaulting to R1 when neither signal applies.
func classifyMate(rec *Record, baseID string, buf1, buf2 map[string]*bufferedRecord) bool {
	if strings.HasSuffix(rec.ID, "/1") || strings.HasSuffix(rec.ID, "_1") || strings.HasSuffix(rec.ID, ".1") {
		return true
	}
	if strings.HasSuffix(rec.ID, "/2") || strings.HasSuffix(rec.ID, "_2") || strings.HasSuffix(rec.ID, ".2") {
		return false
	}
	if _, ok := buf2[baseID]; ok {
		return true
	}
	if _, ok := buf1[baseID]; ok {
		return false
	}
	return true
}

// RepairSingleStream matches mates interleaved arbitrarily within one
// stream, classifying each record as R1 or R2 via classifyMate.
func (e *RepairEngine) RepairSingleStream(r *Parser) ([]*Pair, error) {
	var pairs []*Pair
	err := e.RepairSingleStreamFunc(r, func(p *Pair) error {
		pairs = append(pairs, p)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return pairs, nil
}

// RepairSingleStreamFunc is the streaming form of RepairSingleStream; see
// RepairDualStreamFunc for the bounded-memory rationale.
func (e *RepairEngine) RepairSingleStreamFunc(r *Parser, yield func(*Pair) error) error {
	for {
		rec, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		base := e.opts.BaseIDExtractor(rec.ID)
		isR1 := classifyMate(rec, base, e.buf1, e.buf2)

		own, other := e.buf1, e.buf2
		if !isR1 {
			own, other = e.buf2, e.buf1
		}

		if mate, ok := other[base]; ok {
			delete(other, base)
			mateRec, uerr := e.unpack(mate)
			if uerr != nil {
				return uerr
			}
			var p *Pair
			if isR1 {
				p = &Pair{R1: rec, R2: mateRec, TotalLength: rec.Length() + mateRec.Length()}
			} else {
				p = &Pair{R1: mateRec, R2: rec, TotalLength: mateRec.Length() + rec.Length()}
			}
			if err := yield(p); err != nil {
				return err
			}
			continue
		}
		if err := e.insert(own, base, rec); err != nil {
			return err
		}
	}

	unpaired, err := e.disposeUnpaired()
	if err != nil {
		return err
	}
	for _, rec := range unpaired {
		if err := yield(&Pair{R1: rec, TotalLength: rec.Length()}); err != nil {
			return err
		}
	}
	return nil
}
