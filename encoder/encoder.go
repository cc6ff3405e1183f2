// Package encoder implements the GICS encoder driver: ingest snapshots,
// project them into columnar buffers, flush blocks into segments, and
// finalize a verifiable, optionally encrypted byte stream.
package encoder

import (
	"crypto/rand"
	"sort"

	"github.com/shiloren/gics/compress"
	"github.com/shiloren/gics/errs"
	"github.com/shiloren/gics/format"
	"github.com/shiloren/gics/integrity"
	"github.com/shiloren/gics/internal/options"
	"github.com/shiloren/gics/internal/pool"
	"github.com/shiloren/gics/seccrypto"
	"github.com/shiloren/gics/section"
	"github.com/shiloren/gics/snapshot"
	"github.com/shiloren/gics/stream"
)

// Encoder ingests a sequence of Snapshots and produces a GICS byte stream.
// An Encoder is not safe for concurrent use and is poisoned by the first
// error any of its methods returns: every subsequent call returns that
// same error without attempting further work.
type Encoder struct {
	opts    Options
	buf     stream.Buffers
	builder *stream.Builder
	chain   *integrity.Chain
	out     *pool.ByteBuffer

	segIndex  uint64
	encrypted bool
	fileSalt  [16]byte
	key       []byte

	poisoned error
	finished bool
}

// New constructs an Encoder. Preset option slices (Balanced/MaxRatio/
// LowLatency) should be passed before caller-specific overrides, since
// options apply in order and a later option always wins over an earlier
// one setting the same field.
func New(opts ...Option) (*Encoder, error) {
	o := defaultOptions()
	if err := options.Apply(&o, opts...); err != nil {
		return nil, errs.Wrap(errs.KindGics, "invalid encoder options", err)
	}

	e := &Encoder{
		opts:    o,
		builder: stream.NewBuilder(o.Dict, o.ContextMode == format.ContextOn, o.ProbeInterval, o.BlockSize),
		chain:   integrity.NewChain(),
		out:     pool.NewByteBuffer(pool.SegmentBufferDefaultSize),
	}

	if o.Password != "" {
		var salt [16]byte
		if _, err := rand.Read(salt[:]); err != nil {
			return nil, errs.Wrap(errs.KindGics, "failed to generate file salt", err)
		}
		e.fileSalt = salt
		e.key = seccrypto.DeriveKey(o.Password, salt[:])
		e.encrypted = true
	}

	e.out.MustWrite(e.buildHeader().Bytes())

	return e, nil
}

func (e *Encoder) buildHeader() *section.Header {
	h := &section.Header{Version: section.Version2}

	if e.opts.ContextMode == format.ContextOn && e.opts.ContextID != "" {
		h.Flags |= section.FlagContextEnabled
		h.ContextID = e.opts.ContextID
	}
	if e.encrypted {
		h.Flags |= section.FlagEncrypted
		h.FileSalt = e.fileSalt
		h.AuthVerify = integrity.AuthVerify(e.key)
		h.Version = section.Version3
	}
	if len(e.opts.Schema) > 0 {
		h.Flags |= section.FlagSchemaPresent
		h.Schema = e.opts.Schema
		h.Version = section.Version3
	}

	return h
}

// AddSnapshot projects s into the columnar buffers in ascending item-id
// order — not insertion order of the caller's map, whose Go iteration
// order is randomized — so that two encodes of the same logical input
// produce byte-identical output.
func (e *Encoder) AddSnapshot(s snapshot.Snapshot) error {
	if e.poisoned != nil {
		return e.poisoned
	}
	if e.finished {
		e.poisoned = errs.Wrap(errs.KindGics, "AddSnapshot called after Finish", nil)
		return e.poisoned
	}

	ids := make([]uint32, 0, len(s.Items))
	for id := range s.Items {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	prices := make([]int64, len(ids))
	quantities := make([]int64, len(ids))
	for i, id := range ids {
		item := s.Items[id]
		prices[i] = item.Price
		quantities[i] = item.Quantity
	}

	e.buf.AddSnapshot(s.Timestamp, ids, prices, quantities, nil)

	if e.pendingBytes() >= e.opts.SegmentSizeLimit {
		if err := e.flushSegment(); err != nil {
			e.poisoned = err
			return err
		}
	}

	return nil
}

func (e *Encoder) pendingBytes() int {
	return 8 * (len(e.buf.Time) + len(e.buf.SnapshotLen) + len(e.buf.ItemID) + len(e.buf.Value) + len(e.buf.Quantity))
}

// Flush closes the current segment early, even if SegmentSizeLimit hasn't
// been reached. Useful for streaming producers that want bounded latency
// between a snapshot arriving and it becoming durable.
func (e *Encoder) Flush() error {
	if e.poisoned != nil {
		return e.poisoned
	}
	if e.finished {
		e.poisoned = errs.Wrap(errs.KindGics, "Flush called after Finish", nil)
		return e.poisoned
	}

	if err := e.flushSegment(); err != nil {
		e.poisoned = err
		return err
	}

	return nil
}

func (e *Encoder) flushSegment() error {
	if e.pendingBytes() == 0 {
		return nil
	}

	segBuf := pool.GetSegmentBuffer()
	defer pool.PutSegmentBuffer(segBuf)

	e.builder.DrainAll(&e.buf, segBuf)
	uncompressed := segBuf.Bytes()

	if len(uncompressed) > format.MaxSegmentUncompressed {
		return errs.ErrSegmentTooLarge
	}

	codec, err := compress.GetWithLevel(e.opts.OuterCodec, e.opts.CompressionLevel)
	if err != nil {
		return errs.Wrap(errs.KindGics, "unsupported outer codec", err)
	}

	compressed, err := codec.Compress(uncompressed)
	if err != nil {
		return errs.Wrap(errs.KindGics, "outer compression failed", err)
	}

	data := compressed
	if e.encrypted {
		sealed, err := seccrypto.Seal(e.key, e.fileSalt[:], e.segIndex, seccrypto.SegmentAAD(e.segIndex, len(uncompressed)), compressed)
		if err != nil {
			return errs.Wrap(errs.KindGics, "segment encryption failed", err)
		}
		data = sealed
	}

	e.chain.Update(data)

	rec := section.SegmentRecord{
		UncompressedLen: uint32(len(uncompressed)),
		CompressedLen:   uint32(len(data)),
		Data:            data,
	}
	rec.CRC32 = integrity.CRC32(rec.CRCInput())
	e.out.MustWrite(rec.Bytes())

	e.opts.Logger.Debug().
		Uint64("segment_index", e.segIndex).
		Int("uncompressed_bytes", len(uncompressed)).
		Int("compressed_bytes", len(data)).
		Str("outer_codec", e.opts.OuterCodec.String()).
		Msg("segment flushed")

	e.segIndex++

	return nil
}

// Finish flushes any pending segment, writes the EOS record, and returns
// the complete encoded byte stream. Calling Finish more than once, or
// calling any method after Finish, returns an error.
func (e *Encoder) Finish() ([]byte, error) {
	if e.poisoned != nil {
		return nil, e.poisoned
	}
	if e.finished {
		e.poisoned = errs.Wrap(errs.KindGics, "Finish called more than once", nil)
		return nil, e.poisoned
	}

	if err := e.flushSegment(); err != nil {
		e.poisoned = err
		return nil, err
	}

	eos := section.EOS{SegmentCount: uint32(e.segIndex), Root: e.chain.Root()}
	e.out.MustWrite(eos.Bytes())
	e.finished = true

	out := make([]byte, e.out.Len())
	copy(out, e.out.Bytes())

	return out, nil
}
