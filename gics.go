// Package gics provides a columnar, adaptive compression format for
// time-series snapshots: a sequence of (timestamp, item-id -> {price,
// quantity}) records packed into a deterministic, verifiable,
// optionally-encrypted byte stream with per-block codec selection tuned
// to each stream's local data regime.
//
// # Basic usage
//
// Encoding a sequence of snapshots:
//
//	enc, _ := gics.NewEncoder(gics.Balanced()...)
//	for _, s := range snapshots {
//	    if err := enc.AddSnapshot(s); err != nil {
//	        log.Fatal(err)
//	    }
//	}
//	data, _ := enc.Finish()
//
// Decoding them back:
//
//	dec, _ := gics.NewDecoder(data)
//	snapshots, _ := dec.UnpackAll()
//
// For one-shot use, Pack and Unpack wrap the above in a single call.
//
// # Package structure
//
// This package provides convenient top-level wrappers around the
// encoder and decoder packages. For fine-grained control — custom
// codecs, shared dictionary contexts across files, segment-size tuning —
// use those packages directly.
package gics

import (
	"github.com/shiloren/gics/decoder"
	"github.com/shiloren/gics/encoder"
	"github.com/shiloren/gics/snapshot"
)

// Snapshot is one timestamped set of item records.
type Snapshot = snapshot.Snapshot

// Item is a single item's price/quantity pair within a Snapshot.
type Item = snapshot.Item

// Encoder ingests Snapshots and produces a GICS byte stream.
type Encoder = encoder.Encoder

// Decoder parses and reconstructs a GICS byte stream.
type Decoder = decoder.Decoder

// EncodeOption configures an Encoder.
type EncodeOption = encoder.Option

// DecodeOption configures a Decoder.
type DecodeOption = decoder.Option

// NewEncoder constructs an Encoder. See encoder.New for the full option
// set (WithPassword, WithSchema, WithOuterCodec, WithContextMode, ...).
func NewEncoder(opts ...EncodeOption) (*Encoder, error) {
	return encoder.New(opts...)
}

// NewDecoder parses data's header and returns a Decoder ready for
// Verify, UnpackAll or QueryRange.
func NewDecoder(data []byte, opts ...DecodeOption) (*Decoder, error) {
	return decoder.New(data, opts...)
}

// Balanced trades ratio against speed: Zstd level 3, 1000-item blocks.
func Balanced() []EncodeOption { return encoder.Balanced() }

// MaxRatio favors compression ratio over encode speed: level 9, 4000-item
// blocks.
func MaxRatio() []EncodeOption { return encoder.MaxRatio() }

// LowLatency favors encode speed over ratio: level 1, 512-item blocks.
func LowLatency() []EncodeOption { return encoder.LowLatency() }

// Pack is a one-shot convenience wrapper: encode snapshots and return the
// finished byte stream. Equivalent to constructing an Encoder, calling
// AddSnapshot for each entry in order, and calling Finish.
func Pack(snapshots []Snapshot, opts ...EncodeOption) ([]byte, error) {
	enc, err := encoder.New(opts...)
	if err != nil {
		return nil, err
	}

	for _, s := range snapshots {
		if err := enc.AddSnapshot(s); err != nil {
			return nil, err
		}
	}

	return enc.Finish()
}

// Unpack is a one-shot convenience wrapper: parse data and decode every
// snapshot it contains. Equivalent to constructing a Decoder and calling
// UnpackAll.
func Unpack(data []byte, opts ...DecodeOption) ([]Snapshot, error) {
	dec, err := decoder.New(data, opts...)
	if err != nil {
		return nil, err
	}

	return dec.UnpackAll()
}
