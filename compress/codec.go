// Package compress implements the outer, per-segment compression layer:
// NONE or Zstandard, applied after block assembly and before encryption.
package compress

import (
	"fmt"

	"github.com/shiloren/gics/errs"
	"github.com/shiloren/gics/format"
)

// Codec compresses and decompresses whole segment payloads.
type Codec interface {
	ID() format.OuterCodec
	Compress(data []byte) ([]byte, error)
	// Decompress expects declaredUncompressedLen from the segment record
	// so it can reject a decompression bomb before allocating the full
	// output buffer.
	Decompress(data []byte, declaredUncompressedLen int) ([]byte, error)
}

// Get returns the Codec for id.
func Get(id format.OuterCodec) (Codec, error) {
	switch id {
	case format.OuterNone:
		return noopCodec{}, nil
	case format.OuterZstd:
		return newZstdCodec(DefaultLevel), nil
	default:
		return nil, errs.Wrap(errs.KindGics, fmt.Sprintf("compress: unknown outer codec %v", id), nil)
	}
}

// zstdFrameMagic is the 4-byte little-endian magic number every Zstd
// frame starts with (RFC 8878 §3.1.1).
var zstdFrameMagic = []byte{0x28, 0xB5, 0x2F, 0xFD}

// Sniff identifies which outer codec produced data by content, since the
// segment record carries no codec id of its own: the container format
// stores only uncompressed/compressed lengths and the bytes themselves.
// A NONE-compressed segment whose first four bytes happen to collide
// with the Zstd magic number would be misidentified; in practice a
// block's first byte is always a format.StreamID value, and no four
// consecutive header/payload bytes plausibly reproduce the Zstd magic,
// so this is accepted as a theoretical, not practical, limitation.
func Sniff(data []byte) format.OuterCodec {
	if len(data) >= 4 && data[0] == zstdFrameMagic[0] && data[1] == zstdFrameMagic[1] &&
		data[2] == zstdFrameMagic[2] && data[3] == zstdFrameMagic[3] {
		return format.OuterZstd
	}

	return format.OuterNone
}

// GetWithLevel returns the Codec for id; for format.OuterZstd, level
// overrides DefaultLevel with the caller's configured compression level
// (1..22). Decompression is level-agnostic, so decoders can always use
// Get instead.
func GetWithLevel(id format.OuterCodec, level int) (Codec, error) {
	if id == format.OuterZstd {
		if level <= 0 {
			level = DefaultLevel
		}
		return newZstdCodec(level), nil
	}

	return Get(id)
}

// checkBomb enforces the decompression-bomb guard: a declared
// uncompressed length may not exceed 16x the compressed length plus 1MiB.
func checkBomb(declaredUncompressedLen, compressedLen int) error {
	bound := 16*compressedLen + 1*1024*1024
	if declaredUncompressedLen > bound {
		return errs.ErrDecompressionBomb
	}

	return nil
}
