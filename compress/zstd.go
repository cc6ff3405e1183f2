package compress

import (
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"

	"github.com/shiloren/gics/errs"
	"github.com/shiloren/gics/format"
)

// DefaultLevel is the default Zstd compression level used by the
// "balanced" encoder preset.
const DefaultLevel = 3

// zstdCodec wraps pooled klauspost/compress/zstd encoders and decoders:
// the library documents that decoders in particular are designed for
// reuse once warmed up, so a fresh one per call would throw that away.
type zstdCodec struct {
	level    zstd.EncoderLevel
	encoders sync.Pool
	decoders sync.Pool
}

func newZstdCodec(level int) *zstdCodec {
	c := &zstdCodec{level: zstd.EncoderLevelFromZstd(level)}

	c.encoders.New = func() any {
		enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(c.level))
		if err != nil {
			panic(fmt.Sprintf("compress: failed to create zstd encoder: %v", err))
		}
		return enc
	}
	c.decoders.New = func() any {
		dec, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(1))
		if err != nil {
			panic(fmt.Sprintf("compress: failed to create zstd decoder: %v", err))
		}
		return dec
	}

	return c
}

func (c *zstdCodec) ID() format.OuterCodec { return format.OuterZstd }

func (c *zstdCodec) Compress(data []byte) ([]byte, error) {
	enc := c.encoders.Get().(*zstd.Encoder)
	defer c.encoders.Put(enc)

	return enc.EncodeAll(data, nil), nil
}

func (c *zstdCodec) Decompress(data []byte, declaredUncompressedLen int) ([]byte, error) {
	if err := checkBomb(declaredUncompressedLen, len(data)); err != nil {
		return nil, err
	}

	dec := c.decoders.Get().(*zstd.Decoder)
	defer c.decoders.Put(dec)

	out, err := dec.DecodeAll(data, make([]byte, 0, declaredUncompressedLen))
	if err != nil {
		return nil, errs.Wrap(errs.KindIncompleteData, "zstd decompression failed", err)
	}

	return out, nil
}
