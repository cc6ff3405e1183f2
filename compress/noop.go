package compress

import "github.com/shiloren/gics/format"

// noopCodec passes data through unchanged; used when the encoder is
// configured with OuterNone.
type noopCodec struct{}

func (noopCodec) ID() format.OuterCodec { return format.OuterNone }

func (noopCodec) Compress(data []byte) ([]byte, error) {
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

func (noopCodec) Decompress(data []byte, declaredUncompressedLen int) ([]byte, error) {
	if err := checkBomb(declaredUncompressedLen, len(data)); err != nil {
		return nil, err
	}

	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}
