package codec

import (
	"github.com/shiloren/gics/dictctx"
	"github.com/shiloren/gics/errs"
	"github.com/shiloren/gics/format"
	"github.com/shiloren/gics/varint"
)

// DictVarintID is CodecDictVarint, exported here so callers that dispatch
// on codec id don't need to import format just for this one comparison.
const DictVarintID = format.CodecDictVarint

// EncodeDictVarint looks up each value in dict, emitting its symbol as a
// varint on a hit. On a miss it emits 0 followed by the raw zigzag+varint
// value and inserts the value into dict so later blocks (and the decoder,
// walking the same sequence) see it as a hit.
func EncodeDictVarint(dst []byte, values []int64, dict *dictctx.DictContext) []byte {
	for _, v := range values {
		if symbol, ok := dict.Lookup(v); ok {
			dst = varint.PutUvarint(dst, uint64(symbol))
			continue
		}

		dst = varint.PutUvarint(dst, 0)
		dst = varint.PutVarintZigzag(dst, v)
		dict.Insert(v)
	}

	return dst
}

// DecodeDictVarint reverses EncodeDictVarint, replaying the same
// insert-on-miss sequence against dict so the symbol table stays in sync
// with the encoder's.
func DecodeDictVarint(src []byte, count int, dict *dictctx.DictContext) ([]int64, int, error) {
	out := make([]int64, count)
	pos := 0

	for i := 0; i < count; i++ {
		symbol, n, err := varint.Uvarint(src[pos:])
		if err != nil {
			return nil, 0, err
		}
		pos += n

		if symbol == 0 {
			v, n, err := varint.VarintZigzag(src[pos:])
			if err != nil {
				return nil, 0, err
			}
			pos += n
			dict.Insert(v)
			out[i] = v
			continue
		}

		v, ok := dict.ValueOf(uint32(symbol))
		if !ok {
			return nil, 0, errs.Wrap(errs.KindIncompleteData, "dict_varint symbol has no assigned value", errs.ErrTruncatedVarint)
		}
		out[i] = v
	}

	return out, pos, nil
}
