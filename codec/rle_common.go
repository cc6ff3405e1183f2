package codec

import (
	"github.com/shiloren/gics/errs"
	"github.com/shiloren/gics/format"
	"github.com/shiloren/gics/varint"
)

// encodeRuns writes values as (count, value) varint pairs, splitting any
// run longer than format.MaxRLERun. Shared by RLE_ZIGZAG and the
// delta-of-delta tail of RLE_DoD.
func encodeRuns(dst []byte, values []int64, maxRun int) []byte {
	n := len(values)
	for i := 0; i < n; {
		v := values[i]
		j := i + 1
		for j < n && values[j] == v && j-i < maxRun {
			j++
		}
		run := j - i

		dst = varint.PutUvarint(dst, uint64(run))
		dst = varint.PutVarintZigzag(dst, v)
		i = j
	}

	return dst
}

// decodeRuns reads (count, value) pairs from src until exactly count
// values have been produced, returning them and the bytes consumed.
func decodeRuns(src []byte, count int) ([]int64, int, error) {
	out := make([]int64, 0, count)
	pos := 0

	for len(out) < count {
		run, n, err := varint.Uvarint(src[pos:])
		if err != nil {
			return nil, 0, err
		}
		pos += n

		v, n, err := varint.VarintZigzag(src[pos:])
		if err != nil {
			return nil, 0, err
		}
		pos += n

		if run > format.MaxRLERun {
			return nil, 0, errs.ErrRLERunTooLarge
		}
		if len(out)+int(run) > count {
			return nil, 0, errs.ErrVarintCountExceeded
		}
		for k := uint64(0); k < run; k++ {
			out = append(out, v)
		}
	}

	return out, pos, nil
}
