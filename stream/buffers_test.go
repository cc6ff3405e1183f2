package stream

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAddSnapshotAppendsToEveryStream(t *testing.T) {
	var buf Buffers

	buf.AddSnapshot(1000, []uint32{1, 2}, []int64{100, 200}, []int64{5, 6}, []byte("m1"))
	buf.AddSnapshot(1001, []uint32{3}, []int64{300}, []int64{7}, nil)

	assert.Equal(t, []int64{1000, 1001}, buf.Time)
	assert.Equal(t, []int64{2, 1}, buf.SnapshotLen)
	assert.Equal(t, []int64{1, 2, 3}, buf.ItemID)
	assert.Equal(t, []int64{100, 200, 300}, buf.Value)
	assert.Equal(t, []int64{5, 6, 7}, buf.Quantity)
	assert.Equal(t, [][]byte{[]byte("m1"), nil}, buf.Meta)
}

func TestAddSnapshotKeepsItemColumnLengthsSummedToSnapshotLen(t *testing.T) {
	var buf Buffers

	buf.AddSnapshot(1, []uint32{1, 2, 3}, []int64{1, 2, 3}, []int64{1, 2, 3}, nil)
	buf.AddSnapshot(2, nil, nil, nil, nil)
	buf.AddSnapshot(3, []uint32{9}, []int64{9}, []int64{9}, nil)

	sum := int64(0)
	for _, n := range buf.SnapshotLen {
		sum += n
	}
	assert.EqualValues(t, sum, len(buf.ItemID))
	assert.EqualValues(t, sum, len(buf.Value))
	assert.EqualValues(t, sum, len(buf.Quantity))
}

func TestAddSnapshotKeepsTimeAndSnapshotLenSameLength(t *testing.T) {
	var buf Buffers

	buf.AddSnapshot(1, []uint32{1}, []int64{1}, []int64{1}, nil)
	buf.AddSnapshot(2, []uint32{2, 3}, []int64{2, 3}, []int64{2, 3}, nil)

	assert.Equal(t, len(buf.Time), len(buf.SnapshotLen))
}
