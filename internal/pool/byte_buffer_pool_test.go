package pool

import (
	"bytes"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewByteBuffer(t *testing.T) {
	bb := NewByteBuffer(1024)

	require.NotNil(t, bb)
	assert.Equal(t, 0, len(bb.B))
	assert.Equal(t, 1024, cap(bb.B))
}

func TestByteBuffer_Reset(t *testing.T) {
	bb := NewByteBuffer(BlockBufferDefaultSize)
	bb.MustWrite([]byte("some data"))
	originalCap := cap(bb.B)

	bb.Reset()

	assert.Equal(t, 0, len(bb.B))
	assert.Equal(t, originalCap, cap(bb.B))
}

func TestByteBuffer_MustWrite(t *testing.T) {
	bb := NewByteBuffer(BlockBufferDefaultSize)

	bb.MustWrite([]byte("hello"))
	bb.MustWrite([]byte(" world"))

	assert.Equal(t, []byte("hello world"), bb.Bytes())
}

func TestByteBuffer_Write(t *testing.T) {
	bb := NewByteBuffer(BlockBufferDefaultSize)

	n, err := bb.Write([]byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, 5, n)
}

func TestByteBuffer_WriteTo(t *testing.T) {
	bb := NewByteBuffer(BlockBufferDefaultSize)
	bb.MustWrite([]byte("segment payload"))

	var buf bytes.Buffer
	n, err := bb.WriteTo(&buf)

	require.NoError(t, err)
	assert.Equal(t, int64(15), n)
	assert.Equal(t, "segment payload", buf.String())
}

func TestByteBuffer_Grow_SufficientCapacity(t *testing.T) {
	bb := NewByteBuffer(BlockBufferDefaultSize)
	originalCap := cap(bb.B)

	bb.Grow(100)

	assert.Equal(t, originalCap, cap(bb.B))
}

func TestByteBuffer_Grow_ForcesReallocation(t *testing.T) {
	bb := NewByteBuffer(BlockBufferDefaultSize)
	bb.B = append(bb.B, make([]byte, BlockBufferDefaultSize)...)

	bb.Grow(4096)

	assert.GreaterOrEqual(t, cap(bb.B), BlockBufferDefaultSize+4096)
	assert.Equal(t, BlockBufferDefaultSize, len(bb.B))
}

func TestByteBuffer_Grow_PreservesData(t *testing.T) {
	bb := NewByteBuffer(BlockBufferDefaultSize)
	testData := []byte("block payload that must survive growth")
	bb.MustWrite(testData)

	bb.Grow(BlockBufferDefaultSize * 2)

	assert.Equal(t, testData, bb.Bytes())
}

func TestGetPutBlockBuffer(t *testing.T) {
	bb := GetBlockBuffer()
	require.NotNil(t, bb)
	assert.Equal(t, 0, bb.Len())

	bb.MustWrite([]byte("data"))
	PutBlockBuffer(bb)

	bb2 := GetBlockBuffer()
	assert.Equal(t, 0, bb2.Len(), "buffer from pool must come back reset")
	PutBlockBuffer(bb2)
}

func TestPutBlockBuffer_Nil(t *testing.T) {
	assert.NotPanics(t, func() {
		PutBlockBuffer(nil)
	})
}

func TestByteBufferPool_MaxThresholdDiscardsOversizedBuffers(t *testing.T) {
	p := NewByteBufferPool(1024, 4096)

	bb := p.Get()
	bb.Grow(10000)
	require.Greater(t, cap(bb.B), 4096)

	p.Put(bb)

	bb2 := p.Get()
	assert.LessOrEqual(t, cap(bb2.B), 4096*2)
}

func TestSegmentBuffer_DefaultSize(t *testing.T) {
	bb := GetSegmentBuffer()
	defer PutSegmentBuffer(bb)

	assert.GreaterOrEqual(t, cap(bb.B), SegmentBufferDefaultSize)
}

func TestPool_ConcurrentAccess(t *testing.T) {
	const goroutines = 32
	const iterations = 200

	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < iterations; j++ {
				bb := GetBlockBuffer()
				bb.MustWrite([]byte("data"))
				PutBlockBuffer(bb)
			}
		}()
	}
	wg.Wait()
}
