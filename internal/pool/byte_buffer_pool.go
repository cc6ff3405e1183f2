// Package pool provides pooled byte buffers used to minimize allocations along
// the hot encode/decode path of the columnar codec.
package pool

import (
	"io"
	"sync"
)

// Default and threshold sizes for the two buffer pools used by the engine:
// per-block payload buffers (small, churn frequently) and per-segment
// assembly buffers (larger, hold many blocks before outer-compression).
const (
	BlockBufferDefaultSize   = 1024 * 4        // 4KiB
	BlockBufferMaxThreshold  = 1024 * 64       // 64KiB
	SegmentBufferDefaultSize = 1024 * 256      // 256KiB
	SegmentBufferMaxThreshold = 1024 * 1024 * 8 // 8MiB
)

// ByteBuffer is a growable []byte wrapper with amortized growth, used instead
// of bytes.Buffer to avoid its extra read-cursor bookkeeping on the write-only
// encode path.
type ByteBuffer struct {
	B []byte
}

// NewByteBuffer creates a new ByteBuffer with the specified default size.
func NewByteBuffer(defaultSize int) *ByteBuffer {
	return &ByteBuffer{
		B: make([]byte, 0, defaultSize),
	}
}

// Bytes returns the underlying byte slice.
func (bb *ByteBuffer) Bytes() []byte {
	return bb.B
}

// Reset resets the buffer to be empty, but retains the allocated memory for reuse.
func (bb *ByteBuffer) Reset() {
	bb.B = bb.B[:0]
}

// Len returns the length of the buffer.
func (bb *ByteBuffer) Len() int {
	return len(bb.B)
}

// Cap returns the capacity of the buffer.
func (bb *ByteBuffer) Cap() int {
	return cap(bb.B)
}

// MustWrite appends data to the buffer, growing it if necessary.
func (bb *ByteBuffer) MustWrite(data []byte) {
	bb.B = append(bb.B, data...)
}

// Grow ensures the buffer can hold requiredBytes more bytes without reallocating.
//
// Small buffers grow by a fixed default chunk to minimize reallocations while
// cold; once a buffer has grown past 4x that default, growth switches to 25%
// of current capacity so large segment buffers don't over-allocate.
func (bb *ByteBuffer) Grow(requiredBytes int) {
	available := cap(bb.B) - len(bb.B)
	if available >= requiredBytes {
		return
	}

	growBy := BlockBufferDefaultSize
	if cap(bb.B) > 4*BlockBufferDefaultSize {
		growBy = cap(bb.B) / 4
	}
	if growBy < requiredBytes {
		growBy = requiredBytes
	}

	newBuf := make([]byte, len(bb.B), len(bb.B)+growBy)
	copy(newBuf, bb.B)
	bb.B = newBuf
}

// Write appends the contents of data to the buffer, growing it as needed.
// It implements io.Writer.
func (bb *ByteBuffer) Write(data []byte) (int, error) {
	bb.B = append(bb.B, data...)
	return len(data), nil
}

// WriteTo writes the contents of the buffer to w. It implements io.WriterTo.
func (bb *ByteBuffer) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(bb.B)
	return int64(n), err
}

// ByteBufferPool is a sync.Pool of ByteBuffers with an optional size cap so
// pathologically large buffers don't get retained forever.
type ByteBufferPool struct {
	pool         sync.Pool
	maxThreshold int
}

// NewByteBufferPool creates a new ByteBufferPool with buffers of the specified default size.
func NewByteBufferPool(defaultSize int, maxThreshold int) *ByteBufferPool {
	return &ByteBufferPool{
		pool: sync.Pool{
			New: func() any {
				return NewByteBuffer(defaultSize)
			},
		},
		maxThreshold: maxThreshold,
	}
}

// Get retrieves a ByteBuffer from the pool.
func (bbp *ByteBufferPool) Get() *ByteBuffer {
	bb, _ := bbp.pool.Get().(*ByteBuffer)
	return bb
}

// Put returns a ByteBuffer to the pool for reuse.
func (bbp *ByteBufferPool) Put(bb *ByteBuffer) {
	if bb == nil {
		return
	}

	if bbp.maxThreshold > 0 && cap(bb.B) > bbp.maxThreshold {
		return
	}

	bb.Reset()
	bbp.pool.Put(bb)
}

var (
	blockDefaultPool   = NewByteBufferPool(BlockBufferDefaultSize, BlockBufferMaxThreshold)
	segmentDefaultPool = NewByteBufferPool(SegmentBufferDefaultSize, SegmentBufferMaxThreshold)
)

// GetBlockBuffer retrieves a ByteBuffer from the default per-block pool.
func GetBlockBuffer() *ByteBuffer {
	return blockDefaultPool.Get()
}

// PutBlockBuffer returns a ByteBuffer to the default per-block pool.
func PutBlockBuffer(bb *ByteBuffer) {
	blockDefaultPool.Put(bb)
}

// GetSegmentBuffer retrieves a ByteBuffer from the default per-segment pool.
func GetSegmentBuffer() *ByteBuffer {
	return segmentDefaultPool.Get()
}

// PutSegmentBuffer returns a ByteBuffer to the default per-segment pool.
func PutSegmentBuffer(bb *ByteBuffer) {
	segmentDefaultPool.Put(bb)
}
