package thorn

import (
	"math/bits"
	"sync"
)

// Size-tiered buffer pools: encoding workloads cluster around a handful of
// message sizes, and a size-tiered
// sync.Pool reuses the right-sized backing array far more often than one
// pool holding buffers of whatever size happened to be returned last.
var bufferPools = [6]sync.Pool{
	{New: func() any { return make([]byte, 0, 64) }},
	{New: func() any { return make([]byte, 0, 256) }},
	{New: func() any { return make([]byte, 0, 1024) }},
	{New: func() any { return make([]byte, 0, 4096) }},
	{New: func() any { return make([]byte, 0, 16384) }},
	{New: func() any { return make([]byte, 0, 65536) }},
}

var bufferSizes = [6]int{64, 256, 1024, 4096, 16384, 65536}

func poolIndex(size int) int {
	switch {
	case size <= 64:
		return 0
	case size <= 256:
		return 1
	case size <= 1024:
		return 2
	case size <= 4096:
		return 3
	case size <= 16384:
		return 4
	case size <= 65536:
		return 5
	default:
		return -1
	}
}

// GetBuffer gets a zero-length buffer with capacity for at least sizeHint
// bytes from the appropriate size-tiered pool.
func GetBuffer(sizeHint int) []byte {
	idx := poolIndex(sizeHint)
	if idx < 0 {
		return make([]byte, 0, sizeHint)
	}
	buf := bufferPools[idx].Get().([]byte)
	return buf[:0]
}

// PutBuffer returns buf to the pool sized by its capacity. Buffers larger
// than 64KB are not pooled and are left to the garbage collector.
func PutBuffer(buf []byte) {
	c := cap(buf)
	if c > 65536 {
		return
	}
	// File the buffer under the largest class it can fully serve, so
	// GetBuffer never hands out less capacity than its class promises.
	for idx := len(bufferSizes) - 1; idx >= 0; idx-- {
		if c >= bufferSizes[idx] {
			bufferPools[idx].Put(buf[:0])
			return
		}
	}
}

// writerPool pools *Writer values; their buffers are reclaimed separately
// through PutBuffer so a Writer taken from the pool never carries a stale
// buffer still referenced elsewhere.
var writerPool = sync.Pool{
	New: func() any { return &Writer{} },
}

// GetWriterWithHint returns a pooled Writer whose buffer has capacity for
// at least sizeHint bytes.
func GetWriterWithHint(sizeHint int) *Writer {
	w := writerPool.Get().(*Writer)
	w.Reset()
	w.buf = GetBuffer(sizeHint)
	return w
}

// PutWriterBuffer returns w's buffer to the pool and w itself to the writer
// pool. w must not be used afterward.
func PutWriterBuffer(w *Writer) {
	if w == nil {
		return
	}
	if w.buf != nil {
		PutBuffer(w.buf)
	}
	w.buf = nil
	writerPool.Put(w)
}

// BufferPoolStats describes the pool's configured size classes.
type BufferPoolStats struct {
	SizeClasses  []int
	TotalClasses int
}

func GetBufferPoolStats() BufferPoolStats {
	return BufferPoolStats{SizeClasses: bufferSizes[:], TotalClasses: len(bufferSizes)}
}

// OptimalBufferSize rounds dataSize up to the pool's next size class, or to
// the next power of two beyond the largest pooled class.
func OptimalBufferSize(dataSize int) int {
	if dataSize <= 0 {
		return 64
	}
	if dataSize > 65536 {
		return 1 << bits.Len(uint(dataSize-1))
	}
	for _, size := range bufferSizes {
		if dataSize <= size {
			return size
		}
	}
	return dataSize
}
