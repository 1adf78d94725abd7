// Package pool recycles the byte buffers used while encoding store files.
package pool

import (
	"slices"
	"sync"
)

// Initial capacities and retention limits of the two shared pools. A buffer
// grown past its pool's limit is dropped on Put instead of being kept alive.
const (
	PayloadBufferSize  = 16 << 10
	PayloadBufferLimit = 256 << 10
	FileBufferSize     = 64 << 10
	FileBufferLimit    = 4 << 20
)

// Buffer is an append-only byte slice. Encoders may append to B directly.
type Buffer struct {
	B []byte
}

func (b *Buffer) Bytes() []byte { return b.B }
func (b *Buffer) Len() int      { return len(b.B) }
func (b *Buffer) Reset()        { b.B = b.B[:0] }

// Append appends p.
func (b *Buffer) Append(p []byte) {
	b.B = append(b.B, p...)
}

// AppendString appends s without converting it to a byte slice first.
func (b *Buffer) AppendString(s string) {
	b.B = append(b.B, s...)
}

// Grow makes room for n more bytes.
func (b *Buffer) Grow(n int) {
	b.B = slices.Grow(b.B, n)
}

// Pool hands out Buffers with a fixed initial capacity.
type Pool struct {
	pool  sync.Pool
	limit int
}

// New returns a pool of buffers starting at size bytes. Buffers whose
// capacity exceeds limit are not returned to the pool; zero disables the
// limit.
func New(size, limit int) *Pool {
	return &Pool{
		pool: sync.Pool{
			New: func() any { return &Buffer{B: make([]byte, 0, size)} },
		},
		limit: limit,
	}
}

// Get returns an empty buffer.
func (p *Pool) Get() *Buffer {
	b, _ := p.pool.Get().(*Buffer)
	return b
}

// Put resets b and keeps it for reuse. A nil buffer is ignored.
func (p *Pool) Put(b *Buffer) {
	if b == nil || (p.limit > 0 && cap(b.B) > p.limit) {
		return
	}
	b.Reset()
	p.pool.Put(b)
}

var (
	payloads = New(PayloadBufferSize, PayloadBufferLimit)
	files    = New(FileBufferSize, FileBufferLimit)
)

// GetPayloadBuffer returns a buffer for the uncompressed record section.
func GetPayloadBuffer() *Buffer { return payloads.Get() }

// PutPayloadBuffer releases a buffer obtained from GetPayloadBuffer.
func PutPayloadBuffer(b *Buffer) { payloads.Put(b) }

// GetFileBuffer returns a buffer for assembling a whole file.
func GetFileBuffer() *Buffer { return files.Get() }

// PutFileBuffer releases a buffer obtained from GetFileBuffer.
func PutFileBuffer(b *Buffer) { files.Put(b) }
