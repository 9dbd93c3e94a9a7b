package ber

import (
	"io"
	"iter"
)

// DefaultChunkSize is the chunk size used by NewBuffer when none is given.
const DefaultChunkSize = 512

// Writer is the sink encoders emit to. *Buffer, *bytes.Buffer and
// *bufio.Writer all satisfy it.
type Writer interface {
	io.Writer
	io.ByteWriter
}

// Buffer is an append-only queue of octets stored in fixed-size chunks.
// Bytes are appended at the back and consumed from the front; appending
// never moves bytes already stored. A Buffer is not safe for concurrent use.
type Buffer struct {
	chunks    [][]byte
	head      int // read offset into chunks[0]
	size      int
	chunkSize int
	spare     []byte
}

// NewBuffer creates an empty Buffer with the given chunk size.
func NewBuffer(chunkSize int) *Buffer {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return &Buffer{chunkSize: chunkSize}
}

// Len returns the number of unconsumed bytes.
func (b *Buffer) Len() int {
	return b.size
}

// Empty reports whether the buffer holds no bytes.
func (b *Buffer) Empty() bool {
	return b.size == 0
}

// Reset discards all bytes.
func (b *Buffer) Reset() {
	b.chunks = nil
	b.head = 0
	b.size = 0
}

func (b *Buffer) tail() []byte {
	if len(b.chunks) == 0 {
		return nil
	}
	return b.chunks[len(b.chunks)-1]
}

func (b *Buffer) grow() {
	chunk := b.spare
	b.spare = nil
	if chunk == nil {
		if b.chunkSize == 0 {
			b.chunkSize = DefaultChunkSize
		}
		chunk = make([]byte, 0, b.chunkSize)
	}
	b.chunks = append(b.chunks, chunk[:0])
}

// Append adds bytes to the back of the buffer.
func (b *Buffer) Append(p ...byte) {
	for len(p) > 0 {
		t := b.tail()
		if t == nil || len(t) == cap(t) {
			b.grow()
			t = b.tail()
		}
		n := copy(t[len(t):cap(t)], p)
		b.chunks[len(b.chunks)-1] = t[:len(t)+n]
		b.size += n
		p = p[n:]
	}
}

// Write implements io.Writer. It never fails.
func (b *Buffer) Write(p []byte) (int, error) {
	b.Append(p...)
	return len(p), nil
}

// WriteByte implements io.ByteWriter. It never fails.
func (b *Buffer) WriteByte(c byte) error {
	t := b.tail()
	if t == nil || len(t) == cap(t) {
		b.grow()
		t = b.tail()
	}
	b.chunks[len(b.chunks)-1] = append(t, c)
	b.size++
	return nil
}

// WriteString appends the bytes of s.
func (b *Buffer) WriteString(s string) (int, error) {
	b.Append([]byte(s)...)
	return len(s), nil
}

// Front returns the first unconsumed byte without consuming it.
func (b *Buffer) Front() (byte, bool) {
	if b.size == 0 {
		return 0, false
	}
	return b.chunks[0][b.head], true
}

// ReadByte consumes and returns the first byte.
func (b *Buffer) ReadByte() (byte, error) {
	if b.size == 0 {
		return 0, io.EOF
	}
	c := b.chunks[0][b.head]
	b.Consume(1)
	return c, nil
}

// Read implements io.Reader, consuming the bytes it returns.
func (b *Buffer) Read(p []byte) (int, error) {
	if b.size == 0 {
		if len(p) == 0 {
			return 0, nil
		}
		return 0, io.EOF
	}
	n := b.copyFront(p)
	b.Consume(n)
	return n, nil
}

// Peek copies up to n bytes from the front without consuming them.
func (b *Buffer) Peek(n int) []byte {
	if n > b.size {
		n = b.size
	}
	out := make([]byte, n)
	b.copyFront(out)
	return out
}

func (b *Buffer) copyFront(p []byte) int {
	n := 0
	head := b.head
	for _, chunk := range b.chunks {
		if n == len(p) {
			break
		}
		n += copy(p[n:], chunk[head:])
		head = 0
	}
	return n
}

// Consume removes up to n bytes from the front and returns how many were removed.
func (b *Buffer) Consume(n int) int {
	if n > b.size {
		n = b.size
	}
	removed := n
	for n > 0 {
		avail := len(b.chunks[0]) - b.head
		if n < avail {
			b.head += n
			break
		}
		n -= avail
		b.release()
	}
	b.size -= removed
	if b.size == 0 && len(b.chunks) == 1 {
		// keep the last chunk for reuse
		b.chunks[0] = b.chunks[0][:0]
		b.head = 0
	}
	return removed
}

// release drops the front chunk, keeping one for reuse.
func (b *Buffer) release() {
	front := b.chunks[0]
	b.chunks[0] = nil
	b.chunks = b.chunks[1:]
	b.head = 0
	if b.spare == nil && cap(front) == b.chunkSize {
		b.spare = front[:0]
	}
}

// All iterates over the unconsumed bytes front to back without consuming them.
func (b *Buffer) All() iter.Seq[byte] {
	return func(yield func(byte) bool) {
		for c := range b.Chunks() {
			for _, x := range c {
				if !yield(x) {
					return
				}
			}
		}
	}
}

// Chunks iterates over the stored chunks. The slices alias the buffer and
// must not be retained across mutations.
func (b *Buffer) Chunks() iter.Seq[[]byte] {
	return func(yield func([]byte) bool) {
		head := b.head
		for _, chunk := range b.chunks {
			if len(chunk) > head && !yield(chunk[head:]) {
				return
			}
			head = 0
		}
	}
}

// Bytes returns a contiguous copy of the unconsumed bytes.
func (b *Buffer) Bytes() []byte {
	return b.Peek(b.size)
}

// WriteTo writes and consumes every byte. It implements io.WriterTo.
func (b *Buffer) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for b.size > 0 {
		chunk := b.chunks[0][b.head:]
		n, err := w.Write(chunk)
		total += int64(n)
		b.Consume(n)
		if err != nil {
			return total, err
		}
		if n < len(chunk) {
			return total, io.ErrShortWrite
		}
	}
	return total, nil
}
