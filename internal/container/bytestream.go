package container

import "io"

// ByteStreamBuffer fronts a writable sink, batching small appends into a
// growable in-memory buffer and flushing to the sink whenever a request
// can't fit in the remaining free space of a buffer at least as large as the
// request itself — the same flush-on-full policy the teacher's save path
// relies on implicitly via bufio, generalized here per spec.md §4.1.
type ByteStreamBuffer struct {
	sink io.Writer
	buf  []byte
}

// NewByteStreamBuffer returns a buffer of the given initial size writing to sink.
func NewByteStreamBuffer(sink io.Writer, size int) *ByteStreamBuffer {
	if size < 1 {
		size = 1
	}
	return &ByteStreamBuffer{sink: sink, buf: make([]byte, 0, size)}
}

// Append writes p into the buffer, flushing first if needed.
func (b *ByteStreamBuffer) Append(p []byte) error {
	free := cap(b.buf) - len(b.buf)
	if free < len(p) && cap(b.buf) >= len(p) {
		if err := b.Flush(); err != nil {
			return err
		}
	} else if free < len(p) {
		grown := make([]byte, len(b.buf), cap(b.buf)+len(p))
		copy(grown, b.buf)
		b.buf = grown
	}
	b.buf = append(b.buf, p...)
	return nil
}

// Flush writes any buffered bytes to the sink and empties the buffer.
func (b *ByteStreamBuffer) Flush() error {
	if len(b.buf) == 0 {
		return nil
	}
	if _, err := b.sink.Write(b.buf); err != nil {
		return err
	}
	b.buf = b.buf[:0]
	return nil
}
