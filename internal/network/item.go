package network

import "os"

// Handle is a one-shot completion notifier. It is satisfied by
// internal/promise.OneShot; PendingState only ever calls Succeed, Fail,
// and Cascade on it, never inspects its internals.
type Handle interface {
	Succeed()
	Fail(err error)
	// Cascade arranges for child to fire with the same outcome as the
	// receiver once the receiver itself fires. If the receiver has
	// already fired, child fires immediately.
	Cascade(child Handle)
}

// WriteItem is the tagged variant PendingState queues: either a
// byte buffer with an advanceable read cursor, or a file region.
type WriteItem interface {
	// Remaining reports the number of unwritten bytes left in this item.
	Remaining() int64
	// Advance moves the read cursor forward by n bytes after a partial
	// or full write of n bytes has been observed.
	Advance(n int64)
}

// Buffer is an in-memory WriteItem backed by a byte slice and a read
// cursor. It does not own the backing array; callers retain it for the
// buffer's lifetime.
type Buffer struct {
	data   []byte
	reader int
}

// NewBuffer wraps b as a WriteItem. b is not copied.
func NewBuffer(b []byte) *Buffer {
	return &Buffer{data: b}
}

func (b *Buffer) Remaining() int64 {
	return int64(len(b.data) - b.reader)
}

func (b *Buffer) Advance(n int64) {
	b.reader += int(n)
}

// Bytes returns the unwritten suffix of the buffer.
func (b *Buffer) Bytes() []byte {
	return b.data[b.reader:]
}

// FileRegion is a zero-copy WriteItem describing a [reader, end) byte
// range of an open file. The descriptor is owned by the caller; the
// engine never closes it.
type FileRegion struct {
	File   *os.File
	reader int64
	end    int64
}

// NewFileRegion describes the half-open byte range [begin, end) of f.
func NewFileRegion(f *os.File, begin, end int64) *FileRegion {
	return &FileRegion{File: f, reader: begin, end: end}
}

func (r *FileRegion) Remaining() int64 {
	return r.end - r.reader
}

func (r *FileRegion) Advance(n int64) {
	r.reader += n
}

// Range returns the current unwritten [reader, end) range.
func (r *FileRegion) Range() (begin, end int64) {
	return r.reader, r.end
}
