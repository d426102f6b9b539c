package thorn

import (
	"github.com/thornwire/thorn/internal/wire"
)

// Writer accumulates encoded bytes for one top-level message. It tracks a
// sticky first error and a nesting depth instead of returning an error from
// every call site — encoders read far more naturally as a straight-line
// sequence of writes when failure is checked once at the end via Err.
type Writer struct {
	buf   []byte
	tw    wire.TagWriter
	depth int
	err   error
	opts  Options
}

// NewWriter returns a Writer with default options and a small initial
// buffer.
func NewWriter() *Writer {
	return &Writer{buf: make([]byte, 0, 256), opts: DefaultOptions}
}

// NewWriterWithOptions returns a Writer configured with opts.
func NewWriterWithOptions(opts Options) *Writer {
	return &Writer{buf: make([]byte, 0, 256), opts: opts}
}

// Reset clears the Writer for reuse, keeping its buffer's backing array.
func (w *Writer) Reset() {
	w.buf = w.buf[:0]
	w.tw = wire.TagWriter{}
	w.depth = 0
	w.err = nil
}

// Bytes returns the encoded data so far. The slice is valid only until the
// next write.
func (w *Writer) Bytes() []byte { return w.buf }

// BytesCopy returns an independent copy of the encoded data.
func (w *Writer) BytesCopy() []byte {
	out := make([]byte, len(w.buf))
	copy(out, w.buf)
	return out
}

// Err returns the first error recorded while writing, if any.
func (w *Writer) Err() error { return w.err }

func (w *Writer) setError(err error) {
	if w.err == nil {
		w.err = err
	}
}

func (w *Writer) ok() bool { return w.err == nil }

// Key writes the next field's tag-and-wiretype key. Tags written to a
// single Writer must be non-decreasing; EncodeKey panics otherwise, as does
// the wire package it delegates to — a violation here is a programming
// error in a hand-written or generated Message implementation, not
// something recoverable from caller input.
func (w *Writer) Key(tag uint32, wt wire.WireType) {
	if !w.ok() {
		return
	}
	w.buf = w.tw.EncodeKey(tag, wt, w.buf)
}

func (w *Writer) Varint(v uint64) {
	if !w.ok() {
		return
	}
	w.buf = wire.AppendUvarint(w.buf, v)
}

func (w *Writer) Fixed32(v uint32) {
	if !w.ok() {
		return
	}
	w.buf = wire.AppendFixed32(w.buf, v)
}

func (w *Writer) Fixed64(v uint64) {
	if !w.ok() {
		return
	}
	w.buf = wire.AppendFixed64(w.buf, v)
}

// LengthDelimited writes a length prefix followed by raw bytes, used for every
// length-delimited value: strings, blobs, nested messages, packed and map
// field bodies.
func (w *Writer) LengthDelimited(b []byte) {
	if !w.ok() {
		return
	}
	w.buf = wire.AppendUvarint(w.buf, uint64(len(b)))
	w.buf = append(w.buf, b...)
}

// Raw appends b without any length prefix. The composite encoders in this
// package do not use it: they build their body in an inner Writer and
// write it with LengthDelimited.
func (w *Writer) Raw(b []byte) {
	if !w.ok() {
		return
	}
	w.buf = append(w.buf, b...)
}

// EnterNested increments the nesting depth, failing if it would exceed the
// configured limit. EncodeNestedMessage calls EnterNested before encoding a
// nested message and ExitNested after; packed, map and set encoders do not
// count toward the depth.
func (w *Writer) EnterNested() bool {
	if !w.ok() {
		return false
	}
	if w.opts.Limits.MaxDepth > 0 && w.depth >= w.opts.Limits.MaxDepth {
		w.setError(NewEncodeError(RecursionLimitReached, "max encode depth exceeded"))
		return false
	}
	w.depth++
	return true
}

func (w *Writer) ExitNested() {
	if w.depth > 0 {
		w.depth--
	}
}
