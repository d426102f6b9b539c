package thorn

import (
	"github.com/thornwire/thorn/internal/wire"
)

// Message is implemented by every generated or hand-written message type.
// With no codegen or reflection-driven tag-parsing facility, each message
// type hand-writes its own field dispatch; EncodeTo/DecodeFieldFrom are the
// seam a generator would target if one were ever written.
type Message interface {
	// TypeName identifies the message for DecodeError path breadcrumbs.
	TypeName() string
	// EncodeTo writes every present field to w, in ascending tag order.
	EncodeTo(w *Writer)
	// EncodedLen returns the exact number of bytes EncodeTo would write.
	EncodedLen() int
	// DecodeFieldFrom is called once per field key encountered by the
	// shared decode loop; it decodes the field at (tag, wt) if recognized
	// and returns true, or returns false to let the loop skip an unknown
	// field per the active Options. duplicated reports whether tag is the
	// same tag the loop just dispatched on the previous iteration — a
	// Plain, oneof, packed, map or set field occurring twice is
	// UnexpectedlyRepeated, while an unpacked repeated field occurring twice
	// is its normal decode mechanism and should ignore duplicated.
	DecodeFieldFrom(r *Reader, tag uint32, wt wire.WireType, duplicated bool) (recognized bool)
	// Reset clears every field back to its zero value. Called on a decode
	// error so a partially-populated destination is never observable —
	// a failed Unmarshal leaves m exactly as an empty value of its type.
	Reset()
}

// Marshal encodes m with DefaultOptions.
func Marshal(m Message) ([]byte, error) {
	return MarshalWithOptions(m, DefaultOptions)
}

// MarshalWithOptions encodes m using opts (only Limits.MaxDepth affects
// encoding; Mode affects only decoding).
func MarshalWithOptions(m Message, opts Options) ([]byte, error) {
	w := NewWriterWithOptions(opts)
	m.EncodeTo(w)
	if err := w.Err(); err != nil {
		return nil, err
	}
	return w.BytesCopy(), nil
}

// MarshalAppend encodes m and appends the result to buf.
func MarshalAppend(buf []byte, m Message) ([]byte, error) {
	w := &Writer{buf: buf, opts: DefaultOptions}
	m.EncodeTo(w)
	if err := w.Err(); err != nil {
		return nil, err
	}
	return w.buf, nil
}

// Unmarshal decodes data into m with DefaultOptions (expedient mode).
func Unmarshal(data []byte, m Message) error {
	return UnmarshalWithOptions(data, m, DefaultOptions)
}

// UnmarshalWithOptions decodes data into m under opts.
func UnmarshalWithOptions(data []byte, m Message, opts Options) error {
	r := NewReader(data, opts)
	if err := DecodeMessageBody(r, m); err != nil {
		m.Reset()
		return err
	}
	if err := r.RequireDistinguished(); err != nil {
		m.Reset()
		return err
	}
	return nil
}

// UnmarshalDistinguished decodes data into m under distinguished-mode value
// rules, but — unlike UnmarshalWithOptions — does not promote a HasExtensions
// verdict (e.g. an unknown field skipped rather than rejected) into an error.
// It returns the Canonicity actually observed so the caller decides whether
// that's acceptable, matching this format's design principle that the caller,
// not the decoder, chooses whether HasExtensions or NotCanonical is fatal. A
// hard rule (an explicit-zero Plain field under distinguished rules, a
// duplicated tag in either mode) still aborts decoding and returns an error,
// since those are decode failures rather than canonicity observations.
func UnmarshalDistinguished(data []byte, m Message, opts Options) (Canonicity, error) {
	opts.Mode = Distinguished
	r := NewReader(data, opts)
	if err := DecodeMessageBody(r, m); err != nil {
		m.Reset()
		return NotCanonicalValue, err
	}
	return r.Canonicity(), nil
}

// DecodeMessageBody runs the shared field-decode loop over r's remaining
// bytes, dispatching each recognized field to m and skipping (or, with
// Options.RejectUnknownFields, rejecting) unrecognized ones. Nested message
// fields call this directly on a sub-Reader instead of going through
// Unmarshal, so the recursion-depth counter and Options are inherited
// rather than reset.
func DecodeMessageBody(r *Reader, m Message) error {
	if !r.EnterNested() {
		return r.Err()
	}
	defer r.ExitNested()

	for r.HasNext() {
		tag, wt, duplicated := r.NextKey()
		if r.Err() != nil {
			break
		}
		if !m.DecodeFieldFrom(r, tag, wt, duplicated) {
			if r.Err() != nil {
				break
			}
			if r.opts.RejectUnknownFields {
				r.setError(UnknownField)
				break
			}
			r.MarkNotMinimal()
			r.Skip(wt)
		}
	}
	if err := r.Err(); err != nil {
		if de, ok := err.(*DecodeError); ok {
			de.Push(m.TypeName(), "")
		}
		return err
	}
	return nil
}

// DecodeNestedMessage decodes a nested message field out of a
// length-delimited region freshly taken from r, merging the nested
// message's canonicity verdict into r's. duplicated rejects a second
// occurrence of a plain (non-oneof) nested message field with
// UnexpectedlyRepeated, the same as any other Plain field; oneof variants
// call DecodeOneofMessageVariant instead, which applies its own
// same-variant duplicated check before ever reaching here.
func DecodeNestedMessage(r *Reader, duplicated bool, nested Message) {
	if duplicated {
		r.setError(UnexpectedlyRepeated)
		return
	}
	child := r.LengthDelimited()
	if child == nil {
		return
	}
	sub := r.Sub(child)
	if err := DecodeMessageBody(sub, nested); err != nil {
		nested.Reset()
		r.err = err
		return
	}
	r.canon = r.canon.Meet(sub.canon)
}

// EncodeNestedMessage writes tag/value for a nested message field, omitted
// entirely when nested is nil. A non-nil nested message is always written,
// even when its body encodes to zero bytes (key plus a zero length), so
// "absent" and "present but empty" stay distinct on the wire. A typed nil
// pointer stored in the interface does not compare equal to nil here.
func EncodeNestedMessage(w *Writer, tag uint32, nested Message) {
	if nested == nil {
		return
	}
	if !w.EnterNested() {
		return
	}
	defer w.ExitNested()
	w.Key(tag, wire.LengthDelimited)
	inner := &Writer{opts: w.opts, depth: w.depth}
	nested.EncodeTo(inner)
	if inner.err != nil {
		w.setError(inner.err)
		return
	}
	w.LengthDelimited(inner.buf)
}

func EncodedLenNestedMessage(tag uint32, nested Message, tm *wire.TagMeasurer) int {
	if nested == nil {
		return 0
	}
	n := nested.EncodedLen()
	return tm.KeyLen(tag) + wire.UvarintSize(uint64(n)) + n
}
