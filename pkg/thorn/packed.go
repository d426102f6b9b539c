package thorn

import (
	"github.com/thornwire/thorn/internal/wire"
)

// EncodePacked writes a repeated field as one length-delimited region
// holding every element's bare value back to back — the default repeated
// encoding. Writing nothing for an empty slice lets Plain's sparse-field
// omission apply uniformly to repeated fields too.
func EncodePacked[T any](w *Writer, tag uint32, vals []T, c ValueCodec[T]) {
	if len(vals) == 0 {
		return
	}
	w.Key(tag, wire.LengthDelimited)
	inner := &Writer{opts: w.opts}
	for _, v := range vals {
		c.Encode(inner, v)
	}
	w.LengthDelimited(inner.buf)
}

func EncodedLenPacked[T any](tag uint32, vals []T, c ValueCodec[T], tm *wire.TagMeasurer) int {
	if len(vals) == 0 {
		return 0
	}
	inner := 0
	for _, v := range vals {
		inner += c.EncodedLen(v)
	}
	return tm.KeyLen(tag) + wire.UvarintSize(uint64(inner)) + inner
}

// DecodePacked reads a packed field's body out of child, appending each
// decoded element to vals. duplicated rejects a second whole packed-form
// occurrence of the tag with UnexpectedlyRepeated — a packed field, unlike
// an unpacked repeated one, is encoded as a single length-delimited region,
// so two occurrences of it is not how growing a repeated field works. Per
// the tolerance rule shared with every repeated-field encoding in this
// format, the caller is responsible for falling back to single-value
// decoding when the field arrives with a non-length-delimited wire type
// instead of calling this function — see DecodeRepeatedElement, which is
// exempt from the duplicated check since repeating its own tag is exactly
// how an unpacked field grows.
func DecodePacked[T any](r *Reader, child *wire.Capped, vals *[]T, duplicated bool, c ValueCodec[T]) {
	if duplicated {
		r.setError(UnexpectedlyRepeated)
		return
	}
	if fixedSize, ok := c.WireType.FixedSize(); ok {
		if child.RemainingBeforeCap()%fixedSize != 0 {
			r.setError(Truncated)
			return
		}
	}
	sub := r.Sub(child)
	for sub.ok() && sub.c.HasRemaining() {
		*vals = append(*vals, c.Decode(sub))
	}
	if sub.err != nil {
		r.err = sub.err
		return
	}
	r.canon = r.canon.Meet(sub.canon)
}

// DecodeRepeatedElement decodes a single element arriving in unpacked form
// (the field's own wire type rather than LengthDelimited) and appends it to
// vals, marking the field non-minimal: a canonical encoder never mixes
// packed and unpacked occurrences of the same tag, so seeing one at all
// means this message is, at best, HasExtensions.
func DecodeRepeatedElement[T any](r *Reader, wt wire.WireType, vals *[]T, c ValueCodec[T]) {
	if !CheckFieldWireType(r, wt, c.WireType) {
		return
	}
	r.MarkNotMinimal()
	*vals = append(*vals, c.Decode(r))
}
