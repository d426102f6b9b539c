package thorn

import (
	"github.com/thornwire/thorn/internal/wire"
)

// A oneof field is a set of mutually exclusive variants sharing disjoint
// tags within the same message; at most one may be present at a time. Go
// has no derive facility to generate the variant dispatch a oneof needs
// (see SPEC_FULL's Non-goals on codegen), so a message with a oneof field
// hand-writes a small switch over its variant tags in both EncodeTo and
// DecodeFieldFrom, using the helpers below for the two pieces of bookkeeping
// those switches can't express on their own: "was some other variant
// already set" and "record which one is set now".

// EncodeOneofVariant writes tag/value unconditionally — a oneof variant is
// written whenever it is the active one, even carrying its zero value,
// since a oneof's tag itself carries the presence information that an
// ordinary Plain field would otherwise rely on the value to express.
func EncodeOneofVariant[T any](w *Writer, tag uint32, v T, c ValueCodec[T]) {
	w.Key(tag, c.WireType)
	c.Encode(w, v)
}

func EncodedLenOneofVariant[T any](tag uint32, v T, c ValueCodec[T], tm *wire.TagMeasurer) int {
	return tm.KeyLen(tag) + c.EncodedLen(v)
}

// DecodeOneofVariant decodes one occurrence of a oneof variant tag. current
// points at the oneof's currently-recorded tag (0 meaning none yet); if it
// already names a different tag, the message has two mutually exclusive
// fields both present, a ConflictingFields error. duplicated rejects a
// second consecutive occurrence of the *same* variant tag with
// UnexpectedlyRepeated — a oneof variant, like a Plain field, is not
// assembled from multiple occurrences. On success *current is updated to
// tag.
func DecodeOneofVariant[T any](r *Reader, wt wire.WireType, tag uint32, current *uint32, duplicated bool, c ValueCodec[T]) (T, bool) {
	var zero T
	if *current != 0 && *current != tag {
		r.setError(ConflictingFields)
		return zero, false
	}
	if *current == tag && duplicated {
		r.setError(UnexpectedlyRepeated)
		return zero, false
	}
	if !CheckFieldWireType(r, wt, c.WireType) {
		return zero, false
	}
	*current = tag
	return c.Decode(r), true
}

// DecodeOneofMessageVariant is DecodeOneofVariant's counterpart for a
// message-valued variant, whose decode needs a sub-Reader rather than a
// single ValueCodec call.
func DecodeOneofMessageVariant(r *Reader, tag uint32, current *uint32, duplicated bool, nested Message) bool {
	if *current != 0 && *current != tag {
		r.setError(ConflictingFields)
		return false
	}
	if *current == tag && duplicated {
		r.setError(UnexpectedlyRepeated)
		return false
	}
	*current = tag
	DecodeNestedMessage(r, false, nested)
	return r.Err() == nil
}
