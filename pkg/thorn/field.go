package thorn

import (
	"github.com/thornwire/thorn/internal/wire"
)

// EncodePlain writes tag/value only if v is not its type's default: a Plain
// field's zero value is indistinguishable from absence, so omitting it both
// saves space and round-trips correctly.
func EncodePlain[T any](w *Writer, tag uint32, v T, c ValueCodec[T]) {
	if c.IsZero(v) {
		return
	}
	w.Key(tag, c.WireType)
	c.Encode(w, v)
}

func EncodedLenPlain[T any](tag uint32, v T, c ValueCodec[T], tm *wire.TagMeasurer) int {
	if c.IsZero(v) {
		return 0
	}
	return tm.KeyLen(tag) + c.EncodedLen(v)
}

// DecodePlainValue reads one field's bare value once its key has already
// been consumed and its wire type checked against c.WireType. duplicated
// rejects a second occurrence of the same Plain tag with
// UnexpectedlyRepeated before decoding it — a Plain field's value, unlike a
// repeated field's, is not assembled from multiple occurrences. A canonical
// encoder never writes a Plain field at its zero value — EncodePlain omits
// it instead — so seeing one on the wire is rejected outright under
// Distinguished decode (NotCanonical), and merely lowers the verdict to
// HasExtensions under Expedient decode.
func DecodePlainValue[T any](r *Reader, c ValueCodec[T], duplicated bool) T {
	var zero T
	if duplicated {
		r.setError(UnexpectedlyRepeated)
		return zero
	}
	v := c.Decode(r)
	if r.ok() && c.IsZero(v) {
		if r.opts.Mode == Distinguished {
			r.setError(NotCanonical)
			return zero
		}
		r.MarkNotMinimal()
	}
	return v
}

// EncodeOptional always writes tag/value when present is true, even if v is
// the type's zero value — this is how an Optional field distinguishes
// "explicitly set to the default" from "absent", the one case Plain cannot
// express.
func EncodeOptional[T any](w *Writer, tag uint32, v T, present bool, c ValueCodec[T]) {
	if !present {
		return
	}
	w.Key(tag, c.WireType)
	c.Encode(w, v)
}

func EncodedLenOptional[T any](tag uint32, v T, present bool, c ValueCodec[T], tm *wire.TagMeasurer) int {
	if !present {
		return 0
	}
	return tm.KeyLen(tag) + c.EncodedLen(v)
}

// CheckFieldWireType verifies a decoded field's wire type matches what its
// codec expects, recording WrongWireType on the Reader otherwise.
func CheckFieldWireType(r *Reader, got wire.WireType, c wire.WireType) bool {
	if got != c {
		r.setError(WrongWireType)
		return false
	}
	return true
}
