package thorn

import (
	"github.com/thornwire/thorn/internal/wire"
)

// EncodeUnpacked writes a repeated field as one field-key/value pair per
// element, the encoding used when a message declares a repeated field
// unpacked rather than packed (e.g. because its element type has no stable
// encoded width and gains nothing from packing, or for wire compatibility
// with a field that was originally singular and became repeated).
func EncodeUnpacked[T any](w *Writer, tag uint32, vals []T, c ValueCodec[T]) {
	for _, v := range vals {
		w.Key(tag, c.WireType)
		c.Encode(w, v)
	}
}

func EncodedLenUnpacked[T any](tag uint32, vals []T, c ValueCodec[T], tm *wire.TagMeasurer) int {
	if len(vals) == 0 {
		return 0
	}
	total := 0
	for _, v := range vals {
		total += tm.KeyLen(tag) + c.EncodedLen(v)
	}
	return total
}

// DecodeUnpackedOccurrence handles one occurrence of an unpacked-repeated
// field's tag. When the occurrence's wire type is length-delimited but the
// element codec's own wire type is not, the occurrence is tolerated as a
// packed region (an encoder on the other end chose to pack what this
// message declares unpacked, or vice versa) and every element inside it is
// decoded and appended; any other mismatch between wt and c.WireType is
// WrongWireType. Either way, seeing a packed region for a field declared
// unpacked marks the message non-minimal — a canonical encoder would never
// produce one.
func DecodeUnpackedOccurrence[T any](r *Reader, wt wire.WireType, vals *[]T, c ValueCodec[T]) {
	if wt == wire.LengthDelimited && c.WireType != wire.LengthDelimited {
		child := r.LengthDelimited()
		if child == nil {
			return
		}
		r.MarkNotMinimal()
		// A field declared unpacked tolerates any number of packed-region
		// occurrences (that's what "unpacked" means: every occurrence of
		// the tag just grows the slice further), so the packed-form
		// duplicate check that applies to a field declared Packed does not
		// apply here.
		DecodePacked(r, child, vals, false, c)
		return
	}
	if !CheckFieldWireType(r, wt, c.WireType) {
		return
	}
	*vals = append(*vals, c.Decode(r))
}
