package thorn

import (
	"unicode/utf8"

	"github.com/thornwire/thorn/internal/wire"
)

// StringCodec encodes a Go string as length-delimited UTF-8 bytes. Decoding
// validates the bytes are well-formed UTF-8 regardless of Options.Mode —
// unlike most other "not canonical" relaxations, invalid UTF-8 in a string
// field is an InvalidValue error even under expedient decoding, since the
// resulting Go string would not be usable as a string at all.
var StringCodec = ValueCodec[string]{
	WireType: wire.LengthDelimited,
	Encode: func(w *Writer, v string) {
		w.LengthDelimited([]byte(v))
	},
	Decode: func(r *Reader) string {
		child := r.LengthDelimited()
		if child == nil {
			return ""
		}
		b := child.TakeAll()
		if !utf8.Valid(b) {
			r.setError(InvalidValue)
			return ""
		}
		return string(b)
	},
	EncodedLen: func(v string) int { return wire.UvarintSize(uint64(len(v))) + len(v) },
	IsZero:     func(v string) bool { return v == "" },
}

// BytesCodec encodes a []byte as length-delimited raw bytes with no
// validation, the Go analogue of PlainBytes/VecBlob: a value whose Go type
// is concretely []byte rather than a generic collection, so it gets its own
// non-generic codec instead of going through the packed/unpacked machinery
// used for slices of other element types.
var BytesCodec = ValueCodec[[]byte]{
	WireType: wire.LengthDelimited,
	Encode: func(w *Writer, v []byte) {
		w.LengthDelimited(v)
	},
	Decode: func(r *Reader) []byte {
		child := r.LengthDelimited()
		if child == nil {
			return nil
		}
		return append([]byte(nil), child.TakeAll()...)
	},
	EncodedLen: func(v []byte) int { return wire.UvarintSize(uint64(len(v))) + len(v) },
	IsZero:     func(v []byte) bool { return len(v) == 0 },
}
