package thorn

import (
	"math"

	"github.com/thornwire/thorn/internal/wire"
)

// ValueCodec packages one Go type's wire behavior: which wire type it uses,
// how to write and read its bare value (no field key), how large that value
// is, and whether a given value is the field's default (and so can be
// omitted under Plain field semantics). Go has no generic methods, so this
// per-type behavior is packaged as a value instead of being attached to a
// type — a ValueCodec[T] is what a hand-written (or someday generated)
// Message.Encode method reaches for instead of calling a method on T
// itself.
type ValueCodec[T any] struct {
	WireType   wire.WireType
	Encode     func(w *Writer, v T)
	Decode     func(r *Reader) T
	EncodedLen func(v T) int
	IsZero     func(v T) bool
}

func boolIsZero(v bool) bool { return !v }

var BoolCodec = ValueCodec[bool]{
	WireType: wire.Varint,
	Encode: func(w *Writer, v bool) {
		if v {
			w.Varint(1)
		} else {
			w.Varint(0)
		}
	},
	Decode: func(r *Reader) bool {
		v := r.Varint()
		if v > 1 {
			r.setError(OutOfDomainValue)
			return false
		}
		return v != 0
	},
	EncodedLen: func(v bool) int { return 1 },
	IsZero:     boolIsZero,
}

func numZero[T comparable](v T) bool {
	var zero T
	return v == zero
}

var Uint32Codec = ValueCodec[uint32]{
	WireType:   wire.Varint,
	Encode:     func(w *Writer, v uint32) { w.Varint(uint64(v)) },
	Decode:     func(r *Reader) uint32 { return decodeBoundedUvarint[uint32](r, math.MaxUint32) },
	EncodedLen: func(v uint32) int { return wire.UvarintSize(uint64(v)) },
	IsZero:     numZero[uint32],
}

var Uint64Codec = ValueCodec[uint64]{
	WireType:   wire.Varint,
	Encode:     func(w *Writer, v uint64) { w.Varint(v) },
	Decode:     func(r *Reader) uint64 { return r.Varint() },
	EncodedLen: func(v uint64) int { return wire.UvarintSize(v) },
	IsZero:     numZero[uint64],
}

var Int32Codec = ValueCodec[int32]{
	WireType: wire.Varint,
	Encode:   func(w *Writer, v int32) { w.Varint(uint64(wire.ZigZag32(v))) },
	Decode: func(r *Reader) int32 {
		z := decodeBoundedUvarint[uint32](r, math.MaxUint32)
		return wire.UnZigZag32(z)
	},
	EncodedLen: func(v int32) int { return wire.UvarintSize(uint64(wire.ZigZag32(v))) },
	IsZero:     numZero[int32],
}

var Int64Codec = ValueCodec[int64]{
	WireType:   wire.Varint,
	Encode:     func(w *Writer, v int64) { w.Varint(wire.ZigZag64(v)) },
	Decode:     func(r *Reader) int64 { return wire.UnZigZag64(r.Varint()) },
	EncodedLen: func(v int64) int { return wire.UvarintSize(wire.ZigZag64(v)) },
	IsZero:     numZero[int64],
}

var Fixed32Codec = ValueCodec[uint32]{
	WireType:   wire.ThirtyTwoBit,
	Encode:     func(w *Writer, v uint32) { w.Fixed32(v) },
	Decode:     func(r *Reader) uint32 { return r.Fixed32() },
	EncodedLen: func(v uint32) int { return wire.Fixed32Size },
	IsZero:     numZero[uint32],
}

var Fixed64Codec = ValueCodec[uint64]{
	WireType:   wire.SixtyFourBit,
	Encode:     func(w *Writer, v uint64) { w.Fixed64(v) },
	Decode:     func(r *Reader) uint64 { return r.Fixed64() },
	EncodedLen: func(v uint64) int { return wire.Fixed64Size },
	IsZero:     numZero[uint64],
}

var SFixed32Codec = ValueCodec[int32]{
	WireType:   wire.ThirtyTwoBit,
	Encode:     func(w *Writer, v int32) { w.Fixed32(uint32(v)) },
	Decode:     func(r *Reader) int32 { return int32(r.Fixed32()) },
	EncodedLen: func(v int32) int { return wire.Fixed32Size },
	IsZero:     numZero[int32],
}

var SFixed64Codec = ValueCodec[int64]{
	WireType:   wire.SixtyFourBit,
	Encode:     func(w *Writer, v int64) { w.Fixed64(uint64(v)) },
	Decode:     func(r *Reader) int64 { return int64(r.Fixed64()) },
	EncodedLen: func(v int64) int { return wire.Fixed64Size },
	IsZero:     numZero[int64],
}

var Float32Codec = ValueCodec[float32]{
	WireType:   wire.ThirtyTwoBit,
	Encode:     func(w *Writer, v float32) { w.Fixed32(math.Float32bits(v)) },
	Decode:     func(r *Reader) float32 { return math.Float32frombits(r.Fixed32()) },
	EncodedLen: func(v float32) int { return wire.Float32Size },
	// A float field's default is +0.0 specifically, not "any zero bit
	// pattern" — -0.0 is a distinct, present value. See fixed_test.go's
	// IsNegativeZero tests in internal/wire for why this must be a bit
	// check rather than v == 0.
	IsZero: func(v float32) bool { return math.Float32bits(v) == 0 },
}

var Float64Codec = ValueCodec[float64]{
	WireType:   wire.SixtyFourBit,
	Encode:     func(w *Writer, v float64) { w.Fixed64(math.Float64bits(v)) },
	Decode:     func(r *Reader) float64 { return math.Float64frombits(r.Fixed64()) },
	EncodedLen: func(v float64) int { return wire.Float64Size },
	IsZero:     func(v float64) bool { return math.Float64bits(v) == 0 },
}

// decodeBoundedUvarint reads a varint and checks it fits in the narrower
// unsigned type T, reporting OutOfDomainValue otherwise. Used for fields
// declared as uint32/int32 whose wire representation is always a full
// 64-bit varint: every integer width is zigzagged and varint-encoded at
// native size, never truncated on the wire — the truncation check here
// exists purely to protect the Go struct field's width.
func decodeBoundedUvarint[T ~uint32](r *Reader, max uint64) T {
	v := r.Varint()
	if v > max {
		r.setError(OutOfDomainValue)
		return 0
	}
	return T(v)
}
