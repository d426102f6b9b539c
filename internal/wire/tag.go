package wire

import (
	"errors"
	"math"
)

// WireType indicates how a value is framed on the wire. Thorn uses exactly
// four wire types; unlike the field tags in a protobuf-style codec, a
// thorn wire type is embedded in the low 2 bits of a field key alongside a
// tag *delta*, not a full field number.
type WireType uint8

const (
	// Varint covers bools, all integer widths (via per-width zigzag for
	// signed types), and enum discriminants.
	Varint WireType = 0
	// LengthDelimited covers strings, blobs, nested messages, and all
	// packed/map/set composite encodings.
	LengthDelimited WireType = 1
	// ThirtyTwoBit covers 4-byte fixed values: uint32/int32/float32 and the
	// "fixed" encoding option for 32-bit integers.
	ThirtyTwoBit WireType = 2
	// SixtyFourBit covers 8-byte fixed values: uint64/int64/float64 and the
	// "fixed" encoding option for 64-bit integers.
	SixtyFourBit WireType = 3
)

// String returns a human-readable name for the wire type.
func (w WireType) String() string {
	switch w {
	case Varint:
		return "Varint"
	case LengthDelimited:
		return "LengthDelimited"
	case ThirtyTwoBit:
		return "ThirtyTwoBit"
	case SixtyFourBit:
		return "SixtyFourBit"
	default:
		return "Unknown"
	}
}

// FixedSize returns the number of bytes a value of this wire type occupies
// when not length-delimited, or (0, false) for LengthDelimited, whose
// length varies and is read from the stream.
func (w WireType) FixedSize() (int, bool) {
	switch w {
	case ThirtyTwoBit:
		return 4, true
	case SixtyFourBit:
		return 8, true
	default:
		return 0, false
	}
}

// WireTypeFromUint masks the low 2 bits of a field key to recover the wire
// type; the remaining bits carry the tag delta.
func WireTypeFromUint(key uint64) WireType {
	return WireType(key & 0x3)
}

// Errors produced by the tag stream.
var (
	// ErrTagOverflowed indicates a field key decoded a tag greater than
	// math.MaxUint32. (Encoding a field out of order is a programmer error
	// and panics in EncodeKey instead.)
	ErrTagOverflowed = errors.New("wire: tag overflowed")
	// ErrWrongWireType indicates a value's wire type could not be decoded
	// by the requested encoder.
	ErrWrongWireType = errors.New("wire: wire type not understood by encoder")
)

// TagWriter tracks the last tag emitted so each field key can be written as
// a small delta from the previous one instead of repeating the full field
// number every time (the source of most of thorn's size advantage over a
// protobuf-style "(field<<3)|wiretype every time" tag).
type TagWriter struct {
	lastTag uint32
}

// EncodeKey appends the field key for (tag, wireType) to buf. Tags must be
// supplied in non-decreasing order (a repeated tag encodes a delta of 0);
// callers violating this invariant
// have a bug in their field emission order, not a wire-format error, so
// this panics rather than returning an error.
func (tw *TagWriter) EncodeKey(tag uint32, wireType WireType, buf []byte) []byte {
	delta := tag - tw.lastTag
	if tag < tw.lastTag {
		panic("wire: fields encoded out of order")
	}
	tw.lastTag = tag
	key := uint64(delta)<<2 | uint64(wireType)
	return AppendUvarint(buf, key)
}

// KeyLen returns the number of bytes EncodeKey would emit for tag, without
// mutating the writer's state (callers measuring size must advance a
// matching TagMeasurer in lockstep).
func (tw *TagWriter) KeyLen(tag uint32) int {
	delta := tag - tw.lastTag
	return UvarintSize(uint64(delta) << 2)
}

// Advance updates the writer's last-seen tag without emitting a key; used
// by size-measurement passes that mirror the encode pass's control flow.
func (tw *TagWriter) Advance(tag uint32) {
	tw.lastTag = tag
}

// TagMeasurer is TagWriter's size-only counterpart, used by EncodedLen
// passes that must walk fields in the same order as Encode without writing
// any bytes.
type TagMeasurer struct {
	lastTag uint32
}

func (tm *TagMeasurer) KeyLen(tag uint32) int {
	delta := tag - tm.lastTag
	tm.lastTag = tag
	return UvarintSize(uint64(delta) << 2)
}

// TagReader is TagWriter's decode-side counterpart.
type TagReader struct {
	lastTag uint32
}

// DecodeKey reads one field key from the front of data, returning the
// absolute tag, its wire type, and the number of bytes consumed.
func (tr *TagReader) DecodeKey(data []byte) (tag uint32, wireType WireType, n int, err error) {
	key, n, err := DecodeUvarint(data)
	if err != nil {
		return 0, 0, 0, err
	}
	delta := key >> 2
	wireType = WireType(key & 0x3)
	sum := uint64(tr.lastTag) + delta
	if sum > math.MaxUint32 {
		return 0, 0, 0, ErrTagOverflowed
	}
	tag = uint32(sum)
	tr.lastTag = tag
	return tag, wireType, n, nil
}

// CheckWireType returns ErrWrongWireType if got does not match want.
func CheckWireType(want, got WireType) error {
	if want != got {
		return ErrWrongWireType
	}
	return nil
}
