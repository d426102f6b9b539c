package thorn

import (
	"strings"

	"github.com/thornwire/thorn/internal/wire"
)

// Profile stands in for what a derive macro would generate from a message
// declaration: every field kind this package supports (plain, packed
// repeated, map, set, nested message, oneof) hand-written the way a
// generator's expansion would look, exercised by the tests in this package.
type Profile struct {
	Name       string
	Age        uint32
	Tags       []string
	Scores     []float64
	Attributes map[string]string
	Labels     map[string]struct{}
	Parent     *Profile

	// contact is a oneof: exactly one of EmailAddr (tag 8) or
	// PhoneNumber (tag 9) may be set at a time.
	contactTag  uint32
	EmailAddr   string
	PhoneNumber string
}

func (p *Profile) TypeName() string { return "Profile" }

func (p *Profile) Reset() {
	*p = Profile{}
}

func (p *Profile) EncodeTo(w *Writer) {
	EncodePlain(w, 1, p.Name, StringCodec)
	EncodePlain(w, 2, p.Age, Uint32Codec)
	EncodePacked(w, 3, p.Tags, StringCodec)
	EncodePacked(w, 4, p.Scores, Float64Codec)
	EncodeMap(w, 5, p.Attributes, StringCodec, StringCodec, strLess)
	EncodeSet(w, 6, p.Labels, StringCodec, strLess)
	if p.Parent != nil {
		EncodeNestedMessage(w, 7, p.Parent)
	}
	switch p.contactTag {
	case 8:
		EncodeOneofVariant(w, 8, p.EmailAddr, StringCodec)
	case 9:
		EncodeOneofVariant(w, 9, p.PhoneNumber, StringCodec)
	}
}

func (p *Profile) EncodedLen() int {
	var tm wire.TagMeasurer
	n := 0
	n += EncodedLenPlain(1, p.Name, StringCodec, &tm)
	n += EncodedLenPlain(2, p.Age, Uint32Codec, &tm)
	n += EncodedLenPacked(3, p.Tags, StringCodec, &tm)
	n += EncodedLenPacked(4, p.Scores, Float64Codec, &tm)
	n += EncodedLenMap(5, p.Attributes, StringCodec, StringCodec, &tm)
	n += EncodedLenSet(6, p.Labels, StringCodec, &tm)
	var nested Message
	if p.Parent != nil {
		nested = p.Parent
	}
	n += EncodedLenNestedMessage(7, nested, &tm)
	switch p.contactTag {
	case 8:
		n += EncodedLenOneofVariant(8, p.EmailAddr, StringCodec, &tm)
	case 9:
		n += EncodedLenOneofVariant(9, p.PhoneNumber, StringCodec, &tm)
	}
	return n
}

func (p *Profile) DecodeFieldFrom(r *Reader, tag uint32, wt wire.WireType, duplicated bool) bool {
	switch tag {
	case 1:
		if !CheckFieldWireType(r, wt, StringCodec.WireType) {
			return true
		}
		p.Name = DecodePlainValue(r, StringCodec, duplicated)
		return true
	case 2:
		if !CheckFieldWireType(r, wt, Uint32Codec.WireType) {
			return true
		}
		p.Age = DecodePlainValue(r, Uint32Codec, duplicated)
		return true
	case 3:
		if !CheckFieldWireType(r, wt, wire.LengthDelimited) {
			return true
		}
		child := r.LengthDelimited()
		if child == nil {
			return true
		}
		DecodePacked(r, child, &p.Tags, duplicated, StringCodec)
		return true
	case 4:
		if wt == wire.LengthDelimited {
			child := r.LengthDelimited()
			if child == nil {
				return true
			}
			DecodePacked(r, child, &p.Scores, duplicated, Float64Codec)
		} else {
			// Unpacked elements repeat their own tag by design — the
			// second and later occurrences are expected, not an error.
			DecodeRepeatedElement(r, wt, &p.Scores, Float64Codec)
		}
		return true
	case 5:
		if !CheckFieldWireType(r, wt, wire.LengthDelimited) {
			return true
		}
		child := r.LengthDelimited()
		if child == nil {
			return true
		}
		if p.Attributes == nil {
			p.Attributes = make(map[string]string)
		}
		DecodeMap(r, child, p.Attributes, duplicated, StringCodec, StringCodec, strLess)
		return true
	case 6:
		if !CheckFieldWireType(r, wt, wire.LengthDelimited) {
			return true
		}
		child := r.LengthDelimited()
		if child == nil {
			return true
		}
		if p.Labels == nil {
			p.Labels = make(map[string]struct{})
		}
		DecodeSet(r, child, p.Labels, duplicated, StringCodec, strLess)
		return true
	case 7:
		if !CheckFieldWireType(r, wt, wire.LengthDelimited) {
			return true
		}
		p.Parent = &Profile{}
		DecodeNestedMessage(r, duplicated, p.Parent)
		return true
	case 8:
		v, ok := DecodeOneofVariant(r, wt, tag, &p.contactTag, duplicated, StringCodec)
		if ok {
			p.EmailAddr = v
		}
		return true
	case 9:
		v, ok := DecodeOneofVariant(r, wt, tag, &p.contactTag, duplicated, StringCodec)
		if ok {
			p.PhoneNumber = v
		}
		return true
	default:
		return false
	}
}

func strLess(a, b string) bool { return strings.Compare(a, b) < 0 }
