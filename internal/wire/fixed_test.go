package wire

import (
	"bytes"
	"math"
	"testing"
)

func TestFixed32RoundTrip(t *testing.T) {
	values := []uint32{0, 1, 0xFFFFFFFF, 0x01020304, 0x80000000}
	for _, v := range values {
		buf := AppendFixed32(nil, v)
		if len(buf) != Fixed32Size {
			t.Fatalf("AppendFixed32(%d) produced %d bytes, want %d", v, len(buf), Fixed32Size)
		}
		got, err := DecodeFixed32(buf)
		if err != nil {
			t.Fatalf("DecodeFixed32: %v", err)
		}
		if got != v {
			t.Errorf("round trip failed for %#x: got %#x", v, got)
		}
		put := make([]byte, Fixed32Size)
		PutFixed32(put, v)
		if !bytes.Equal(put, buf) {
			t.Errorf("PutFixed32(%#x) = %v, want %v", v, put, buf)
		}
	}
}

func TestFixed64RoundTrip(t *testing.T) {
	values := []uint64{0, 1, math.MaxUint64, 0x0102030405060708, 0x8000000000000000}
	for _, v := range values {
		buf := AppendFixed64(nil, v)
		if len(buf) != Fixed64Size {
			t.Fatalf("AppendFixed64(%d) produced %d bytes, want %d", v, len(buf), Fixed64Size)
		}
		got, err := DecodeFixed64(buf)
		if err != nil {
			t.Fatalf("DecodeFixed64: %v", err)
		}
		if got != v {
			t.Errorf("round trip failed for %#x: got %#x", v, got)
		}
		put := make([]byte, Fixed64Size)
		PutFixed64(put, v)
		if !bytes.Equal(put, buf) {
			t.Errorf("PutFixed64(%#x) = %v, want %v", v, put, buf)
		}
	}
}

func TestFixedTruncated(t *testing.T) {
	if _, err := DecodeFixed32([]byte{1, 2, 3}); err != ErrVarintTruncated {
		t.Errorf("DecodeFixed32(3 bytes) error = %v, want ErrVarintTruncated", err)
	}
	if _, err := DecodeFixed64([]byte{1, 2, 3, 4, 5, 6, 7}); err != ErrVarintTruncated {
		t.Errorf("DecodeFixed64(7 bytes) error = %v, want ErrVarintTruncated", err)
	}
}

// This package never canonicalizes a NaN payload or folds -0.0 into +0.0:
// every bit pattern must survive the round trip exactly, since a program
// that relies on a specific NaN payload (or on distinguishing -0.0 from
// +0.0 for field-presence purposes, see pkg/thorn's float value codecs)
// would otherwise lose information.
func TestFloat32BitsPreserved(t *testing.T) {
	values := []float32{
		0,
		math.Float32frombits(0x80000000), // -0.0
		1.5,
		-1.5,
		math.Float32frombits(0x7FC00000), // quiet NaN
		math.Float32frombits(0x7F800001), // signaling NaN payload 1
		math.Float32frombits(0xFFC00000), // negative quiet NaN
		float32(math.Inf(1)),
		float32(math.Inf(-1)),
	}
	for _, v := range values {
		buf := AppendFloat32(nil, v)
		got, err := DecodeFloat32(buf)
		if err != nil {
			t.Fatalf("DecodeFloat32: %v", err)
		}
		if math.Float32bits(got) != math.Float32bits(v) {
			t.Errorf("float32 bit pattern not preserved: %#x -> %#x",
				math.Float32bits(v), math.Float32bits(got))
		}
	}
}

func TestFloat64BitsPreserved(t *testing.T) {
	values := []float64{
		0,
		math.Float64frombits(0x8000000000000000), // -0.0
		1.5,
		-1.5,
		math.Float64frombits(0x7FF8000000000000), // quiet NaN
		math.Float64frombits(0x7FF0000000000001), // signaling NaN payload 1
		math.Float64frombits(0xFFF8000000000000), // negative quiet NaN
		math.Inf(1),
		math.Inf(-1),
	}
	for _, v := range values {
		buf := AppendFloat64(nil, v)
		got, err := DecodeFloat64(buf)
		if err != nil {
			t.Fatalf("DecodeFloat64: %v", err)
		}
		if math.Float64bits(got) != math.Float64bits(v) {
			t.Errorf("float64 bit pattern not preserved: %#x -> %#x",
				math.Float64bits(v), math.Float64bits(got))
		}
	}
}

func TestIsNaN32(t *testing.T) {
	if !IsNaN32(math.Float32frombits(0x7FC00000)) {
		t.Error("quiet NaN not detected")
	}
	if !IsNaN32(math.Float32frombits(0x7F800001)) {
		t.Error("signaling NaN not detected")
	}
	if IsNaN32(0) || IsNaN32(float32(math.Inf(1))) {
		t.Error("non-NaN misreported as NaN")
	}
}

func TestIsNaN64(t *testing.T) {
	if !IsNaN64(math.Float64frombits(0x7FF8000000000000)) {
		t.Error("quiet NaN not detected")
	}
	if !IsNaN64(math.Float64frombits(0x7FF0000000000001)) {
		t.Error("signaling NaN not detected")
	}
	if IsNaN64(0) || IsNaN64(math.Inf(1)) {
		t.Error("non-NaN misreported as NaN")
	}
}

// -0.0 is bit-distinct from +0.0 even though they compare equal as floats;
// this is exactly why the Fixed field encoder must test bits, not ==0.0, to
// decide whether a float field is at its default.
func TestIsNegativeZero(t *testing.T) {
	if !IsNegativeZero32(math.Float32frombits(0x80000000)) {
		t.Error("-0.0 (float32) not detected")
	}
	if IsNegativeZero32(0) {
		t.Error("+0.0 (float32) misreported as negative zero")
	}
	if !IsNegativeZero64(math.Float64frombits(0x8000000000000000)) {
		t.Error("-0.0 (float64) not detected")
	}
	if IsNegativeZero64(0) {
		t.Error("+0.0 (float64) misreported as negative zero")
	}
	// Equal as floats, but distinct bit patterns.
	posZero, negZero := float64(0), math.Float64frombits(0x8000000000000000)
	if posZero != negZero {
		t.Fatal("test setup: expected +0.0 == -0.0 under float comparison")
	}
	if math.Float64bits(posZero) == math.Float64bits(negZero) {
		t.Fatal("test setup: expected distinct bit patterns for +0.0 and -0.0")
	}
}
