package thorn

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/encoding/protowire"
)

// TestVarintDiffersFromProtobufLEB128 is a differential test against
// protobuf's varint codec: for the magnitudes tested here both schemes need
// the same number of bytes, except at the top of the range where LEB128
// takes a tenth byte and the bijective varint stops at nine. Only
// protobuf's LEB128 tolerates a non-minimal
// encoding (trailing 0x80 continuation bytes) — this package's bijective
// varint does not, by design: there is deliberately no wire compatibility
// with Protocol Buffers.
func TestVarintDiffersFromProtobufLEB128(t *testing.T) {
	for _, v := range []uint64{0, 1, 127, 128, 300, 1 << 20, 1 << 40, ^uint64(0)} {
		thornBytes := Uint64Codec.EncodedLen(v)

		pbBuf := protowire.AppendVarint(nil, v)
		pbLen := len(pbBuf)

		w := NewWriter()
		Uint64Codec.Encode(w, v)
		require.Equal(t, thornBytes, len(w.Bytes()), "EncodedLen mismatch for %d", v)

		// For these values below 2^63, bijective varint and LEB128 occupy
		// the same number of bytes; from 2^63 up LEB128 needs 10 bytes and
		// the bijective varint 9.
		wantLen := pbLen
		if v >= 1<<63 {
			wantLen = 9
		}
		assert.Equal(t, wantLen, len(w.Bytes()), "byte-length class mismatch for %d", v)
	}
}

// TestProtobufAcceptsNonMinimalVarintThornDoesNot shows the concrete
// divergence: padding a value out with extra continuation bytes is a valid
// (non-canonical) protobuf varint, but this package's bijective decoder
// lands on an entirely different value for it, since the bijective scheme
// has exactly one encoding per value and no notion of a padded equivalent.
func TestProtobufAcceptsNonMinimalVarintThornDoesNot(t *testing.T) {
	padded := []byte{0x81, 0x80, 0x80, 0x00} // 1, padded with two extra zero continuation groups
	v, n := protowire.ConsumeVarint(padded)
	require.Greater(t, n, 0, "protobuf should accept the padded varint")
	require.EqualValues(t, 1, v)

	r := NewReader(padded, DefaultOptions)
	got := r.Varint()
	// Bijective decoding of the padded bytes does not raise got to the
	// padded protobuf value at all: the trailing zero continuation groups
	// are decoded as additional nonzero digit contributions in the
	// bijective base, so the two schemes land on different numbers entirely
	// rather than merely differing on canonicity.
	assert.NotEqual(t, v, got)
}

func TestMessageDeepEqualityViaTestify(t *testing.T) {
	p := &Profile{
		Name:   "grace",
		Age:    85,
		Tags:   []string{"admiral", "compiler"},
		Scores: []float64{9.5},
	}
	data, err := Marshal(p)
	require.NoError(t, err)

	got := &Profile{}
	require.NoError(t, Unmarshal(data, got))

	assert.Equal(t, p.Name, got.Name)
	assert.Equal(t, p.Age, got.Age)
	assert.ElementsMatch(t, p.Tags, got.Tags)
	assert.InDeltaSlice(t, p.Scores, got.Scores, 0)
}
