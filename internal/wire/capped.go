package wire

// Capped wraps the remaining bytes of a decode buffer together with a count
// of bytes reserved for whatever lies beyond the current length-delimited
// region, if any ("extra bytes remaining"). It lets a decoder descend into
// nested length-delimited regions (messages, packed fields, maps) without
// copying or allocating a new buffer at each level: every Capped derived
// from another via TakeLengthDelimited shares the same underlying slice
// pointer, so advancing through a child is advancing through the parent
// too. Only one Capped in a chain of parent/children should be read at a
// time — the decoder that takes a child owns the cursor until it either
// consumes the child's entire region or returns an error.
type Capped struct {
	data                *[]byte
	extraBytesRemaining int
}

// NewCapped wraps data with a cap at its very end — there is nothing
// "extra" beyond it.
func NewCapped(data []byte) *Capped {
	d := data
	return &Capped{data: &d}
}

// Remaining returns the number of bytes left in the underlying buffer,
// including whatever lies beyond this cap.
func (c *Capped) Remaining() int { return len(*c.data) }

// RemainingBeforeCap returns the number of bytes left before the cap.
func (c *Capped) RemainingBeforeCap() int {
	r := len(*c.data) - c.extraBytesRemaining
	if r < 0 {
		return 0
	}
	return r
}

// HasRemaining reports whether any bytes remain before the cap.
func (c *Capped) HasRemaining() bool { return c.RemainingBeforeCap() > 0 }

// OverCap reports whether the cursor has already been advanced past its
// cap — a malformed length-delimited region whose contents read beyond
// their declared length.
func (c *Capped) OverCap() bool { return len(*c.data) < c.extraBytesRemaining }

// Buf returns the unconsumed bytes before the cap, without consuming them.
func (c *Capped) Buf() []byte {
	return (*c.data)[:c.RemainingBeforeCap()]
}

// Advance consumes n bytes from the front of the buffer. Callers are
// responsible for ensuring n does not exceed RemainingBeforeCap; decode
// helpers that read through Buf()'s bounded slice cannot violate this.
func (c *Capped) Advance(n int) { *c.data = (*c.data)[n:] }

// DecodeVarint decodes one bijective varint from the front of the buffer.
// A varint that would need to read past the cap is reported as truncated
// rather than as an invalid-varint or overflow error: from the field's
// point of view, those bytes simply don't exist.
func (c *Capped) DecodeVarint() (uint64, error) {
	v, n, err := DecodeUvarint(c.Buf())
	if err != nil {
		return 0, err
	}
	c.Advance(n)
	return v, nil
}

// TakeLengthDelimited reads a length prefix from the front of the buffer
// and returns a child Capped scoped to exactly that many bytes, sharing
// this Capped's underlying cursor. The child must be fully consumed (or
// discarded on error) before this Capped is read again.
func (c *Capped) TakeLengthDelimited() (*Capped, error) {
	length, err := c.DecodeVarint()
	if err != nil {
		return nil, err
	}
	remaining := uint64(len(*c.data))
	if length > remaining {
		return nil, ErrVarintTruncated
	}
	extra := remaining - length
	if extra < uint64(c.extraBytesRemaining) {
		return nil, ErrVarintTruncated
	}
	return &Capped{data: c.data, extraBytesRemaining: int(extra)}, nil
}

// TakeAll returns the remaining bytes before the cap and advances past
// them.
func (c *Capped) TakeAll() []byte {
	buf := c.Buf()
	c.Advance(len(buf))
	return buf
}

// SkipField advances past one field's value of the given wire type,
// without decoding it, used when a decoder encounters an unrecognized tag
// it still must account for in the byte stream.
func SkipField(wireType WireType, c *Capped) error {
	var length uint64
	switch wireType {
	case Varint:
		if _, err := c.DecodeVarint(); err != nil {
			return err
		}
		return nil
	case ThirtyTwoBit:
		length = 4
	case SixtyFourBit:
		length = 8
	case LengthDelimited:
		l, err := c.DecodeVarint()
		if err != nil {
			return err
		}
		length = l
	default:
		return ErrWrongWireType
	}
	if length > uint64(c.RemainingBeforeCap()) {
		return ErrVarintTruncated
	}
	c.Advance(int(length))
	return nil
}
