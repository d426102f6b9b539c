package thorn

import (
	"github.com/thornwire/thorn/internal/wire"
)

// Reader decodes one message's worth of fields from a Capped cursor,
// accumulating a Canonicity verdict as it goes. It carries a sticky first
// error like an ordinary protobuf-style reader, but also tracks canonicity:
// every value read that a canonical encoder would not have produced (an
// out-of-order map or set key, a packed field that arrived unpacked, a
// skipped unknown field) pulls the running Canonicity down from Canonical toward
// HasExtensions, which RequireDistinguished then checks once at the end.
type Reader struct {
	c          *wire.Capped
	lastTag    uint32
	sawTag     bool
	tr         wire.TagReader
	depth      int
	err        error
	opts       Options
	canon      Canonicity
	messageCtx string
}

// NewReader wraps data for decoding under opts.
func NewReader(data []byte, opts Options) *Reader {
	return &Reader{c: wire.NewCapped(data), opts: opts, canon: Canonical}
}

// subReader builds a Reader over a nested region that shares the parent's
// options and depth counter's starting point.
func subReader(c *wire.Capped, opts Options, depth int) *Reader {
	return &Reader{c: c, opts: opts, canon: Canonical, depth: depth}
}

func (r *Reader) Err() error { return r.err }

func (r *Reader) setError(kind DecodeErrorKind) {
	if r.err == nil {
		r.err = &DecodeError{Kind: kind}
	}
}

func (r *Reader) wrapError(kind DecodeErrorKind, cause error) {
	if r.err == nil {
		r.err = WrapDecodeError(kind, cause)
	}
}

func (r *Reader) ok() bool { return r.err == nil }

// Canonicity returns the canonicity observed so far.
func (r *Reader) Canonicity() Canonicity { return r.canon }

// MarkNotMinimal pulls the running canonicity down to HasExtensions. Value
// decoders call this whenever they notice the bytes they just consumed,
// while valid, were not the canonical encoding of the value (e.g. a Plain
// field written at its zero value under expedient decoding).
func (r *Reader) MarkNotMinimal() {
	r.canon = r.canon.Meet(HasExtensions)
}

// RequireDistinguished enforces canonical decoding when the Reader's Mode
// is Distinguished: a message whose fields decoded successfully but not
// canonically is rejected wholesale at the point its caller asks whether
// the decode should be treated as trustworthy for re-encoding.
func (r *Reader) RequireDistinguished() error {
	if r.opts.Mode != Distinguished {
		return nil
	}
	return r.canon.RequireCanonical()
}

// HasNext reports whether another field key remains before the cap.
func (r *Reader) HasNext() bool {
	return r.ok() && r.c.HasRemaining()
}

// NextKey decodes the next field's tag and wire type, advancing the
// running last-tag state used to delta-decode subsequent keys. duplicated
// reports whether tag is the same tag that was just decoded immediately
// before this one — the only comparison that can ever matter, since tags
// are required to arrive in non-decreasing order, so two occurrences of the
// same tag are always adjacent in the stream.
func (r *Reader) NextKey() (tag uint32, wt wire.WireType, duplicated bool) {
	if !r.ok() {
		return 0, 0, false
	}
	tag, wt, n, err := r.tr.DecodeKey(r.c.Buf())
	if err != nil {
		r.wrapError(classifyWireError(err), err)
		return 0, 0, false
	}
	r.c.Advance(n)
	duplicated = r.sawTag && r.lastTag == tag
	r.lastTag = tag
	r.sawTag = true
	return tag, wt, duplicated
}

// Skip discards the value of the given wire type without decoding it — the
// path taken for an unrecognized field tag under expedient decoding.
func (r *Reader) Skip(wt wire.WireType) {
	if !r.ok() {
		return
	}
	if err := wire.SkipField(wt, r.c); err != nil {
		r.wrapError(classifyWireError(err), err)
	}
}

func (r *Reader) Varint() uint64 {
	if !r.ok() {
		return 0
	}
	v, err := r.c.DecodeVarint()
	if err != nil {
		r.wrapError(classifyWireError(err), err)
		return 0
	}
	return v
}

func (r *Reader) Fixed32() uint32 {
	if !r.ok() {
		return 0
	}
	v, err := wire.DecodeFixed32(r.c.Buf())
	if err != nil {
		r.wrapError(classifyWireError(err), err)
		return 0
	}
	r.c.Advance(wire.Fixed32Size)
	return v
}

func (r *Reader) Fixed64() uint64 {
	if !r.ok() {
		return 0
	}
	v, err := wire.DecodeFixed64(r.c.Buf())
	if err != nil {
		r.wrapError(classifyWireError(err), err)
		return 0
	}
	r.c.Advance(wire.Fixed64Size)
	return v
}

// LengthDelimited takes a nested Capped scoped to the next length-delimited
// region's declared length, enforcing MaxStringLength-style limits is left
// to the caller since the limit differs by field kind (string vs. blob vs.
// message vs. collection).
func (r *Reader) LengthDelimited() *wire.Capped {
	if !r.ok() {
		return nil
	}
	child, err := r.c.TakeLengthDelimited()
	if err != nil {
		r.wrapError(classifyWireError(err), err)
		return nil
	}
	return child
}

// EnterNested increments the nesting depth, failing with
// RecursionLimitReached if it would exceed the configured limit.
func (r *Reader) EnterNested() bool {
	if !r.ok() {
		return false
	}
	if r.opts.Limits.MaxDepth > 0 && r.depth >= r.opts.Limits.MaxDepth {
		r.setError(RecursionLimitReached)
		return false
	}
	r.depth++
	return true
}

func (r *Reader) ExitNested() {
	if r.depth > 0 {
		r.depth--
	}
}

// Sub builds a Reader for a nested message's body over child, inheriting
// this Reader's options and current depth.
func (r *Reader) Sub(child *wire.Capped) *Reader {
	return subReader(child, r.opts, r.depth)
}

// classifyWireError maps internal/wire's sentinel errors onto the DecodeErrorKind taxonomy.
func classifyWireError(err error) DecodeErrorKind {
	switch err {
	case wire.ErrVarintTruncated:
		return Truncated
	case wire.ErrVarintOverflow:
		return InvalidVarint
	case wire.ErrTagOverflowed:
		return TagOverflowed
	case wire.ErrWrongWireType:
		return WrongWireType
	default:
		return Other
	}
}
