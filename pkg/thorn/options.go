package thorn

// Limits defines resource limits for decoding. There is no separate
// map/array ceiling because both are governed by the same recursion and
// message-size limits as everything else in a length-delimited wire
// format.
type Limits struct {
	// MaxMessageSize is the maximum total size in bytes of a decoded
	// top-level message. Zero means no limit. It is checked by
	// StreamReader.ReadMessage against each frame's length prefix;
	// Unmarshal does not check it.
	MaxMessageSize int64

	// MaxDepth is the maximum nesting depth of messages. Zero means no
	// limit, which is not recommended for untrusted input.
	MaxDepth int

	// MaxStringLength is the maximum length in bytes of a String field.
	// Zero means no limit. StringCodec does not check it.
	MaxStringLength int

	// MaxBytesLength is the maximum length in bytes of a bytes field. Zero
	// means no limit. BytesCodec does not check it.
	MaxBytesLength int

	// MaxCollectionLength is the maximum number of elements decoded into
	// a packed, unpacked, map, or set field. Zero means no limit. The
	// collection decoders in this package do not check it.
	MaxCollectionLength int
}

// DefaultLimits are generous limits suitable for trusted input.
var DefaultLimits = Limits{
	MaxMessageSize:      64 * 1024 * 1024,
	MaxDepth:            100,
	MaxStringLength:     10 * 1024 * 1024,
	MaxBytesLength:      100 * 1024 * 1024,
	MaxCollectionLength: 1_000_000,
}

// SecureLimits are conservative limits appropriate for untrusted input.
var SecureLimits = Limits{
	MaxMessageSize:      1 * 1024 * 1024,
	MaxDepth:            32,
	MaxStringLength:     1 * 1024 * 1024,
	MaxBytesLength:       10 * 1024 * 1024,
	MaxCollectionLength: 10_000,
}

// NoLimits disables all resource limits. Use with caution, only for input
// from a fully trusted source.
var NoLimits = Limits{}

// Mode selects between this format's two decode disciplines: a single wire
// format read under two different strictness policies.
type Mode uint8

const (
	// Expedient decodes permissively: any valid encoding of a value is
	// accepted, map and set keys need not be sorted, a Plain field written
	// at its zero value is accepted, and a repeated field may arrive in
	// either packed or unpacked form.
	Expedient Mode = iota
	// Distinguished decodes strictly: a message is accepted only if the
	// bytes given to it are the unique canonical encoding of the value
	// they represent. A Plain field written at its zero value fails at
	// once; any other deviation (out-of-order map keys, a repeated field
	// in its other form, a skipped unknown field) is a NotCanonical error
	// from UnmarshalWithOptions, while UnmarshalDistinguished reports it
	// as a Canonicity instead.
	Distinguished
)

// Options configures encoding and decoding behavior.
type Options struct {
	// Limits bounds resource consumption while decoding.
	Limits Limits

	// Mode selects expedient or distinguished decoding. Encoding is not
	// affected by Mode: a message is always encoded canonically.
	Mode Mode

	// RejectUnknownFields causes decoding to fail with an UnknownField
	// error rather than skip unrecognized field tags. Distinguished mode
	// on its own does not imply this: an unknown field under Distinguished
	// decode without RejectUnknownFields merely lowers the verdict to at
	// most HasExtensions, matching a caller that wants strict canonical
	// round-tripping of *known* fields but is still willing to tolerate
	// schema evolution elsewhere. Set this to additionally hard-fail on any
	// unrecognized tag.
	RejectUnknownFields bool
}

// DefaultOptions decode expediently with generous limits.
var DefaultOptions = Options{
	Limits: DefaultLimits,
	Mode:   Expedient,
}

// StrictOptions decode distinguished, with unknown fields rejected and
// conservative limits — appropriate when canonical round-tripping matters,
// e.g. before re-signing or re-hashing a message.
var StrictOptions = Options{
	Limits:              SecureLimits,
	Mode:                Distinguished,
	RejectUnknownFields: true,
}
