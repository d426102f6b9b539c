package thorn

import (
	"sort"

	"github.com/thornwire/thorn/internal/wire"
)

// MapKey constrains the Go types usable as map/set keys: everything this
// format can encode as a value is comparable in Go except []byte, which
// cannot back a Go map at all, so the constraint is exactly "comparable".
type MapKey interface{ comparable }

// EncodeMap writes a map field as one length-delimited region holding every
// (key, value) pair back to back, sorted by key. Canonical encoding always
// sorts the keys — unlike a packed slice, whose element order is part of
// the value being encoded, a Go map has no inherent order, so sorting is
// both necessary for determinism and required for canonicity, not merely a
// convenience.
func EncodeMap[K MapKey, V any](w *Writer, tag uint32, m map[K]V, kc ValueCodec[K], vc ValueCodec[V], less func(a, b K) bool) {
	if len(m) == 0 {
		return
	}
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return less(keys[i], keys[j]) })

	w.Key(tag, wire.LengthDelimited)
	inner := &Writer{opts: w.opts}
	for _, k := range keys {
		kc.Encode(inner, k)
		vc.Encode(inner, m[k])
	}
	w.LengthDelimited(inner.buf)
}

func EncodedLenMap[K MapKey, V any](tag uint32, m map[K]V, kc ValueCodec[K], vc ValueCodec[V], tm *wire.TagMeasurer) int {
	if len(m) == 0 {
		return 0
	}
	inner := 0
	for k, v := range m {
		inner += kc.EncodedLen(k) + vc.EncodedLen(v)
	}
	return tm.KeyLen(tag) + wire.UvarintSize(uint64(inner)) + inner
}

// DecodeMap reads a map field's body out of child into m. duplicated
// rejects a second occurrence of the map's own tag with
// UnexpectedlyRepeated — a map field is always one length-delimited region,
// never grown by repeating its tag. Within that region, a key that occurs
// twice is UnexpectedlyRepeated in either mode; keys that are not in
// strictly ascending order (per less, which must impose the same order
// EncodeMap sorts by) lower the verdict to HasExtensions, which
// distinguished decoding then reports as not canonical.
func DecodeMap[K MapKey, V any](r *Reader, child *wire.Capped, m map[K]V, duplicated bool, kc ValueCodec[K], vc ValueCodec[V], less func(a, b K) bool) {
	if duplicated {
		r.setError(UnexpectedlyRepeated)
		return
	}
	if fixedSize, ok := combinedFixedSize(kc.WireType, vc.WireType); ok {
		if child.RemainingBeforeCap()%fixedSize != 0 {
			r.setError(Truncated)
			return
		}
	}
	sub := r.Sub(child)
	var prevKey K
	haveKey := false
	seen := make(map[K]struct{})
	for sub.ok() && sub.c.HasRemaining() {
		k := kc.Decode(sub)
		v := vc.Decode(sub)
		if !sub.ok() {
			break
		}
		if haveKey {
			switch {
			case prevKey == k:
				sub.setError(UnexpectedlyRepeated)
			case !less(prevKey, k):
				if _, dup := seen[k]; dup {
					sub.setError(UnexpectedlyRepeated)
				} else {
					sub.MarkNotMinimal()
				}
			}
		}
		seen[k] = struct{}{}
		m[k] = v
		prevKey, haveKey = k, true
	}
	if sub.err != nil {
		r.err = sub.err
		return
	}
	r.canon = r.canon.Meet(sub.canon)
}

func combinedFixedSize(a, b wire.WireType) (int, bool) {
	fa, oka := a.FixedSize()
	fb, okb := b.FixedSize()
	if oka && okb {
		return fa + fb, true
	}
	return 0, false
}

// EncodeSet writes a Go set (represented as map[T]struct{}, the idiomatic
// Go stand-in for a set with no stdlib type of its own) the same way a map
// is written, using the element itself for both "key" and "value" slots
// with a zero-size value codec.
func EncodeSet[T MapKey](w *Writer, tag uint32, set map[T]struct{}, c ValueCodec[T], less func(a, b T) bool) {
	if len(set) == 0 {
		return
	}
	keys := make([]T, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return less(keys[i], keys[j]) })

	w.Key(tag, wire.LengthDelimited)
	inner := &Writer{opts: w.opts}
	for _, k := range keys {
		c.Encode(inner, k)
	}
	w.LengthDelimited(inner.buf)
}

func EncodedLenSet[T MapKey](tag uint32, set map[T]struct{}, c ValueCodec[T], tm *wire.TagMeasurer) int {
	if len(set) == 0 {
		return 0
	}
	inner := 0
	for k := range set {
		inner += c.EncodedLen(k)
	}
	return tm.KeyLen(tag) + wire.UvarintSize(uint64(inner)) + inner
}

// DecodeSet reads a set field's body out of child into set, applying the
// same ordering/uniqueness/duplicated-tag discipline as DecodeMap.
func DecodeSet[T MapKey](r *Reader, child *wire.Capped, set map[T]struct{}, duplicated bool, c ValueCodec[T], less func(a, b T) bool) {
	if duplicated {
		r.setError(UnexpectedlyRepeated)
		return
	}
	if fixedSize, ok := c.WireType.FixedSize(); ok {
		if child.RemainingBeforeCap()%fixedSize != 0 {
			r.setError(Truncated)
			return
		}
	}
	sub := r.Sub(child)
	var prev T
	have := false
	seen := make(map[T]struct{})
	for sub.ok() && sub.c.HasRemaining() {
		k := c.Decode(sub)
		if !sub.ok() {
			break
		}
		if have {
			switch {
			case prev == k:
				sub.setError(UnexpectedlyRepeated)
			case !less(prev, k):
				if _, dup := seen[k]; dup {
					sub.setError(UnexpectedlyRepeated)
				} else {
					sub.MarkNotMinimal()
				}
			}
		}
		seen[k] = struct{}{}
		set[k] = struct{}{}
		prev, have = k, true
	}
	if sub.err != nil {
		r.err = sub.err
		return
	}
	r.canon = r.canon.Meet(sub.canon)
}
