package dom

import "github.com/KilimcininKorOglu/ember/internal/ber"

// Leaf is a primitive node holding a single value.
type Leaf struct {
	nodeBase
	value  ber.Value
	opaque bool
}

// NewLeaf creates a leaf holding v, typed with v's universal tag.
func NewLeaf(tag ber.Tag, v ber.Value) *Leaf {
	return &Leaf{
		nodeBase: nodeBase{tag: tag, typeTag: v.UniversalTag(), dirty: true},
		value:    v,
	}
}

// NewLeafOf creates a leaf holding a statically typed primitive.
func NewLeafOf[T ber.Primitive](tag ber.Tag, x T) *Leaf {
	return NewLeaf(tag, ber.ValueOf(x))
}

// NewTypedLeaf creates an empty leaf whose value will be decoded from bytes
// tagged with typeTag. Factories use it for leaves whose type tag differs
// from the universal tag of the value kind, such as ENUMERATED.
func NewTypedLeaf(tag, typeTag ber.Tag) *Leaf {
	return &Leaf{nodeBase: nodeBase{tag: tag, typeTag: typeTag, dirty: true}}
}

// IsContainer always returns false.
func (l *Leaf) IsContainer() bool { return false }

// Value returns the value held by the leaf.
func (l *Leaf) Value() ber.Value { return l.value }

// Opaque reports whether the value bytes had a type no decoder knows. Such
// a leaf holds the raw bytes as octets and re-encodes them unchanged.
func (l *Leaf) Opaque() bool { return l.opaque }

// SetValue replaces the value. The type tag is kept when v has the same
// kind as the current value, so an ENUMERATED stays ENUMERATED; otherwise it
// becomes the universal tag of v.
func (l *Leaf) SetValue(v ber.Value) {
	if l.opaque || v.Kind() != l.value.Kind() {
		l.typeTag = v.UniversalTag()
	}
	l.opaque = false
	l.value = v
	l.MarkDirty()
}

// decode fills the leaf from its value bytes. An unknown type keeps the raw
// bytes and is not an error.
func (l *Leaf) decode(r *ber.Registry, data []byte) error {
	v, err := r.Decode(l.typeTag, data)
	if err != nil {
		if ber.IsFatal(err) {
			return err
		}
		l.value = ber.OctetsValue(append([]byte{}, data...))
		l.opaque = true
	} else {
		l.value = v
	}
	l.dirty = true
	return nil
}

func (l *Leaf) payloadLength() int {
	if l.dirty {
		l.cached = l.value.EncodedLength()
		l.dirty = false
	}
	return l.cached
}

// EncodedLength returns the framed size of the leaf.
func (l *Leaf) EncodedLength() int {
	return framedLength(l.tag, l.typeTag, l.payloadLength())
}
