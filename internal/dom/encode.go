package dom

import (
	"bytes"

	"github.com/KilimcininKorOglu/ember/internal/ber"
)

// Encoder writes trees in the double-wrapped form
// [tag][outer length][type tag][inner length][payload].
type Encoder struct {
	// Indefinite writes containers with indefinite outer and inner lengths,
	// each closed by an end-of-contents marker. Leaves are always definite.
	Indefinite bool
}

// Encode writes n to w.
func (e Encoder) Encode(w ber.Writer, n Node) error {
	if n == nil {
		return ErrNilNode
	}
	return e.encode(ber.NewEncoder(w), n)
}

func (e Encoder) encode(enc *ber.Encoder, n Node) error {
	switch x := n.(type) {
	case *Leaf:
		if x.typeTag == x.value.UniversalTag() {
			return enc.WriteTagged(x.tag, x.value)
		}
		payload := x.payloadLength()
		if err := enc.WriteHeader(x.tag, true, ber.Length(innerFramedLength(x.typeTag, payload))); err != nil {
			return err
		}
		if err := enc.WriteHeader(x.typeTag, false, ber.Length(payload)); err != nil {
			return err
		}
		return enc.WriteValue(x.value)

	case *Container:
		if e.Indefinite {
			if err := enc.WriteHeader(x.tag, true, ber.LengthIndefinite); err != nil {
				return err
			}
			if err := enc.WriteHeader(x.typeTag, true, ber.LengthIndefinite); err != nil {
				return err
			}
		} else {
			payload := x.payloadLength()
			if err := enc.WriteHeader(x.tag, true, ber.Length(innerFramedLength(x.typeTag, payload))); err != nil {
				return err
			}
			if err := enc.WriteHeader(x.typeTag, true, ber.Length(payload)); err != nil {
				return err
			}
		}
		for _, child := range x.children {
			if err := e.encode(enc, child); err != nil {
				return err
			}
		}
		if e.Indefinite {
			if err := enc.WriteEndOfContents(); err != nil {
				return err
			}
			return enc.WriteEndOfContents()
		}
		return nil
	}
	return ErrNilNode
}

// Encode writes n to w in definite form.
func Encode(w ber.Writer, n Node) error {
	return Encoder{}.Encode(w, n)
}

// Marshal returns the definite encoding of n.
func Marshal(n Node) ([]byte, error) {
	if n == nil {
		return nil, ErrNilNode
	}
	var buf bytes.Buffer
	buf.Grow(n.EncodedLength())
	if err := Encode(&buf, n); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
