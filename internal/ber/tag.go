package ber

import (
	"fmt"
	"io"
)

// Tag identifies the role of a value: a class and a non-negative number.
// Tags compare equal when class and number match; whether the value is
// constructed is a property of its encoding and is carried separately.
type Tag struct {
	Class  Class
	Number uint64
}

// Universal returns a universal class tag.
func Universal(number uint64) Tag { return Tag{Class: ClassUniversal, Number: number} }

// Application returns an application class tag.
func Application(number uint64) Tag { return Tag{Class: ClassApplication, Number: number} }

// Context returns a context-specific tag.
func Context(number uint64) Tag { return Tag{Class: ClassContextSpecific, Number: number} }

// Private returns a private class tag.
func Private(number uint64) Tag { return Tag{Class: ClassPrivate, Number: number} }

// Built-in type tags.
var (
	BooleanTag     = Universal(TagBoolean)
	IntegerTag     = Universal(TagInteger)
	OctetStringTag = Universal(TagOctetString)
	NullTag        = Universal(TagNull)
	RealTag        = Universal(TagReal)
	UTF8StringTag  = Universal(TagUTF8String)
	RelativeOIDTag = Universal(TagRelativeOID)
	SequenceTag    = Universal(TagSequence)
	SetTag         = Universal(TagSet)
)

// IsUniversal reports whether t belongs to the universal class.
func (t Tag) IsUniversal() bool { return t.Class == ClassUniversal }

// String returns t in ASN.1 notation, e.g. "[APPLICATION 3]".
func (t Tag) String() string {
	if t.Class == ClassContextSpecific {
		return fmt.Sprintf("[%d]", t.Number)
	}
	return fmt.Sprintf("[%s %d]", t.Class, t.Number)
}

// EncodedLength returns the number of bytes the tag occupies on the wire.
func (t Tag) EncodedLength() int {
	if t.Number <= maxShortTagValue {
		return 1
	}
	return 1 + Base128Length(t.Number)
}

// preamble returns the first tag byte.
func (t Tag) preamble(constructed bool) byte {
	b := byte(t.Class) & classMask
	if constructed {
		b |= TypeConstructed
	}
	if t.Number <= maxShortTagValue {
		return b | byte(t.Number)
	}
	return b | tagLongForm
}

// AppendTag appends the encoding of t to dst.
func AppendTag(dst []byte, t Tag, constructed bool) []byte {
	dst = append(dst, t.preamble(constructed))
	if t.Number > maxShortTagValue {
		dst = AppendBase128(dst, t.Number)
	}
	return dst
}

// EncodeTag writes the encoding of t to w.
// Short form is used for tag numbers 0-30, long form for larger numbers.
func EncodeTag(w io.ByteWriter, t Tag, constructed bool) error {
	if err := w.WriteByte(t.preamble(constructed)); err != nil {
		return err
	}
	if t.Number > maxShortTagValue {
		return EncodeBase128(w, t.Number)
	}
	return nil
}

// DecodeTag decodes a tag from the front of data. It returns the tag, the
// constructed flag and the number of bytes consumed.
func DecodeTag(data []byte) (Tag, bool, int, error) {
	var acc tagAccumulator
	for i, b := range data {
		done, err := acc.push(b)
		if err != nil {
			return Tag{}, false, i + 1, err
		}
		if done {
			return acc.tag, acc.constructed, i + 1, nil
		}
	}
	return Tag{}, false, len(data), ErrUnexpectedEOF
}

// tagAccumulator decodes a tag one byte at a time.
type tagAccumulator struct {
	tag         Tag
	constructed bool
	started     bool
	number      base128Accumulator
}

func (a *tagAccumulator) reset() {
	*a = tagAccumulator{}
}

// push feeds one byte and reports whether the tag is complete.
func (a *tagAccumulator) push(b byte) (bool, error) {
	if !a.started {
		a.started = true
		a.tag.Class = Class(b & classMask)
		a.constructed = b&TypeConstructed != 0
		// Check for long form tag (all 5 bits set = 0x1F)
		if b&tagNumberMask != tagLongForm {
			a.tag.Number = uint64(b & tagNumberMask)
			return true, nil
		}
		return false, nil
	}
	done, err := a.number.push(b)
	if err != nil {
		return false, err
	}
	if done {
		a.tag.Number = a.number.value
	}
	return done, nil
}
