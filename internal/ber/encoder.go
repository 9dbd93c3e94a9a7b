// Package ber implements ASN.1 BER (Basic Encoding Rules) encoding
// as specified in ITU-T X.690.
package ber

// Encoder writes BER headers and values to a Writer and counts the bytes
// it has emitted.
type Encoder struct {
	w       Writer
	written int
	scratch []byte
}

// NewEncoder creates a new encoder writing to w.
func NewEncoder(w Writer) *Encoder {
	return &Encoder{
		w:       w,
		scratch: make([]byte, 0, 16),
	}
}

// Len returns the number of bytes written so far.
func (e *Encoder) Len() int {
	return e.written
}

func (e *Encoder) flush() error {
	n, err := e.w.Write(e.scratch)
	e.written += n
	e.scratch = e.scratch[:0]
	return err
}

// WriteTag writes a BER tag.
// Short form is used for tag numbers 0-30, long form for larger numbers.
func (e *Encoder) WriteTag(t Tag, constructed bool) error {
	if t.Class&^classMask != 0 {
		return ErrInvalidTagClass
	}
	e.scratch = AppendTag(e.scratch, t, constructed)
	return e.flush()
}

// WriteLength writes a BER length value.
// Uses short form for lengths 0-127, long form for larger values and the
// single byte 0x80 for LengthIndefinite.
func (e *Encoder) WriteLength(l Length) error {
	if l < LengthIndefinite {
		return ErrNegativeLength
	}
	e.scratch = AppendLength(e.scratch, l)
	return e.flush()
}

// WriteHeader writes a tag followed by a length.
func (e *Encoder) WriteHeader(t Tag, constructed bool, l Length) error {
	if err := e.WriteTag(t, constructed); err != nil {
		return err
	}
	return e.WriteLength(l)
}

// WriteEndOfContents writes the 0x00 0x00 marker closing an indefinite
// length value.
func (e *Encoder) WriteEndOfContents() error {
	e.scratch = append(e.scratch, 0x00, 0x00)
	return e.flush()
}

// WriteValue writes the value bytes of v without a header.
func (e *Encoder) WriteValue(v Value) error {
	switch v.Kind() {
	case KindString, KindOctets:
		var n int
		var err error
		if v.Kind() == KindString {
			n, err = e.w.Write([]byte(v.Text()))
		} else {
			n, err = e.w.Write(v.Octets())
		}
		e.written += n
		return err
	}
	e.scratch = v.AppendTo(e.scratch)
	return e.flush()
}

// WritePrimitive writes a complete universal TLV for v: its universal tag,
// its length and its value bytes.
func (e *Encoder) WritePrimitive(v Value) error {
	if err := e.WriteHeader(v.UniversalTag(), false, Length(v.EncodedLength())); err != nil {
		return err
	}
	return e.WriteValue(v)
}

// WriteTagged writes v wrapped in an application tag:
// [tag][outer length][type tag][inner length][value].
func (e *Encoder) WriteTagged(tag Tag, v Value) error {
	inner := v.EncodedLength()
	outer := v.UniversalTag().EncodedLength() + Length(inner).EncodedLength() + inner
	if err := e.WriteHeader(tag, true, Length(outer)); err != nil {
		return err
	}
	return e.WritePrimitive(v)
}

// FramedLength returns the size of a TLV with the given tag and a definite
// content length.
func FramedLength(tag Tag, contentLength int) int {
	return tag.EncodedLength() + Length(contentLength).EncodedLength() + contentLength
}
