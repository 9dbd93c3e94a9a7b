// Package ber implements ASN.1 BER (Basic Encoding Rules) encoding
// as specified in ITU-T X.690.
package ber

// BERDecoder reads BER headers and values from a complete in-memory buffer.
// Running out of data is always an error; use StreamDecoder when input
// arrives in fragments.
type BERDecoder struct {
	data   []byte
	offset int
}

// NewBERDecoder creates a new BER decoder for the given data.
func NewBERDecoder(data []byte) *BERDecoder {
	return &BERDecoder{
		data:   data,
		offset: 0,
	}
}

// Offset returns the current read position in the data.
func (d *BERDecoder) Offset() int {
	return d.offset
}

// Remaining returns the number of bytes remaining to be read.
func (d *BERDecoder) Remaining() int {
	return len(d.data) - d.offset
}

// ReadTag reads a BER tag from the current position.
// Returns the tag and the constructed flag.
func (d *BERDecoder) ReadTag() (Tag, bool, error) {
	startOffset := d.offset

	if d.offset >= len(d.data) {
		return Tag{}, false, NewDecodeError(startOffset, "cannot read tag", ErrUnexpectedEOF)
	}

	tag, constructed, n, err := DecodeTag(d.data[d.offset:])
	if err != nil {
		return Tag{}, false, NewDecodeError(startOffset, "cannot read tag", err)
	}
	d.offset += n
	return tag, constructed, nil
}

// ReadLength reads a BER length value from the current position.
func (d *BERDecoder) ReadLength() (Length, error) {
	startOffset := d.offset

	if d.offset >= len(d.data) {
		return 0, NewDecodeError(startOffset, "cannot read length", ErrUnexpectedEOF)
	}

	length, n, err := DecodeLength(d.data[d.offset:])
	if err != nil {
		return 0, NewDecodeError(startOffset, "cannot read length", err)
	}
	d.offset += n
	return length, nil
}

// ReadBytes returns the next n bytes and advances past them. The result
// aliases the decoder's data.
func (d *BERDecoder) ReadBytes(n int) ([]byte, error) {
	if n < 0 || n > d.Remaining() {
		return nil, NewDecodeError(d.offset, "truncated value", ErrUnexpectedEOF)
	}
	value := d.data[d.offset : d.offset+n]
	d.offset += n
	return value, nil
}

// AtEndOfContents reports whether the next two bytes are an end-of-contents marker.
func (d *BERDecoder) AtEndOfContents() bool {
	return d.offset+1 < len(d.data) && d.data[d.offset] == 0x00 && d.data[d.offset+1] == 0x00
}

// ReadEndOfContents consumes an end-of-contents marker.
func (d *BERDecoder) ReadEndOfContents() error {
	if d.Remaining() < endOfContentsSize {
		return NewDecodeError(d.offset, "cannot read end-of-contents", ErrUnexpectedEOF)
	}
	if !d.AtEndOfContents() {
		return NewDecodeError(d.offset, "expected end-of-contents", ErrUnexpectedEOC)
	}
	d.offset += endOfContentsSize
	return nil
}

// Skip skips the current TLV (Tag-Length-Value) element, including the
// nested contents of an indefinite length element.
func (d *BERDecoder) Skip() error {
	startOffset := d.offset

	_, constructed, err := d.ReadTag()
	if err != nil {
		return err
	}
	length, err := d.ReadLength()
	if err != nil {
		return err
	}
	return d.skipContents(startOffset, constructed, length)
}

// SkipContents skips the value of a TLV whose header has been read.
func (d *BERDecoder) SkipContents(constructed bool, length Length) error {
	return d.skipContents(d.offset, constructed, length)
}

func (d *BERDecoder) skipContents(startOffset int, constructed bool, length Length) error {
	if !length.IsIndefinite() {
		if int(length) > d.Remaining() {
			return NewDecodeError(startOffset, "truncated value", ErrUnexpectedEOF)
		}
		d.offset += int(length)
		return nil
	}
	if !constructed {
		return NewDecodeError(startOffset, "indefinite length on primitive", ErrIndefinitePrimitive)
	}
	for !d.AtEndOfContents() {
		if d.Remaining() == 0 {
			return NewDecodeError(startOffset, "missing end-of-contents", ErrUnexpectedEOF)
		}
		if err := d.Skip(); err != nil {
			return err
		}
	}
	d.offset += endOfContentsSize
	return nil
}
