package ber

import (
	"io"
	"math"
	"strconv"
)

// Length is the length field of a TLV. Non-negative values are definite
// byte counts; LengthIndefinite marks a constructed value terminated by an
// end-of-contents marker.
type Length int

// LengthIndefinite is the reserved indefinite length.
const LengthIndefinite Length = -1

// IsIndefinite reports whether l is the indefinite marker.
func (l Length) IsIndefinite() bool { return l == LengthIndefinite }

// String returns the decimal length or "indefinite".
func (l Length) String() string {
	if l.IsIndefinite() {
		return "indefinite"
	}
	return strconv.Itoa(int(l))
}

// EncodedLength returns the number of bytes the length field occupies.
func (l Length) EncodedLength() int {
	if l.IsIndefinite() || l <= MaxShortFormLength {
		return 1
	}
	n := 0
	for v := uint64(l); v > 0; v >>= 8 {
		n++
	}
	return 1 + n
}

// AppendLength appends the encoding of l to dst.
func AppendLength(dst []byte, l Length) []byte {
	if l.IsIndefinite() {
		return append(dst, LengthIndefiniteByte)
	}
	// Short form: length fits in 7 bits (0-127)
	if l <= MaxShortFormLength {
		return append(dst, byte(l))
	}
	numBytes := l.EncodedLength() - 1
	dst = append(dst, byte(LengthLongFormBit|numBytes))
	// Write length bytes in big-endian order
	for i := numBytes - 1; i >= 0; i-- {
		dst = append(dst, byte(uint64(l)>>(uint(i)*8)))
	}
	return dst
}

// EncodeLength writes the encoding of l to w.
func EncodeLength(w io.ByteWriter, l Length) error {
	if l < LengthIndefinite {
		return ErrNegativeLength
	}
	var scratch [1 + maxLengthBytes]byte
	for _, b := range AppendLength(scratch[:0], l) {
		if err := w.WriteByte(b); err != nil {
			return err
		}
	}
	return nil
}

// DecodeLength decodes a length from the front of data and returns it with
// the number of bytes consumed.
func DecodeLength(data []byte) (Length, int, error) {
	var acc lengthAccumulator
	for i, b := range data {
		done, err := acc.push(b)
		if err != nil {
			return 0, i + 1, err
		}
		if done {
			return acc.length, i + 1, nil
		}
	}
	return 0, len(data), ErrUnexpectedEOF
}

// lengthAccumulator decodes a length one byte at a time.
type lengthAccumulator struct {
	length    Length
	started   bool
	remaining int
}

func (a *lengthAccumulator) reset() {
	*a = lengthAccumulator{}
}

// push feeds one byte and reports whether the length is complete.
func (a *lengthAccumulator) push(b byte) (bool, error) {
	if !a.started {
		a.started = true
		// Short form: bit 8 is 0, bits 1-7 contain the length
		if b&LengthLongFormBit == 0 {
			a.length = Length(b)
			return true, nil
		}
		if b == LengthIndefiniteByte {
			a.length = LengthIndefinite
			return true, nil
		}
		if b == lengthReserved {
			return false, ErrInvalidLength
		}
		// Long form: bits 1-7 contain the number of subsequent length bytes
		a.remaining = int(b &^ LengthLongFormBit)
		if a.remaining > maxLengthBytes {
			return false, ErrLengthOverflow
		}
		return false, nil
	}
	if a.length > math.MaxInt>>8 {
		return false, ErrLengthOverflow
	}
	a.length = a.length<<8 | Length(b)
	a.remaining--
	return a.remaining == 0, nil
}
