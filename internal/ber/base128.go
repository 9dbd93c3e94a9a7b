package ber

import "io"

// Base-128 integers carry 7 value bits per byte, most significant group
// first; every byte except the last has its top bit set. They encode long
// form tag numbers and object identifier arcs.

// Base128Length returns the number of bytes needed to encode v. Zero takes
// one byte.
func Base128Length(v uint64) int {
	n := 1
	for v >>= 7; v != 0; v >>= 7 {
		n++
	}
	return n
}

// AppendBase128 appends the base-128 encoding of v to dst.
func AppendBase128(dst []byte, v uint64) []byte {
	n := Base128Length(v)
	for i := n - 1; i >= 0; i-- {
		b := byte(v>>(uint(i)*7)) & base128Mask
		if i > 0 {
			b |= base128More // Set continuation bit for all but last byte
		}
		dst = append(dst, b)
	}
	return dst
}

// EncodeBase128 writes the base-128 encoding of v to w.
func EncodeBase128(w io.ByteWriter, v uint64) error {
	n := Base128Length(v)
	for i := n - 1; i >= 0; i-- {
		b := byte(v>>(uint(i)*7)) & base128Mask
		if i > 0 {
			b |= base128More
		}
		if err := w.WriteByte(b); err != nil {
			return err
		}
	}
	return nil
}

// DecodeBase128 decodes one base-128 integer from the front of data and
// returns it with the number of bytes consumed. Running out of data before
// a byte with a clear top bit is an underflow; a value wider than 64 bits
// is ErrTagOverflow.
func DecodeBase128(data []byte) (uint64, int, error) {
	var acc base128Accumulator
	for i, b := range data {
		done, err := acc.push(b)
		if err != nil {
			return 0, i + 1, err
		}
		if done {
			return acc.value, i + 1, nil
		}
	}
	return 0, len(data), ErrUnexpectedEOF
}

// base128Accumulator decodes a base-128 integer one byte at a time so that
// the stream decoder can pause between bytes.
type base128Accumulator struct {
	value uint64
	count int
}

func (a *base128Accumulator) reset() {
	a.value = 0
	a.count = 0
}

// push feeds one byte and reports whether the integer is complete.
func (a *base128Accumulator) push(b byte) (bool, error) {
	// Check for overflow before shifting
	if a.value > (^uint64(0))>>7 {
		return false, ErrTagOverflow
	}
	a.value = a.value<<7 | uint64(b&base128Mask)
	a.count++
	return b&base128More == 0, nil
}
