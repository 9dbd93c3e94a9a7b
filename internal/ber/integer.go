package ber

// Signed is the set of signed integer types the codec accepts.
type Signed interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64
}

// Unsigned is the set of unsigned integer types the codec accepts.
type Unsigned interface {
	~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

// signedLength returns the minimal two's complement byte count of v: the
// smallest n such that sign extending the top byte reproduces v.
func signedLength(v int64) int {
	n := 1
	for v > 127 || v < -128 {
		v >>= 8
		n++
	}
	return n
}

// unsignedLength returns the minimal big-endian byte count of v. Zero takes
// one byte.
func unsignedLength(v uint64) int {
	n := 1
	for v > 0xFF {
		v >>= 8
		n++
	}
	return n
}

// appendSigned appends the minimal two's complement encoding of v.
func appendSigned(dst []byte, v int64) []byte {
	for i := signedLength(v) - 1; i >= 0; i-- {
		dst = append(dst, byte(v>>(uint(i)*8)))
	}
	return dst
}

// appendUnsigned appends the minimal big-endian encoding of v. No sign
// byte is inserted: unsigned values are a distinct type in this protocol.
func appendUnsigned(dst []byte, v uint64) []byte {
	for i := unsignedLength(v) - 1; i >= 0; i-- {
		dst = append(dst, byte(v>>(uint(i)*8)))
	}
	return dst
}

// unsignedValueLength is unsignedLength plus the leading zero that
// appendUnsignedValue writes when the top bit is set.
func unsignedValueLength(v uint64) int {
	n := unsignedLength(v)
	if v>>(uint(n)*8-1) != 0 {
		n++
	}
	return n
}

// appendUnsignedValue appends v as a non-negative INTEGER. A leaf carries
// no static type, so a value with its top bit set gets a leading zero to
// keep a generic reader from taking it as negative.
func appendUnsignedValue(dst []byte, v uint64) []byte {
	if unsignedValueLength(v) > unsignedLength(v) {
		dst = append(dst, 0x00)
	}
	return appendUnsigned(dst, v)
}

// decodeSigned decodes a two's complement integer of at most 8 bytes.
func decodeSigned(data []byte) (int64, error) {
	// Integer must have at least 1 byte
	if len(data) == 0 {
		return 0, ErrInvalidInteger
	}
	if len(data) > 8 {
		return 0, ErrInvalidInteger
	}
	var result int64
	// If high bit is set, the number is negative (two's complement)
	if data[0]&0x80 != 0 {
		result = -1
	}
	for _, b := range data {
		result = result<<8 | int64(b)
	}
	return result, nil
}

// decodeUnsigned decodes a big-endian unsigned integer. A ninth byte is
// tolerated only as a leading zero written by a sign-aware peer.
func decodeUnsigned(data []byte) (uint64, error) {
	if len(data) == 0 {
		return 0, ErrInvalidInteger
	}
	if len(data) > 8 {
		if len(data) > 9 || data[0] != 0 {
			return 0, ErrInvalidInteger
		}
		data = data[1:]
	}
	var result uint64
	for _, b := range data {
		result = result<<8 | uint64(b)
	}
	return result, nil
}

// decodeSignedAs decodes into T, rejecting values T cannot hold.
func decodeSignedAs[T Signed](data []byte) (T, error) {
	v, err := decodeSigned(data)
	if err != nil {
		return 0, err
	}
	if int64(T(v)) != v {
		return 0, ErrInvalidInteger
	}
	return T(v), nil
}

// decodeUnsignedAs decodes into T, rejecting values T cannot hold.
func decodeUnsignedAs[T Unsigned](data []byte) (T, error) {
	v, err := decodeUnsigned(data)
	if err != nil {
		return 0, err
	}
	if uint64(T(v)) != v {
		return 0, ErrInvalidInteger
	}
	return T(v), nil
}
