package ber

import "io"

// Null is the unit type encoded as a universal NULL with no value bytes.
type Null struct{}

// Primitive is the set of Go types with a fixed universal tag and a
// primitive BER encoding.
type Primitive interface {
	bool |
		int | int8 | int16 | int32 | int64 |
		uint | uint8 | uint16 | uint32 | uint64 |
		float32 | float64 |
		string | []byte | ObjectIdentifier | Null
}

// UniversalTag returns the universal tag identifying T on the wire.
func UniversalTag[T Primitive]() Tag {
	var zero T
	return universalTagOf(any(zero))
}

func universalTagOf(v any) Tag {
	switch v.(type) {
	case bool:
		return BooleanTag
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return IntegerTag
	case float32, float64:
		return RealTag
	case string:
		return UTF8StringTag
	case []byte:
		return OctetStringTag
	case ObjectIdentifier:
		return RelativeOIDTag
	default:
		return NullTag
	}
}

// EncodedLength returns the number of value bytes v occupies, excluding its
// tag and length.
func EncodedLength[T Primitive](v T) int {
	return primitiveLength(any(v))
}

func primitiveLength(v any) int {
	switch x := v.(type) {
	case bool:
		return 1
	case int:
		return signedLength(int64(x))
	case int8:
		return signedLength(int64(x))
	case int16:
		return signedLength(int64(x))
	case int32:
		return signedLength(int64(x))
	case int64:
		return signedLength(x)
	case uint:
		return unsignedLength(uint64(x))
	case uint8:
		return unsignedLength(uint64(x))
	case uint16:
		return unsignedLength(uint64(x))
	case uint32:
		return unsignedLength(uint64(x))
	case uint64:
		return unsignedLength(x)
	case float32:
		return realLength(float64(x))
	case float64:
		return realLength(x)
	case string:
		return len(x)
	case []byte:
		return len(x)
	case ObjectIdentifier:
		return oidLength(x)
	default:
		return 0
	}
}

// AppendPrimitive appends the value bytes of v to dst.
func AppendPrimitive[T Primitive](dst []byte, v T) []byte {
	return appendPrimitive(dst, any(v))
}

func appendPrimitive(dst []byte, v any) []byte {
	switch x := v.(type) {
	case bool:
		// Per X.690, FALSE is 0x00, TRUE is any non-zero value (we use 0xFF).
		if x {
			return append(dst, 0xFF)
		}
		return append(dst, 0x00)
	case int:
		return appendSigned(dst, int64(x))
	case int8:
		return appendSigned(dst, int64(x))
	case int16:
		return appendSigned(dst, int64(x))
	case int32:
		return appendSigned(dst, int64(x))
	case int64:
		return appendSigned(dst, x)
	case uint:
		return appendUnsigned(dst, uint64(x))
	case uint8:
		return appendUnsigned(dst, uint64(x))
	case uint16:
		return appendUnsigned(dst, uint64(x))
	case uint32:
		return appendUnsigned(dst, uint64(x))
	case uint64:
		return appendUnsigned(dst, x)
	case float32:
		return appendReal(dst, float64(x))
	case float64:
		return appendReal(dst, x)
	case string:
		return append(dst, x...)
	case []byte:
		return append(dst, x...)
	case ObjectIdentifier:
		return appendOID(dst, x)
	default:
		return dst
	}
}

// Encode writes exactly EncodedLength(v) value bytes to w.
func Encode[T Primitive](w io.Writer, v T) error {
	var err error
	switch x := any(v).(type) {
	case string:
		_, err = io.WriteString(w, x)
	case []byte:
		_, err = w.Write(x)
	default:
		var scratch [16]byte
		_, err = w.Write(appendPrimitive(scratch[:0], x))
	}
	return err
}

// Decode decodes the value bytes of a T. data must hold exactly the value,
// as delimited by its length field.
func Decode[T Primitive](data []byte) (T, error) {
	var zero T
	var out any
	var err error

	switch any(zero).(type) {
	case bool:
		out, err = decodeBool(data)
	case int:
		out, err = decodeSignedAs[int](data)
	case int8:
		out, err = decodeSignedAs[int8](data)
	case int16:
		out, err = decodeSignedAs[int16](data)
	case int32:
		out, err = decodeSignedAs[int32](data)
	case int64:
		out, err = decodeSigned(data)
	case uint:
		out, err = decodeUnsignedAs[uint](data)
	case uint8:
		out, err = decodeUnsignedAs[uint8](data)
	case uint16:
		out, err = decodeUnsignedAs[uint16](data)
	case uint32:
		out, err = decodeUnsignedAs[uint32](data)
	case uint64:
		out, err = decodeUnsigned(data)
	case float32:
		var f float64
		f, err = decodeReal(data)
		out = float32(f)
	case float64:
		out, err = decodeReal(data)
	case string:
		out = string(data)
	case []byte:
		out = append([]byte{}, data...)
	case ObjectIdentifier:
		out, err = decodeOID(data)
	default:
		out, err = Null{}, decodeNull(data)
	}
	if err != nil {
		return zero, err
	}
	return out.(T), nil
}

func decodeBool(data []byte) (bool, error) {
	// Boolean must have length 1
	if len(data) != 1 {
		return false, ErrInvalidBoolean
	}
	return data[0] != 0x00, nil
}

func decodeNull(data []byte) error {
	// Null must have length 0
	if len(data) != 0 {
		return ErrInvalidNull
	}
	return nil
}
