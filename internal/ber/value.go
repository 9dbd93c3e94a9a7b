package ber

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"strconv"
)

// Kind identifies which primitive a Value holds.
type Kind uint8

// Value kinds.
const (
	KindNull Kind = iota
	KindBoolean
	KindInteger
	KindUnsigned
	KindReal
	KindString
	KindOctets
	KindOID
)

// String returns the name of the kind.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBoolean:
		return "boolean"
	case KindInteger:
		return "integer"
	case KindUnsigned:
		return "unsigned"
	case KindReal:
		return "real"
	case KindString:
		return "string"
	case KindOctets:
		return "octets"
	case KindOID:
		return "oid"
	default:
		return "unknown"
	}
}

// Value holds one primitive whose type is only known at run time, as
// produced by decoding a leaf through a Registry. The zero Value is null.
type Value struct {
	kind   Kind
	num    uint64
	real   float64
	str    string
	octets []byte
	oid    ObjectIdentifier
}

// NullValue returns a null Value.
func NullValue() Value { return Value{} }

// BoolValue returns a boolean Value.
func BoolValue(b bool) Value {
	v := Value{kind: KindBoolean}
	if b {
		v.num = 1
	}
	return v
}

// IntValue returns a signed integer Value.
func IntValue(i int64) Value { return Value{kind: KindInteger, num: uint64(i)} }

// UintValue returns an unsigned integer Value.
func UintValue(u uint64) Value { return Value{kind: KindUnsigned, num: u} }

// RealValue returns a real Value.
func RealValue(f float64) Value { return Value{kind: KindReal, real: f} }

// StringValue returns a UTF8String Value.
func StringValue(s string) Value { return Value{kind: KindString, str: s} }

// OctetsValue returns an OCTET STRING Value. b is not copied.
func OctetsValue(b []byte) Value {
	if b == nil {
		b = []byte{}
	}
	return Value{kind: KindOctets, octets: b}
}

// OIDValue returns a RELATIVE-OID Value. o is not copied.
func OIDValue(o ObjectIdentifier) Value { return Value{kind: KindOID, oid: o} }

// ValueOf wraps a statically typed primitive in a Value.
func ValueOf[T Primitive](x T) Value {
	switch v := any(x).(type) {
	case bool:
		return BoolValue(v)
	case int:
		return IntValue(int64(v))
	case int8:
		return IntValue(int64(v))
	case int16:
		return IntValue(int64(v))
	case int32:
		return IntValue(int64(v))
	case int64:
		return IntValue(v)
	case uint:
		return UintValue(uint64(v))
	case uint8:
		return UintValue(uint64(v))
	case uint16:
		return UintValue(uint64(v))
	case uint32:
		return UintValue(uint64(v))
	case uint64:
		return UintValue(v)
	case float32:
		return RealValue(float64(v))
	case float64:
		return RealValue(v)
	case string:
		return StringValue(v)
	case []byte:
		return OctetsValue(v)
	case ObjectIdentifier:
		return OIDValue(v)
	default:
		return NullValue()
	}
}

// Kind returns the kind of v.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// Bool returns the boolean held by v; numbers are true when non-zero.
func (v Value) Bool() bool {
	switch v.kind {
	case KindReal:
		return v.real != 0
	case KindBoolean, KindInteger, KindUnsigned:
		return v.num != 0
	default:
		return false
	}
}

// Int returns v as a signed integer, converting other numeric kinds.
func (v Value) Int() int64 {
	switch v.kind {
	case KindReal:
		return int64(v.real)
	case KindBoolean, KindInteger, KindUnsigned:
		return int64(v.num)
	default:
		return 0
	}
}

// Uint returns v as an unsigned integer, converting other numeric kinds.
func (v Value) Uint() uint64 {
	switch v.kind {
	case KindReal:
		return uint64(v.real)
	case KindBoolean, KindInteger, KindUnsigned:
		return v.num
	default:
		return 0
	}
}

// Real returns v as a float64, converting integer kinds.
func (v Value) Real() float64 {
	switch v.kind {
	case KindReal:
		return v.real
	case KindInteger, KindBoolean:
		return float64(int64(v.num))
	case KindUnsigned:
		return float64(v.num)
	default:
		return 0
	}
}

// Text returns the string held by v, or "" for other kinds.
func (v Value) Text() string {
	if v.kind != KindString {
		return ""
	}
	return v.str
}

// Octets returns the bytes held by v, or nil for other kinds.
func (v Value) Octets() []byte {
	if v.kind != KindOctets {
		return nil
	}
	return v.octets
}

// OID returns the object identifier held by v, or nil for other kinds.
func (v Value) OID() ObjectIdentifier {
	if v.kind != KindOID {
		return nil
	}
	return v.oid
}

// UniversalTag returns the universal tag v is encoded with.
func (v Value) UniversalTag() Tag {
	switch v.kind {
	case KindBoolean:
		return BooleanTag
	case KindInteger, KindUnsigned:
		return IntegerTag
	case KindReal:
		return RealTag
	case KindString:
		return UTF8StringTag
	case KindOctets:
		return OctetStringTag
	case KindOID:
		return RelativeOIDTag
	default:
		return NullTag
	}
}

// EncodedLength returns the number of value bytes v occupies.
func (v Value) EncodedLength() int {
	switch v.kind {
	case KindBoolean:
		return 1
	case KindInteger:
		return signedLength(int64(v.num))
	case KindUnsigned:
		return unsignedValueLength(v.num)
	case KindReal:
		return realLength(v.real)
	case KindString:
		return len(v.str)
	case KindOctets:
		return len(v.octets)
	case KindOID:
		return oidLength(v.oid)
	default:
		return 0
	}
}

// AppendTo appends the value bytes of v to dst.
func (v Value) AppendTo(dst []byte) []byte {
	switch v.kind {
	case KindBoolean:
		return appendPrimitive(dst, v.num != 0)
	case KindInteger:
		return appendSigned(dst, int64(v.num))
	case KindUnsigned:
		return appendUnsignedValue(dst, v.num)
	case KindReal:
		return appendReal(dst, v.real)
	case KindString:
		return append(dst, v.str...)
	case KindOctets:
		return append(dst, v.octets...)
	case KindOID:
		return appendOID(dst, v.oid)
	default:
		return dst
	}
}

// Encode writes the value bytes of v to w.
func (v Value) Encode(w io.Writer) error {
	var err error
	switch v.kind {
	case KindString:
		_, err = io.WriteString(w, v.str)
	case KindOctets:
		_, err = w.Write(v.octets)
	default:
		var scratch [16]byte
		_, err = w.Write(v.AppendTo(scratch[:0]))
	}
	return err
}

// Equal reports whether v and o hold the same kind and value. Integers
// and unsigned integers compare by numeric value. Reals compare by bit
// pattern so that NaN equals NaN.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		switch {
		case v.kind == KindInteger && o.kind == KindUnsigned:
			return int64(v.num) >= 0 && v.num == o.num
		case v.kind == KindUnsigned && o.kind == KindInteger:
			return int64(o.num) >= 0 && v.num == o.num
		}
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindReal:
		return math.Float64bits(v.real) == math.Float64bits(o.real)
	case KindString:
		return v.str == o.str
	case KindOctets:
		return bytes.Equal(v.octets, o.octets)
	case KindOID:
		return v.oid.Equal(o.oid)
	default:
		return v.num == o.num
	}
}

// String returns a human-readable rendering of v.
func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return "null"
	case KindBoolean:
		return strconv.FormatBool(v.num != 0)
	case KindInteger:
		return strconv.FormatInt(int64(v.num), 10)
	case KindUnsigned:
		return strconv.FormatUint(v.num, 10)
	case KindReal:
		return strconv.FormatFloat(v.real, 'g', -1, 64)
	case KindString:
		return strconv.Quote(v.str)
	case KindOctets:
		return fmt.Sprintf("% X", v.octets)
	case KindOID:
		return v.oid.String()
	default:
		return "?"
	}
}
