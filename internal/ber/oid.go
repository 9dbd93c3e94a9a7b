package ber

import (
	"strconv"
	"strings"
)

// ObjectIdentifier is a relative object identifier: a sequence of arcs,
// each encoded independently in base-128 with no separators.
type ObjectIdentifier []uint64

// ParseObjectIdentifier parses dotted notation such as "1.2.3".
func ParseObjectIdentifier(s string) (ObjectIdentifier, error) {
	if s == "" {
		return ObjectIdentifier{}, nil
	}
	parts := strings.Split(s, ".")
	oid := make(ObjectIdentifier, 0, len(parts))
	for _, p := range parts {
		arc, err := strconv.ParseUint(p, 10, 64)
		if err != nil {
			return nil, ErrInvalidOID
		}
		oid = append(oid, arc)
	}
	return oid, nil
}

// String returns the dotted notation of o.
func (o ObjectIdentifier) String() string {
	var sb strings.Builder
	for i, arc := range o {
		if i > 0 {
			sb.WriteByte('.')
		}
		sb.WriteString(strconv.FormatUint(arc, 10))
	}
	return sb.String()
}

// Equal reports whether o and other hold the same arcs.
func (o ObjectIdentifier) Equal(other ObjectIdentifier) bool {
	if len(o) != len(other) {
		return false
	}
	for i := range o {
		if o[i] != other[i] {
			return false
		}
	}
	return true
}

// Append returns a copy of o with arcs added.
func (o ObjectIdentifier) Append(arcs ...uint64) ObjectIdentifier {
	out := make(ObjectIdentifier, 0, len(o)+len(arcs))
	out = append(out, o...)
	return append(out, arcs...)
}

func oidLength(o ObjectIdentifier) int {
	n := 0
	for _, arc := range o {
		n += Base128Length(arc)
	}
	return n
}

func appendOID(dst []byte, o ObjectIdentifier) []byte {
	for _, arc := range o {
		dst = AppendBase128(dst, arc)
	}
	return dst
}

// decodeOID consumes arcs until data is exhausted. An arc cut off at the
// end of data is an error.
func decodeOID(data []byte) (ObjectIdentifier, error) {
	oid := make(ObjectIdentifier, 0, len(data))
	for len(data) > 0 {
		arc, n, err := DecodeBase128(data)
		if err != nil {
			return nil, ErrInvalidOID
		}
		oid = append(oid, arc)
		data = data[n:]
	}
	return oid, nil
}
