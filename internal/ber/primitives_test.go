package ber

import (
	"bytes"
	"errors"
	"math"
	"testing"
)

func TestBase128(t *testing.T) {
	tests := []struct {
		name  string
		value uint64
		want  []byte
	}{
		{"zero", 0, []byte{0x00}},
		{"max single byte", 127, []byte{0x7F}},
		{"two bytes", 128, []byte{0x81, 0x00}},
		{"max two bytes", 16383, []byte{0xFF, 0x7F}},
		{"three bytes", 16384, []byte{0x81, 0x80, 0x00}},
		{"max uint64", math.MaxUint64, []byte{0x81, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0x7F}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AppendBase128(nil, tt.value)
			if !bytes.Equal(got, tt.want) {
				t.Errorf("AppendBase128(%d) = %X, want %X", tt.value, got, tt.want)
			}
			if n := Base128Length(tt.value); n != len(tt.want) {
				t.Errorf("Base128Length(%d) = %d, want %d", tt.value, n, len(tt.want))
			}

			var buf bytes.Buffer
			if err := EncodeBase128(&buf, tt.value); err != nil {
				t.Fatalf("EncodeBase128 failed: %v", err)
			}
			if !bytes.Equal(buf.Bytes(), tt.want) {
				t.Errorf("EncodeBase128(%d) = %X, want %X", tt.value, buf.Bytes(), tt.want)
			}

			v, n, err := DecodeBase128(tt.want)
			if err != nil {
				t.Fatalf("DecodeBase128 failed: %v", err)
			}
			if v != tt.value || n != len(tt.want) {
				t.Errorf("DecodeBase128 = (%d, %d), want (%d, %d)", v, n, tt.value, len(tt.want))
			}
		})
	}
}

func TestBase128_Errors(t *testing.T) {
	t.Run("underflow", func(t *testing.T) {
		_, _, err := DecodeBase128([]byte{0x81, 0x80})
		if !errors.Is(err, ErrUnexpectedEOF) {
			t.Errorf("expected ErrUnexpectedEOF, got %v", err)
		}
	})

	t.Run("overflow", func(t *testing.T) {
		data := bytes.Repeat([]byte{0xFF}, 10)
		data = append(data, 0x7F)
		_, _, err := DecodeBase128(data)
		if !errors.Is(err, ErrTagOverflow) {
			t.Errorf("expected ErrTagOverflow, got %v", err)
		}
		if !errors.Is(err, ErrFraming) {
			t.Errorf("expected overflow to be a framing error")
		}
	})
}

func TestTag_Encoding(t *testing.T) {
	tests := []struct {
		name        string
		tag         Tag
		constructed bool
		want        []byte
	}{
		{"universal integer", IntegerTag, false, []byte{0x02}},
		{"universal sequence", SequenceTag, true, []byte{0x30}},
		{"application 0 constructed", Application(0), true, []byte{0x60}},
		{"context 1 constructed", Context(1), true, []byte{0xA1}},
		{"private 30 primitive", Private(30), false, []byte{0xDE}},
		{"application 31 long form", Application(31), true, []byte{0x7F, 0x1F}},
		{"context 128 long form", Context(128), false, []byte{0x9F, 0x81, 0x00}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AppendTag(nil, tt.tag, tt.constructed)
			if !bytes.Equal(got, tt.want) {
				t.Errorf("AppendTag = %X, want %X", got, tt.want)
			}
			if n := tt.tag.EncodedLength(); n != len(tt.want) {
				t.Errorf("EncodedLength = %d, want %d", n, len(tt.want))
			}

			tag, constructed, n, err := DecodeTag(tt.want)
			if err != nil {
				t.Fatalf("DecodeTag failed: %v", err)
			}
			if tag != tt.tag || constructed != tt.constructed || n != len(tt.want) {
				t.Errorf("DecodeTag = (%v, %v, %d), want (%v, %v, %d)",
					tag, constructed, n, tt.tag, tt.constructed, len(tt.want))
			}
		})
	}
}

func TestTag_String(t *testing.T) {
	tests := []struct {
		tag  Tag
		want string
	}{
		{Context(3), "[3]"},
		{Application(1), "[APPLICATION 1]"},
		{Universal(16), "[UNIVERSAL 16]"},
		{Private(7), "[PRIVATE 7]"},
	}
	for _, tt := range tests {
		if got := tt.tag.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestTag_Truncated(t *testing.T) {
	_, _, _, err := DecodeTag([]byte{0x7F, 0x81})
	if !errors.Is(err, ErrUnexpectedEOF) {
		t.Errorf("expected ErrUnexpectedEOF, got %v", err)
	}
}

func TestLength_Encoding(t *testing.T) {
	tests := []struct {
		name   string
		length Length
		want   []byte
	}{
		{"zero", 0, []byte{0x00}},
		{"short form max", 127, []byte{0x7F}},
		{"long form one byte", 128, []byte{0x81, 0x80}},
		{"long form two bytes", 256, []byte{0x82, 0x01, 0x00}},
		{"long form 65535", 65535, []byte{0x82, 0xFF, 0xFF}},
		{"long form three bytes", 65536, []byte{0x83, 0x01, 0x00, 0x00}},
		{"indefinite", LengthIndefinite, []byte{0x80}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AppendLength(nil, tt.length)
			if !bytes.Equal(got, tt.want) {
				t.Errorf("AppendLength = %X, want %X", got, tt.want)
			}
			if n := tt.length.EncodedLength(); n != len(tt.want) {
				t.Errorf("EncodedLength = %d, want %d", n, len(tt.want))
			}

			l, n, err := DecodeLength(tt.want)
			if err != nil {
				t.Fatalf("DecodeLength failed: %v", err)
			}
			if l != tt.length || n != len(tt.want) {
				t.Errorf("DecodeLength = (%v, %d), want (%v, %d)", l, n, tt.length, len(tt.want))
			}
		})
	}
}

func TestLength_Errors(t *testing.T) {
	tests := []struct {
		name    string
		data    []byte
		wantErr error
	}{
		{"reserved", []byte{0xFF}, ErrInvalidLength},
		{"too many length bytes", []byte{0x89, 1, 2, 3, 4, 5, 6, 7, 8, 9}, ErrLengthOverflow},
		{"does not fit int", []byte{0x88, 0x80, 0, 0, 0, 0, 0, 0, 0}, ErrLengthOverflow},
		{"truncated", []byte{0x82, 0x01}, ErrUnexpectedEOF},
		{"empty", []byte{}, ErrUnexpectedEOF},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := DecodeLength(tt.data)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestLength_EncodeNegative(t *testing.T) {
	var buf bytes.Buffer
	if err := EncodeLength(&buf, -5); !errors.Is(err, ErrNegativeLength) {
		t.Errorf("expected ErrNegativeLength, got %v", err)
	}
}

func TestInteger_Signed(t *testing.T) {
	tests := []struct {
		value int64
		want  []byte
	}{
		{0, []byte{0x00}},
		{1, []byte{0x01}},
		{127, []byte{0x7F}},
		{128, []byte{0x00, 0x80}},
		{256, []byte{0x01, 0x00}},
		{-1, []byte{0xFF}},
		{-128, []byte{0x80}},
		{-129, []byte{0xFF, 0x7F}},
		{math.MaxInt64, []byte{0x7F, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}},
		{math.MinInt64, []byte{0x80, 0, 0, 0, 0, 0, 0, 0}},
	}

	for _, tt := range tests {
		got := AppendPrimitive(nil, tt.value)
		if !bytes.Equal(got, tt.want) {
			t.Errorf("encode %d = %X, want %X", tt.value, got, tt.want)
		}
		if n := EncodedLength(tt.value); n != len(tt.want) {
			t.Errorf("EncodedLength(%d) = %d, want %d", tt.value, n, len(tt.want))
		}
		v, err := Decode[int64](tt.want)
		if err != nil {
			t.Fatalf("decode %X failed: %v", tt.want, err)
		}
		if v != tt.value {
			t.Errorf("decode %X = %d, want %d", tt.want, v, tt.value)
		}
	}
}

func TestInteger_Unsigned(t *testing.T) {
	tests := []struct {
		value uint64
		want  []byte
	}{
		{0, []byte{0x00}},
		{255, []byte{0xFF}},
		{256, []byte{0x01, 0x00}},
		{math.MaxUint64, []byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}},
	}

	for _, tt := range tests {
		got := AppendPrimitive(nil, tt.value)
		if !bytes.Equal(got, tt.want) {
			t.Errorf("encode %d = %X, want %X", tt.value, got, tt.want)
		}
		v, err := Decode[uint64](tt.want)
		if err != nil {
			t.Fatalf("decode %X failed: %v", tt.want, err)
		}
		if v != tt.value {
			t.Errorf("decode %X = %d, want %d", tt.want, v, tt.value)
		}
	}

	// A leading zero written by a sign-aware peer is accepted.
	v, err := Decode[uint64]([]byte{0x00, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF})
	if err != nil || v != math.MaxUint64 {
		t.Errorf("decode with sign byte = (%d, %v)", v, err)
	}
}

func TestInteger_Errors(t *testing.T) {
	tests := []struct {
		name string
		fn   func() error
	}{
		{"empty", func() error { _, err := Decode[int64](nil); return err }},
		{"nine bytes", func() error { _, err := Decode[int64](make([]byte, 9)); return err }},
		{"int8 range", func() error { _, err := Decode[int8]([]byte{0x00, 0x80}); return err }},
		{"uint8 range", func() error { _, err := Decode[uint8]([]byte{0x01, 0x00}); return err }},
		{"uint ten bytes", func() error { _, err := Decode[uint64](make([]byte, 10)); return err }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.fn(); !errors.Is(err, ErrInvalidInteger) {
				t.Errorf("expected ErrInvalidInteger, got %v", err)
			}
		})
	}
}

func TestReal_Encoding(t *testing.T) {
	tests := []struct {
		name  string
		value float64
		want  []byte
	}{
		{"zero", 0, []byte{}},
		{"plus infinity", math.Inf(1), []byte{0x40}},
		{"minus infinity", math.Inf(-1), []byte{0x41}},
		{"one", 1, []byte{0x80, 0x00, 0x01}},
		{"half", 0.5, []byte{0x80, 0xFF, 0x01}},
		{"three", 3, []byte{0x80, 0x01, 0x03}},
		{"minus two and a half", -2.5, []byte{0xC0, 0x01, 0x05}},
		{"1024", 1024, []byte{0x80, 0x0A, 0x01}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AppendPrimitive(nil, tt.value)
			if !bytes.Equal(got, tt.want) {
				t.Errorf("encode %v = %X, want %X", tt.value, got, tt.want)
			}
			if n := EncodedLength(tt.value); n != len(tt.want) {
				t.Errorf("EncodedLength = %d, want %d", n, len(tt.want))
			}
			v, err := Decode[float64](tt.want)
			if err != nil {
				t.Fatalf("decode failed: %v", err)
			}
			if v != tt.value {
				t.Errorf("decode %X = %v, want %v", tt.want, v, tt.value)
			}
		})
	}
}

func TestReal_Decoding(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want float64
	}{
		{"empty is zero", []byte{}, 0},
		{"zero mantissa is one", []byte{0x00, 0x00}, 1},
		{"0x40 0x00 is minus one", []byte{0x40, 0x00}, -1},
		{"scale factor", []byte{0x84, 0x00, 0x01}, 1},
		{"two byte exponent", []byte{0x81, 0x01, 0x00, 0x01}, math.Ldexp(1, 256)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := Decode[float64](tt.data)
			if err != nil {
				t.Fatalf("decode failed: %v", err)
			}
			if v != tt.want {
				t.Errorf("decode %X = %v, want %v", tt.data, v, tt.want)
			}
		})
	}

	t.Run("nan", func(t *testing.T) {
		v, err := Decode[float64]([]byte{0x42})
		if err != nil || !math.IsNaN(v) {
			t.Errorf("decode 0x42 = (%v, %v), want NaN", v, err)
		}
	})

	t.Run("minus zero", func(t *testing.T) {
		v, err := Decode[float64]([]byte{0x43})
		if err != nil || v != 0 || !math.Signbit(v) {
			t.Errorf("decode 0x43 = (%v, %v), want -0", v, err)
		}
	})

	t.Run("truncated exponent", func(t *testing.T) {
		_, err := Decode[float64]([]byte{0x81, 0x01})
		if !errors.Is(err, ErrInvalidReal) {
			t.Errorf("expected ErrInvalidReal, got %v", err)
		}
	})

	t.Run("mantissa too long", func(t *testing.T) {
		data := append([]byte{0x80, 0x00}, bytes.Repeat([]byte{0x01}, 9)...)
		_, err := Decode[float64](data)
		if !errors.Is(err, ErrInvalidReal) {
			t.Errorf("expected ErrInvalidReal, got %v", err)
		}
	})
}

func TestReal_RoundTrip(t *testing.T) {
	values := []float64{
		0.1, -0.1, 123.456, 1e300, -1e-300,
		math.MaxFloat64, math.SmallestNonzeroFloat64, math.Pi,
		math.Copysign(0, -1),
	}
	for _, want := range values {
		data := AppendPrimitive(nil, want)
		got, err := Decode[float64](data)
		if err != nil {
			t.Fatalf("decode %v failed: %v", want, err)
		}
		if got != want {
			t.Errorf("round trip %v = %v (encoded %X)", want, got, data)
		}
	}

	f, err := Decode[float32](AppendPrimitive(nil, float32(2.75)))
	if err != nil || f != 2.75 {
		t.Errorf("float32 round trip = (%v, %v)", f, err)
	}
}

func TestObjectIdentifier(t *testing.T) {
	oid, err := ParseObjectIdentifier("1.2.840")
	if err != nil {
		t.Fatalf("ParseObjectIdentifier failed: %v", err)
	}
	want := []byte{0x01, 0x02, 0x86, 0x48}
	if got := AppendPrimitive(nil, oid); !bytes.Equal(got, want) {
		t.Errorf("encode = %X, want %X", got, want)
	}
	if EncodedLength(oid) != len(want) {
		t.Errorf("EncodedLength = %d, want %d", EncodedLength(oid), len(want))
	}

	decoded, err := Decode[ObjectIdentifier](want)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if !decoded.Equal(oid) || decoded.String() != "1.2.840" {
		t.Errorf("decoded %v, want %v", decoded, oid)
	}

	if got := oid.Append(5).String(); got != "1.2.840.5" {
		t.Errorf("Append = %q", got)
	}
	if oid.String() != "1.2.840" {
		t.Errorf("Append modified the receiver")
	}

	if _, err := Decode[ObjectIdentifier]([]byte{0x01, 0x86}); !errors.Is(err, ErrInvalidOID) {
		t.Errorf("expected ErrInvalidOID for partial arc, got %v", err)
	}
	if _, err := ParseObjectIdentifier("1.x"); !errors.Is(err, ErrInvalidOID) {
		t.Errorf("expected ErrInvalidOID for bad text, got %v", err)
	}
}

func TestCodec_UniversalTag(t *testing.T) {
	tests := []struct {
		name string
		got  Tag
		want Tag
	}{
		{"bool", UniversalTag[bool](), BooleanTag},
		{"int32", UniversalTag[int32](), IntegerTag},
		{"uint16", UniversalTag[uint16](), IntegerTag},
		{"float32", UniversalTag[float32](), RealTag},
		{"string", UniversalTag[string](), UTF8StringTag},
		{"bytes", UniversalTag[[]byte](), OctetStringTag},
		{"oid", UniversalTag[ObjectIdentifier](), RelativeOIDTag},
		{"null", UniversalTag[Null](), NullTag},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s: UniversalTag = %v, want %v", tt.name, tt.got, tt.want)
		}
	}
}

func TestCodec_BooleanAndNull(t *testing.T) {
	if got := AppendPrimitive(nil, true); !bytes.Equal(got, []byte{0xFF}) {
		t.Errorf("true = %X, want FF", got)
	}
	if got := AppendPrimitive(nil, false); !bytes.Equal(got, []byte{0x00}) {
		t.Errorf("false = %X, want 00", got)
	}
	if v, err := Decode[bool]([]byte{0x01}); err != nil || !v {
		t.Errorf("decode 01 = (%v, %v), want true", v, err)
	}
	if _, err := Decode[bool](nil); !errors.Is(err, ErrInvalidBoolean) {
		t.Errorf("expected ErrInvalidBoolean, got %v", err)
	}
	if _, err := Decode[bool]([]byte{0x01, 0x00}); !errors.Is(err, ErrInvalidBoolean) {
		t.Errorf("expected ErrInvalidBoolean, got %v", err)
	}

	if EncodedLength(Null{}) != 0 {
		t.Errorf("Null must have no value bytes")
	}
	if _, err := Decode[Null]([]byte{0x00}); !errors.Is(err, ErrInvalidNull) {
		t.Errorf("expected ErrInvalidNull, got %v", err)
	}
}

func TestCodec_Strings(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(&buf, "héllo"); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if buf.Len() != EncodedLength("héllo") {
		t.Errorf("wrote %d bytes, EncodedLength says %d", buf.Len(), EncodedLength("héllo"))
	}
	s, err := Decode[string](buf.Bytes())
	if err != nil || s != "héllo" {
		t.Errorf("decode = (%q, %v)", s, err)
	}

	raw := []byte{0xDE, 0xAD}
	b, err := Decode[[]byte](raw)
	if err != nil || !bytes.Equal(b, raw) {
		t.Fatalf("decode octets = (%X, %v)", b, err)
	}
	raw[0] = 0
	if b[0] != 0xDE {
		t.Errorf("decoded octets alias the input")
	}
}
