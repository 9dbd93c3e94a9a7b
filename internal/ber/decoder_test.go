package ber

import (
	"bytes"
	"errors"
	"math"
	"testing"
)

func TestNewBERDecoder(t *testing.T) {
	data := []byte{0x01, 0x02, 0x03}
	dec := NewBERDecoder(data)

	if dec == nil {
		t.Fatal("expected non-nil decoder")
	}
	if dec.Offset() != 0 {
		t.Errorf("expected offset 0, got %d", dec.Offset())
	}
	if dec.Remaining() != 3 {
		t.Errorf("expected remaining 3, got %d", dec.Remaining())
	}
}

func TestBERDecoder_ReadTag(t *testing.T) {
	tests := []struct {
		name        string
		data        []byte
		want        Tag
		constructed bool
		wantErr     error
	}{
		{"universal integer", []byte{0x02}, IntegerTag, false, nil},
		{"application constructed", []byte{0x63}, Application(3), true, nil},
		{"context long form", []byte{0xBF, 0x81, 0x00}, Context(128), true, nil},
		{"empty", []byte{}, Tag{}, false, ErrUnexpectedEOF},
		{"truncated long form", []byte{0x7F, 0x80}, Tag{}, false, ErrUnexpectedEOF},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dec := NewBERDecoder(tt.data)
			tag, constructed, err := dec.ReadTag()
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				var decErr *DecodeError
				if !errors.As(err, &decErr) {
					t.Errorf("expected a *DecodeError, got %T", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tag != tt.want || constructed != tt.constructed {
				t.Errorf("ReadTag() = (%v, %v), want (%v, %v)", tag, constructed, tt.want, tt.constructed)
			}
			if dec.Offset() != len(tt.data) {
				t.Errorf("offset = %d, want %d", dec.Offset(), len(tt.data))
			}
		})
	}
}

func TestBERDecoder_ReadLength(t *testing.T) {
	dec := NewBERDecoder([]byte{0x82, 0x01, 0x00, 0x80})
	l, err := dec.ReadLength()
	if err != nil || l != 256 {
		t.Fatalf("ReadLength() = (%v, %v), want 256", l, err)
	}
	l, err = dec.ReadLength()
	if err != nil || !l.IsIndefinite() {
		t.Fatalf("ReadLength() = (%v, %v), want indefinite", l, err)
	}
	if _, err := dec.ReadLength(); !errors.Is(err, ErrUnexpectedEOF) {
		t.Errorf("expected ErrUnexpectedEOF, got %v", err)
	}
}

func TestBERDecoder_Skip(t *testing.T) {
	tests := []struct {
		name    string
		data    []byte
		want    int
		wantErr error
	}{
		{"primitive", []byte{0x02, 0x01, 0x05, 0xFF}, 3, nil},
		{"definite constructed", []byte{0x30, 0x03, 0x02, 0x01, 0x05, 0xFF}, 5, nil},
		{
			"indefinite constructed",
			[]byte{0x60, 0x80, 0x02, 0x01, 0x05, 0x00, 0x00, 0x02, 0x01, 0x07},
			7, nil,
		},
		{
			"nested indefinite",
			[]byte{0x60, 0x80, 0x30, 0x80, 0x00, 0x00, 0x00, 0x00},
			8, nil,
		},
		{"indefinite primitive", []byte{0x02, 0x80}, 0, ErrIndefinitePrimitive},
		{"truncated", []byte{0x04, 0x05, 0x01}, 0, ErrUnexpectedEOF},
		{"missing end-of-contents", []byte{0x30, 0x80, 0x02, 0x01, 0x05}, 0, ErrUnexpectedEOF},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dec := NewBERDecoder(tt.data)
			err := dec.Skip()
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Skip failed: %v", err)
			}
			if dec.Offset() != tt.want {
				t.Errorf("offset = %d, want %d", dec.Offset(), tt.want)
			}
		})
	}
}

func TestRegistry_DecodeUniversal(t *testing.T) {
	tests := []struct {
		name string
		tag  Tag
		data []byte
		want Value
	}{
		{"boolean", BooleanTag, []byte{0xFF}, BoolValue(true)},
		{"integer", IntegerTag, []byte{0x01, 0x2C}, IntValue(300)},
		{"enumerated", Universal(TagEnumerated), []byte{0x02}, IntValue(2)},
		{"real", RealTag, []byte{0x80, 0x00, 0x01}, RealValue(1)},
		{"real zero", RealTag, []byte{}, RealValue(0)},
		{"utf8", UTF8StringTag, []byte{'o', 'k'}, StringValue("ok")},
		{"octets", OctetStringTag, []byte{0xCA, 0xFE}, OctetsValue([]byte{0xCA, 0xFE})},
		{"null", NullTag, []byte{}, NullValue()},
		{"relative oid", RelativeOIDTag, []byte{0x01, 0x02, 0x03}, OIDValue(ObjectIdentifier{1, 2, 3})},
		{"unsigned above max int64", IntegerTag,
			[]byte{0x00, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}, UintValue(math.MaxUint64)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := DefaultRegistry().Decode(tt.tag, tt.data)
			if err != nil {
				t.Fatalf("Decode failed: %v", err)
			}
			if !v.Equal(tt.want) {
				t.Errorf("Decode() = %v, want %v", v, tt.want)
			}
		})
	}
}

func TestRegistry_DecodeErrors(t *testing.T) {
	_, err := DefaultRegistry().Decode(Universal(30), []byte{0x00})
	if !errors.Is(err, ErrUnknownType) {
		t.Fatalf("expected ErrUnknownType, got %v", err)
	}
	if IsFatal(err) {
		t.Errorf("unknown type must not be fatal")
	}

	if _, err := DefaultRegistry().Decode(BooleanTag, []byte{0x00, 0x00}); !errors.Is(err, ErrInvalidBoolean) {
		t.Errorf("expected ErrInvalidBoolean, got %v", err)
	}
}

func TestEndOfContents(t *testing.T) {
	dec := NewBERDecoder([]byte{0x00, 0x00, 0x00, 0x01})
	if !dec.AtEndOfContents() {
		t.Fatal("expected end-of-contents")
	}
	if err := dec.ReadEndOfContents(); err != nil {
		t.Fatalf("ReadEndOfContents failed: %v", err)
	}
	if err := dec.ReadEndOfContents(); !errors.Is(err, ErrUnexpectedEOC) {
		t.Errorf("expected ErrUnexpectedEOC, got %v", err)
	}
}

func TestDecodeError(t *testing.T) {
	err := NewDecodeError(10, "test error", ErrUnexpectedEOF)

	if err.Offset != 10 {
		t.Errorf("expected offset 10, got %d", err.Offset)
	}
	want := "ber: decode error at offset 10: test error: ber: unexpected end of data"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
	if !errors.Is(err, ErrUnexpectedEOF) {
		t.Error("expected error to wrap ErrUnexpectedEOF")
	}

	bare := NewDecodeError(5, "test error", nil)
	if bare.Error() != "ber: decode error at offset 5: test error" {
		t.Errorf("Error() = %q", bare.Error())
	}
}

func TestFramingErrors(t *testing.T) {
	framing := []error{
		ErrInvalidLength, ErrLengthOverflow, ErrTagOverflow, ErrIndefinitePrimitive,
		ErrLengthMismatch, ErrBudgetExceeded, ErrUnexpectedEOC, ErrMaxDepth, ErrValueTooLarge,
	}
	for _, err := range framing {
		if !errors.Is(err, ErrFraming) {
			t.Errorf("%v does not match ErrFraming", err)
		}
		if errors.Is(err, ErrUnexpectedEOF) {
			t.Errorf("%v matches ErrUnexpectedEOF", err)
		}
	}
	if errors.Is(ErrInvalidInteger, ErrFraming) {
		t.Errorf("value errors are not framing errors")
	}
}

func TestRegistry(t *testing.T) {
	if DefaultRegistry() != DefaultRegistry() {
		t.Error("DefaultRegistry must return a shared instance")
	}

	r := NewRegistry()
	custom := Universal(30)
	if r.Knows(custom) {
		t.Fatal("custom tag registered before Register")
	}
	r.Register(custom, func(data []byte) (Value, error) {
		return IntValue(int64(len(data))), nil
	})
	if !r.Knows(custom) {
		t.Fatal("Register did not install decoder")
	}
	if DefaultRegistry().Knows(custom) {
		t.Error("registering on a new Registry leaked into the default")
	}

	v, err := r.Decode(custom, []byte{1, 2, 3})
	if err != nil || v.Int() != 3 {
		t.Errorf("Decode() = (%v, %v)", v, err)
	}
	if _, ok := r.Lookup(SequenceTag); ok {
		t.Error("SEQUENCE must not have a value decoder")
	}
}

func TestValue_Accessors(t *testing.T) {
	if ValueOf(uint8(200)).Kind() != KindUnsigned {
		t.Errorf("uint8 must map to KindUnsigned")
	}
	if got := ValueOf(uint8(200)).AppendTo(nil); !bytes.Equal(got, []byte{0x00, 0xC8}) {
		t.Errorf("unsigned 200 = %X, want 00C8", got)
	}
	if got := appendPrimitive(nil, uint8(200)); !bytes.Equal(got, []byte{0xC8}) {
		t.Errorf("static uint8 200 = %X, want C8", got)
	}
	if got := ValueOf(int16(200)).AppendTo(nil); !bytes.Equal(got, []byte{0x00, 0xC8}) {
		t.Errorf("signed 200 = %X, want 00C8", got)
	}
	if ValueOf(Null{}).Kind() != KindNull {
		t.Errorf("Null must map to KindNull")
	}

	nan := RealValue(math.NaN())
	if !nan.Equal(RealValue(math.NaN())) {
		t.Errorf("NaN values must compare equal")
	}
	if IntValue(1).Equal(BoolValue(true)) {
		t.Errorf("values of different kinds must not compare equal")
	}
	if !IntValue(200).Equal(UintValue(200)) || !UintValue(200).Equal(IntValue(200)) {
		t.Errorf("integers must compare by numeric value")
	}
	if IntValue(-1).Equal(UintValue(math.MaxUint64)) {
		t.Errorf("-1 must not equal MaxUint64")
	}

	if IntValue(-3).Real() != -3 || RealValue(2.9).Int() != 2 {
		t.Errorf("numeric conversions are wrong")
	}
	if StringValue("x").Int() != 0 || IntValue(1).Text() != "" {
		t.Errorf("non-numeric conversions must yield zero values")
	}

	tests := []struct {
		v    Value
		want string
	}{
		{NullValue(), "null"},
		{BoolValue(true), "true"},
		{IntValue(-7), "-7"},
		{UintValue(7), "7"},
		{RealValue(1.5), "1.5"},
		{StringValue("a"), `"a"`},
		{OctetsValue([]byte{0xAB, 0xCD}), "AB CD"},
		{OIDValue(ObjectIdentifier{1, 3}), "1.3"},
	}
	for _, tt := range tests {
		if got := tt.v.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestValue_EncodeMatchesLength(t *testing.T) {
	values := []Value{
		BoolValue(false), IntValue(-129), UintValue(100), UintValue(200),
		UintValue(math.MaxUint64), RealValue(-0.75),
		RealValue(math.Inf(1)), StringValue("gain"), OctetsValue([]byte{1, 2, 3}),
		OIDValue(ObjectIdentifier{1, 200}), NullValue(),
	}
	for _, v := range values {
		var buf bytes.Buffer
		if err := v.Encode(&buf); err != nil {
			t.Fatalf("Encode(%v) failed: %v", v, err)
		}
		if buf.Len() != v.EncodedLength() {
			t.Errorf("%v: wrote %d bytes, EncodedLength %d", v, buf.Len(), v.EncodedLength())
		}
		decoded, err := DefaultRegistry().Decode(v.UniversalTag(), buf.Bytes())
		if err != nil {
			t.Fatalf("decode %v failed: %v", v, err)
		}
		if !decoded.Equal(v) {
			t.Errorf("round trip %v = %v", v, decoded)
		}
	}
}
