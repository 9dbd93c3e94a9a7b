package ber

import (
	"bytes"
	"errors"
	"testing"
)

func TestEncoder_WriteHeader(t *testing.T) {
	tests := []struct {
		name        string
		tag         Tag
		constructed bool
		length      Length
		want        []byte
	}{
		{"sequence short", SequenceTag, true, 3, []byte{0x30, 0x03}},
		{"application long length", Application(1), true, 200, []byte{0x61, 0x81, 0xC8}},
		{"context indefinite", Context(0), true, LengthIndefinite, []byte{0xA0, 0x80}},
		{"long tag", Application(40), true, 0, []byte{0x7F, 0x28, 0x00}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			enc := NewEncoder(&buf)
			if err := enc.WriteHeader(tt.tag, tt.constructed, tt.length); err != nil {
				t.Fatalf("WriteHeader failed: %v", err)
			}
			if !bytes.Equal(buf.Bytes(), tt.want) {
				t.Errorf("WriteHeader = %X, want %X", buf.Bytes(), tt.want)
			}
			if enc.Len() != len(tt.want) {
				t.Errorf("Len() = %d, want %d", enc.Len(), len(tt.want))
			}
		})
	}
}

func TestEncoder_Errors(t *testing.T) {
	enc := NewEncoder(NewBuffer(0))

	if err := enc.WriteTag(Tag{Class: 0x13, Number: 1}, false); !errors.Is(err, ErrInvalidTagClass) {
		t.Errorf("expected ErrInvalidTagClass, got %v", err)
	}
	if err := enc.WriteLength(-2); !errors.Is(err, ErrNegativeLength) {
		t.Errorf("expected ErrNegativeLength, got %v", err)
	}
	if enc.Len() != 0 {
		t.Errorf("failed writes must not emit bytes, Len() = %d", enc.Len())
	}
}

func TestEncoder_WritePrimitive(t *testing.T) {
	tests := []struct {
		name  string
		value Value
		want  []byte
	}{
		{"boolean", BoolValue(true), []byte{0x01, 0x01, 0xFF}},
		{"integer", IntValue(300), []byte{0x02, 0x02, 0x01, 0x2C}},
		{"unsigned", UintValue(127), []byte{0x02, 0x01, 0x7F}},
		{"unsigned top bit", UintValue(255), []byte{0x02, 0x02, 0x00, 0xFF}},
		{"real zero", RealValue(0), []byte{0x09, 0x00}},
		{"string", StringValue("ab"), []byte{0x0C, 0x02, 'a', 'b'}},
		{"octets", OctetsValue([]byte{0x01}), []byte{0x04, 0x01, 0x01}},
		{"null", NullValue(), []byte{0x05, 0x00}},
		{"relative oid", OIDValue(ObjectIdentifier{1, 2}), []byte{0x0D, 0x02, 0x01, 0x02}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := NewBuffer(4)
			enc := NewEncoder(buf)
			if err := enc.WritePrimitive(tt.value); err != nil {
				t.Fatalf("WritePrimitive failed: %v", err)
			}
			if got := buf.Bytes(); !bytes.Equal(got, tt.want) {
				t.Errorf("WritePrimitive = %X, want %X", got, tt.want)
			}
		})
	}
}

func TestEncoder_WriteTagged(t *testing.T) {
	tests := []struct {
		name  string
		tag   Tag
		value Value
		want  []byte
	}{
		{
			"context string",
			Context(1), StringValue("ab"),
			[]byte{0xA1, 0x04, 0x0C, 0x02, 'a', 'b'},
		},
		{
			"application integer",
			Application(2), IntValue(300),
			[]byte{0x62, 0x04, 0x02, 0x02, 0x01, 0x2C},
		},
		{
			"context real zero",
			Context(3), RealValue(0),
			[]byte{0xA3, 0x02, 0x09, 0x00},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			enc := NewEncoder(&buf)
			if err := enc.WriteTagged(tt.tag, tt.value); err != nil {
				t.Fatalf("WriteTagged failed: %v", err)
			}
			if !bytes.Equal(buf.Bytes(), tt.want) {
				t.Errorf("WriteTagged = %X, want %X", buf.Bytes(), tt.want)
			}
			if enc.Len() != len(tt.want) {
				t.Errorf("Len = %d, want %d", enc.Len(), len(tt.want))
			}
		})
	}
}

func TestEncoder_LongValue(t *testing.T) {
	payload := bytes.Repeat([]byte{'x'}, 300)
	var buf bytes.Buffer
	enc := NewEncoder(&buf)
	if err := enc.WriteTagged(Context(0), StringValue(string(payload))); err != nil {
		t.Fatalf("WriteTagged failed: %v", err)
	}
	// 0x0C 0x82 0x01 0x2C + 300 bytes of value
	inner := 4 + 300
	want := FramedLength(Context(0), inner)
	if buf.Len() != want || enc.Len() != want {
		t.Fatalf("wrote %d bytes (Len %d), want %d", buf.Len(), enc.Len(), want)
	}

	dec := NewBERDecoder(buf.Bytes())
	tag, constructed, err := dec.ReadTag()
	if err != nil || tag != Context(0) || !constructed {
		t.Fatalf("ReadTag() = (%v, %v, %v)", tag, constructed, err)
	}
	l, err := dec.ReadLength()
	if err != nil || int(l) != inner {
		t.Fatalf("ReadLength() = (%v, %v), want %d", l, err, inner)
	}
	typ, _, err := dec.ReadTag()
	if err != nil {
		t.Fatal(err)
	}
	l, err = dec.ReadLength()
	if err != nil {
		t.Fatal(err)
	}
	value, err := dec.ReadBytes(int(l))
	if err != nil {
		t.Fatal(err)
	}
	v, err := DefaultRegistry().Decode(typ, value)
	if err != nil || v.Text() != string(payload) {
		t.Errorf("Decode() = (%v, %v)", v, err)
	}
}

func TestEncoder_IndefiniteContainer(t *testing.T) {
	buf := NewBuffer(0)
	enc := NewEncoder(buf)
	steps := []func() error{
		func() error { return enc.WriteHeader(Application(0), true, LengthIndefinite) },
		func() error { return enc.WriteHeader(SequenceTag, true, LengthIndefinite) },
		func() error { return enc.WriteTagged(Context(0), IntValue(5)) },
		enc.WriteEndOfContents,
		enc.WriteEndOfContents,
	}
	for i, step := range steps {
		if err := step(); err != nil {
			t.Fatalf("step %d failed: %v", i, err)
		}
	}

	want := []byte{
		0x60, 0x80, 0x30, 0x80,
		0xA0, 0x03, 0x02, 0x01, 0x05,
		0x00, 0x00, 0x00, 0x00,
	}
	if got := buf.Bytes(); !bytes.Equal(got, want) {
		t.Errorf("encoded %X, want %X", got, want)
	}

	dec := NewBERDecoder(want)
	if err := dec.Skip(); err != nil || dec.Remaining() != 0 {
		t.Errorf("Skip() = %v, %d bytes left", err, dec.Remaining())
	}
}
