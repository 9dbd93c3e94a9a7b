package glow

import (
	"encoding/binary"
	"errors"
	"iter"
	"math"

	"github.com/KilimcininKorOglu/ember/internal/ber"
	"github.com/KilimcininKorOglu/ember/internal/dom"
)

// ErrStreamRange is returned when a stream descriptor points outside the
// stream blob.
var ErrStreamRange = errors.New("glow: stream descriptor out of range")

// StreamEntry fields.
const (
	streamEntryID    = 0
	streamEntryValue = 1
)

// StreamEntry is a view over a StreamEntry: the latest value of one stream.
type StreamEntry struct {
	c *dom.Container
}

// NewStreamEntry creates a detached stream entry.
func NewStreamEntry(id int32, v ber.Value) *StreamEntry {
	c := newItem(TypeStreamEntry)
	_ = setField(c, streamEntryID, ber.IntValue(int64(id)))
	_ = setField(c, streamEntryValue, v)
	return &StreamEntry{c: c}
}

// StreamEntryOf returns the stream entry view over n.
func StreamEntryOf(n dom.Node) (*StreamEntry, error) {
	c, err := viewOf(n, TypeStreamEntry)
	if err != nil {
		return nil, err
	}
	return &StreamEntry{c: c}, nil
}

// Container returns the wrapped container.
func (s *StreamEntry) Container() *dom.Container { return s.c }

// ID returns the stream identifier.
func (s *StreamEntry) ID() int32 {
	n, _ := intField(s.c, streamEntryID)
	return int32(n)
}

// Value returns the stream value.
func (s *StreamEntry) Value() ber.Value {
	v, _ := valueField(s.c, streamEntryValue)
	return v
}

// SetValue stores the stream value.
func (s *StreamEntry) SetValue(v ber.Value) error {
	return setField(s.c, streamEntryValue, v)
}

// StreamCollection is a view over a StreamCollection.
type StreamCollection struct {
	c *dom.Container
}

// StreamCollectionOf returns the stream collection view over n.
func StreamCollectionOf(n dom.Node) (*StreamCollection, error) {
	c, err := viewOf(n, TypeStreamCollection)
	if err != nil {
		return nil, err
	}
	return &StreamCollection{c: c}, nil
}

// Container returns the wrapped container.
func (s *StreamCollection) Container() *dom.Container { return s.c }

// All iterates over the entries.
func (s *StreamCollection) All() iter.Seq[*StreamEntry] {
	return func(yield func(*StreamEntry) bool) {
		for _, c := range typedChildren(s.c, TypeStreamEntry) {
			if !yield(&StreamEntry{c: c}) {
				return
			}
		}
	}
}

// Find returns the entry for stream id.
func (s *StreamCollection) Find(id int32) (*StreamEntry, bool) {
	for e := range s.All() {
		if e.ID() == id {
			return e, true
		}
	}
	return nil, false
}

// Append adds an entry.
func (s *StreamCollection) Append(e *StreamEntry) error { return s.c.Append(e.c) }

// StringIntegerPair fields.
const (
	pairString  = 0
	pairInteger = 1
)

// StringIntegerPair is a view over a StringIntegerPair: one entry of an
// enum map.
type StringIntegerPair struct {
	c *dom.Container
}

// Container returns the wrapped container.
func (p *StringIntegerPair) Container() *dom.Container { return p.c }

// Name returns the entry string.
func (p *StringIntegerPair) Name() string {
	s, _ := stringField(p.c, pairString)
	return s
}

// Value returns the entry integer.
func (p *StringIntegerPair) Value() int32 {
	n, _ := intField(p.c, pairInteger)
	return int32(n)
}

// StringIntegerCollection is a view over a StringIntegerCollection.
type StringIntegerCollection struct {
	c *dom.Container
}

// Container returns the wrapped container.
func (m *StringIntegerCollection) Container() *dom.Container { return m.c }

// All iterates over the pairs.
func (m *StringIntegerCollection) All() iter.Seq[*StringIntegerPair] {
	return func(yield func(*StringIntegerPair) bool) {
		for _, c := range typedChildren(m.c, TypeStringIntegerPair) {
			if !yield(&StringIntegerPair{c: c}) {
				return
			}
		}
	}
}

// Lookup returns the name mapped to value.
func (m *StringIntegerCollection) Lookup(value int32) (string, bool) {
	for p := range m.All() {
		if p.Value() == value {
			return p.Name(), true
		}
	}
	return "", false
}

// Add appends a pair.
func (m *StringIntegerCollection) Add(name string, value int32) error {
	c := newItem(TypeStringIntegerPair)
	if err := setField(c, pairString, ber.StringValue(name)); err != nil {
		return err
	}
	if err := setField(c, pairInteger, ber.IntValue(int64(value))); err != nil {
		return err
	}
	return m.c.Append(c)
}

// StreamDescription fields.
const (
	streamDescFormat = 0
	streamDescOffset = 1
)

// StreamDescription is a view over a StreamDescription: the location of a
// parameter value inside an octet string stream entry shared by several
// parameters.
type StreamDescription struct {
	c *dom.Container
}

// Container returns the wrapped container.
func (d *StreamDescription) Container() *dom.Container { return d.c }

// Format returns the value layout.
func (d *StreamDescription) Format() StreamFormat {
	n, _ := intField(d.c, streamDescFormat)
	return StreamFormat(n)
}

// SetFormat stores the value layout.
func (d *StreamDescription) SetFormat(f StreamFormat) error {
	return setField(d.c, streamDescFormat, ber.IntValue(int64(f)))
}

// Offset returns the byte offset of the value inside the blob.
func (d *StreamDescription) Offset() int32 {
	n, _ := intField(d.c, streamDescOffset)
	return int32(n)
}

// SetOffset stores the byte offset.
func (d *StreamDescription) SetOffset(off int32) error {
	return setField(d.c, streamDescOffset, ber.IntValue(int64(off)))
}

// Extract reads the described value out of a stream blob.
func (d *StreamDescription) Extract(blob []byte) (ber.Value, error) {
	f := d.Format()
	size := f.Size()
	off := int(d.Offset())
	if size == 0 || off < 0 || off+size > len(blob) {
		return ber.Value{}, ErrStreamRange
	}
	b := blob[off : off+size]

	var order binary.ByteOrder = binary.BigEndian
	if f.LittleEndian() {
		order = binary.LittleEndian
	}

	switch f {
	case StreamUnsignedInt8:
		return ber.IntValue(int64(b[0])), nil
	case StreamSignedInt8:
		return ber.IntValue(int64(int8(b[0]))), nil
	case StreamUnsignedInt16BigEndian, StreamUnsignedInt16LittleEndian:
		return ber.IntValue(int64(order.Uint16(b))), nil
	case StreamSignedInt16BigEndian, StreamSignedInt16LittleEndian:
		return ber.IntValue(int64(int16(order.Uint16(b)))), nil
	case StreamUnsignedInt32BigEndian, StreamUnsignedInt32LittleEndian:
		return ber.IntValue(int64(order.Uint32(b))), nil
	case StreamSignedInt32BigEndian, StreamSignedInt32LittleEndian:
		return ber.IntValue(int64(int32(order.Uint32(b)))), nil
	case StreamUnsignedInt64BigEndian, StreamUnsignedInt64LittleEndian:
		return ber.UintValue(order.Uint64(b)), nil
	case StreamSignedInt64BigEndian, StreamSignedInt64LittleEndian:
		return ber.IntValue(int64(order.Uint64(b))), nil
	case StreamFloat32BigEndian, StreamFloat32LittleEndian:
		return ber.RealValue(float64(math.Float32frombits(order.Uint32(b)))), nil
	default:
		return ber.RealValue(math.Float64frombits(order.Uint64(b))), nil
	}
}
