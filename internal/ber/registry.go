package ber

import (
	"fmt"
	"sync"
)

// DecodeFunc decodes the value bytes of a primitive into a Value.
type DecodeFunc func(data []byte) (Value, error)

// Registry maps type tags to the decoder for their value bytes. It is the
// run time dispatch used when a leaf's type is only known once its type tag
// has been read. A Registry is safe for concurrent lookups once populated;
// Register must not race with decoding.
type Registry struct {
	decoders map[Tag]DecodeFunc
}

// NewRegistry returns a Registry populated with the built-in universal types.
func NewRegistry() *Registry {
	r := &Registry{decoders: make(map[Tag]DecodeFunc)}
	r.Register(BooleanTag, func(data []byte) (Value, error) {
		b, err := decodeBool(data)
		return BoolValue(b), err
	})
	r.Register(IntegerTag, decodeIntegerValue)
	r.Register(Universal(TagEnumerated), decodeIntegerValue)
	r.Register(RealTag, func(data []byte) (Value, error) {
		f, err := decodeReal(data)
		return RealValue(f), err
	})
	r.Register(UTF8StringTag, func(data []byte) (Value, error) {
		return StringValue(string(data)), nil
	})
	r.Register(OctetStringTag, func(data []byte) (Value, error) {
		return OctetsValue(append([]byte{}, data...)), nil
	})
	r.Register(NullTag, func(data []byte) (Value, error) {
		return NullValue(), decodeNull(data)
	})
	r.Register(RelativeOIDTag, func(data []byte) (Value, error) {
		oid, err := decodeOID(data)
		return OIDValue(oid), err
	})
	return r
}

// decodeIntegerValue decodes a signed integer. Nine bytes with a leading
// zero hold an unsigned value above math.MaxInt64.
func decodeIntegerValue(data []byte) (Value, error) {
	if len(data) == 9 && data[0] == 0 {
		u, err := decodeUnsigned(data)
		return UintValue(u), err
	}
	i, err := decodeSigned(data)
	return IntValue(i), err
}

var (
	defaultRegistry     *Registry
	defaultRegistryOnce sync.Once
)

// DefaultRegistry returns the shared built-in Registry, building it on
// first use.
func DefaultRegistry() *Registry {
	defaultRegistryOnce.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// Register installs fn as the decoder for tag, replacing any previous one.
func (r *Registry) Register(tag Tag, fn DecodeFunc) {
	r.decoders[tag] = fn
}

// Lookup returns the decoder for tag.
func (r *Registry) Lookup(tag Tag) (DecodeFunc, bool) {
	fn, ok := r.decoders[tag]
	return fn, ok
}

// Knows reports whether a decoder is registered for tag.
func (r *Registry) Knows(tag Tag) bool {
	_, ok := r.decoders[tag]
	return ok
}

// Decode decodes data as a value of type tag. An unregistered tag yields
// an error wrapping ErrUnknownType.
func (r *Registry) Decode(tag Tag, data []byte) (Value, error) {
	fn, ok := r.decoders[tag]
	if !ok {
		return Value{}, fmt.Errorf("%w: %s", ErrUnknownType, tag)
	}
	return fn(data)
}
