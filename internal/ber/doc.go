// Package ber implements ASN.1 BER (Basic Encoding Rules) encoding and decoding
// as specified in ITU-T X.690, in the flavour used by the Ember+ protocol.
//
// Every value on the wire is double-wrapped: an application tag identifies
// the role of the value, and inside it a type tag identifies how the value
// bytes are encoded.
//
//	[app tag][outer length][type tag][inner length][value bytes]
//
// Both lengths may be indefinite, in which case the contents end with the
// 0x00 0x00 end-of-contents marker.
//
// # Tag Classes
//
// BER uses four tag classes to identify data types:
//
//   - Universal (0x00): Standard ASN.1 types like INTEGER, BOOLEAN, SEQUENCE
//   - Application (0x40): Protocol-specific types (Glow elements)
//   - Context-specific (0x80): Context-dependent types within a structure
//   - Private (0xC0): Organization-specific types
//
// # Encoding
//
// Primitives are encoded through the generic codec:
//
//	n := ber.EncodedLength(int64(42))
//	err := ber.Encode(w, int64(42))
//
// Encoder writes headers and complete TLVs to any Writer:
//
//	buf := ber.NewBuffer(0)
//	enc := ber.NewEncoder(buf)
//	err := enc.WriteTagged(ber.Context(1), ber.StringValue("gain"))
//
// # Decoding
//
// BERDecoder parses a complete in-memory buffer. StreamDecoder accepts input
// in fragments of any size, down to a single byte, and reports completed
// containers and leaves to a StreamHandler as soon as they are complete:
//
//	dec := ber.NewStreamDecoder(ber.HandlerFuncs{
//	    OnItem: func(item *ber.AsyncItem) error { ... },
//	})
//	_, err := dec.Write(chunk)
//
// Leaf values are decoded through a Registry, which maps type tags to value
// decoders at run time.
//
// # Universal Tags
//
// The package defines constants for the universal tags it understands:
//
//   - TagBoolean (0x01): Boolean values
//   - TagInteger (0x02): Integer values
//   - TagOctetString (0x04): Byte strings
//   - TagNull (0x05): Null value
//   - TagReal (0x09): Binary floating point values
//   - TagEnumerated (0x0A): Enumerated values
//   - TagUTF8String (0x0C): Text
//   - TagRelativeOID (0x0D): Relative object identifiers
//   - TagSequence (0x10): Ordered collection
//   - TagSet (0x11): Unordered collection
//
// # References
//
//   - ITU-T X.690: ASN.1 encoding rules
package ber
