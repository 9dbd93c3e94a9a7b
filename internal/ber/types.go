// Package ber implements ASN.1 BER (Basic Encoding Rules) encoding
// as specified in ITU-T X.690.
package ber

// Class is the tag class stored in bits 7-8 of the tag byte.
type Class uint8

// Tag class constants (bits 7-8 of the tag byte)
const (
	ClassUniversal       Class = 0x00 // 00xxxxxx
	ClassApplication     Class = 0x40 // 01xxxxxx
	ClassContextSpecific Class = 0x80 // 10xxxxxx
	ClassPrivate         Class = 0xC0 // 11xxxxxx
)

// String returns the ASN.1 name of the class.
func (c Class) String() string {
	switch c {
	case ClassUniversal:
		return "UNIVERSAL"
	case ClassApplication:
		return "APPLICATION"
	case ClassContextSpecific:
		return "CONTEXT"
	case ClassPrivate:
		return "PRIVATE"
	default:
		return "INVALID"
	}
}

// Constructed flag (bit 6 of the tag byte)
const (
	TypePrimitive   = 0x00 // xx0xxxxx
	TypeConstructed = 0x20 // xx1xxxxx
)

// Universal tag numbers for the types this package encodes.
const (
	TagEndOfContents = 0x00
	TagBoolean       = 0x01
	TagInteger       = 0x02
	TagBitString     = 0x03
	TagOctetString   = 0x04
	TagNull          = 0x05
	TagOID           = 0x06
	TagReal          = 0x09
	TagEnumerated    = 0x0A
	TagUTF8String    = 0x0C
	TagRelativeOID   = 0x0D
	TagSequence      = 0x10
	TagSet           = 0x11
)

// Tag byte layout
const (
	classMask        = 0xC0
	tagNumberMask    = 0x1F
	tagLongForm      = 0x1F
	maxShortTagValue = 30
	base128More      = 0x80
	base128Mask      = 0x7F
)

// Length encoding constants
const (
	// LengthLongFormBit indicates long form length encoding (bit 8 set)
	LengthLongFormBit = 0x80
	// MaxShortFormLength is the maximum length encodable in short form (0-127)
	MaxShortFormLength = 127
	// LengthIndefiniteByte is the single-byte encoding of an indefinite length.
	LengthIndefiniteByte = 0x80
	// maxLengthBytes bounds the long form; larger lengths cannot be held in an int.
	maxLengthBytes = 8
	// lengthReserved is reserved by X.690 and never valid.
	lengthReserved = 0xFF
)

// endOfContentsSize is the byte count of the 0x00 0x00 end-of-contents marker.
const endOfContentsSize = 2
