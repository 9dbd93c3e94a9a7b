// Package glow implements the Glow schema on top of the generic BER tree.
//
// A Glow message is a dom tree whose containers carry application class type
// tags. This package supplies the dom.ApplicationFactory that recognizes
// those tags and typed views that read and write the context-tagged fields
// of each container. Views hold no state of their own: they wrap a
// *dom.Container, so a tree decoded by either decoder can be inspected and
// modified in place and encoded again with dom.Encode.
package glow

import (
	"strconv"

	"github.com/KilimcininKorOglu/ember/internal/ber"
)

// Type is a Glow application type tag number.
type Type uint64

// Glow types.
const (
	TypeRoot Type = iota
	TypeParameter
	TypeCommand
	TypeNode
	TypeElementCollection
	TypeStreamEntry
	TypeStreamCollection
	TypeStringIntegerPair
	TypeStringIntegerCollection
	TypeQualifiedParameter
	TypeQualifiedNode
	TypeRootElementCollection
	TypeStreamDescription
	TypeMatrix
	TypeTarget
	TypeSource
	TypeConnection
	TypeQualifiedMatrix
	TypeLabel
	TypeFunction
	TypeQualifiedFunction
	TypeTupleItemDescription
	TypeInvocation
	TypeInvocationResult
	TypeTemplate
	TypeQualifiedTemplate
)

var typeNames = [...]string{
	"Root",
	"Parameter",
	"Command",
	"Node",
	"ElementCollection",
	"StreamEntry",
	"StreamCollection",
	"StringIntegerPair",
	"StringIntegerCollection",
	"QualifiedParameter",
	"QualifiedNode",
	"RootElementCollection",
	"StreamDescription",
	"Matrix",
	"Target",
	"Source",
	"Connection",
	"QualifiedMatrix",
	"Label",
	"Function",
	"QualifiedFunction",
	"TupleItemDescription",
	"Invocation",
	"InvocationResult",
	"Template",
	"QualifiedTemplate",
}

// Tag returns the application tag of t.
func (t Type) Tag() ber.Tag { return ber.Application(uint64(t)) }

// Known reports whether t is part of the schema.
func (t Type) Known() bool { return t <= TypeQualifiedTemplate }

// String returns the schema name of t.
func (t Type) String() string {
	if t.Known() {
		return typeNames[t]
	}
	return "Type(" + strconv.FormatUint(uint64(t), 10) + ")"
}

// IsQualified reports whether elements of type t are addressed by a path
// instead of a number.
func (t Type) IsQualified() bool {
	switch t {
	case TypeQualifiedParameter, TypeQualifiedNode, TypeQualifiedMatrix,
		TypeQualifiedFunction, TypeQualifiedTemplate:
		return true
	}
	return false
}

// IsElement reports whether t is an element that can appear in an element
// collection.
func (t Type) IsElement() bool {
	switch t {
	case TypeParameter, TypeCommand, TypeNode, TypeMatrix, TypeFunction, TypeTemplate:
		return true
	}
	return t.IsQualified()
}

// typeOf returns the Glow type carried by an application type tag.
func typeOf(tag ber.Tag) (Type, bool) {
	if tag.Class != ber.ClassApplication {
		return 0, false
	}
	t := Type(tag.Number)
	return t, t.Known()
}

// ParameterType is the value type of a parameter.
type ParameterType int64

// Parameter types.
const (
	ParameterTypeNull ParameterType = iota
	ParameterTypeInteger
	ParameterTypeReal
	ParameterTypeString
	ParameterTypeBoolean
	ParameterTypeTrigger
	ParameterTypeEnum
	ParameterTypeOctets
)

func (t ParameterType) String() string {
	return enumName(int64(t), "ParameterType", "null", "integer", "real", "string", "boolean", "trigger", "enum", "octets")
}

// ParameterAccess is the access mode of a parameter.
type ParameterAccess int64

// Parameter access modes.
const (
	AccessNone ParameterAccess = iota
	AccessRead
	AccessWrite
	AccessReadWrite
)

func (a ParameterAccess) String() string {
	return enumName(int64(a), "ParameterAccess", "none", "read", "write", "readWrite")
}

// CommandType is the number of a command.
type CommandType int64

// Command types.
const (
	CommandSubscribe    CommandType = 30
	CommandUnsubscribe  CommandType = 31
	CommandGetDirectory CommandType = 32
	CommandInvoke       CommandType = 33
)

func (c CommandType) String() string {
	switch c {
	case CommandSubscribe:
		return "subscribe"
	case CommandUnsubscribe:
		return "unsubscribe"
	case CommandGetDirectory:
		return "getDirectory"
	case CommandInvoke:
		return "invoke"
	}
	return "CommandType(" + strconv.FormatInt(int64(c), 10) + ")"
}

// FieldFlags selects the fields a provider reports for GetDirectory.
type FieldFlags int64

// Field flags.
const (
	FieldsSparse      FieldFlags = -2
	FieldsAll         FieldFlags = -1
	FieldsDefault     FieldFlags = 0
	FieldsIdentifier  FieldFlags = 1
	FieldsDescription FieldFlags = 2
	FieldsTree        FieldFlags = 3
	FieldsValue       FieldFlags = 4
	FieldsConnections FieldFlags = 5
)

func (f FieldFlags) String() string {
	switch f {
	case FieldsSparse:
		return "sparse"
	case FieldsAll:
		return "all"
	}
	return enumName(int64(f), "FieldFlags", "default", "identifier", "description", "tree", "value", "connections")
}

// MatrixType is the connection policy of a matrix.
type MatrixType int64

// Matrix types.
const (
	MatrixOneToN MatrixType = iota
	MatrixOneToOne
	MatrixNToN
)

func (t MatrixType) String() string {
	return enumName(int64(t), "MatrixType", "oneToN", "oneToOne", "nToN")
}

// MatrixAddressingMode tells whether targets and sources are numbered
// contiguously.
type MatrixAddressingMode int64

// Matrix addressing modes.
const (
	AddressingLinear MatrixAddressingMode = iota
	AddressingNonLinear
)

func (m MatrixAddressingMode) String() string {
	return enumName(int64(m), "MatrixAddressingMode", "linear", "nonLinear")
}

// ConnectionOperation is the change a connection requests.
type ConnectionOperation int64

// Connection operations.
const (
	OperationAbsolute ConnectionOperation = iota
	OperationConnect
	OperationDisconnect
)

func (o ConnectionOperation) String() string {
	return enumName(int64(o), "ConnectionOperation", "absolute", "connect", "disconnect")
}

// ConnectionDisposition is the state a provider reports for a connection.
type ConnectionDisposition int64

// Connection dispositions.
const (
	DispositionTally ConnectionDisposition = iota
	DispositionModified
	DispositionPending
	DispositionLocked
)

func (d ConnectionDisposition) String() string {
	return enumName(int64(d), "ConnectionDisposition", "tally", "modified", "pending", "locked")
}

// StreamFormat is the layout of a value inside a shared stream blob.
type StreamFormat int64

// Stream formats.
const (
	StreamUnsignedInt8              StreamFormat = 0
	StreamUnsignedInt16BigEndian    StreamFormat = 2
	StreamUnsignedInt16LittleEndian StreamFormat = 3
	StreamUnsignedInt32BigEndian    StreamFormat = 4
	StreamUnsignedInt32LittleEndian StreamFormat = 5
	StreamUnsignedInt64BigEndian    StreamFormat = 6
	StreamUnsignedInt64LittleEndian StreamFormat = 7
	StreamSignedInt8                StreamFormat = 8
	StreamSignedInt16BigEndian      StreamFormat = 10
	StreamSignedInt16LittleEndian   StreamFormat = 11
	StreamSignedInt32BigEndian      StreamFormat = 12
	StreamSignedInt32LittleEndian   StreamFormat = 13
	StreamSignedInt64BigEndian      StreamFormat = 14
	StreamSignedInt64LittleEndian   StreamFormat = 15
	StreamFloat32BigEndian          StreamFormat = 20
	StreamFloat32LittleEndian       StreamFormat = 21
	StreamFloat64BigEndian          StreamFormat = 22
	StreamFloat64LittleEndian       StreamFormat = 23
)

// Size returns the number of bytes a value of format f occupies.
func (f StreamFormat) Size() int {
	switch f {
	case StreamUnsignedInt8, StreamSignedInt8:
		return 1
	case StreamUnsignedInt16BigEndian, StreamUnsignedInt16LittleEndian,
		StreamSignedInt16BigEndian, StreamSignedInt16LittleEndian:
		return 2
	case StreamUnsignedInt32BigEndian, StreamUnsignedInt32LittleEndian,
		StreamSignedInt32BigEndian, StreamSignedInt32LittleEndian,
		StreamFloat32BigEndian, StreamFloat32LittleEndian:
		return 4
	case StreamUnsignedInt64BigEndian, StreamUnsignedInt64LittleEndian,
		StreamSignedInt64BigEndian, StreamSignedInt64LittleEndian,
		StreamFloat64BigEndian, StreamFloat64LittleEndian:
		return 8
	}
	return 0
}

// LittleEndian reports whether f stores the least significant byte first.
func (f StreamFormat) LittleEndian() bool {
	return f >= StreamUnsignedInt16BigEndian && f%2 == 1
}

func enumName(v int64, typ string, names ...string) string {
	if v >= 0 && v < int64(len(names)) {
		return names[v]
	}
	return typ + "(" + strconv.FormatInt(v, 10) + ")"
}
