package dom

import "errors"

// Tree mutation errors
var (
	// ErrAlreadyOwned is returned when inserting a node that belongs to a container.
	ErrAlreadyOwned = errors.New("dom: node already belongs to a container")

	// ErrCycle is returned when inserting a container into itself or a descendant.
	ErrCycle = errors.New("dom: container cannot contain itself")

	// ErrIndex is returned for a child index out of range.
	ErrIndex = errors.New("dom: child index out of range")

	// ErrNilNode is returned when inserting a nil node.
	ErrNilNode = errors.New("dom: nil node")
)

// Decoder errors
var (
	// ErrNodeKind is returned when a factory creates a leaf for constructed
	// contents or a container for primitive contents.
	ErrNodeKind = errors.New("dom: factory returned a node of the wrong kind")
)
