// Package dom holds decoded BER values as a tree of nodes.
//
// Every node has an application tag, which names its role inside the parent,
// and a type tag, which names how its contents are encoded. A Container owns
// an ordered list of child nodes; a Leaf owns one primitive ber.Value.
//
// A node belongs to at most one container. Containers maintain the parent
// back-reference on insert and erase, so a node can always find its way to
// the root. Encoded lengths are cached per node and invalidated up to the
// root on every mutation.
package dom

import (
	"iter"

	"github.com/KilimcininKorOglu/ember/internal/ber"
)

// Node is an element of a decoded tree. It is implemented by *Container and
// *Leaf only.
type Node interface {
	// Tag returns the application tag.
	Tag() ber.Tag
	// TypeTag returns the universal or application type tag of the contents.
	TypeTag() ber.Tag
	// IsContainer reports whether the node holds children.
	IsContainer() bool
	// Parent returns the owning container, or nil for a detached node.
	Parent() *Container
	// Dirty reports whether the cached length must be recomputed.
	Dirty() bool
	// MarkDirty invalidates the cached length of the node and its ancestors.
	MarkDirty()
	// EncodedLength returns the framed size of the node in definite form:
	// application tag, outer length, type tag, inner length and payload.
	EncodedLength() int

	base() *nodeBase
	payloadLength() int
}

type nodeBase struct {
	tag     ber.Tag
	typeTag ber.Tag
	parent  *Container
	dirty   bool
	cached  int // payload length, valid while !dirty
}

func (b *nodeBase) base() *nodeBase { return b }

// Tag returns the application tag.
func (b *nodeBase) Tag() ber.Tag { return b.tag }

// TypeTag returns the type tag.
func (b *nodeBase) TypeTag() ber.Tag { return b.typeTag }

// Parent returns the owning container.
func (b *nodeBase) Parent() *Container { return b.parent }

// Dirty reports whether the cached length is stale.
func (b *nodeBase) Dirty() bool { return b.dirty }

// MarkDirty invalidates the cached length of the node and every ancestor.
// A dirty node always has dirty ancestors, so the walk stops early.
func (b *nodeBase) MarkDirty() {
	for n := b; n != nil && !n.dirty; {
		n.dirty = true
		if n.parent == nil {
			return
		}
		n = &n.parent.nodeBase
	}
}

// framedLength returns the size of a double-wrapped TLV with the given payload.
func framedLength(tag, typeTag ber.Tag, payload int) int {
	return ber.FramedLength(tag, innerFramedLength(typeTag, payload))
}

// innerFramedLength returns the outer length of a double-wrapped TLV.
func innerFramedLength(typeTag ber.Tag, payload int) int {
	return typeTag.EncodedLength() + ber.Length(payload).EncodedLength() + payload
}

// Root returns the topmost ancestor of n, or n itself when it is detached.
func Root(n Node) Node {
	for n.Parent() != nil {
		n = n.Parent()
	}
	return n
}

// Depth returns the number of ancestors of n.
func Depth(n Node) int {
	depth := 0
	for p := n.Parent(); p != nil; p = p.Parent() {
		depth++
	}
	return depth
}

// Walk iterates over n and its descendants depth-first, yielding each node
// with its depth below n.
func Walk(n Node) iter.Seq2[int, Node] {
	return func(yield func(int, Node) bool) {
		walk(n, 0, yield)
	}
}

func walk(n Node, depth int, yield func(int, Node) bool) bool {
	if !yield(depth, n) {
		return false
	}
	c, ok := n.(*Container)
	if !ok {
		return true
	}
	for _, child := range c.children {
		if !walk(child, depth+1, yield) {
			return false
		}
	}
	return true
}

// Equal reports whether a and b have the same tags, values and children.
func Equal(a, b Node) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Tag() != b.Tag() || a.TypeTag() != b.TypeTag() || a.IsContainer() != b.IsContainer() {
		return false
	}
	switch x := a.(type) {
	case *Leaf:
		return x.value.Equal(b.(*Leaf).value)
	case *Container:
		y := b.(*Container)
		if len(x.children) != len(y.children) {
			return false
		}
		for i := range x.children {
			if !Equal(x.children[i], y.children[i]) {
				return false
			}
		}
		return true
	}
	return false
}
