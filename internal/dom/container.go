package dom

import (
	"iter"

	"github.com/KilimcininKorOglu/ember/internal/ber"
)

// Container is a constructed node owning an ordered list of children. A
// container whose type tag is the universal SET is unordered: Put replaces
// a child with the same application tag instead of adding a second one.
type Container struct {
	nodeBase
	children []Node
}

// NewContainer creates an empty container with the given tags.
func NewContainer(tag, typeTag ber.Tag) *Container {
	return &Container{nodeBase: nodeBase{tag: tag, typeTag: typeTag, dirty: true}}
}

// NewSequence creates an empty universal SEQUENCE.
func NewSequence(tag ber.Tag) *Container {
	return NewContainer(tag, ber.SequenceTag)
}

// NewSet creates an empty universal SET.
func NewSet(tag ber.Tag) *Container {
	return NewContainer(tag, ber.SetTag)
}

// IsContainer always returns true.
func (c *Container) IsContainer() bool { return true }

// IsSet reports whether the container is an unordered SET.
func (c *Container) IsSet() bool { return c.typeTag == ber.SetTag }

// Len returns the number of children.
func (c *Container) Len() int { return len(c.children) }

// At returns the child at index i, or nil when i is out of range.
func (c *Container) At(i int) Node {
	if i < 0 || i >= len(c.children) {
		return nil
	}
	return c.children[i]
}

// All iterates over the children with their indexes.
func (c *Container) All() iter.Seq2[int, Node] {
	return func(yield func(int, Node) bool) {
		for i, n := range c.children {
			if !yield(i, n) {
				return
			}
		}
	}
}

// Children iterates over the children in order.
func (c *Container) Children() iter.Seq[Node] {
	return func(yield func(Node) bool) {
		for _, n := range c.children {
			if !yield(n) {
				return
			}
		}
	}
}

// Find returns the first child with application tag tag.
func (c *Container) Find(tag ber.Tag) (Node, bool) {
	i := c.indexOfTag(tag)
	if i < 0 {
		return nil, false
	}
	return c.children[i], true
}

// IndexOf returns the index of n among the children, or -1.
func (c *Container) IndexOf(n Node) int {
	for i, child := range c.children {
		if child == n {
			return i
		}
	}
	return -1
}

func (c *Container) indexOfTag(tag ber.Tag) int {
	for i, child := range c.children {
		if child.Tag() == tag {
			return i
		}
	}
	return -1
}

// Append adds n after the last child.
func (c *Container) Append(n Node) error {
	return c.Insert(len(c.children), n)
}

// Insert adds n before index i. n must be detached and must not be an
// ancestor of c.
func (c *Container) Insert(i int, n Node) error {
	if n == nil {
		return ErrNilNode
	}
	if i < 0 || i > len(c.children) {
		return ErrIndex
	}
	if n.Parent() != nil {
		return ErrAlreadyOwned
	}
	if other, ok := n.(*Container); ok {
		for p := c; p != nil; p = p.parent {
			if p == other {
				return ErrCycle
			}
		}
	}
	c.children = append(c.children, nil)
	copy(c.children[i+1:], c.children[i:])
	c.children[i] = n
	n.base().parent = c
	c.MarkDirty()
	return nil
}

// Put adds n, replacing an existing child with the same application tag.
// It returns the replaced child, which is detached.
func (c *Container) Put(n Node) (Node, error) {
	if n == nil {
		return nil, ErrNilNode
	}
	if n.Parent() != nil {
		return nil, ErrAlreadyOwned
	}
	i := c.indexOfTag(n.Tag())
	if i < 0 {
		return nil, c.Append(n)
	}
	old, err := c.Erase(i)
	if err != nil {
		return nil, err
	}
	if err := c.Insert(i, n); err != nil {
		// put the old child back so that a failed Put changes nothing
		_ = c.Insert(i, old)
		return nil, err
	}
	return old, nil
}

// Erase removes and returns the child at index i. The removed node is
// detached and may be inserted elsewhere.
func (c *Container) Erase(i int) (Node, error) {
	if i < 0 || i >= len(c.children) {
		return nil, ErrIndex
	}
	n := c.children[i]
	copy(c.children[i:], c.children[i+1:])
	c.children[len(c.children)-1] = nil
	c.children = c.children[:len(c.children)-1]
	n.base().parent = nil
	c.MarkDirty()
	return n, nil
}

// Remove erases n if it is a child of c and reports whether it was.
func (c *Container) Remove(n Node) bool {
	i := c.IndexOf(n)
	if i < 0 {
		return false
	}
	_, _ = c.Erase(i)
	return true
}

// Clear detaches every child.
func (c *Container) Clear() {
	for i, n := range c.children {
		n.base().parent = nil
		c.children[i] = nil
	}
	c.children = c.children[:0]
	c.MarkDirty()
}

// attach appends a freshly decoded child without the ownership checks.
func (c *Container) attach(n Node) {
	n.base().parent = c
	c.children = append(c.children, n)
	c.dirty = true
}

// PayloadLength returns the total framed size of the children.
func (c *Container) PayloadLength() int {
	return c.payloadLength()
}

func (c *Container) payloadLength() int {
	if c.dirty {
		sum := 0
		for _, n := range c.children {
			sum += n.EncodedLength()
		}
		c.cached = sum
		c.dirty = false
	}
	return c.cached
}

// EncodedLength returns the framed size of the container in definite form.
func (c *Container) EncodedLength() int {
	return framedLength(c.tag, c.typeTag, c.payloadLength())
}
