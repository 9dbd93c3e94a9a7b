package glow

import (
	"errors"

	"github.com/KilimcininKorOglu/ember/internal/ber"
	"github.com/KilimcininKorOglu/ember/internal/dom"
)

// ErrWrongType is returned when a view is requested over a container whose
// type tag does not match.
var ErrWrongType = errors.New("glow: container has a different type")

// Field tags shared by most element types.
const (
	fieldNumber   = 0
	fieldContents = 1
	fieldChildren = 2
)

// Contents field tags shared by every element with a contents set.
const (
	fieldIdentifier  = 0
	fieldDescription = 1
)

func leafField(c *dom.Container, n uint64) (*dom.Leaf, bool) {
	node, ok := c.Find(ber.Context(n))
	if !ok {
		return nil, false
	}
	leaf, ok := node.(*dom.Leaf)
	return leaf, ok
}

func valueField(c *dom.Container, n uint64) (ber.Value, bool) {
	leaf, ok := leafField(c, n)
	if !ok {
		return ber.Value{}, false
	}
	return leaf.Value(), true
}

func stringField(c *dom.Container, n uint64) (string, bool) {
	v, ok := valueField(c, n)
	if !ok || v.Kind() != ber.KindString {
		return "", false
	}
	return v.Text(), true
}

func intField(c *dom.Container, n uint64) (int64, bool) {
	v, ok := valueField(c, n)
	if !ok {
		return 0, false
	}
	switch v.Kind() {
	case ber.KindInteger, ber.KindUnsigned:
		return v.Int(), true
	}
	return 0, false
}

func boolField(c *dom.Container, n uint64) (bool, bool) {
	v, ok := valueField(c, n)
	if !ok || v.Kind() != ber.KindBoolean {
		return false, false
	}
	return v.Bool(), true
}

func oidField(c *dom.Container, n uint64) (ber.ObjectIdentifier, bool) {
	v, ok := valueField(c, n)
	if !ok || v.Kind() != ber.KindOID {
		return nil, false
	}
	return v.OID(), true
}

// setField stores v under context tag n, reusing an existing leaf so that
// its type tag survives.
func setField(c *dom.Container, n uint64, v ber.Value) error {
	if leaf, ok := leafField(c, n); ok {
		leaf.SetValue(v)
		return nil
	}
	return putField(c, dom.NewLeaf(ber.Context(n), v))
}

// putField inserts node, replacing a child with the same tag and otherwise
// keeping context tags in ascending order.
func putField(c *dom.Container, node dom.Node) error {
	tag := node.Tag()
	for i := 0; i < c.Len(); i++ {
		child := c.At(i)
		if child.Tag() == tag {
			if _, err := c.Erase(i); err != nil {
				return err
			}
			return c.Insert(i, node)
		}
		if child.Tag().Class == tag.Class && child.Tag().Number > tag.Number {
			return c.Insert(i, node)
		}
	}
	return c.Append(node)
}

// removeField erases the child with context tag n and reports whether there
// was one.
func removeField(c *dom.Container, n uint64) bool {
	node, ok := c.Find(ber.Context(n))
	if !ok {
		return false
	}
	return c.Remove(node)
}

func containerField(c *dom.Container, n uint64) (*dom.Container, bool) {
	node, ok := c.Find(ber.Context(n))
	if !ok {
		return nil, false
	}
	sub, ok := node.(*dom.Container)
	return sub, ok
}

// ensureContainerField returns the container under context tag n, creating
// it with typeTag when missing.
func ensureContainerField(c *dom.Container, n uint64, typeTag ber.Tag) (*dom.Container, error) {
	if sub, ok := containerField(c, n); ok {
		if sub.TypeTag() != typeTag {
			return nil, ErrWrongType
		}
		return sub, nil
	}
	sub := dom.NewContainer(ber.Context(n), typeTag)
	if err := putField(c, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

// typedChildren returns the children of c that are containers of type t.
func typedChildren(c *dom.Container, t Type) []*dom.Container {
	var out []*dom.Container
	for n := range c.Children() {
		if sub, ok := n.(*dom.Container); ok && sub.TypeTag() == t.Tag() {
			out = append(out, sub)
		}
	}
	return out
}

// newItem creates a detached container of type t tagged for a collection.
func newItem(t Type) *dom.Container {
	return dom.NewContainer(ber.Context(0), t.Tag())
}

// viewOf checks that n is a container of type t.
func viewOf(n dom.Node, t Type) (*dom.Container, error) {
	c, ok := n.(*dom.Container)
	if !ok || c.TypeTag() != t.Tag() {
		return nil, ErrWrongType
	}
	return c, nil
}
