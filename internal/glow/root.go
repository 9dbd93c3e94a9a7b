package glow

import (
	"iter"
	"slices"

	"github.com/KilimcininKorOglu/ember/internal/ber"
	"github.com/KilimcininKorOglu/ember/internal/dom"
)

// Root is a view over the top-level container of a Glow message. Its
// application tag is always [APPLICATION 0]; its type tag selects what the
// message carries: a RootElementCollection, a StreamCollection or an
// InvocationResult.
type Root struct {
	c *dom.Container
}

func newRoot(t Type) *Root {
	return &Root{c: dom.NewContainer(TypeRoot.Tag(), t.Tag())}
}

// NewRoot creates a root carrying elements.
func NewRoot() *Root { return newRoot(TypeRootElementCollection) }

// NewStreamRoot creates a root carrying stream entries.
func NewStreamRoot() *Root { return newRoot(TypeStreamCollection) }

// NewInvocationResultRoot creates a root carrying the result of invocation id.
func NewInvocationResultRoot(id int32) *Root {
	r := newRoot(TypeInvocationResult)
	_ = setField(r.c, resultID, ber.IntValue(int64(id)))
	return r
}

// RootOf returns the root view over n.
func RootOf(n dom.Node) (*Root, error) {
	c, ok := n.(*dom.Container)
	if !ok || c.Tag() != TypeRoot.Tag() {
		return nil, ErrWrongType
	}
	switch c.TypeTag() {
	case TypeRootElementCollection.Tag(), TypeStreamCollection.Tag(), TypeInvocationResult.Tag():
		return &Root{c: c}, nil
	}
	return nil, ErrWrongType
}

// Container returns the wrapped container.
func (r *Root) Container() *dom.Container { return r.c }

// Kind returns the type of the root payload.
func (r *Root) Kind() Type {
	t, _ := typeOf(r.c.TypeTag())
	return t
}

// Elements returns the top-level elements of an element root.
func (r *Root) Elements() (*ElementCollection, bool) {
	if r.Kind() != TypeRootElementCollection {
		return nil, false
	}
	return &ElementCollection{c: r.c}, true
}

// Streams returns the entries of a stream root.
func (r *Root) Streams() (*StreamCollection, bool) {
	if r.Kind() != TypeStreamCollection {
		return nil, false
	}
	return &StreamCollection{c: r.c}, true
}

// InvocationResult returns the payload of an invocation result root.
func (r *Root) InvocationResult() (*InvocationResult, bool) {
	if r.Kind() != TypeInvocationResult {
		return nil, false
	}
	return &InvocationResult{c: r.c}, true
}

// Append adds an element to an element root.
func (r *Root) Append(v Viewer) error {
	ec, ok := r.Elements()
	if !ok {
		return ErrWrongType
	}
	return ec.Append(v)
}

// Walk iterates over the elements below r depth-first and yields each with
// its resolved path. Qualified elements carry their own path; the path of
// any other element is its number appended to the path of its parent.
// Commands are not yielded.
func (r *Root) Walk() iter.Seq2[ber.ObjectIdentifier, Element] {
	return func(yield func(ber.ObjectIdentifier, Element) bool) {
		ec, ok := r.Elements()
		if !ok {
			return
		}
		walkCollection(ec, nil, yield)
	}
}

func walkCollection(ec *ElementCollection, parent ber.ObjectIdentifier, yield func(ber.ObjectIdentifier, Element) bool) bool {
	for e := range ec.All() {
		if e.Type() == TypeCommand {
			continue
		}
		var path ber.ObjectIdentifier
		if e.IsQualified() {
			path = e.Path()
		} else {
			path = append(slices.Clip(parent), uint64(e.Number()))
		}
		if !yield(path, e) {
			return false
		}
		if children, ok := e.Children(); ok {
			if !walkCollection(children, path, yield) {
				return false
			}
		}
	}
	return true
}

// Find returns the element at path, following numbers from the top level
// and honoring qualified elements anywhere in the tree.
func (r *Root) Find(path ber.ObjectIdentifier) (Element, bool) {
	for p, e := range r.Walk() {
		if p.Equal(path) {
			return e, true
		}
	}
	return Element{}, false
}
