package glow

import (
	"iter"

	"github.com/KilimcininKorOglu/ember/internal/ber"
	"github.com/KilimcininKorOglu/ember/internal/dom"
)

// Viewer is implemented by every view. It exposes the wrapped container so
// that views can be inserted into collections of other views.
type Viewer interface {
	Container() *dom.Container
}

// Element is a view over any member of an element collection: a node,
// parameter, matrix, function, template or command, qualified or not.
type Element struct {
	c *dom.Container
}

// ElementOf returns the element view over n.
func ElementOf(n dom.Node) (Element, error) {
	c, ok := n.(*dom.Container)
	if !ok {
		return Element{}, ErrWrongType
	}
	t, ok := typeOf(c.TypeTag())
	if !ok || !t.IsElement() {
		return Element{}, ErrWrongType
	}
	return Element{c: c}, nil
}

// newElement creates a detached element of type t tagged for a collection.
// Qualified types are addressed by path, the others by number.
func newElement(t Type, number int32, path ber.ObjectIdentifier) Element {
	c := newItem(t)
	if t.IsQualified() {
		_ = setField(c, fieldNumber, ber.OIDValue(path))
	} else {
		_ = setField(c, fieldNumber, ber.IntValue(int64(number)))
	}
	return Element{c: c}
}

// Container returns the wrapped container.
func (e Element) Container() *dom.Container { return e.c }

// Type returns the Glow type of the element.
func (e Element) Type() Type {
	t, _ := typeOf(e.c.TypeTag())
	return t
}

// IsQualified reports whether the element is addressed by a full path.
func (e Element) IsQualified() bool { return e.Type().IsQualified() }

// Number returns the number of the element within its parent. It is zero
// for qualified elements.
func (e Element) Number() int32 {
	if e.IsQualified() {
		return 0
	}
	n, _ := intField(e.c, fieldNumber)
	return int32(n)
}

// Path returns the path of a qualified element, or nil.
func (e Element) Path() ber.ObjectIdentifier {
	if !e.IsQualified() {
		return nil
	}
	p, _ := oidField(e.c, fieldNumber)
	return p
}

// Contents returns the contents set, if present.
func (e Element) Contents() (*dom.Container, bool) {
	c, ok := containerField(e.c, fieldContents)
	if !ok || !c.IsSet() {
		return nil, false
	}
	return c, true
}

func (e Element) ensureContents() (*dom.Container, error) {
	return ensureContainerField(e.c, fieldContents, ber.SetTag)
}

func (e Element) contentValue(n uint64) (ber.Value, bool) {
	c, ok := e.Contents()
	if !ok {
		return ber.Value{}, false
	}
	return valueField(c, n)
}

func (e Element) contentString(n uint64) string {
	c, ok := e.Contents()
	if !ok {
		return ""
	}
	s, _ := stringField(c, n)
	return s
}

func (e Element) contentInt(n uint64) (int64, bool) {
	c, ok := e.Contents()
	if !ok {
		return 0, false
	}
	return intField(c, n)
}

func (e Element) contentBool(n uint64) (bool, bool) {
	c, ok := e.Contents()
	if !ok {
		return false, false
	}
	return boolField(c, n)
}

func (e Element) contentOID(n uint64) (ber.ObjectIdentifier, bool) {
	c, ok := e.Contents()
	if !ok {
		return nil, false
	}
	return oidField(c, n)
}

func (e Element) setContent(n uint64, v ber.Value) error {
	c, err := e.ensureContents()
	if err != nil {
		return err
	}
	return setField(c, n, v)
}

// Identifier returns the identifier from the contents set.
func (e Element) Identifier() string { return e.contentString(fieldIdentifier) }

// SetIdentifier stores the identifier.
func (e Element) SetIdentifier(s string) error {
	return e.setContent(fieldIdentifier, ber.StringValue(s))
}

// Description returns the description from the contents set.
func (e Element) Description() string { return e.contentString(fieldDescription) }

// SetDescription stores the description.
func (e Element) SetDescription(s string) error {
	return e.setContent(fieldDescription, ber.StringValue(s))
}

// Children returns the child collection, if present.
func (e Element) Children() (*ElementCollection, bool) {
	c, ok := containerField(e.c, fieldChildren)
	if !ok || c.TypeTag() != TypeElementCollection.Tag() {
		return nil, false
	}
	return &ElementCollection{c: c}, true
}

// EnsureChildren returns the child collection, creating it when missing.
func (e Element) EnsureChildren() (*ElementCollection, error) {
	c, err := ensureContainerField(e.c, fieldChildren, TypeElementCollection.Tag())
	if err != nil {
		return nil, err
	}
	return &ElementCollection{c: c}, nil
}

// AsNode returns the node view when the element is a node.
func (e Element) AsNode() (*Node, bool) {
	switch e.Type() {
	case TypeNode, TypeQualifiedNode:
		return &Node{Element: e}, true
	}
	return nil, false
}

// AsParameter returns the parameter view when the element is a parameter.
func (e Element) AsParameter() (*Parameter, bool) {
	switch e.Type() {
	case TypeParameter, TypeQualifiedParameter:
		return &Parameter{Element: e}, true
	}
	return nil, false
}

// AsMatrix returns the matrix view when the element is a matrix.
func (e Element) AsMatrix() (*Matrix, bool) {
	switch e.Type() {
	case TypeMatrix, TypeQualifiedMatrix:
		return &Matrix{Element: e}, true
	}
	return nil, false
}

// AsFunction returns the function view when the element is a function.
func (e Element) AsFunction() (*Function, bool) {
	switch e.Type() {
	case TypeFunction, TypeQualifiedFunction:
		return &Function{Element: e}, true
	}
	return nil, false
}

// AsTemplate returns the template view when the element is a template.
func (e Element) AsTemplate() (*Template, bool) {
	switch e.Type() {
	case TypeTemplate, TypeQualifiedTemplate:
		return &Template{Element: e}, true
	}
	return nil, false
}

// AsCommand returns the command view when the element is a command.
func (e Element) AsCommand() (*Command, bool) {
	if e.Type() != TypeCommand {
		return nil, false
	}
	return &Command{c: e.c}, true
}

// ElementCollection is a view over a SEQUENCE OF elements, either the
// children of an element or the top level of a root.
type ElementCollection struct {
	c *dom.Container
}

// NewElementCollection creates a detached collection tagged as the children
// field of an element.
func NewElementCollection() *ElementCollection {
	return &ElementCollection{c: dom.NewContainer(ber.Context(fieldChildren), TypeElementCollection.Tag())}
}

// ElementCollectionOf returns the collection view over n.
func ElementCollectionOf(n dom.Node) (*ElementCollection, error) {
	c, ok := n.(*dom.Container)
	if !ok {
		return nil, ErrWrongType
	}
	switch c.TypeTag() {
	case TypeElementCollection.Tag(), TypeRootElementCollection.Tag():
		return &ElementCollection{c: c}, nil
	}
	return nil, ErrWrongType
}

// Container returns the wrapped container.
func (ec *ElementCollection) Container() *dom.Container { return ec.c }

// Len returns the number of children, including any that are not elements.
func (ec *ElementCollection) Len() int { return ec.c.Len() }

// All iterates over the elements of the collection.
func (ec *ElementCollection) All() iter.Seq[Element] {
	return func(yield func(Element) bool) {
		for n := range ec.c.Children() {
			e, err := ElementOf(n)
			if err != nil {
				continue
			}
			if !yield(e) {
				return
			}
		}
	}
}

// Elements returns the elements of the collection.
func (ec *ElementCollection) Elements() []Element {
	var out []Element
	for e := range ec.All() {
		out = append(out, e)
	}
	return out
}

// Find returns the unqualified element with the given number.
func (ec *ElementCollection) Find(number int32) (Element, bool) {
	for e := range ec.All() {
		if !e.IsQualified() && e.Type() != TypeCommand && e.Number() == number {
			return e, true
		}
	}
	return Element{}, false
}

// Append adds an element view to the collection.
func (ec *ElementCollection) Append(v Viewer) error {
	e, err := ElementOf(v.Container())
	if err != nil {
		return err
	}
	return ec.c.Append(e.c)
}

// Node is a view over a Node or QualifiedNode.
type Node struct {
	Element
}

// Node contents fields.
const (
	nodeIsRoot            = 2
	nodeIsOnline          = 3
	nodeSchemaIdentifiers = 4
	nodeTemplateReference = 5
)

// NewNode creates a detached node with the given number.
func NewNode(number int32) *Node {
	return &Node{Element: newElement(TypeNode, number, nil)}
}

// NewQualifiedNode creates a detached node addressed by path.
func NewQualifiedNode(path ber.ObjectIdentifier) *Node {
	return &Node{Element: newElement(TypeQualifiedNode, 0, path)}
}

// NodeOf returns the node view over n.
func NodeOf(n dom.Node) (*Node, error) {
	e, err := ElementOf(n)
	if err != nil {
		return nil, err
	}
	node, ok := e.AsNode()
	if !ok {
		return nil, ErrWrongType
	}
	return node, nil
}

// IsRoot reports whether the node is flagged as the root of a device tree.
func (n *Node) IsRoot() bool {
	b, _ := n.contentBool(nodeIsRoot)
	return b
}

// SetIsRoot stores the root flag.
func (n *Node) SetIsRoot(b bool) error { return n.setContent(nodeIsRoot, ber.BoolValue(b)) }

// IsOnline reports whether the node is online. A node without the flag is
// online.
func (n *Node) IsOnline() bool {
	b, ok := n.contentBool(nodeIsOnline)
	return !ok || b
}

// SetIsOnline stores the online flag.
func (n *Node) SetIsOnline(b bool) error { return n.setContent(nodeIsOnline, ber.BoolValue(b)) }

// SchemaIdentifiers returns the newline separated schema identifiers.
func (n *Node) SchemaIdentifiers() string { return n.contentString(nodeSchemaIdentifiers) }

// SetSchemaIdentifiers stores the schema identifiers.
func (n *Node) SetSchemaIdentifiers(s string) error {
	return n.setContent(nodeSchemaIdentifiers, ber.StringValue(s))
}

// TemplateReference returns the path of the template the node follows.
func (n *Node) TemplateReference() ber.ObjectIdentifier {
	p, _ := n.contentOID(nodeTemplateReference)
	return p
}

// SetTemplateReference stores the template reference.
func (n *Node) SetTemplateReference(p ber.ObjectIdentifier) error {
	return n.setContent(nodeTemplateReference, ber.OIDValue(p))
}

// Template is a view over a Template or QualifiedTemplate.
type Template struct {
	Element
}

// Template fields.
const (
	templateElement     = 1
	templateDescription = 2
)

// NewTemplate creates a detached template with the given number.
func NewTemplate(number int32) *Template {
	return &Template{Element: newElement(TypeTemplate, number, nil)}
}

// NewQualifiedTemplate creates a detached template addressed by path.
func NewQualifiedTemplate(path ber.ObjectIdentifier) *Template {
	return &Template{Element: newElement(TypeQualifiedTemplate, 0, path)}
}

// Description returns the description of the template. Unlike the other
// elements a template stores it outside a contents set.
func (t *Template) Description() string {
	s, _ := stringField(t.c, templateDescription)
	return s
}

// SetDescription stores the description.
func (t *Template) SetDescription(s string) error {
	return setField(t.c, templateDescription, ber.StringValue(s))
}

// Prototype returns the element the template describes.
func (t *Template) Prototype() (Element, bool) {
	c, ok := containerField(t.c, templateElement)
	if !ok {
		return Element{}, false
	}
	e, err := ElementOf(c)
	return e, err == nil
}

// SetPrototype stores the element the template describes. The fields of
// the element move into a container tagged for the template.
func (t *Template) SetPrototype(v Viewer) error {
	src := v.Container()
	if _, err := ElementOf(src); err != nil {
		return err
	}
	if src.Parent() != nil {
		return dom.ErrAlreadyOwned
	}
	c := dom.NewContainer(ber.Context(templateElement), src.TypeTag())
	for src.Len() > 0 {
		child, err := src.Erase(0)
		if err != nil {
			return err
		}
		if err := c.Append(child); err != nil {
			return err
		}
	}
	return putField(t.c, c)
}

// Command is a view over a Command.
type Command struct {
	c *dom.Container
}

// Command fields.
const (
	commandDirFieldMask = 1
	commandInvocation   = 2
)

// NewCommand creates a detached command.
func NewCommand(t CommandType) *Command {
	c := newItem(TypeCommand)
	_ = setField(c, fieldNumber, ber.IntValue(int64(t)))
	return &Command{c: c}
}

// CommandOf returns the command view over n.
func CommandOf(n dom.Node) (*Command, error) {
	c, err := viewOf(n, TypeCommand)
	if err != nil {
		return nil, err
	}
	return &Command{c: c}, nil
}

// Container returns the wrapped container.
func (cmd *Command) Container() *dom.Container { return cmd.c }

// Type returns the command number.
func (cmd *Command) Type() CommandType {
	n, _ := intField(cmd.c, fieldNumber)
	return CommandType(n)
}

// DirFieldMask returns the fields requested by GetDirectory.
func (cmd *Command) DirFieldMask() (FieldFlags, bool) {
	n, ok := intField(cmd.c, commandDirFieldMask)
	return FieldFlags(n), ok
}

// SetDirFieldMask stores the GetDirectory field mask.
func (cmd *Command) SetDirFieldMask(f FieldFlags) error {
	return setField(cmd.c, commandDirFieldMask, ber.IntValue(int64(f)))
}

// Invocation returns the invocation carried by an Invoke command.
func (cmd *Command) Invocation() (*Invocation, bool) {
	c, ok := containerField(cmd.c, commandInvocation)
	if !ok || c.TypeTag() != TypeInvocation.Tag() {
		return nil, false
	}
	return &Invocation{c: c}, true
}

// EnsureInvocation returns the invocation, creating it when missing.
func (cmd *Command) EnsureInvocation() (*Invocation, error) {
	c, err := ensureContainerField(cmd.c, commandInvocation, TypeInvocation.Tag())
	if err != nil {
		return nil, err
	}
	return &Invocation{c: c}, nil
}
