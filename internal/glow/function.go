package glow

import (
	"github.com/KilimcininKorOglu/ember/internal/ber"
	"github.com/KilimcininKorOglu/ember/internal/dom"
)

// Function contents fields.
const (
	functionArguments         = 2
	functionResult            = 3
	functionTemplateReference = 4
)

// Function is a view over a Function or QualifiedFunction.
type Function struct {
	Element
}

// NewFunction creates a detached function with the given number.
func NewFunction(number int32) *Function {
	return &Function{Element: newElement(TypeFunction, number, nil)}
}

// NewQualifiedFunction creates a detached function addressed by path.
func NewQualifiedFunction(path ber.ObjectIdentifier) *Function {
	return &Function{Element: newElement(TypeQualifiedFunction, 0, path)}
}

// FunctionOf returns the function view over n.
func FunctionOf(n dom.Node) (*Function, error) {
	e, err := ElementOf(n)
	if err != nil {
		return nil, err
	}
	f, ok := e.AsFunction()
	if !ok {
		return nil, ErrWrongType
	}
	return f, nil
}

func (f *Function) tuple(field uint64) []*TupleItemDescription {
	c, ok := f.Contents()
	if !ok {
		return nil
	}
	seq, ok := containerField(c, field)
	if !ok {
		return nil
	}
	var out []*TupleItemDescription
	for _, item := range typedChildren(seq, TypeTupleItemDescription) {
		out = append(out, &TupleItemDescription{c: item})
	}
	return out
}

func (f *Function) addTupleItem(field uint64, t ParameterType, name string) error {
	c, err := f.ensureContents()
	if err != nil {
		return err
	}
	seq, err := ensureContainerField(c, field, ber.SequenceTag)
	if err != nil {
		return err
	}
	return seq.Append(NewTupleItemDescription(t, name).c)
}

// Arguments describes the arguments the function takes.
func (f *Function) Arguments() []*TupleItemDescription { return f.tuple(functionArguments) }

// AddArgument appends an argument description.
func (f *Function) AddArgument(t ParameterType, name string) error {
	return f.addTupleItem(functionArguments, t, name)
}

// Result describes the values the function returns.
func (f *Function) Result() []*TupleItemDescription { return f.tuple(functionResult) }

// AddResult appends a result description.
func (f *Function) AddResult(t ParameterType, name string) error {
	return f.addTupleItem(functionResult, t, name)
}

// TemplateReference returns the path of the template the function follows.
func (f *Function) TemplateReference() ber.ObjectIdentifier {
	o, _ := f.contentOID(functionTemplateReference)
	return o
}

// TupleItemDescription fields.
const (
	tupleItemType = 0
	tupleItemName = 1
)

// TupleItemDescription is a view over a TupleItemDescription: the type and
// optional name of one function argument or result.
type TupleItemDescription struct {
	c *dom.Container
}

// NewTupleItemDescription creates a detached tuple item description. An
// empty name is omitted.
func NewTupleItemDescription(t ParameterType, name string) *TupleItemDescription {
	c := newItem(TypeTupleItemDescription)
	_ = setField(c, tupleItemType, ber.IntValue(int64(t)))
	if name != "" {
		_ = setField(c, tupleItemName, ber.StringValue(name))
	}
	return &TupleItemDescription{c: c}
}

// Container returns the wrapped container.
func (d *TupleItemDescription) Container() *dom.Container { return d.c }

// Type returns the value type.
func (d *TupleItemDescription) Type() ParameterType {
	n, _ := intField(d.c, tupleItemType)
	return ParameterType(n)
}

// Name returns the name, or "".
func (d *TupleItemDescription) Name() string {
	s, _ := stringField(d.c, tupleItemName)
	return s
}

// tupleValues returns the leaves of a Tuple, a SEQUENCE OF [0] Value.
func tupleValues(c *dom.Container, field uint64) []ber.Value {
	seq, ok := containerField(c, field)
	if !ok {
		return nil
	}
	var out []ber.Value
	for n := range seq.Children() {
		if leaf, ok := n.(*dom.Leaf); ok {
			out = append(out, leaf.Value())
		}
	}
	return out
}

func setTupleValues(c *dom.Container, field uint64, values []ber.Value) error {
	seq := dom.NewContainer(ber.Context(field), ber.SequenceTag)
	for _, v := range values {
		if err := seq.Append(dom.NewLeaf(ber.Context(0), v)); err != nil {
			return err
		}
	}
	return putField(c, seq)
}

// Invocation fields.
const (
	invocationID        = 0
	invocationArguments = 1
)

// Invocation is a view over an Invocation: a call of a function carried by
// an Invoke command.
type Invocation struct {
	c *dom.Container
}

// InvocationOf returns the invocation view over n.
func InvocationOf(n dom.Node) (*Invocation, error) {
	c, err := viewOf(n, TypeInvocation)
	if err != nil {
		return nil, err
	}
	return &Invocation{c: c}, nil
}

// Container returns the wrapped container.
func (inv *Invocation) Container() *dom.Container { return inv.c }

// ID returns the invocation identifier used to match the result.
func (inv *Invocation) ID() (int32, bool) {
	n, ok := intField(inv.c, invocationID)
	return int32(n), ok
}

// SetID stores the invocation identifier.
func (inv *Invocation) SetID(id int32) error {
	return setField(inv.c, invocationID, ber.IntValue(int64(id)))
}

// Arguments returns the argument values.
func (inv *Invocation) Arguments() []ber.Value { return tupleValues(inv.c, invocationArguments) }

// SetArguments replaces the argument values.
func (inv *Invocation) SetArguments(values ...ber.Value) error {
	return setTupleValues(inv.c, invocationArguments, values)
}

// InvocationResult fields.
const (
	resultID      = 0
	resultSuccess = 1
	resultValues  = 2
)

// InvocationResult is a view over an InvocationResult, which is sent as a
// root of its own.
type InvocationResult struct {
	c *dom.Container
}

// InvocationResultOf returns the invocation result view over n.
func InvocationResultOf(n dom.Node) (*InvocationResult, error) {
	c, err := viewOf(n, TypeInvocationResult)
	if err != nil {
		return nil, err
	}
	return &InvocationResult{c: c}, nil
}

// Container returns the wrapped container.
func (r *InvocationResult) Container() *dom.Container { return r.c }

// ID returns the identifier of the invocation this result answers.
func (r *InvocationResult) ID() int32 {
	n, _ := intField(r.c, resultID)
	return int32(n)
}

// Success reports whether the invocation succeeded. A result without the
// flag is a success.
func (r *InvocationResult) Success() bool {
	b, ok := boolField(r.c, resultSuccess)
	return !ok || b
}

// SetSuccess stores the success flag.
func (r *InvocationResult) SetSuccess(b bool) error {
	return setField(r.c, resultSuccess, ber.BoolValue(b))
}

// Values returns the result values.
func (r *InvocationResult) Values() []ber.Value { return tupleValues(r.c, resultValues) }

// SetValues replaces the result values.
func (r *InvocationResult) SetValues(values ...ber.Value) error {
	return setTupleValues(r.c, resultValues, values)
}
