package glow

import (
	"github.com/KilimcininKorOglu/ember/internal/ber"
	"github.com/KilimcininKorOglu/ember/internal/dom"
	"github.com/KilimcininKorOglu/ember/internal/formula"
)

// Parameter contents fields.
const (
	paramValue             = 2
	paramMinimum           = 3
	paramMaximum           = 4
	paramAccess            = 5
	paramFormat            = 6
	paramEnumeration       = 7
	paramFactor            = 8
	paramIsOnline          = 9
	paramFormula           = 10
	paramStep              = 11
	paramDefault           = 12
	paramType              = 13
	paramStreamIdentifier  = 14
	paramEnumMap           = 15
	paramStreamDescriptor  = 16
	paramSchemaIdentifiers = 17
	paramTemplateReference = 18
)

// Parameter is a view over a Parameter or QualifiedParameter.
type Parameter struct {
	Element
}

// NewParameter creates a detached parameter with the given number.
func NewParameter(number int32) *Parameter {
	return &Parameter{Element: newElement(TypeParameter, number, nil)}
}

// NewQualifiedParameter creates a detached parameter addressed by path.
func NewQualifiedParameter(path ber.ObjectIdentifier) *Parameter {
	return &Parameter{Element: newElement(TypeQualifiedParameter, 0, path)}
}

// ParameterOf returns the parameter view over n.
func ParameterOf(n dom.Node) (*Parameter, error) {
	e, err := ElementOf(n)
	if err != nil {
		return nil, err
	}
	p, ok := e.AsParameter()
	if !ok {
		return nil, ErrWrongType
	}
	return p, nil
}

// Value returns the current value.
func (p *Parameter) Value() (ber.Value, bool) { return p.contentValue(paramValue) }

// SetValue stores the current value.
func (p *Parameter) SetValue(v ber.Value) error { return p.setContent(paramValue, v) }

// Minimum returns the lower bound.
func (p *Parameter) Minimum() (ber.Value, bool) { return p.contentValue(paramMinimum) }

// SetMinimum stores the lower bound.
func (p *Parameter) SetMinimum(v ber.Value) error { return p.setContent(paramMinimum, v) }

// Maximum returns the upper bound.
func (p *Parameter) Maximum() (ber.Value, bool) { return p.contentValue(paramMaximum) }

// SetMaximum stores the upper bound.
func (p *Parameter) SetMaximum(v ber.Value) error { return p.setContent(paramMaximum, v) }

// Default returns the default value.
func (p *Parameter) Default() (ber.Value, bool) { return p.contentValue(paramDefault) }

// SetDefault stores the default value.
func (p *Parameter) SetDefault(v ber.Value) error { return p.setContent(paramDefault, v) }

// Access returns the access mode. A parameter without one is read-only.
func (p *Parameter) Access() ParameterAccess {
	n, ok := p.contentInt(paramAccess)
	if !ok {
		return AccessRead
	}
	return ParameterAccess(n)
}

// SetAccess stores the access mode.
func (p *Parameter) SetAccess(a ParameterAccess) error {
	return p.setContent(paramAccess, ber.IntValue(int64(a)))
}

// ParameterType returns the declared parameter type.
func (p *Parameter) ParameterType() (ParameterType, bool) {
	n, ok := p.contentInt(paramType)
	return ParameterType(n), ok
}

// SetParameterType stores the parameter type.
func (p *Parameter) SetParameterType(t ParameterType) error {
	return p.setContent(paramType, ber.IntValue(int64(t)))
}

// EffectiveType returns the declared type, or the type implied by the
// value, the enumeration or the enum map when none is declared.
func (p *Parameter) EffectiveType() ParameterType {
	if t, ok := p.ParameterType(); ok {
		return t
	}
	if v, ok := p.Value(); ok {
		switch v.Kind() {
		case ber.KindInteger, ber.KindUnsigned:
			if p.Enumeration() != "" || p.hasEnumMap() {
				return ParameterTypeEnum
			}
			return ParameterTypeInteger
		case ber.KindReal:
			return ParameterTypeReal
		case ber.KindString:
			return ParameterTypeString
		case ber.KindBoolean:
			return ParameterTypeBoolean
		case ber.KindOctets:
			return ParameterTypeOctets
		}
	}
	if p.Enumeration() != "" || p.hasEnumMap() {
		return ParameterTypeEnum
	}
	return ParameterTypeNull
}

// Format returns the printf-style display format.
func (p *Parameter) Format() string { return p.contentString(paramFormat) }

// SetFormat stores the display format.
func (p *Parameter) SetFormat(s string) error {
	return p.setContent(paramFormat, ber.StringValue(s))
}

// Enumeration returns the newline separated enumeration entries.
func (p *Parameter) Enumeration() string { return p.contentString(paramEnumeration) }

// SetEnumeration stores the enumeration entries.
func (p *Parameter) SetEnumeration(s string) error {
	return p.setContent(paramEnumeration, ber.StringValue(s))
}

// Factor returns the factor an integer value is divided by for display.
func (p *Parameter) Factor() (int32, bool) {
	n, ok := p.contentInt(paramFactor)
	return int32(n), ok
}

// SetFactor stores the display factor.
func (p *Parameter) SetFactor(n int32) error {
	return p.setContent(paramFactor, ber.IntValue(int64(n)))
}

// IsOnline reports whether the parameter is online. A parameter without
// the flag is online.
func (p *Parameter) IsOnline() bool {
	b, ok := p.contentBool(paramIsOnline)
	return !ok || b
}

// SetIsOnline stores the online flag.
func (p *Parameter) SetIsOnline(b bool) error {
	return p.setContent(paramIsOnline, ber.BoolValue(b))
}

// Formula returns the raw formula pair.
func (p *Parameter) Formula() string { return p.contentString(paramFormula) }

// SetFormula stores the formula pair.
func (p *Parameter) SetFormula(s string) error {
	return p.setContent(paramFormula, ber.StringValue(s))
}

// CompileFormula compiles the provider-to-consumer and consumer-to-provider
// formulas.
func (p *Parameter) CompileFormula() (formula.Pair, error) {
	return formula.ParsePair(p.Formula())
}

// Step returns the increment a user interface should use.
func (p *Parameter) Step() (int32, bool) {
	n, ok := p.contentInt(paramStep)
	return int32(n), ok
}

// SetStep stores the increment.
func (p *Parameter) SetStep(n int32) error {
	return p.setContent(paramStep, ber.IntValue(int64(n)))
}

// StreamIdentifier returns the identifier of the stream carrying the value.
func (p *Parameter) StreamIdentifier() (int32, bool) {
	n, ok := p.contentInt(paramStreamIdentifier)
	return int32(n), ok
}

// SetStreamIdentifier stores the stream identifier.
func (p *Parameter) SetStreamIdentifier(n int32) error {
	return p.setContent(paramStreamIdentifier, ber.IntValue(int64(n)))
}

func (p *Parameter) hasEnumMap() bool {
	_, ok := p.EnumMap()
	return ok
}

// EnumMap returns the enumeration entries with explicit values.
func (p *Parameter) EnumMap() (*StringIntegerCollection, bool) {
	c, ok := p.Contents()
	if !ok {
		return nil, false
	}
	m, ok := containerField(c, paramEnumMap)
	if !ok || m.TypeTag() != TypeStringIntegerCollection.Tag() {
		return nil, false
	}
	return &StringIntegerCollection{c: m}, true
}

// EnsureEnumMap returns the enum map, creating it when missing.
func (p *Parameter) EnsureEnumMap() (*StringIntegerCollection, error) {
	c, err := p.ensureContents()
	if err != nil {
		return nil, err
	}
	m, err := ensureContainerField(c, paramEnumMap, TypeStringIntegerCollection.Tag())
	if err != nil {
		return nil, err
	}
	return &StringIntegerCollection{c: m}, nil
}

// StreamDescriptor returns where the value sits inside a shared stream.
func (p *Parameter) StreamDescriptor() (*StreamDescription, bool) {
	c, ok := p.Contents()
	if !ok {
		return nil, false
	}
	d, ok := containerField(c, paramStreamDescriptor)
	if !ok || d.TypeTag() != TypeStreamDescription.Tag() {
		return nil, false
	}
	return &StreamDescription{c: d}, true
}

// SetStreamDescriptor stores the stream location.
func (p *Parameter) SetStreamDescriptor(format StreamFormat, offset int32) error {
	c, err := p.ensureContents()
	if err != nil {
		return err
	}
	d, err := ensureContainerField(c, paramStreamDescriptor, TypeStreamDescription.Tag())
	if err != nil {
		return err
	}
	desc := &StreamDescription{c: d}
	if err := desc.SetFormat(format); err != nil {
		return err
	}
	return desc.SetOffset(offset)
}

// SchemaIdentifiers returns the newline separated schema identifiers.
func (p *Parameter) SchemaIdentifiers() string { return p.contentString(paramSchemaIdentifiers) }

// SetSchemaIdentifiers stores the schema identifiers.
func (p *Parameter) SetSchemaIdentifiers(s string) error {
	return p.setContent(paramSchemaIdentifiers, ber.StringValue(s))
}

// TemplateReference returns the path of the template the parameter follows.
func (p *Parameter) TemplateReference() ber.ObjectIdentifier {
	o, _ := p.contentOID(paramTemplateReference)
	return o
}

// SetTemplateReference stores the template reference.
func (p *Parameter) SetTemplateReference(o ber.ObjectIdentifier) error {
	return p.setContent(paramTemplateReference, ber.OIDValue(o))
}
