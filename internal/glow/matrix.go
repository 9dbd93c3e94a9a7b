package glow

import (
	"github.com/KilimcininKorOglu/ember/internal/ber"
	"github.com/KilimcininKorOglu/ember/internal/dom"
)

// Matrix fields.
const (
	matrixTargets     = 3
	matrixSources     = 4
	matrixConnections = 5
)

// Matrix contents fields.
const (
	matrixType                     = 2
	matrixAddressingMode           = 3
	matrixTargetCount              = 4
	matrixSourceCount              = 5
	matrixMaximumTotalConnects     = 6
	matrixMaximumConnectsPerTarget = 7
	matrixParametersLocation       = 8
	matrixGainParameterNumber      = 9
	matrixLabels                   = 10
	matrixSchemaIdentifiers        = 11
	matrixTemplateReference        = 12
)

// Matrix is a view over a Matrix or QualifiedMatrix.
type Matrix struct {
	Element
}

// NewMatrix creates a detached matrix with the given number.
func NewMatrix(number int32) *Matrix {
	return &Matrix{Element: newElement(TypeMatrix, number, nil)}
}

// NewQualifiedMatrix creates a detached matrix addressed by path.
func NewQualifiedMatrix(path ber.ObjectIdentifier) *Matrix {
	return &Matrix{Element: newElement(TypeQualifiedMatrix, 0, path)}
}

// MatrixOf returns the matrix view over n.
func MatrixOf(n dom.Node) (*Matrix, error) {
	e, err := ElementOf(n)
	if err != nil {
		return nil, err
	}
	m, ok := e.AsMatrix()
	if !ok {
		return nil, ErrWrongType
	}
	return m, nil
}

// MatrixType returns the connection policy. A matrix without one is
// one-to-N.
func (m *Matrix) MatrixType() MatrixType {
	n, _ := m.contentInt(matrixType)
	return MatrixType(n)
}

// SetMatrixType stores the connection policy.
func (m *Matrix) SetMatrixType(t MatrixType) error {
	return m.setContent(matrixType, ber.IntValue(int64(t)))
}

// AddressingMode returns the addressing mode. A matrix without one is
// linear.
func (m *Matrix) AddressingMode() MatrixAddressingMode {
	n, _ := m.contentInt(matrixAddressingMode)
	return MatrixAddressingMode(n)
}

// SetAddressingMode stores the addressing mode.
func (m *Matrix) SetAddressingMode(a MatrixAddressingMode) error {
	return m.setContent(matrixAddressingMode, ber.IntValue(int64(a)))
}

// TargetCount returns the number of targets of a linear matrix.
func (m *Matrix) TargetCount() int32 {
	n, _ := m.contentInt(matrixTargetCount)
	return int32(n)
}

// SetTargetCount stores the number of targets.
func (m *Matrix) SetTargetCount(n int32) error {
	return m.setContent(matrixTargetCount, ber.IntValue(int64(n)))
}

// SourceCount returns the number of sources of a linear matrix.
func (m *Matrix) SourceCount() int32 {
	n, _ := m.contentInt(matrixSourceCount)
	return int32(n)
}

// SetSourceCount stores the number of sources.
func (m *Matrix) SetSourceCount(n int32) error {
	return m.setContent(matrixSourceCount, ber.IntValue(int64(n)))
}

// MaximumTotalConnects returns the limit on connections across the matrix.
func (m *Matrix) MaximumTotalConnects() (int32, bool) {
	n, ok := m.contentInt(matrixMaximumTotalConnects)
	return int32(n), ok
}

// SetMaximumTotalConnects stores the total connection limit.
func (m *Matrix) SetMaximumTotalConnects(n int32) error {
	return m.setContent(matrixMaximumTotalConnects, ber.IntValue(int64(n)))
}

// MaximumConnectsPerTarget returns the limit on sources per target.
func (m *Matrix) MaximumConnectsPerTarget() (int32, bool) {
	n, ok := m.contentInt(matrixMaximumConnectsPerTarget)
	return int32(n), ok
}

// SetMaximumConnectsPerTarget stores the per-target connection limit.
func (m *Matrix) SetMaximumConnectsPerTarget(n int32) error {
	return m.setContent(matrixMaximumConnectsPerTarget, ber.IntValue(int64(n)))
}

// ParametersLocation returns where the matrix parameters live: a base path
// as an object identifier, or the number of an inline node as an integer.
func (m *Matrix) ParametersLocation() (ber.Value, bool) {
	return m.contentValue(matrixParametersLocation)
}

// SetParametersLocation stores the parameters location.
func (m *Matrix) SetParametersLocation(v ber.Value) error {
	return m.setContent(matrixParametersLocation, v)
}

// GainParameterNumber returns the number of the gain parameter.
func (m *Matrix) GainParameterNumber() (int32, bool) {
	n, ok := m.contentInt(matrixGainParameterNumber)
	return int32(n), ok
}

// SetGainParameterNumber stores the gain parameter number.
func (m *Matrix) SetGainParameterNumber(n int32) error {
	return m.setContent(matrixGainParameterNumber, ber.IntValue(int64(n)))
}

// SchemaIdentifiers returns the newline separated schema identifiers.
func (m *Matrix) SchemaIdentifiers() string { return m.contentString(matrixSchemaIdentifiers) }

// TemplateReference returns the path of the template the matrix follows.
func (m *Matrix) TemplateReference() ber.ObjectIdentifier {
	o, _ := m.contentOID(matrixTemplateReference)
	return o
}

// Labels returns the label locations.
func (m *Matrix) Labels() []*Label {
	c, ok := m.Contents()
	if !ok {
		return nil
	}
	seq, ok := containerField(c, matrixLabels)
	if !ok {
		return nil
	}
	var out []*Label
	for _, item := range typedChildren(seq, TypeLabel) {
		out = append(out, &Label{c: item})
	}
	return out
}

// AddLabel appends a label location.
func (m *Matrix) AddLabel(basePath ber.ObjectIdentifier, description string) (*Label, error) {
	c, err := m.ensureContents()
	if err != nil {
		return nil, err
	}
	seq, err := ensureContainerField(c, matrixLabels, ber.SequenceTag)
	if err != nil {
		return nil, err
	}
	l := &Label{c: newItem(TypeLabel)}
	if err := setField(l.c, labelBasePath, ber.OIDValue(basePath)); err != nil {
		return nil, err
	}
	if err := setField(l.c, labelDescription, ber.StringValue(description)); err != nil {
		return nil, err
	}
	return l, seq.Append(l.c)
}

func (m *Matrix) numbers(field uint64, t Type) []int32 {
	seq, ok := containerField(m.c, field)
	if !ok {
		return nil
	}
	var out []int32
	for _, item := range typedChildren(seq, t) {
		n, _ := intField(item, fieldNumber)
		out = append(out, int32(n))
	}
	return out
}

func (m *Matrix) addNumber(field uint64, t Type, number int32) error {
	seq, err := ensureContainerField(m.c, field, ber.SequenceTag)
	if err != nil {
		return err
	}
	item := newItem(t)
	if err := setField(item, fieldNumber, ber.IntValue(int64(number))); err != nil {
		return err
	}
	return seq.Append(item)
}

// Targets returns the target numbers of a non-linear matrix.
func (m *Matrix) Targets() []int32 { return m.numbers(matrixTargets, TypeTarget) }

// AddTarget appends a target number.
func (m *Matrix) AddTarget(number int32) error {
	return m.addNumber(matrixTargets, TypeTarget, number)
}

// Sources returns the source numbers of a non-linear matrix.
func (m *Matrix) Sources() []int32 { return m.numbers(matrixSources, TypeSource) }

// AddSource appends a source number.
func (m *Matrix) AddSource(number int32) error {
	return m.addNumber(matrixSources, TypeSource, number)
}

// Connections returns the connections reported or requested for the matrix.
func (m *Matrix) Connections() []*Connection {
	seq, ok := containerField(m.c, matrixConnections)
	if !ok {
		return nil
	}
	var out []*Connection
	for _, item := range typedChildren(seq, TypeConnection) {
		out = append(out, &Connection{c: item})
	}
	return out
}

// AddConnection appends a connection.
func (m *Matrix) AddConnection(conn *Connection) error {
	seq, err := ensureContainerField(m.c, matrixConnections, ber.SequenceTag)
	if err != nil {
		return err
	}
	return seq.Append(conn.c)
}

// Connection fields.
const (
	connectionTarget      = 0
	connectionSources     = 1
	connectionOperation   = 2
	connectionDisposition = 3
)

// Connection is a view over a Connection: the set of sources routed to one
// target.
type Connection struct {
	c *dom.Container
}

// NewConnection creates a detached connection for target.
func NewConnection(target int32, sources ...uint64) *Connection {
	c := newItem(TypeConnection)
	_ = setField(c, connectionTarget, ber.IntValue(int64(target)))
	if len(sources) > 0 {
		_ = setField(c, connectionSources, ber.OIDValue(ber.ObjectIdentifier(sources)))
	}
	return &Connection{c: c}
}

// ConnectionOf returns the connection view over n.
func ConnectionOf(n dom.Node) (*Connection, error) {
	c, err := viewOf(n, TypeConnection)
	if err != nil {
		return nil, err
	}
	return &Connection{c: c}, nil
}

// Container returns the wrapped container.
func (conn *Connection) Container() *dom.Container { return conn.c }

// Target returns the target number.
func (conn *Connection) Target() int32 {
	n, _ := intField(conn.c, connectionTarget)
	return int32(n)
}

// Sources returns the source numbers, packed on the wire as a relative
// object identifier.
func (conn *Connection) Sources() []uint64 {
	o, _ := oidField(conn.c, connectionSources)
	return o
}

// SetSources stores the source numbers.
func (conn *Connection) SetSources(sources ...uint64) error {
	return setField(conn.c, connectionSources, ber.OIDValue(ber.ObjectIdentifier(sources)))
}

// Operation returns the requested operation. A connection without one is
// absolute.
func (conn *Connection) Operation() ConnectionOperation {
	n, _ := intField(conn.c, connectionOperation)
	return ConnectionOperation(n)
}

// SetOperation stores the operation.
func (conn *Connection) SetOperation(o ConnectionOperation) error {
	return setField(conn.c, connectionOperation, ber.IntValue(int64(o)))
}

// Disposition returns the state reported by the provider. A connection
// without one is a tally.
func (conn *Connection) Disposition() ConnectionDisposition {
	n, _ := intField(conn.c, connectionDisposition)
	return ConnectionDisposition(n)
}

// SetDisposition stores the disposition.
func (conn *Connection) SetDisposition(d ConnectionDisposition) error {
	return setField(conn.c, connectionDisposition, ber.IntValue(int64(d)))
}

// Label fields.
const (
	labelBasePath    = 0
	labelDescription = 1
)

// Label is a view over a Label: the location of a set of target and source
// labels.
type Label struct {
	c *dom.Container
}

// Container returns the wrapped container.
func (l *Label) Container() *dom.Container { return l.c }

// BasePath returns the path of the node holding the labels.
func (l *Label) BasePath() ber.ObjectIdentifier {
	o, _ := oidField(l.c, labelBasePath)
	return o
}

// Description returns the label set description.
func (l *Label) Description() string {
	s, _ := stringField(l.c, labelDescription)
	return s
}
