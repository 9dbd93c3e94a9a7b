package dom

import (
	"io"

	"github.com/KilimcininKorOglu/ember/internal/ber"
)

// Options tunes a Decoder or an AsyncReader.
type Options struct {
	Limits ber.Limits
	// Registry decodes leaf values. When nil, the registry of a *Factory is
	// used, or ber.DefaultRegistry for other factories.
	Registry *ber.Registry
}

// DefaultOptions returns the options used by NewDecoder and NewAsyncReader.
func DefaultOptions() Options {
	return Options{Limits: ber.DefaultLimits}
}

func registryFor(opts Options, factory NodeFactory) *ber.Registry {
	if opts.Registry != nil {
		return opts.Registry
	}
	if f, ok := factory.(*Factory); ok && f.registry != nil {
		return f.registry
	}
	return ber.DefaultRegistry()
}

// Decoder decodes trees from a complete in-memory buffer by recursive
// descent. Running out of data is always an error; use AsyncReader for
// input that arrives in fragments.
type Decoder struct {
	r        *ber.BERDecoder
	factory  NodeFactory
	registry *ber.Registry
	limits   ber.Limits
}

// NewDecoder creates a decoder over data with DefaultOptions.
func NewDecoder(data []byte, factory NodeFactory) *Decoder {
	return NewDecoderWithOptions(data, factory, DefaultOptions())
}

// NewDecoderWithOptions creates a decoder over data.
func NewDecoderWithOptions(data []byte, factory NodeFactory, opts Options) *Decoder {
	return &Decoder{
		r:        ber.NewBERDecoder(data),
		factory:  factory,
		registry: registryFor(opts, factory),
		limits:   opts.Limits,
	}
}

// Offset returns the number of bytes consumed.
func (d *Decoder) Offset() int { return d.r.Offset() }

// Next decodes the next top-level node. Values the factory declines and
// empty values are skipped. It returns io.EOF once the input is exhausted.
func (d *Decoder) Next() (Node, error) {
	for d.r.Remaining() > 0 {
		n, err := d.decodeItem(0, -1)
		if err != nil {
			return nil, err
		}
		if n != nil {
			return n, nil
		}
	}
	return nil, io.EOF
}

// DecodeAll decodes every top-level node. On error no nodes are returned.
func (d *Decoder) DecodeAll() ([]Node, error) {
	var nodes []Node
	for {
		n, err := d.Next()
		if err == io.EOF {
			return nodes, nil
		}
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, n)
	}
}

// Decode decodes the first top-level node of data.
func Decode(data []byte, factory NodeFactory) (Node, error) {
	d := NewDecoder(data, factory)
	n, err := d.Next()
	if err == io.EOF {
		return nil, ber.NewDecodeError(d.Offset(), "no node in input", ber.ErrUnexpectedEOF)
	}
	return n, err
}

// decodeItem decodes one double-wrapped TLV. limit is the absolute offset
// the TLV must end by, or -1. A nil node with a nil error means the TLV was
// skipped.
func (d *Decoder) decodeItem(depth, limit int) (Node, error) {
	start := d.r.Offset()
	tag, _, err := d.r.ReadTag()
	if err != nil {
		return nil, err
	}
	outer, err := d.r.ReadLength()
	if err != nil {
		return nil, err
	}
	if limit >= 0 && d.r.Offset() > limit {
		return nil, ber.NewDecodeError(start, "header exceeds container", ber.ErrBudgetExceeded)
	}

	end := -1
	bound := limit
	if !outer.IsIndefinite() {
		if limit >= 0 && int(outer) > limit-d.r.Offset() {
			return nil, ber.NewDecodeError(start, "value exceeds container", ber.ErrBudgetExceeded)
		}
		if int(outer) > d.r.Remaining() {
			return nil, ber.NewDecodeError(start, "truncated value", ber.ErrUnexpectedEOF)
		}
		end = d.r.Offset() + int(outer)
		if outer == 0 {
			return nil, nil
		}
		bound = end
	}

	typeTag, constructed, err := d.r.ReadTag()
	if err != nil {
		return nil, err
	}
	inner, err := d.r.ReadLength()
	if err != nil {
		return nil, err
	}
	contentStart := d.r.Offset()
	if bound >= 0 && contentStart > bound {
		return nil, ber.NewDecodeError(start, "outer length too short for type header", ber.ErrBudgetExceeded)
	}
	if !inner.IsIndefinite() {
		if end >= 0 && int(inner) != end-contentStart {
			return nil, ber.NewDecodeError(start, "outer length does not match inner length", ber.ErrLengthMismatch)
		}
		if bound >= 0 && int(inner) > bound-contentStart {
			return nil, ber.NewDecodeError(start, "value exceeds container", ber.ErrBudgetExceeded)
		}
		if int(inner) > d.r.Remaining() {
			return nil, ber.NewDecodeError(start, "truncated value", ber.ErrUnexpectedEOF)
		}
	}

	if constructed {
		if d.limits.MaxDepth > 0 && depth >= d.limits.MaxDepth {
			return nil, ber.NewDecodeError(start, "container nesting too deep", ber.ErrMaxDepth)
		}
	} else {
		if inner.IsIndefinite() {
			return nil, ber.NewDecodeError(start, "indefinite length on primitive", ber.ErrIndefinitePrimitive)
		}
		if d.limits.MaxValueLength > 0 && int(inner) > d.limits.MaxValueLength {
			return nil, ber.NewDecodeError(start, "value too large", ber.ErrValueTooLarge)
		}
	}

	node := d.factory.CreateNode(tag, typeTag, constructed)
	switch {
	case node == nil:
		if err := d.r.SkipContents(constructed, inner); err != nil {
			return nil, err
		}
	case constructed:
		c, ok := node.(*Container)
		if !ok {
			return nil, ber.NewDecodeError(start, tag.String(), ErrNodeKind)
		}
		if err := d.decodeChildren(c, depth, inner, contentStart, bound); err != nil {
			return nil, err
		}
	default:
		leaf, ok := node.(*Leaf)
		if !ok {
			return nil, ber.NewDecodeError(start, tag.String(), ErrNodeKind)
		}
		data, err := d.r.ReadBytes(int(inner))
		if err != nil {
			return nil, err
		}
		if err := leaf.decode(d.registry, data); err != nil {
			return nil, ber.NewDecodeError(contentStart, "cannot decode value", err)
		}
	}

	if outer.IsIndefinite() {
		if err := d.r.ReadEndOfContents(); err != nil {
			return nil, err
		}
	} else if d.r.Offset() != end {
		return nil, ber.NewDecodeError(start, "outer length does not match contents", ber.ErrLengthMismatch)
	}
	if limit >= 0 && d.r.Offset() > limit {
		return nil, ber.NewDecodeError(start, "value exceeds container", ber.ErrBudgetExceeded)
	}
	return node, nil
}

func (d *Decoder) decodeChildren(c *Container, depth int, inner ber.Length, contentStart, bound int) error {
	if inner.IsIndefinite() {
		for !d.r.AtEndOfContents() {
			if d.r.Remaining() == 0 {
				return ber.NewDecodeError(d.r.Offset(), "missing end-of-contents", ber.ErrUnexpectedEOF)
			}
			if bound >= 0 && d.r.Offset() >= bound {
				return ber.NewDecodeError(d.r.Offset(), "missing end-of-contents", ber.ErrBudgetExceeded)
			}
			child, err := d.decodeItem(depth+1, bound)
			if err != nil {
				return err
			}
			if child != nil {
				c.attach(child)
			}
		}
		return d.r.ReadEndOfContents()
	}

	stop := contentStart + int(inner)
	if int(inner) > d.r.Remaining() {
		return ber.NewDecodeError(contentStart, "truncated container", ber.ErrUnexpectedEOF)
	}
	for d.r.Offset() < stop {
		child, err := d.decodeItem(depth+1, stop)
		if err != nil {
			return err
		}
		if child != nil {
			c.attach(child)
		}
	}
	return nil
}
