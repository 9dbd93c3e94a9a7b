package dom

import (
	"io"

	"github.com/KilimcininKorOglu/ember/internal/ber"
)

// AsyncReader builds trees from input that arrives in fragments. It drives a
// ber.StreamDecoder and turns its events into nodes through a NodeFactory.
// Each completed top-level node is handed to the callback, or queued for
// Nodes when there is none.
//
// An AsyncReader is not safe for concurrent use.
type AsyncReader struct {
	dec      *ber.StreamDecoder
	factory  NodeFactory
	registry *ber.Registry
	onNode   func(Node) error

	stack []*Container
	skip  int // depth inside a subtree the factory declined
	nodes []Node
}

// NewAsyncReader creates a reader with DefaultOptions. onNode may be nil.
func NewAsyncReader(factory NodeFactory, onNode func(Node) error) *AsyncReader {
	return NewAsyncReaderWithOptions(factory, onNode, DefaultOptions())
}

// NewAsyncReaderWithOptions creates a reader. onNode may be nil.
func NewAsyncReaderWithOptions(factory NodeFactory, onNode func(Node) error, opts Options) *AsyncReader {
	r := &AsyncReader{
		factory:  factory,
		registry: registryFor(opts, factory),
		onNode:   onNode,
	}
	r.dec = ber.NewStreamDecoderWithLimits(ber.HandlerFuncs{
		OnContainerBegin: r.containerBegin,
		OnItem:           r.itemReady,
		OnContainer:      r.containerReady,
	}, opts.Limits)
	return r
}

// Decoder returns the underlying stream decoder.
func (r *AsyncReader) Decoder() *ber.StreamDecoder { return r.dec }

// Write feeds p. It implements io.Writer. After a fatal error the partial
// tree is discarded and every Write fails until Reset.
func (r *AsyncReader) Write(p []byte) (int, error) {
	n, err := r.dec.Write(p)
	if err != nil {
		r.discard()
	}
	return n, err
}

// ReadFrom feeds everything r yields until io.EOF.
func (r *AsyncReader) ReadFrom(src io.Reader) (int64, error) {
	n, err := r.dec.ReadFrom(src)
	if err != nil && r.dec.State() == ber.StateFailed {
		r.discard()
	}
	return n, err
}

// Consume feeds and removes the contents of b.
func (r *AsyncReader) Consume(b *ber.Buffer) error {
	err := r.dec.Consume(b)
	if err != nil {
		r.discard()
	}
	return err
}

// Reset abandons any partial tree and clears a failure.
func (r *AsyncReader) Reset() {
	r.dec.Reset()
	r.discard()
	r.nodes = nil
}

// Idle reports whether no partial tree is buffered.
func (r *AsyncReader) Idle() bool { return r.dec.Idle() }

// Err returns the fatal error reported since the last Reset.
func (r *AsyncReader) Err() error { return r.dec.Err() }

// Nodes returns and clears the completed top-level nodes queued so far.
// Nodes are only queued when the reader has no callback.
func (r *AsyncReader) Nodes() []Node {
	nodes := r.nodes
	r.nodes = nil
	return nodes
}

func (r *AsyncReader) discard() {
	clear(r.stack)
	r.stack = r.stack[:0]
	r.skip = 0
}

func (r *AsyncReader) containerBegin(c *ber.AsyncContainer) error {
	if r.skip > 0 {
		r.skip++
		return nil
	}
	n := r.factory.CreateNode(c.Tag, c.Type, true)
	if n == nil {
		r.skip = 1
		return nil
	}
	container, ok := n.(*Container)
	if !ok {
		return ErrNodeKind
	}
	r.stack = append(r.stack, container)
	return nil
}

func (r *AsyncReader) itemReady(item *ber.AsyncItem) error {
	if r.skip > 0 {
		return nil
	}
	n := r.factory.CreateNode(item.Tag, item.Type, false)
	if n == nil {
		return nil
	}
	leaf, ok := n.(*Leaf)
	if !ok {
		return ErrNodeKind
	}
	if err := leaf.decode(r.registry, item.Value); err != nil {
		return err
	}
	return r.complete(leaf)
}

func (r *AsyncReader) containerReady(*ber.AsyncContainer) error {
	if r.skip > 0 {
		r.skip--
		return nil
	}
	top := r.stack[len(r.stack)-1]
	r.stack[len(r.stack)-1] = nil
	r.stack = r.stack[:len(r.stack)-1]
	return r.complete(top)
}

func (r *AsyncReader) complete(n Node) error {
	if len(r.stack) > 0 {
		r.stack[len(r.stack)-1].attach(n)
		return nil
	}
	if r.onNode != nil {
		return r.onNode(n)
	}
	r.nodes = append(r.nodes, n)
	return nil
}
