package transport

import (
	"context"
	"errors"
	"io"
	"sync/atomic"

	"github.com/KilimcininKorOglu/ember/internal/ber"
	"github.com/KilimcininKorOglu/ember/internal/dom"
	"github.com/KilimcininKorOglu/ember/internal/logging"
)

// PumpConfig configures a Pump.
type PumpConfig struct {
	Factory dom.NodeFactory
	Options dom.Options
	// OnNode receives every completed top-level node. An error stops the
	// pump and is returned from Run.
	OnNode func(dom.Node) error
	Logger logging.Logger
}

// Stats counts what a pump has processed.
type Stats struct {
	Bytes   int64
	Trees   int64
	Resyncs int64
}

// Pump feeds a Source into an AsyncReader. A malformed stream does not stop
// it: the error is logged, the rest of the offending chunk is dropped and
// decoding restarts with the next chunk.
type Pump struct {
	src     Source
	pending *ber.Buffer
	reader  *dom.AsyncReader
	onNode func(dom.Node) error
	logger logging.Logger

	bytes   atomic.Int64
	trees   atomic.Int64
	resyncs atomic.Int64
}

// handlerError marks errors returned by OnNode so they are not mistaken
// for stream errors.
type handlerError struct{ err error }

func (e *handlerError) Error() string { return e.err.Error() }
func (e *handlerError) Unwrap() error { return e.err }

// NewPump creates a pump reading src.
func NewPump(src Source, cfg PumpConfig) *Pump {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	p := &Pump{
		src:     src,
		pending: ber.NewBuffer(0),
		onNode:  cfg.OnNode,
		logger:  logger.WithFields("source", src.Name()),
	}
	opts := cfg.Options
	if opts == (dom.Options{}) {
		opts = dom.DefaultOptions()
	}
	p.reader = dom.NewAsyncReaderWithOptions(cfg.Factory, p.deliver, opts)
	return p
}

func (p *Pump) deliver(n dom.Node) error {
	p.trees.Add(1)
	if p.onNode == nil {
		return nil
	}
	if err := p.onNode(n); err != nil {
		return &handlerError{err}
	}
	return nil
}

// Stats returns the counters so far. It may be called while Run is active.
func (p *Pump) Stats() Stats {
	return Stats{
		Bytes:   p.bytes.Load(),
		Trees:   p.trees.Load(),
		Resyncs: p.resyncs.Load(),
	}
}

// Run pumps until the source ends, ctx is done, the source fails or OnNode
// returns an error. The end of the stream and cancellation return nil.
func (p *Pump) Run(ctx context.Context) error {
	p.logger.Debug("pump started")
	for {
		chunk, err := p.src.Next(ctx)
		if len(chunk) > 0 {
			if werr := p.feed(chunk); werr != nil {
				return werr
			}
		}
		if err == nil {
			continue
		}

		if errors.Is(err, io.EOF) {
			if !p.reader.Idle() {
				p.logger.Warn("stream ended inside a tree",
					"depth", p.reader.Decoder().Depth())
			}
			p.logger.Debug("pump finished",
				"bytes", p.bytes.Load(),
				"trees", p.trees.Load(),
				"resyncs", p.resyncs.Load())
			return nil
		}
		if ctx.Err() != nil {
			return nil
		}
		return err
	}
}

// feed stages chunk behind any bytes still pending and drains the buffer
// into the reader. Sources may reuse chunk after Next returns again.
func (p *Pump) feed(chunk []byte) error {
	p.pending.Append(chunk...)
	before := p.pending.Len()
	err := p.reader.Consume(p.pending)
	p.bytes.Add(int64(before - p.pending.Len()))
	if err == nil {
		return nil
	}

	var he *handlerError
	if errors.As(err, &he) {
		return he.err
	}

	p.resyncs.Add(1)
	p.logger.Warn("decode error, resynchronizing",
		"error", err,
		"dropped", p.pending.Len())
	p.pending.Reset()
	p.reader.Reset()
	return nil
}
