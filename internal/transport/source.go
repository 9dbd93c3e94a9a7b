// Package transport moves encoded trees from the network into the stream
// decoder.
package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"time"
)

// Transport errors
var (
	// ErrUnsupportedScheme is returned by Dial for a URL scheme other than
	// tcp, tls, ws or wss.
	ErrUnsupportedScheme = errors.New("transport: unsupported URL scheme")
	// ErrListenerRunning is returned when starting a running listener.
	ErrListenerRunning = errors.New("transport: listener already running")
	// ErrListenerStopped is returned when stopping a listener that is not running.
	ErrListenerStopped = errors.New("transport: listener not running")
)

// Source yields an encoded byte stream in chunks. Chunk boundaries carry no
// meaning. Next returns io.EOF when the stream ends and ctx.Err() when ctx
// is done. The returned slice is only valid until the next call.
type Source interface {
	Next(ctx context.Context) ([]byte, error)
	Close() error
	// Name describes the peer for logging.
	Name() string
}

// Options tunes the network sources.
type Options struct {
	// ReadTimeout fails a read that sees no data for this long. Zero waits
	// forever.
	ReadTimeout time.Duration
	// HandshakeTimeout bounds the WebSocket opening handshake.
	HandshakeTimeout time.Duration
	// ReadBufferSize is the chunk size for stream sources.
	ReadBufferSize int
	// TLS configures tls:// and wss:// sources.
	TLS *TLSConfig
}

const defaultReadBufferSize = 4096

func (o Options) bufferSize() int {
	if o.ReadBufferSize > 0 {
		return o.ReadBufferSize
	}
	return defaultReadBufferSize
}

// Dial connects to rawURL, which is tcp://host:port, tls://host:port,
// ws://... or wss://...
func Dial(ctx context.Context, rawURL string, opts Options) (Source, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("transport: parse %q: %w", rawURL, err)
	}
	switch u.Scheme {
	case "tcp":
		return DialTCP(ctx, u.Host, opts)
	case "tls":
		return DialTLS(ctx, u.Host, opts)
	case "ws", "wss":
		return DialWebSocket(ctx, rawURL, opts)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedScheme, u.Scheme)
	}
}

// ReaderSource adapts an io.Reader such as a file or stdin.
type ReaderSource struct {
	r    io.Reader
	buf  []byte
	name string
}

// NewReaderSource reads r in chunks of chunkSize bytes.
func NewReaderSource(r io.Reader, chunkSize int, name string) *ReaderSource {
	if chunkSize <= 0 {
		chunkSize = defaultReadBufferSize
	}
	return &ReaderSource{r: r, buf: make([]byte, chunkSize), name: name}
}

// Next implements Source. A blocked read is not interrupted by ctx.
func (s *ReaderSource) Next(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	n, err := s.r.Read(s.buf)
	if n > 0 {
		return s.buf[:n], nil
	}
	if err == nil {
		return nil, nil
	}
	return nil, err
}

// Close closes the reader when it is an io.Closer.
func (s *ReaderSource) Close() error {
	if c, ok := s.r.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// Name implements Source.
func (s *ReaderSource) Name() string { return s.name }
