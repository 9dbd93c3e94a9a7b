package transport

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"time"
)

// aLongTimeAgo is a deadline in the past that unblocks pending reads.
var aLongTimeAgo = time.Unix(1, 0)

// ConnSource reads a raw byte stream from a TCP or TLS connection.
type ConnSource struct {
	conn        net.Conn
	buf         []byte
	readTimeout time.Duration
}

// DialTCP connects to a provider at address.
func DialTCP(ctx context.Context, address string, opts Options) (*ConnSource, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", address)
	if err != nil {
		return nil, fmt.Errorf("transport: dial %s: %w", address, err)
	}
	return NewConnSource(conn, opts), nil
}

// NewConnSource wraps an established connection.
func NewConnSource(conn net.Conn, opts Options) *ConnSource {
	return &ConnSource{
		conn:        conn,
		buf:         make([]byte, opts.bufferSize()),
		readTimeout: opts.ReadTimeout,
	}
}

// Next implements Source.
func (s *ConnSource) Next(ctx context.Context) ([]byte, error) {
	if s.readTimeout > 0 {
		if err := s.conn.SetReadDeadline(time.Now().Add(s.readTimeout)); err != nil {
			return nil, err
		}
	}
	stop := context.AfterFunc(ctx, func() {
		s.conn.SetReadDeadline(aLongTimeAgo)
	})
	defer stop()

	n, err := s.conn.Read(s.buf)
	if n > 0 {
		return s.buf[:n], nil
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	return nil, err
}

// Close closes the connection.
func (s *ConnSource) Close() error { return s.conn.Close() }

// Name returns the remote address.
func (s *ConnSource) Name() string {
	if _, ok := s.conn.(*tls.Conn); ok {
		return "tls://" + s.conn.RemoteAddr().String()
	}
	return "tcp://" + s.conn.RemoteAddr().String()
}
