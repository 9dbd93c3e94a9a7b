package transport

import (
	"context"
	"fmt"
	"io"
	"net/url"

	"github.com/gorilla/websocket"
)

// WebSocketSource reads binary messages from a WebSocket. Text messages
// are ignored.
type WebSocketSource struct {
	conn *websocket.Conn
	url  string
}

// DialWebSocket opens a WebSocket to rawURL.
func DialWebSocket(ctx context.Context, rawURL string, opts Options) (*WebSocketSource, error) {
	dialer := websocket.Dialer{
		HandshakeTimeout: opts.HandshakeTimeout,
		ReadBufferSize:   opts.bufferSize(),
	}
	if opts.TLS != nil {
		u, err := url.Parse(rawURL)
		if err != nil {
			return nil, fmt.Errorf("transport: parse %q: %w", rawURL, err)
		}
		if dialer.TLSClientConfig, err = opts.TLS.ClientConfig(u.Hostname()); err != nil {
			return nil, err
		}
	}
	conn, _, err := dialer.DialContext(ctx, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("transport: dial %s: %w", rawURL, err)
	}
	return NewWebSocketSource(conn, rawURL), nil
}

// NewWebSocketSource wraps an established connection.
func NewWebSocketSource(conn *websocket.Conn, name string) *WebSocketSource {
	return &WebSocketSource{conn: conn, url: name}
}

// Next implements Source. A normal close from the peer ends the stream
// with io.EOF.
func (s *WebSocketSource) Next(ctx context.Context) ([]byte, error) {
	stop := context.AfterFunc(ctx, func() {
		s.conn.SetReadDeadline(aLongTimeAgo)
	})
	defer stop()

	for {
		messageType, data, err := s.conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil, io.EOF
			}
			return nil, err
		}
		if messageType == websocket.BinaryMessage {
			return data, nil
		}
	}
}

// Close sends a close message and closes the connection.
func (s *WebSocketSource) Close() error {
	s.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	return s.conn.Close()
}

// Name returns the URL that was dialed.
func (s *WebSocketSource) Name() string { return s.url }
