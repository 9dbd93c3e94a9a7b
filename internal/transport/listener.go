package transport

import (
	"context"
	"crypto/tls"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/KilimcininKorOglu/ember/internal/dom"
	"github.com/KilimcininKorOglu/ember/internal/logging"
)

// ListenerConfig holds the configuration for a Listener.
type ListenerConfig struct {
	// Address is the address to listen on, e.g. ":9000".
	Address string
	// TLSConfig enables TLS when set.
	TLSConfig *tls.Config
	Options   Options
	Factory   dom.NodeFactory
	Decoder   dom.Options
	// OnNode receives the trees of every connection. It is called from one
	// goroutine per connection.
	OnNode func(remote string, n dom.Node) error
	Logger logging.Logger
}

// Listener accepts providers that push trees over TCP and runs a Pump for
// each connection.
type Listener struct {
	config   ListenerConfig
	listener net.Listener
	running  atomic.Bool
	mu       sync.Mutex
	wg       sync.WaitGroup
	cancel   context.CancelFunc
	logger   logging.Logger
}

// NewListener creates a listener. It does not bind until Start.
func NewListener(cfg ListenerConfig) *Listener {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Listener{config: cfg, logger: logger}
}

// Start binds the address and begins accepting connections.
func (l *Listener) Start() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.running.Load() {
		return ErrListenerRunning
	}

	var (
		ln  net.Listener
		err error
	)
	if l.config.TLSConfig != nil {
		ln, err = tls.Listen("tcp", l.config.Address, l.config.TLSConfig)
	} else {
		ln, err = net.Listen("tcp", l.config.Address)
	}
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	l.listener = ln
	l.cancel = cancel
	l.running.Store(true)

	if l.config.TLSConfig != nil {
		l.logger.Info("listener started",
			"address", ln.Addr().String(),
			"tls", TLSVersionString(l.config.TLSConfig.MinVersion)+"+",
			"client_auth", l.config.TLSConfig.ClientAuth == tls.RequireAndVerifyClientCert)
	} else {
		l.logger.Info("listener started", "address", ln.Addr().String())
	}

	l.wg.Add(1)
	go l.acceptLoop(ctx)
	return nil
}

// Stop closes the listener, cancels every connection and waits for them.
func (l *Listener) Stop() error {
	l.mu.Lock()
	if !l.running.Load() {
		l.mu.Unlock()
		return ErrListenerStopped
	}
	l.running.Store(false)
	l.cancel()
	l.listener.Close()
	l.mu.Unlock()

	l.wg.Wait()
	l.logger.Info("listener stopped", "address", l.config.Address)
	return nil
}

// Addr returns the bound address, or nil before Start.
func (l *Listener) Addr() net.Addr {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.listener == nil {
		return nil
	}
	return l.listener.Addr()
}

// IsRunning reports whether the listener is accepting connections.
func (l *Listener) IsRunning() bool {
	return l.running.Load()
}

func (l *Listener) acceptLoop(ctx context.Context) {
	defer l.wg.Done()

	for {
		conn, err := l.listener.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			l.logger.Warn("accept error", "error", err)
			time.Sleep(10 * time.Millisecond)
			continue
		}

		l.wg.Add(1)
		go l.handleConnection(ctx, conn)
	}
}

func (l *Listener) handleConnection(ctx context.Context, conn net.Conn) {
	defer l.wg.Done()
	defer conn.Close()

	remote := conn.RemoteAddr().String()
	logger := l.logger.WithSession(logging.GenerateSessionID())
	start := time.Now()
	logger.Info("provider connected", "client", remote)

	src := NewConnSource(conn, l.config.Options)
	pump := NewPump(src, PumpConfig{
		Factory: l.config.Factory,
		Options: l.config.Decoder,
		Logger:  logger,
		OnNode: func(n dom.Node) error {
			if l.config.OnNode == nil {
				return nil
			}
			return l.config.OnNode(remote, n)
		},
	})

	err := pump.Run(ctx)
	stats := pump.Stats()
	if err != nil {
		logger.Warn("connection failed", "client", remote, "error", err)
	}
	logger.Info("provider disconnected",
		"client", remote,
		"trees", stats.Trees,
		"resyncs", stats.Resyncs,
		"duration_ms", time.Since(start).Milliseconds())
}
