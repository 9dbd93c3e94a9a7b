package main

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/KilimcininKorOglu/ember/internal/config"
	"github.com/KilimcininKorOglu/ember/internal/dom"
	"github.com/KilimcininKorOglu/ember/internal/glow"
	"github.com/KilimcininKorOglu/ember/internal/logging"
	"github.com/KilimcininKorOglu/ember/internal/render"
	"github.com/KilimcininKorOglu/ember/internal/transport"
)

// Tap command errors.
var (
	ErrNoSource         = errors.New("no source: set --url, --listen or tap.url in the config file")
	ErrWatchNeedsConfig = errors.New("--watch requires --config")
)

// tapSession prints the trees of a live source. Render settings can be
// swapped while trees are being printed.
type tapSession struct {
	mu      sync.Mutex
	out     io.Writer
	printer *render.Printer
	raw     bool
	tap     config.TapConfig
	logger  logging.Logger
}

func (s *tapSession) print(header string, n dom.Node) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if header != "" {
		fmt.Fprintf(s.out, "# %s\n", header)
	}
	if s.raw {
		return s.printer.Tree(s.out, n)
	}
	return s.printer.Message(s.out, n)
}

func (s *tapSession) reload(cfg *config.Config) {
	s.mu.Lock()
	s.printer = render.New(renderOptions(cfg.Render))
	s.tap.ReconnectDelay = cfg.Tap.ReconnectDelay
	s.mu.Unlock()
	s.logger.Info("configuration reloaded")
}

func (s *tapSession) reconnectDelay() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tap.ReconnectDelay
}

// consume dials url and pumps it until the source ends. When a reconnect
// delay is configured a lost source is dialed again.
func (s *tapSession) consume(ctx context.Context, url string, decoder dom.Options) error {
	opts := transport.Options{
		ReadTimeout:      s.tap.ReadTimeout,
		HandshakeTimeout: s.tap.HandshakeTimeout,
		ReadBufferSize:   s.tap.ReadBufferSize,
		TLS:              transportTLS(s.tap.TLS),
	}
	for {
		src, err := transport.Dial(ctx, url, opts)
		if err == nil {
			logger := s.logger.WithSession(logging.GenerateSessionID())
			logger.Info("source connected", "source", src.Name())
			pump := transport.NewPump(src, transport.PumpConfig{
				Factory: glow.NewNodeFactory(),
				Options: decoder,
				Logger:  logger,
				OnNode: func(n dom.Node) error {
					return s.print("", n)
				},
			})
			err = pump.Run(ctx)
			src.Close()
			stats := pump.Stats()
			logger.Info("source closed",
				"trees", stats.Trees,
				"resyncs", stats.Resyncs,
				"bytes", stats.Bytes)
		}

		if ctx.Err() != nil {
			return nil
		}
		delay := s.reconnectDelay()
		if delay <= 0 {
			return err
		}
		if err != nil {
			s.logger.Warn("source failed", "error", err, "retry_in", delay.String())
		}

		t := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			t.Stop()
			return nil
		case <-t.C:
		}
	}
}

// transportTLS converts the tls section, or returns nil when it is empty.
func transportTLS(cfg config.TLSConfig) *transport.TLSConfig {
	if !cfg.Enabled() {
		return nil
	}
	return &transport.TLSConfig{
		CertFile:           cfg.CertFile,
		KeyFile:            cfg.KeyFile,
		CAFile:             cfg.CAFile,
		InsecureSkipVerify: cfg.InsecureSkipVerify,
	}
}

func newTapCommand(g *globalFlags) *cobra.Command {
	var (
		url    string
		listen string
		watch  bool
		raw    bool
		tlsCfg config.TLSConfig
	)

	cmd := &cobra.Command{
		Use:   "tap",
		Short: "Print trees from a live source as they complete",
		Long: `Connect to a provider over TCP (tcp://host:port), TLS (tls://host:port) or
WebSocket (ws://, wss://) and print every tree as soon as its last byte
arrives. With --listen the tool accepts providers instead and prints trees
from all of them; a certificate turns the listener into a TLS listener.

With --watch the configuration file is reloaded when it changes; render
settings and the reconnect delay take effect immediately.`,
		Example: `  emberdump tap --url tcp://10.0.0.5:9000
  emberdump tap --listen :9000
  emberdump tap --listen :9443 --tls-cert server.pem --tls-key server.key
  emberdump tap --config emberdump.yaml --watch`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if watch && g.configFile == "" {
				return ErrWatchNeedsConfig
			}
			cfg, err := g.load(cmd)
			if err != nil {
				return err
			}
			if url == "" {
				url = cfg.Tap.URL
			}
			if url == "" && listen == "" {
				return ErrNoSource
			}
			overrideTLS(cmd, &cfg.Tap.TLS, tlsCfg)

			logger, closer, err := newLogger(cmd, cfg.Logging)
			if err != nil {
				return err
			}
			defer closer.Close()

			session := &tapSession{
				out:     cmd.OutOrStdout(),
				printer: render.New(renderOptions(cfg.Render)),
				raw:     raw,
				tap:     cfg.Tap,
				logger:  logger,
			}
			decoder := decoderOptions(cfg.Decoder)

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()
			group, ctx := errgroup.WithContext(ctx)

			if watch {
				watcher, err := config.NewWatcher(config.WatcherConfig{
					FilePath: g.configFile,
					OnChange: func(_, newCfg *config.Config) {
						g.apply(cmd, newCfg)
						session.reload(newCfg)
					},
					OnError: func(err error) {
						logger.Warn("configuration reload failed", "error", err)
					},
				})
				if err != nil {
					return err
				}
				group.Go(func() error {
					return watcher.Run(ctx)
				})
			}

			if listen != "" {
				var serverTLS *tls.Config
				if cfg.Tap.TLS.CertFile != "" {
					if serverTLS, err = transportTLS(cfg.Tap.TLS).ServerConfig(); err != nil {
						return err
					}
				}
				l := transport.NewListener(transport.ListenerConfig{
					Address:   listen,
					TLSConfig: serverTLS,
					Options:   transport.Options{ReadTimeout: cfg.Tap.ReadTimeout},
					Factory:   glow.NewNodeFactory(),
					Decoder:   decoder,
					Logger:    logger,
					OnNode:    session.print,
				})
				if err := l.Start(); err != nil {
					return err
				}
				group.Go(func() error {
					<-ctx.Done()
					return l.Stop()
				})
			} else {
				group.Go(func() error {
					defer cancel()
					return session.consume(ctx, url, decoder)
				})
			}

			return group.Wait()
		},
	}

	cmd.Flags().StringVar(&url, "url", "", "Source URL (overrides tap.url)")
	cmd.Flags().StringVar(&listen, "listen", "", "Accept providers on this address instead of dialing")
	cmd.Flags().BoolVar(&watch, "watch", false, "Reload the configuration file when it changes")
	cmd.Flags().BoolVar(&raw, "raw", false, "Print the raw tag tree even for Glow messages")
	cmd.Flags().StringVar(&tlsCfg.CertFile, "tls-cert", "", "Certificate file (listener certificate or client certificate)")
	cmd.Flags().StringVar(&tlsCfg.KeyFile, "tls-key", "", "Private key file for --tls-cert")
	cmd.Flags().StringVar(&tlsCfg.CAFile, "tls-ca", "", "CA file used to verify the peer")
	cmd.Flags().BoolVar(&tlsCfg.InsecureSkipVerify, "tls-insecure", false, "Skip server certificate verification")

	return cmd
}

// overrideTLS copies the TLS flags that were set on the command line.
func overrideTLS(cmd *cobra.Command, dst *config.TLSConfig, flags config.TLSConfig) {
	if cmd.Flags().Changed("tls-cert") {
		dst.CertFile = flags.CertFile
	}
	if cmd.Flags().Changed("tls-key") {
		dst.KeyFile = flags.KeyFile
	}
	if cmd.Flags().Changed("tls-ca") {
		dst.CAFile = flags.CAFile
	}
	if cmd.Flags().Changed("tls-insecure") {
		dst.InsecureSkipVerify = flags.InsecureSkipVerify
	}
}
