package transport

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"net"
	"os"
	"strings"
)

// TLS configuration errors.
var (
	ErrNoCertificate     = errors.New("transport: no certificate provided")
	ErrNoPrivateKey      = errors.New("transport: no private key provided")
	ErrCertFileNotFound  = errors.New("transport: certificate file not found")
	ErrKeyFileNotFound   = errors.New("transport: private key file not found")
	ErrCertKeyMismatch   = errors.New("transport: certificate and private key do not match")
	ErrInvalidCAPEM      = errors.New("transport: no certificates found in CA file")
	ErrInvalidTLSVersion = errors.New("transport: invalid TLS version")
)

// TLSConfig describes the certificates used by tls:// and wss:// sources
// and by TLS listeners.
type TLSConfig struct {
	// CertFile and KeyFile hold the local certificate. Listeners require
	// them; clients present them when set.
	CertFile string
	KeyFile  string
	// CAFile verifies the peer. A listener with a CA file requires client
	// certificates; a client without one uses the system pool.
	CAFile string
	// InsecureSkipVerify disables server verification on clients.
	InsecureSkipVerify bool
	// MinVersion defaults to TLS 1.2.
	MinVersion uint16
}

func (c *TLSConfig) minVersion() (uint16, error) {
	switch c.MinVersion {
	case 0:
		return tls.VersionTLS12, nil
	case tls.VersionTLS10, tls.VersionTLS11, tls.VersionTLS12, tls.VersionTLS13:
		return c.MinVersion, nil
	}
	return 0, fmt.Errorf("%w: 0x%04x", ErrInvalidTLSVersion, c.MinVersion)
}

// ServerConfig builds the configuration for a TLS listener.
func (c *TLSConfig) ServerConfig() (*tls.Config, error) {
	minVersion, err := c.minVersion()
	if err != nil {
		return nil, err
	}
	cert, err := LoadCertificate(c.CertFile, c.KeyFile)
	if err != nil {
		return nil, err
	}

	cfg := &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   minVersion,
	}
	if c.CAFile != "" {
		pool, err := loadCertPool(c.CAFile)
		if err != nil {
			return nil, err
		}
		cfg.ClientCAs = pool
		cfg.ClientAuth = tls.RequireAndVerifyClientCert
	}
	return cfg, nil
}

// ClientConfig builds the configuration for dialing serverName.
func (c *TLSConfig) ClientConfig(serverName string) (*tls.Config, error) {
	minVersion, err := c.minVersion()
	if err != nil {
		return nil, err
	}

	cfg := &tls.Config{
		ServerName:         serverName,
		MinVersion:         minVersion,
		InsecureSkipVerify: c.InsecureSkipVerify,
	}
	if c.CAFile != "" {
		if cfg.RootCAs, err = loadCertPool(c.CAFile); err != nil {
			return nil, err
		}
	}
	if c.CertFile != "" || c.KeyFile != "" {
		cert, err := LoadCertificate(c.CertFile, c.KeyFile)
		if err != nil {
			return nil, err
		}
		cfg.Certificates = []tls.Certificate{cert}
	}
	return cfg, nil
}

// LoadCertificate loads a certificate and its key from PEM files.
func LoadCertificate(certFile, keyFile string) (tls.Certificate, error) {
	if certFile == "" {
		return tls.Certificate{}, ErrNoCertificate
	}
	if keyFile == "" {
		return tls.Certificate{}, ErrNoPrivateKey
	}
	if _, err := os.Stat(certFile); os.IsNotExist(err) {
		return tls.Certificate{}, ErrCertFileNotFound
	}
	if _, err := os.Stat(keyFile); os.IsNotExist(err) {
		return tls.Certificate{}, ErrKeyFileNotFound
	}

	cert, err := tls.LoadX509KeyPair(certFile, keyFile)
	if err != nil {
		if strings.Contains(err.Error(), "private key does not match") ||
			strings.Contains(err.Error(), "private key type does not match") {
			return tls.Certificate{}, ErrCertKeyMismatch
		}
		return tls.Certificate{}, fmt.Errorf("transport: load certificate: %w", err)
	}
	return cert, nil
}

func loadCertPool(file string) (*x509.CertPool, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("transport: read CA file: %w", err)
	}
	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(data) {
		return nil, ErrInvalidCAPEM
	}
	return pool, nil
}

// DialTLS connects to a provider at address over TLS.
func DialTLS(ctx context.Context, address string, opts Options) (*ConnSource, error) {
	host, _, err := net.SplitHostPort(address)
	if err != nil {
		return nil, fmt.Errorf("transport: dial %s: %w", address, err)
	}
	tlsCfg := opts.TLS
	if tlsCfg == nil {
		tlsCfg = &TLSConfig{}
	}
	cfg, err := tlsCfg.ClientConfig(host)
	if err != nil {
		return nil, err
	}

	d := tls.Dialer{Config: cfg}
	conn, err := d.DialContext(ctx, "tcp", address)
	if err != nil {
		return nil, fmt.Errorf("transport: dial %s: %w", address, err)
	}
	return NewConnSource(conn, opts), nil
}

// TLSVersionString returns a human-readable string for a TLS version.
func TLSVersionString(version uint16) string {
	switch version {
	case tls.VersionTLS10:
		return "TLS 1.0"
	case tls.VersionTLS11:
		return "TLS 1.1"
	case tls.VersionTLS12:
		return "TLS 1.2"
	case tls.VersionTLS13:
		return "TLS 1.3"
	default:
		return fmt.Sprintf("unknown (0x%04x)", version)
	}
}
