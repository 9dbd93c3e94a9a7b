package transport

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"errors"
	"math/big"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/KilimcininKorOglu/ember/internal/dom"
)

// writeTestCertificate creates a self-signed certificate for 127.0.0.1 and
// returns the paths of the certificate and key files.
func writeTestCertificate(t *testing.T, dir, name string) (certFile, keyFile string) {
	t.Helper()
	privateKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatal(err)
	}

	template := x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject: pkix.Name{
			Organization: []string{"Test Org"},
			CommonName:   "localhost",
		},
		NotBefore:             time.Now().Add(-time.Minute),
		NotAfter:              time.Now().Add(24 * time.Hour),
		KeyUsage:              x509.KeyUsageKeyEncipherment | x509.KeyUsageDigitalSignature | x509.KeyUsageCertSign,
		ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth, x509.ExtKeyUsageClientAuth},
		BasicConstraintsValid: true,
		IsCA:                  true,
		DNSNames:              []string{"localhost"},
		IPAddresses:           []net.IP{net.ParseIP("127.0.0.1")},
	}

	certDER, err := x509.CreateCertificate(rand.Reader, &template, &template, &privateKey.PublicKey, privateKey)
	if err != nil {
		t.Fatal(err)
	}
	keyDER, err := x509.MarshalECPrivateKey(privateKey)
	if err != nil {
		t.Fatal(err)
	}

	certFile = filepath.Join(dir, name+".pem")
	keyFile = filepath.Join(dir, name+".key")
	if err := os.WriteFile(certFile, pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: certDER}), 0600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(keyFile, pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: keyDER}), 0600); err != nil {
		t.Fatal(err)
	}
	return certFile, keyFile
}

func TestLoadCertificate(t *testing.T) {
	dir := t.TempDir()
	certA, keyA := writeTestCertificate(t, dir, "a")
	_, keyB := writeTestCertificate(t, dir, "b")

	tests := []struct {
		name     string
		cert     string
		key      string
		expected error
	}{
		{"valid", certA, keyA, nil},
		{"no certificate", "", keyA, ErrNoCertificate},
		{"no key", certA, "", ErrNoPrivateKey},
		{"missing certificate", filepath.Join(dir, "absent.pem"), keyA, ErrCertFileNotFound},
		{"missing key", certA, filepath.Join(dir, "absent.key"), ErrKeyFileNotFound},
		{"mismatch", certA, keyB, ErrCertKeyMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadCertificate(tt.cert, tt.key)
			if tt.expected == nil {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.expected) {
				t.Errorf("expected %v, got %v", tt.expected, err)
			}
		})
	}
}

func TestTLSConfig(t *testing.T) {
	dir := t.TempDir()
	certFile, keyFile := writeTestCertificate(t, dir, "server")

	cfg := &TLSConfig{CertFile: certFile, KeyFile: keyFile, CAFile: certFile}
	server, err := cfg.ServerConfig()
	if err != nil {
		t.Fatalf("ServerConfig failed: %v", err)
	}
	if server.MinVersion != tls.VersionTLS12 {
		t.Errorf("MinVersion = %s", TLSVersionString(server.MinVersion))
	}
	if server.ClientAuth != tls.RequireAndVerifyClientCert || server.ClientCAs == nil {
		t.Error("CA file did not enable client verification")
	}

	client, err := (&TLSConfig{CAFile: certFile}).ClientConfig("127.0.0.1")
	if err != nil {
		t.Fatalf("ClientConfig failed: %v", err)
	}
	if client.RootCAs == nil || client.ServerName != "127.0.0.1" || len(client.Certificates) != 0 {
		t.Errorf("unexpected client config %+v", client)
	}

	if _, err := (&TLSConfig{MinVersion: 0x0999}).ClientConfig("x"); !errors.Is(err, ErrInvalidTLSVersion) {
		t.Errorf("expected ErrInvalidTLSVersion, got %v", err)
	}
	if _, err := (&TLSConfig{}).ServerConfig(); !errors.Is(err, ErrNoCertificate) {
		t.Errorf("expected ErrNoCertificate, got %v", err)
	}
	if _, err := (&TLSConfig{CAFile: keyFile}).ClientConfig("x"); !errors.Is(err, ErrInvalidCAPEM) {
		t.Errorf("expected ErrInvalidCAPEM, got %v", err)
	}
}

func TestTLSVersionString(t *testing.T) {
	tests := []struct {
		version  uint16
		expected string
	}{
		{tls.VersionTLS12, "TLS 1.2"},
		{tls.VersionTLS13, "TLS 1.3"},
		{0x0999, "unknown (0x0999)"},
	}
	for _, tt := range tests {
		if got := TLSVersionString(tt.version); got != tt.expected {
			t.Errorf("TLSVersionString(0x%04x) = %q, want %q", tt.version, got, tt.expected)
		}
	}
}

func TestDialTLS(t *testing.T) {
	certFile, keyFile := writeTestCertificate(t, t.TempDir(), "server")
	serverCfg, err := (&TLSConfig{CertFile: certFile, KeyFile: keyFile}).ServerConfig()
	if err != nil {
		t.Fatal(err)
	}
	ln, err := tls.Listen("tcp", "127.0.0.1:0", serverCfg)
	if err != nil {
		t.Fatal(err)
	}
	defer ln.Close()

	data := append(encodedTree(t, 11), encodedTree(t, 12)...)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		conn.Write(data)
	}()

	src, err := Dial(context.Background(), "tls://"+ln.Addr().String(), Options{
		TLS: &TLSConfig{CAFile: certFile},
	})
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}
	defer src.Close()
	if !strings.HasPrefix(src.Name(), "tls://") {
		t.Errorf("Name = %q", src.Name())
	}

	c := &collector{t: t}
	if err := NewPump(src, PumpConfig{Factory: dom.NewFactory(nil), OnNode: c.onNode}).Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if got := c.snapshot(); !equalValues(got, []int64{11, 12}) {
		t.Errorf("values = %v", got)
	}
}

func TestDialTLS_UntrustedServer(t *testing.T) {
	certFile, keyFile := writeTestCertificate(t, t.TempDir(), "server")
	serverCfg, err := (&TLSConfig{CertFile: certFile, KeyFile: keyFile}).ServerConfig()
	if err != nil {
		t.Fatal(err)
	}
	ln, err := tls.Listen("tcp", "127.0.0.1:0", serverCfg)
	if err != nil {
		t.Fatal(err)
	}
	defer ln.Close()
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		conn.(*tls.Conn).Handshake()
	}()

	// The system pool does not trust a self-signed certificate.
	if _, err := DialTLS(context.Background(), ln.Addr().String(), Options{}); err == nil {
		t.Error("expected verification failure")
	}
}

func TestListener_TLS(t *testing.T) {
	certFile, keyFile := writeTestCertificate(t, t.TempDir(), "server")
	serverCfg, err := (&TLSConfig{CertFile: certFile, KeyFile: keyFile}).ServerConfig()
	if err != nil {
		t.Fatal(err)
	}

	received := make(chan int64, 1)
	l := NewListener(ListenerConfig{
		Address:   "127.0.0.1:0",
		TLSConfig: serverCfg,
		Factory:   dom.NewFactory(nil),
		OnNode: func(remote string, n dom.Node) error {
			received <- rootValue(t, n)
			return nil
		},
	})
	if err := l.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer l.Stop()

	clientCfg, err := (&TLSConfig{CAFile: certFile}).ClientConfig("127.0.0.1")
	if err != nil {
		t.Fatal(err)
	}
	conn, err := tls.Dial("tcp", l.Addr().String(), clientCfg)
	if err != nil {
		t.Fatalf("tls.Dial failed: %v", err)
	}
	defer conn.Close()
	if _, err := conn.Write(encodedTree(t, 9)); err != nil {
		t.Fatal(err)
	}

	select {
	case v := <-received:
		if v != 9 {
			t.Errorf("value = %d", v)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no tree received")
	}
}
