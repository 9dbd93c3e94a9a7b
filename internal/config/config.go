package config

import (
	"time"

	"github.com/KilimcininKorOglu/ember/internal/ber"
)

// Config holds the complete tool configuration.
type Config struct {
	Decoder DecoderConfig `yaml:"decoder"`
	Logging LogConfig     `yaml:"logging"`
	Tap     TapConfig     `yaml:"tap"`
	Render  RenderConfig  `yaml:"render"`
}

// DecoderConfig bounds what the decoders accept.
type DecoderConfig struct {
	MaxDepth       int `yaml:"maxDepth"`
	MaxValueLength int `yaml:"maxValueLength"`
	// ChunkSize is the read size used when feeding the stream decoder.
	ChunkSize int `yaml:"chunkSize"`
}

// Limits converts the section into decoder limits.
func (c DecoderConfig) Limits() ber.Limits {
	return ber.Limits{MaxDepth: c.MaxDepth, MaxValueLength: c.MaxValueLength}
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// TapConfig describes the live source the tap command consumes.
type TapConfig struct {
	// URL is ws://, wss://, tcp://host:port or tls://host:port.
	URL              string        `yaml:"url"`
	ReadTimeout      time.Duration `yaml:"readTimeout"`
	HandshakeTimeout time.Duration `yaml:"handshakeTimeout"`
	ReadBufferSize   int           `yaml:"readBufferSize"`
	// ReconnectDelay is the pause before redialing a dropped source.
	// Zero disables reconnecting.
	ReconnectDelay time.Duration `yaml:"reconnectDelay"`
	TLS            TLSConfig     `yaml:"tls"`
}

// TLSConfig holds the certificates for tls:// and wss:// sources and for
// TLS listeners.
type TLSConfig struct {
	CertFile           string `yaml:"certFile"`
	KeyFile            string `yaml:"keyFile"`
	CAFile             string `yaml:"caFile"`
	InsecureSkipVerify bool   `yaml:"insecureSkipVerify"`
}

// Enabled reports whether any TLS setting is present.
func (c TLSConfig) Enabled() bool {
	return c.CertFile != "" || c.KeyFile != "" || c.CAFile != "" || c.InsecureSkipVerify
}

// RenderConfig controls the tree printer.
type RenderConfig struct {
	Color         bool `yaml:"color"`
	MaxValueWidth int  `yaml:"maxValueWidth"`
	ShowTags      bool `yaml:"showTags"`
}
