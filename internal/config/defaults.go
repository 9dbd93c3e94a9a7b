package config

import (
	"time"

	"github.com/KilimcininKorOglu/ember/internal/ber"
)

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() *Config {
	return &Config{
		Decoder: DecoderConfig{
			MaxDepth:       ber.DefaultLimits.MaxDepth,
			MaxValueLength: ber.DefaultLimits.MaxValueLength,
			ChunkSize:      4096,
		},
		Logging: LogConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
		Tap: TapConfig{
			URL:              "",
			ReadTimeout:      0,
			HandshakeTimeout: 10 * time.Second,
			ReadBufferSize:   4096,
			ReconnectDelay:   0,
		},
		Render: RenderConfig{
			Color:         true,
			MaxValueWidth: 64,
			ShowTags:      false,
		},
	}
}
