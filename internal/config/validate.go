package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"slices"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateConfig validates the configuration and returns a list of validation errors.
// An empty slice indicates the configuration is valid.
func ValidateConfig(config *Config) []error {
	var errs []error

	errs = append(errs, validateDecoderConfig(&config.Decoder)...)
	errs = append(errs, validateLogConfig(&config.Logging)...)
	errs = append(errs, validateTapConfig(&config.Tap)...)
	errs = append(errs, validateRenderConfig(&config.Render)...)

	return errs
}

func validateDecoderConfig(config *DecoderConfig) []error {
	var errs []error

	if config.MaxDepth < 0 {
		errs = append(errs, ValidationError{
			Field:   "decoder.maxDepth",
			Message: "must not be negative",
		})
	}
	if config.MaxValueLength < 0 {
		errs = append(errs, ValidationError{
			Field:   "decoder.maxValueLength",
			Message: "must not be negative",
		})
	}
	if config.ChunkSize <= 0 {
		errs = append(errs, ValidationError{
			Field:   "decoder.chunkSize",
			Message: "must be positive",
		})
	}

	return errs
}

var (
	validLevels  = []string{"debug", "info", "warn", "error"}
	validFormats = []string{"text", "json"}
)

func validateLogConfig(config *LogConfig) []error {
	var errs []error

	if config.Level != "" && !slices.Contains(validLevels, config.Level) {
		errs = append(errs, ValidationError{
			Field:   "logging.level",
			Message: fmt.Sprintf("invalid log level %q, must be one of %v", config.Level, validLevels),
		})
	}

	if config.Format != "" && !slices.Contains(validFormats, config.Format) {
		errs = append(errs, ValidationError{
			Field:   "logging.format",
			Message: fmt.Sprintf("invalid log format %q, must be one of %v", config.Format, validFormats),
		})
	}

	switch config.Output {
	case "", "stdout", "stderr":
	default:
		dir := filepath.Dir(config.Output)
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			errs = append(errs, ValidationError{
				Field:   "logging.output",
				Message: fmt.Sprintf("log directory %q does not exist", dir),
			})
		}
	}

	return errs
}

func validateTapConfig(config *TapConfig) []error {
	var errs []error

	if config.URL != "" {
		u, err := url.Parse(config.URL)
		switch {
		case err != nil:
			errs = append(errs, ValidationError{Field: "tap.url", Message: err.Error()})
		case u.Scheme != "ws" && u.Scheme != "wss" && u.Scheme != "tcp" && u.Scheme != "tls":
			errs = append(errs, ValidationError{
				Field:   "tap.url",
				Message: fmt.Sprintf("unsupported scheme %q, must be ws, wss, tcp or tls", u.Scheme),
			})
		case u.Host == "":
			errs = append(errs, ValidationError{Field: "tap.url", Message: "host is required"})
		}
	}

	if config.ReadTimeout < 0 {
		errs = append(errs, ValidationError{Field: "tap.readTimeout", Message: "must not be negative"})
	}
	if config.HandshakeTimeout < 0 {
		errs = append(errs, ValidationError{Field: "tap.handshakeTimeout", Message: "must not be negative"})
	}
	if config.ReconnectDelay < 0 {
		errs = append(errs, ValidationError{Field: "tap.reconnectDelay", Message: "must not be negative"})
	}
	if config.ReadBufferSize <= 0 {
		errs = append(errs, ValidationError{Field: "tap.readBufferSize", Message: "must be positive"})
	}

	errs = append(errs, validateTLSConfig(&config.TLS)...)
	return errs
}

func validateTLSConfig(config *TLSConfig) []error {
	var errs []error

	if (config.CertFile == "") != (config.KeyFile == "") {
		errs = append(errs, ValidationError{
			Field:   "tap.tls",
			Message: "certFile and keyFile must be set together",
		})
	}
	for field, path := range map[string]string{
		"tap.tls.certFile": config.CertFile,
		"tap.tls.keyFile":  config.KeyFile,
		"tap.tls.caFile":   config.CAFile,
	} {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); err != nil {
			errs = append(errs, ValidationError{
				Field:   field,
				Message: fmt.Sprintf("file %q does not exist", path),
			})
		}
	}

	return errs
}

func validateRenderConfig(config *RenderConfig) []error {
	if config.MaxValueWidth < 0 {
		return []error{ValidationError{Field: "render.maxValueWidth", Message: "must not be negative"}}
	}
	return nil
}
