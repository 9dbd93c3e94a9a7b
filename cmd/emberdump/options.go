package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/KilimcininKorOglu/ember/internal/config"
	"github.com/KilimcininKorOglu/ember/internal/dom"
	"github.com/KilimcininKorOglu/ember/internal/logging"
	"github.com/KilimcininKorOglu/ember/internal/render"
)

// globalFlags holds the persistent flags shared by every command.
type globalFlags struct {
	configFile string
	noColor    bool
	showTags   bool
	width      int
}

// load returns the configuration file, or the defaults when none is given,
// with the command line overrides applied.
func (g *globalFlags) load(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if g.configFile != "" {
		loaded, err := config.LoadConfig(g.configFile)
		if err != nil {
			return nil, err
		}
		if errs := config.ValidateConfig(loaded); len(errs) > 0 {
			return nil, fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
		}
		cfg = loaded
	}
	g.apply(cmd, cfg)
	return cfg, nil
}

// apply copies the render flags that were set on the command line into cfg.
func (g *globalFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	if g.noColor {
		cfg.Render.Color = false
	}
	if g.showTags {
		cfg.Render.ShowTags = true
	}
	if cmd.Flags().Changed("width") {
		cfg.Render.MaxValueWidth = g.width
	}
}

func renderOptions(cfg config.RenderConfig) render.Options {
	return render.Options{
		Color:         cfg.Color,
		MaxValueWidth: cfg.MaxValueWidth,
		ShowTags:      cfg.ShowTags,
	}
}

func decoderOptions(cfg config.DecoderConfig) dom.Options {
	return dom.Options{Limits: cfg.Limits()}
}

// newLogger creates the logger described by cfg. Logs meant for stderr go
// to the command's error stream.
func newLogger(cmd *cobra.Command, cfg config.LogConfig) (logging.Logger, io.Closer, error) {
	lc := logging.Config{Level: cfg.Level, Format: cfg.Format, Output: cfg.Output}
	if cfg.Output == "" || cfg.Output == "stderr" {
		return logging.NewWithWriter(lc, cmd.ErrOrStderr()), nopCloser{}, nil
	}
	return logging.New(lc)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
