package main

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KilimcininKorOglu/ember/internal/dom"
	"github.com/KilimcininKorOglu/ember/internal/glow"
	"github.com/KilimcininKorOglu/ember/internal/render"
	"github.com/KilimcininKorOglu/ember/internal/transport"
)

// Decode command errors.
var (
	ErrHexArgument = errors.New("--hex requires the encoded bytes as argument")
	ErrEmptyInput  = errors.New("no input")
)

func newDecodeCommand(g *globalFlags) *cobra.Command {
	var (
		hexInput bool
		stream   bool
		chunk    int
		raw      bool
	)

	cmd := &cobra.Command{
		Use:   "decode [file]",
		Short: "Decode BER messages and print their trees",
		Long: `Decode every message in a file, or in standard input when no file or "-" is
given. With --hex the argument is the message itself as hex digits.

By default the input is decoded in one pass. --stream feeds it to the
incremental decoder in chunks of --chunk bytes instead, the way bytes arrive
from a live source; malformed input is then skipped rather than fatal.`,
		Example: `  emberdump decode capture.bin
  emberdump decode --hex "$(emberdump encode-sample --hex)"
  emberdump decode --stream --chunk 1 capture.bin`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.load(cmd)
			if err != nil {
				return err
			}
			data, err := readInput(cmd, args, hexInput)
			if err != nil {
				return err
			}

			printer := render.New(renderOptions(cfg.Render))
			out := cmd.OutOrStdout()
			emit := func(n dom.Node) error {
				if raw {
					return printer.Tree(out, n)
				}
				return printer.Message(out, n)
			}
			factory := glow.NewNodeFactory()
			opts := decoderOptions(cfg.Decoder)

			if !stream {
				dec := dom.NewDecoderWithOptions(data, factory, opts)
				for {
					n, err := dec.Next()
					if err == io.EOF {
						return nil
					}
					if err != nil {
						return fmt.Errorf("decode failed at offset %d: %w", dec.Offset(), err)
					}
					if err := emit(n); err != nil {
						return err
					}
				}
			}

			logger, closer, err := newLogger(cmd, cfg.Logging)
			if err != nil {
				return err
			}
			defer closer.Close()

			if chunk <= 0 {
				chunk = cfg.Decoder.ChunkSize
			}
			src := transport.NewReaderSource(bytes.NewReader(data), chunk, "input")
			pump := transport.NewPump(src, transport.PumpConfig{
				Factory: factory,
				Options: opts,
				OnNode:  emit,
				Logger:  logger,
			})
			if err := pump.Run(cmd.Context()); err != nil {
				return err
			}
			stats := pump.Stats()
			logger.Info("input decoded",
				"bytes", stats.Bytes,
				"trees", stats.Trees,
				"resyncs", stats.Resyncs)
			return nil
		},
	}

	cmd.Flags().BoolVar(&hexInput, "hex", false, "Treat the argument as hex encoded bytes")
	cmd.Flags().BoolVar(&stream, "stream", false, "Use the incremental decoder")
	cmd.Flags().IntVar(&chunk, "chunk", 0, "Chunk size for --stream (default from config)")
	cmd.Flags().BoolVar(&raw, "raw", false, "Print the raw tag tree even for Glow messages")

	return cmd
}

// readInput returns the bytes to decode.
func readInput(cmd *cobra.Command, args []string, hexInput bool) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	switch {
	case hexInput:
		if len(args) == 0 {
			return nil, ErrHexArgument
		}
		data, err = parseHex(args[0])
	case len(args) == 0 || args[0] == "-":
		data, err = io.ReadAll(cmd.InOrStdin())
	default:
		data, err = os.ReadFile(args[0])
	}
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, ErrEmptyInput
	}
	return data, nil
}

// parseHex decodes hex digits, ignoring whitespace, colons and a leading 0x.
func parseHex(s string) ([]byte, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "0x")
	s = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\n', '\r', ':':
			return -1
		}
		return r
	}, s)
	data, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid hex input: %w", err)
	}
	return data, nil
}
