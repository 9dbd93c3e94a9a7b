// Package main provides the entry point for the emberdump CLI.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	exitCode := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(exitCode)
}

// run executes the CLI and returns an exit code.
// This is separated from main() to facilitate testing.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := newRootCommand()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		return 1
	}
	return 0
}

func newRootCommand() *cobra.Command {
	g := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:   "emberdump",
		Short: "Decode, encode and tap Ember+ BER streams",
		Long: `emberdump decodes BER encoded Ember+ messages and prints them as trees.
Glow messages are listed element by element with their resolved paths;
anything else is printed tag by tag.`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildDate),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&g.configFile, "config", "c", "", "Path to configuration file")
	flags.BoolVar(&g.noColor, "no-color", false, "Disable colored output")
	flags.BoolVar(&g.showTags, "show-tags", false, "Show raw tags in Glow listings")
	flags.IntVar(&g.width, "width", 0, "Truncate values longer than this (0 disables)")

	rootCmd.AddCommand(newDecodeCommand(g))
	rootCmd.AddCommand(newEncodeSampleCommand())
	rootCmd.AddCommand(newTapCommand(g))
	rootCmd.AddCommand(newEvalCommand())
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}
