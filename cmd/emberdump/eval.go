package main

import (
	"bufio"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/KilimcininKorOglu/ember/internal/formula"
)

func newEvalCommand() *cobra.Command {
	var disasm bool

	cmd := &cobra.Command{
		Use:   "eval <formula> [value...]",
		Short: "Evaluate a parameter formula",
		Long: `Compile a parameter formula and evaluate it for each value, with $ bound to
the value. Values are read from standard input, separated by whitespace,
when none are given on the command line.`,
		Example: `  emberdump eval '$*2+1' 1 2 3
  emberdump eval --disasm 'log($)*20'`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prog, err := formula.Compile(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if disasm {
				fmt.Fprint(out, prog.Disassemble())
				if len(args) == 1 {
					return nil
				}
			}

			eval := func(s string) error {
				x, err := strconv.ParseFloat(s, 64)
				if err != nil {
					return fmt.Errorf("invalid value %q", s)
				}
				y, err := prog.Eval(x)
				if err != nil {
					return fmt.Errorf("%s: %w", s, err)
				}
				fmt.Fprintf(out, "%s -> %s\n", s, strconv.FormatFloat(y, 'g', -1, 64))
				return nil
			}

			if len(args) > 1 {
				for _, s := range args[1:] {
					if err := eval(s); err != nil {
						return err
					}
				}
				return nil
			}

			scanner := bufio.NewScanner(cmd.InOrStdin())
			scanner.Split(bufio.ScanWords)
			for scanner.Scan() {
				if err := eval(scanner.Text()); err != nil {
					return err
				}
			}
			return scanner.Err()
		},
	}

	cmd.Flags().BoolVar(&disasm, "disasm", false, "Print the compiled program")

	return cmd
}
