package main

import (
	"encoding/hex"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/KilimcininKorOglu/ember/internal/ber"
	"github.com/KilimcininKorOglu/ember/internal/dom"
	"github.com/KilimcininKorOglu/ember/internal/glow"
)

func newEncodeSampleCommand() *cobra.Command {
	var (
		indefinite bool
		output     string
		hexOutput  bool
	)

	cmd := &cobra.Command{
		Use:   "encode-sample",
		Short: "Write a sample Glow device tree",
		Long: `Encode a small Glow device tree holding a node, parameters, a matrix and a
function. The result is useful as decoder input and as a test provider
payload.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := sampleTree()
			if err != nil {
				return err
			}
			data, err := encode(root.Container(), indefinite)
			if err != nil {
				return err
			}

			if hexOutput {
				out := hex.EncodeToString(data) + "\n"
				if output == "" {
					_, err = fmt.Fprint(cmd.OutOrStdout(), out)
					return err
				}
				return os.WriteFile(output, []byte(out), 0644)
			}
			if output == "" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			return os.WriteFile(output, data, 0644)
		},
	}

	cmd.Flags().BoolVar(&indefinite, "indefinite", false, "Use indefinite length containers")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to file instead of standard output")
	cmd.Flags().BoolVar(&hexOutput, "hex", false, "Write hex digits instead of binary")

	return cmd
}

func encode(n dom.Node, indefinite bool) ([]byte, error) {
	if !indefinite {
		return dom.Marshal(n)
	}
	buf := ber.NewBuffer(0)
	if err := (dom.Encoder{Indefinite: true}).Encode(buf, n); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// sampleTree builds:
//
//	1     node "device"
//	1.1   parameter "gain"
//	1.2   parameter "mode"
//	1.3   matrix "router"
//	1.4   function "add"
func sampleTree() (*glow.Root, error) {
	var firstErr error
	must := func(err error) {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}

	root := glow.NewRoot()
	device := glow.NewNode(1)
	must(device.SetIdentifier("device"))
	must(device.SetDescription("Sample device"))
	must(device.SetIsRoot(true))
	must(root.Append(device))

	children, err := device.EnsureChildren()
	if err != nil {
		return nil, err
	}

	gain := glow.NewParameter(1)
	must(gain.SetIdentifier("gain"))
	must(gain.SetValue(ber.RealValue(-6.5)))
	must(gain.SetMinimum(ber.RealValue(-64)))
	must(gain.SetMaximum(ber.RealValue(12)))
	must(gain.SetAccess(glow.AccessReadWrite))
	must(gain.SetFormula("$*2\n$/2"))
	must(children.Append(gain))

	mode := glow.NewParameter(2)
	must(mode.SetIdentifier("mode"))
	must(mode.SetValue(ber.IntValue(1)))
	must(mode.SetEnumeration("off\non"))
	must(children.Append(mode))

	router := glow.NewMatrix(3)
	must(router.SetIdentifier("router"))
	must(router.SetTargetCount(4))
	must(router.SetSourceCount(8))
	must(router.AddConnection(glow.NewConnection(0, 2)))
	must(children.Append(router))

	add := glow.NewFunction(4)
	must(add.SetIdentifier("add"))
	must(add.AddArgument(glow.ParameterTypeInteger, "a"))
	must(add.AddArgument(glow.ParameterTypeInteger, "b"))
	must(add.AddResult(glow.ParameterTypeInteger, "sum"))
	must(children.Append(add))

	if firstErr != nil {
		return nil, firstErr
	}
	return root, nil
}
