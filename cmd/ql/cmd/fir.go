package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cwbudde/go-dws/pkg/ql"
)

var firCmd = &cobra.Command{
	Use:   "fir [file]",
	Short: "Print the FIR module after generation and both lowerings",
	Args:  cobra.ExactArgs(1),
	RunE:  runFIR,
}

func init() {
	rootCmd.AddCommand(firCmd)
}

func runFIR(_ *cobra.Command, args []string) error {
	source, filename, err := readSource(args)
	if err != nil {
		return err
	}

	result, err := ql.Compile(source, ql.WithFile(filename))
	if err != nil {
		return fmt.Errorf("internal compiler error: %w", err)
	}
	if result.Diagnostics.HasErrors() {
		fmt.Fprintln(os.Stderr, result.Diagnostics.Format(!noColor))
		return fmt.Errorf("compilation failed with %d diagnostic(s)", len(result.Diagnostics.Diags))
	}

	fmt.Print(result.Module.String())
	return nil
}
