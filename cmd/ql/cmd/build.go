package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cwbudde/go-dws/pkg/ql"
)

var buildCmd = &cobra.Command{
	Use:   "build [file]",
	Short: "Run the full pipeline and report diagnostics",
	Args:  cobra.ExactArgs(1),
	RunE:  runBuild,
}

func init() {
	rootCmd.AddCommand(buildCmd)
}

func runBuild(_ *cobra.Command, args []string) error {
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

	fmt.Printf("%s compiled successfully (%d function(s))\n", filename, len(result.Module.Functions))
	return nil
}
