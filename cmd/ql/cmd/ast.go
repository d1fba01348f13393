package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cwbudde/go-dws/internal/display"
	"github.com/cwbudde/go-dws/pkg/ql"
)

var (
	astJSON    bool
	astPretty  bool
	astSelect  string
	astSymbols bool
)

var astCmd = &cobra.Command{
	Use:   "ast [file]",
	Short: "Print the normalized AST as a Display tree",
	Args:  cobra.ExactArgs(1),
	RunE:  runAST,
}

func init() {
	rootCmd.AddCommand(astCmd)

	astCmd.Flags().BoolVar(&astJSON, "json", false, "emit the tree as JSON")
	astCmd.Flags().BoolVar(&astPretty, "pretty", false, "pretty-print JSON output (implies --json)")
	astCmd.Flags().StringVar(&astSelect, "select", "", "gjson path to select a subtree (implies --json)")
	astCmd.Flags().BoolVar(&astSymbols, "symbols", false, "print the global symbol table instead of the tree")
}

func runAST(_ *cobra.Command, args []string) error {
	source, filename, err := readSource(args)
	if err != nil {
		return err
	}

	result, err := ql.Compile(source, ql.WithFile(filename))
	if err != nil {
		return fmt.Errorf("internal compiler error: %w", err)
	}
	if result.Normalized == nil {
		fmt.Fprintln(os.Stderr, result.Diagnostics.Format(!noColor))
		return fmt.Errorf("parsing failed, no AST to display")
	}

	if astSymbols {
		for _, name := range display.SymbolNames(result.Context) {
			sym := result.Context.Symbols[name]
			fmt.Printf("%s: %s\n", name, sym.Type.String())
		}
		return nil
	}

	tree := display.Build(result.Normalized)

	if astSelect != "" {
		full, err := tree.JSON(false)
		if err != nil {
			return err
		}
		sub, ok := display.Select(full, astSelect)
		if !ok {
			return fmt.Errorf("no node matched %q", astSelect)
		}
		fmt.Println(sub)
		return nil
	}

	if astJSON || astPretty {
		out, err := tree.JSON(astPretty)
		if err != nil {
			return err
		}
		fmt.Println(out)
		return nil
	}

	fmt.Print(tree.Text())
	return nil
}
