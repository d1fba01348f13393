package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information (set by build flags), matching the teacher's
// cmd/dwscript version-injection idiom.
var (
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
)

var noColor bool

var rootCmd = &cobra.Command{
	Use:   "ql",
	Short: "QL compiler front-end",
	Long: `ql compiles QL, a small statically-typed imperative language, through
parsing, desugaring, semantic analysis, and FIR generation.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
`, GitCommit))

	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored diagnostic output")
}

func exitWithError(msg string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+msg+"\n", args...)
	os.Exit(1)
}

func readSource(args []string) (string, string, error) {
	filename := args[0]
	data, err := os.ReadFile(filename)
	if err != nil {
		return "", "", fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return string(data), filename, nil
}
