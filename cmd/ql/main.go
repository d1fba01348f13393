// Command ql is the QL compiler's command-line front end.
package main

import (
	"os"

	"github.com/cwbudde/go-dws/cmd/ql/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
