// Command gbc compiles a G-Basic source file into a native executable.
package main

import (
	"fmt"
	"os"

	"github.com/gbasic-lang/gbc/internal/cli"
)

func main() {
	root := cli.NewRootCmd()
	if err := root.Execute(); err != nil {
		if !cli.IsDiagnosed(err) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
