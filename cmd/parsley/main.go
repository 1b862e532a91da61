// Command parsley runs the parsley slack bot and exposes its natural language annotations on the command line
package main

import (
	"fmt"
	"os"
)

func main() {
	cmd := newParsleyCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
