package main

import (
	"fmt"
	"os"

	"focustracker/internal/cli"
)

func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "focusctl:", err)
		os.Exit(1)
	}
}
