// Package main is the entry point for the cping CLI application.
package main

import (
	"fmt"
	"os"
)

// version is set via ldflags during build.
var version = "dev"

func main() {
	SetVersion(version)

	if err := Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
