// Package main provides the multitail CLI application.
//
// Multitail follows every file in one or more directories at once and
// prints each newly completed line prefixed with a tag naming its source.
// Content that existed before startup is never printed.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
)

// version is set during build time.
var version = "dev"

func main() {
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
