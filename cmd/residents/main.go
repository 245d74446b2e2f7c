// Package main provides the residents command.
package main

import (
	"os"

	"residents/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
