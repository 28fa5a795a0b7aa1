// Package main is the entry point for the salesdash server and CLI.
package main

import (
	"os"

	"salesdash/cmd/salesdash/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
