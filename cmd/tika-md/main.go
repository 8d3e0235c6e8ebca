// Package main is the entry point for the tika-md CLI.
package main

import (
	"os"

	"github.com/lloydzhou/tika-parser/cmd/tika-md/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
