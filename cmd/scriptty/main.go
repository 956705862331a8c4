// Package main is the entry point for scriptty - the PTY scripting engine.
package main

import (
	"os"

	"github.com/Dicklesworthstone/scriptty/cmd/scriptty/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
