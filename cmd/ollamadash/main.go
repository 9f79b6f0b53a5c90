// cmd/ollamadash/main.go
// Package main is the entry point for the ollamadash application.
package main

import "github.com/mwiater/ollamadash/internal/cli"

// Populated at build time via -ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// main delegates to the CLI layer.
func main() {
	cli.SetVersionInfo(version, commit, date)
	cli.Execute()
}
