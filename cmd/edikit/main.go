// Command edikit parses, formats and validates EDIFACT-style interchanges
// against a YAML catalogue of message definitions, and serves the same
// operations over HTTP.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
