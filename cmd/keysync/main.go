// keysync: key resolution for document caches
//
// Maps every spelling of a document key (absolute path, relative path,
// bare filename, abstract://kind:name) onto one canonical key, as an MCP
// server or from the command line.
//
// Usage:
//
//	keysync serve                          # Start MCP server (stdio transport)
//	keysync resolve abstract://standard:registry
//	keysync aliases ../docs/standards/registry_standard.md
//	keysync stats
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
