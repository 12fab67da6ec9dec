// Command dashboard loads the Andina tables and serves or prints the three
// dashboard views.
//
// Usage:
//
//	dashboard serve --config dashboard.yaml
//	dashboard report operational --data ./tablas --format csv
//	dashboard report commercial --preset lastQuarter --regions Andina,Caribe
//	dashboard facets --format pretty
package main

import (
	"fmt"
	"os"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(GetExitCode(err))
	}
}
