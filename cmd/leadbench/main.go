// Command leadbench benchmarks lead-enrichment models against known contacts.
package main

import (
	"github.com/custodia-labs/leadbench/internal/adapters/driving/cli"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cli.Execute(version, bootstrap)
}
