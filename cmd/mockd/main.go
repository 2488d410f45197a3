// pactmock CLI - command-line front end for the in-process Pact mock
// server core.
package main

import (
	"github.com/pactlab/pactmock/pkg/cli"
)

// Build-time variables set via ldflags.
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

func main() {
	cli.Execute(cli.BuildInfo{Version: Version, Commit: Commit, BuildDate: BuildDate})
}
