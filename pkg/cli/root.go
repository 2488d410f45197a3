// Package cli implements the pactmock command-line front end: a thin
// cobra tree over pkg/mockserver and pkg/contractfile.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// BuildInfo carries ldflags-injected build metadata into the version
// command.
type BuildInfo struct {
	Version   string
	Commit    string
	BuildDate string
}

var rootCmd = &cobra.Command{
	Use:   "pactmock",
	Short: "pactmock runs an in-process HTTP mock server from a Pact contract file",
	Long: `pactmock replays a Pact contract's HTTP interactions over a loopback mock
server: point a consumer test suite's HTTP client at the printed base URL,
exercise it, and pactmock reports which interactions were matched.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the CLI, wiring build info into the version command, and
// exits the process with a non-zero status on error.
func Execute(info BuildInfo) {
	rootCmd.AddCommand(newVersionCmd(info))
	rootCmd.AddCommand(newServeCmd())
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
