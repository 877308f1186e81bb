// Command hbondgen generates hydrogen-bond distance restraints for the
// helices and sheets of a protein model and serves them over HTTP.
package main

import (
	"os"

	"github.com/turtacn/hbond-restraints/internal/interfaces/cli"
)

// Build-time variables injected via ldflags.
var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func init() {
	cli.Version = version
	cli.GitCommit = commit
	cli.BuildDate = buildDate
}

func main() {
	// cli.Execute reports the error itself
	os.Exit(cli.ExitCode(cli.Execute()))
}
