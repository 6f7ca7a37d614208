package main

import (
	"os"

	"wedding-attendees/internal/cli"
)

func main() {
	// cobra prints the error; only the exit code is left to set
	if err := cli.NewRootCommand().Execute(); err != nil {
		os.Exit(cli.GetExitCode(err))
	}
}
