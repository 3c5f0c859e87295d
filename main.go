package main

import (
	"os"

	"github.com/oakwood-commons/jvx/cmd"
	"github.com/oakwood-commons/jvx/pkg/logger"
)

func main() {
	exitCode := 0
	if err := cmd.Execute(); err != nil {
		cmd.PrintError(os.Stderr, err)
		exitCode = cmd.ExitCode(err)
	}

	logger.Sync()
	if exitCode != 0 {
		os.Exit(exitCode)
	}
}
