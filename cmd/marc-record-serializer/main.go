package main

import (
	"os"

	"marcserializer/internal/cli"
	"marcserializer/internal/logging"
)

func main() {
	logger := logging.ConfigureRuntime()
	logger.Debug().Strs("args", os.Args[1:]).Msg("starting")

	os.Exit(cli.Run(os.Args[1:], os.Stdout, os.Stderr))
}
