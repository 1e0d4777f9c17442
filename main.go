package main

import (
	"os"

	"github.com/charmpack/charmpack/internal/adapters/inbound/cli"
)

func main() {
	os.Exit(cli.ExitCode(cli.Execute()))
}
