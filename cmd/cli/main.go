package main

import (
	"os"

	"github.com/finboard-dev/finboard/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
