package main

import (
	"os"

	"github.com/calliope-ai/revpanel/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
