package main

import (
	"os"

	"github.com/capgains-dev/capgains/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
