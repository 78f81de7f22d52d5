package main

import (
	"os"

	"github.com/recallgraph/recallgraph/cmd/recallgraph/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
