package main

import (
	"os"

	"github.com/multimodal-labs/inference-gateway/cmd/cli/commands"
)

func main() {
	if err := commands.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
