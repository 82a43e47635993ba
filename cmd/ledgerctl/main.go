package main

import (
	"fmt"
	"os"

	"ponto-bot/internal/cli"
)

func main() {
	if err := cli.NewRootCommand(cli.DefaultLoader).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
