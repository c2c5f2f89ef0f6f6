package main

import (
	"os"

	"github.com/edi/docchat/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
