package main

import (
	"os"

	"github.com/karune-connect/matcher/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
