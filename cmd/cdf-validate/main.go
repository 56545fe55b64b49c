package main

import (
	"os"

	"github.com/bianoble/cdf-validate/cmd/cdf-validate/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
