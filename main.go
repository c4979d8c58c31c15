package main

import (
	"os"

	"github.com/abhisek/cermat/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
