package main

import (
	"os"

	"github.com/abhisek/bayesdx/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
