package main

import (
	"os"

	"github.com/candidate-concierge/concierge/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
