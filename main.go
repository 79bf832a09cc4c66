package main

import (
	"os"

	"github.com/matchpoint-app/matchpoint/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
