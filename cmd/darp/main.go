package main

import (
	"os"

	"github.com/sarth-shah20/darp/cmd"
)

func main() {
	// cmd.Execute has already logged the failure
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
