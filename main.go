package main

import (
	"os"

	"github.com/sspserver/statsgen/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
