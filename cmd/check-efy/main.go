package main

import (
	"os"

	"github.com/bnema/check-efy/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
