package main

import (
	"os"

	"github.com/devikam/paperprep/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
