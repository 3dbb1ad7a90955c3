package main

import (
	"os"

	"github.com/yatube/yatube/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
