package main

import (
	"os"

	"github.com/andrewsinnovations/apialize-sub000/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
