package main

import (
	"os"

	"github.com/treasure-hunt/backend/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
