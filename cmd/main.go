package main

import (
	"os"

	"github.com/PranaviDevireddy/cs212project/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
