package main

import (
	"os"

	"usdshot/internal/cli"
)

func main() {
	os.Exit(cli.Main(cli.NewRootCmd()))
}
