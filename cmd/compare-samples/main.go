package main

import (
	"os"

	"usdshot/internal/cli"
)

func main() {
	cmd := cli.NewCompareCmd()
	cmd.Use = "compare-samples"
	os.Exit(cli.Main(cmd))
}
