package main

import (
	"os"

	"usdshot/internal/cli"
)

func main() {
	cmd := cli.NewRenderCmd()
	cmd.Use = "render-usda"
	os.Exit(cli.Main(cmd))
}
