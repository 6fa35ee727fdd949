package main

import (
	"os"

	"usdshot/internal/cli"
)

func main() {
	cmd := cli.NewGalleryCmd()
	cmd.Use = "sample-gallery"
	os.Exit(cli.Main(cmd))
}
