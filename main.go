package main

import (
	"os"

	"github.com/michaelf2104/InternetProviderVisualization/cli"
)

func main() {
	os.Exit(cli.Execute())
}
