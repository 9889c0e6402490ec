package main

import (
	"os"

	"github.com/pfrederiksen/liquipedia-results/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
