package main

import (
	"os"

	"github.com/windowrun/windowrun/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
