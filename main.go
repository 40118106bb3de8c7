package main

import (
	"os"

	"agentstack/src/cli"
)

func main() {
	os.Exit(cli.Execute())
}
