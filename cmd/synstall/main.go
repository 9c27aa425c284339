package main

import (
	"os"

	"github.com/epics-tools/synstall/internal/cli/commands"
)

var Version = "dev"

func main() {
	os.Exit(commands.Execute(Version))
}
