package main

import (
	"os"

	"github.com/duailibe/jira-report/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
