package main

import (
	"context"
	"os"

	"thoughtgraph/interfaces/cli"
)

func main() {
	os.Exit(cli.Execute(context.Background(), os.Stderr))
}
