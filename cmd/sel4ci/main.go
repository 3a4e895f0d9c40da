package main

import (
	"os"

	"github.com/proofcraft/sel4ci/internal/cli"
)

// version is set via ldflags at build time: -ldflags "-X main.version=x.y.z"
var version = "dev"

func main() {
	c := cli.New(version)
	os.Exit(c.Execute(os.Args[1:]))
}
