// Package main is the gotemplate program entry point.
//
// The greeting itself lives in internal/greeter so it can be called and
// tested without running a process; main only wires it to the CLI.
package main

import (
	"os"

	"github.com/leapstack-labs/gotemplate/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
