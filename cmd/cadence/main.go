// Package main provides the cadence CLI.
package main

import "github.com/mesh-intelligence/cadence/internal/cli"

func main() {
	cli.Execute()
}
