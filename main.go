// Package main is the entry point for the pyrig CLI.
package main

import "pyrig.dev/pkg/pyrig/cmd"

func main() {
	cmd.Execute()
}
