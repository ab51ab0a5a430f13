// Package main is the entry point for the testforge CLI.
package main

import "testforge.dev/pkg/testforge/cmd"

func main() {
	cmd.Execute()
}
