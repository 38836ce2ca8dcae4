// Package main is the entry point for the testsplit CLI.
package main

import "testsplit.dev/pkg/testsplit/cmd"

func main() {
	cmd.Execute()
}
