// Package main is the entry point for the passnet CLI tool, which turns
// event-level football pass data into a categorized, weighted pass network.
package main

import "github.com/pable/go-pass-network/cmd"

func main() {
	cmd.Execute()
}
