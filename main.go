// The main package for the partnerscout executable.
package main

import (
	"partnerscout/cmd"
)

// main is the entry point of the application.
// It defers all execution to the Cobra CLI library.
func main() {
	cmd.Execute()
}
