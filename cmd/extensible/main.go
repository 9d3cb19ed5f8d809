// Package main is a small CLI exercising the composition packages: it wires
// a greeter through a component table, composes an Employee from a Person
// and an id, and casts and dispatches over shape unions.
package main

import (
	"fmt"
	"os"
)

func main() {
	root, opts := newRootCmd()

	if err := execute(root, opts); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err.Error())
		os.Exit(1)
	}
}
