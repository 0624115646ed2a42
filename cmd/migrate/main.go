// Command migrate applies the embedded schema migrations to the Atlas
// database.
package main

import (
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
