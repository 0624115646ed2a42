// Command atlas runs the dataset validator and the claim form extractor
// offline, without the HTTP service.
package main

import (
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
