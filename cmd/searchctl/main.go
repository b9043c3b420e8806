// Command searchctl loads a corpus file into an in-process search index and
// runs queries against it.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
