// Command hcschema creates, inspects and removes the home controller
// database schema, and can serve the same operations over HTTP and gRPC.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
