// Command fdbclip answers test questions from local FDB question banks
// through the system clipboard.
package main

import (
	"context"
	"os"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
