package main

import (
	"context"
	"os"
)

var exitFunc = os.Exit

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		exitFunc(1)
	}
}
