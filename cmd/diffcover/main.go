package main

import (
	"fmt"
	"os"

	"github.com/zjy-dev/diff-cover/cmd/diffcover/app"
)

func main() {
	if err := app.NewDiffCoverCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
