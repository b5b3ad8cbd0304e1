package main

import (
	"os"

	"github.com/jengzang/travel-segments-go/cmd/segment/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
