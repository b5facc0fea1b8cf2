package main

import (
	"os"

	"github.com/nguyentantai21042004/caption-digest/cmd/captiondigest/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
