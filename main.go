package main

import (
	"os"

	"github.com/mchmarny/navmenu/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
