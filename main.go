package main

import (
	"os"

	"github.com/kali-lang/kali/cmd"
)

func main() {
	if err := cmd.App().Execute(); err != nil {
		os.Exit(1)
	}
}
