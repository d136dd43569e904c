package main

import (
	"os"

	"github.com/MitxelSantos/pai-consolidator/internal/exitcode"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(exitcode.UsageError)
	}
}
