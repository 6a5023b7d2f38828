package main

import (
	"os"

	"github.com/rami3l/tallow/cmd"
)

func main() {
	app := cmd.App()
	if err := app.Execute(); err != nil {
		if exitErr, ok := err.(*cmd.ExitError); ok {
			os.Exit(exitErr.Code)
		}
		os.Exit(64)
	}
}
