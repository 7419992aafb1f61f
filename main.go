package main

import (
	"os"

	_ "time/tzdata"

	"bankroll/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
