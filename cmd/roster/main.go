package main

import (
	"fmt"
	"os"

	"github.com/arnavshah/duty-roster-go/cmd/roster/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
