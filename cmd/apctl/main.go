// Package main is the entry point for apctl, the AP reconciliation operator CLI.
package main

import (
	"fmt"
	"os"

	"github.com/ap-reconciler/backend/cmd/apctl/cmd"
)

var version = "dev"

func main() {
	cmd.SetVersion(version)

	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
