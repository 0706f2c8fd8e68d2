// Package main is the entry point for the combat simulator
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "combatsim",
	Short: "Combat encounter engine simulator",
	Long:  `combatsim drives the combat encounter engine through a scripted skirmish, streaming the combat log to stdout and optionally persisting state snapshots to Redis.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(runCmd)
}
