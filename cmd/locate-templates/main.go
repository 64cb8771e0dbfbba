// Package main is the locate-templates service binary.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "locate-templates",
	Short: "Locate template persistence service",
	Long: `locate-templates stores line-locate and point-locate templates in Postgres
and serves them over HTTP. Configuration is read from LOCATE_* environment
variables and an optional .env file.`,
	SilenceUsage: true,
	RunE:         runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
}
