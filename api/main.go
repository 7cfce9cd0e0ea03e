package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// @title Bakery API
// @version 1.0
// @description REST API for bakeries and their baked goods.
// @host localhost:5555
// @BasePath /
func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "bakery",
	Short:         "Bakery API server and maintenance commands",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
}
