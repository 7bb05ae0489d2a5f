package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

//go:generate swag init -g internal/api/main_annotations.go -d ../.. -o ../../docs/swagger

func main() {
	rootCmd := &cobra.Command{
		Use:          "linkpage",
		Short:        "A personal link page backend",
		Long:         "linkpage serves a JSON API for registering, logging in and managing the links on a public profile page.",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newMigrateCmd())
	rootCmd.AddCommand(newVersionCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
