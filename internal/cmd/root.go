package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "classforge",
	Short: "A CLI tool for course staff to bulk-provision student repositories",
	Long: `Classforge is a command-line tool for course staff to provision one
GitHub repository per course roster entry from a template repository. It copies
the template for every student or group, grants the members push access, and
locks the default branch against force-pushes and deletion.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(provisionCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(unprotectCmd)
	rootCmd.AddCommand(initCmd)
}
