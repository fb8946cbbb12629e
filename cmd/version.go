package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version, Commit and Date are set via ldflags at build time.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	PersistentPreRunE: func(*cobra.Command, []string) error {
		return nil
	},
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s (commit %s, built %s)\n", appName, Version, Commit, Date)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
