// Package app implements the main application commands.
package app

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "go-groepsadmin-auth",
	Short: "GoGroepsadmin-Auth bridges a file-sharing platform to the groepsadmin directory",
	Long: `GoGroepsadmin-Auth authenticates platform logins against the groepsadmin
membership administration and keeps local user roles and workspace records
in sync with remote group memberships.`,
	Args: cobra.OnlyValidArgs,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
