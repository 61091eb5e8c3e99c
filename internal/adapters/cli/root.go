// Package cli is the operator's REST client: thin cobra commands over
// the server's JSON API. It holds no game logic and no direct database
// access; everything goes through the HTTP surface players use.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	serverURL string
	apiKey    string
	adminKey  string
)

// NewRootCommand creates the root command for the CLI
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "burnrate",
		Short: "burnrate CLI - interact with a burnrate server",
		Long: `burnrate CLI provides commands to play and operate a burnrate server.
All commands talk to the server's REST API; point --server at the daemon.

Examples:
  burnrate status
  burnrate join --name Hauler7
  burnrate me
  burnrate zones --kind extraction
  burnrate travel zone-12
  burnrate market orders --zone zone-12 --resource su
  burnrate admin tick`,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	rootCmd.PersistentFlags().StringVar(&serverURL, "server", defaultServerURL(),
		"Base URL of the burnrate server")
	rootCmd.PersistentFlags().StringVar(&apiKey, "api-key", os.Getenv("BURNRATE_API_KEY"),
		"Player API key (env: BURNRATE_API_KEY)")
	rootCmd.PersistentFlags().StringVar(&adminKey, "admin-key", os.Getenv("BURNRATE_ADMIN_KEY"),
		"Admin key for admin commands (env: BURNRATE_ADMIN_KEY)")

	rootCmd.AddCommand(NewStatusCommand())
	rootCmd.AddCommand(NewZonesCommand())
	rootCmd.AddCommand(NewJoinCommand())
	rootCmd.AddCommand(NewMeCommand())
	rootCmd.AddCommand(NewTravelCommand())
	rootCmd.AddCommand(NewMarketCommand())
	rootCmd.AddCommand(NewAdminCommand())

	return rootCmd
}

// defaultServerURL returns the default server base URL
func defaultServerURL() string {
	if url := os.Getenv("BURNRATE_SERVER"); url != "" {
		return url
	}
	return "http://localhost:8080"
}

// Execute runs the root command
func Execute() {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
